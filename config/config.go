// Copyright (c) 2024, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package config holds the setup parameters of the propagation entity: an ordered key/value list as
// handed over by the host, optionally read from a YAML file, and its decoded typed form.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	KeyDataDescriptionFile = "data_description_file"
	KeyFadingModel         = "fading_model"
	KeyNodeCount           = "node_count"
	KeyRandomSeed          = "random_seed"
	KeyLogLevel            = "log_level"

	DefaultFadingModel = "none"
)

// Param is a single key/value setup parameter.
type Param struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Params is the ordered parameter list of an entity.
type Params []Param

// Get returns the value of the last occurrence of key.
func (ps Params) Get(key string) (string, bool) {
	for i := len(ps) - 1; i >= 0; i-- {
		if ps[i].Key == key {
			return ps[i].Value, true
		}
	}
	return "", false
}

// Set replaces the value of key, or appends it.
func (ps *Params) Set(key, value string) {
	for i := range *ps {
		if (*ps)[i].Key == key {
			(*ps)[i].Value = value
			return
		}
	}
	*ps = append(*ps, Param{Key: key, Value: value})
}

// UnmarshalYAML accepts either a mapping (key: value) or a sequence of {key, value} items.
func (ps *Params) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		list := make(Params, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return errors.Errorf("line %d: parameter '%s' must be a scalar", v.Line, k.Value)
			}
			list = append(list, Param{Key: k.Value, Value: v.Value})
		}
		*ps = list
		return nil
	case yaml.SequenceNode:
		var list []Param
		if err := node.Decode(&list); err != nil {
			return err
		}
		*ps = list
		return nil
	default:
		return errors.Errorf("line %d: parameters must be a mapping or a list", node.Line)
	}
}

// Parse reads parameters from YAML data.
func Parse(data []byte) (Params, error) {
	var ps Params
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, errors.Wrapf(err, "parameters")
	}
	return ps, nil
}

// LoadFile reads a YAML parameter file.
func LoadFile(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading parameter file")
	}
	return Parse(data)
}

// Config is the typed form of the setup parameters.
type Config struct {
	DataDescriptionFile string `mapstructure:"data_description_file"`
	FadingModel         string `mapstructure:"fading_model"`
	NodeCount           int    `mapstructure:"node_count"`
	RandomSeed          int64  `mapstructure:"random_seed"`
	LogLevel            string `mapstructure:"log_level"`
}

// DefaultConfig returns the defaults used for keys that are not given.
func DefaultConfig() *Config {
	return &Config{
		FadingModel: DefaultFadingModel,
	}
}

// Decode converts params into a Config on top of the defaults. Unknown keys are returned in unused.
func Decode(ps Params) (cfg *Config, unused []string, err error) {
	input := make(map[string]interface{}, len(ps))
	for _, p := range ps {
		key, value := strings.TrimSpace(p.Key), p.Value
		// the fading model name must match exactly.
		if key != KeyFadingModel {
			value = strings.TrimSpace(value)
		}
		input[key] = value
	}

	cfg = DefaultConfig()
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         &md,
		Result:           cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, nil, err
	}
	if err = dec.Decode(input); err != nil {
		return nil, nil, errors.Wrapf(err, "decoding parameters")
	}
	return cfg, md.Unused, nil
}

// ToParams converts cfg back into a parameter list, omitting empty values.
func (cfg *Config) ToParams() Params {
	var ps Params
	if cfg.DataDescriptionFile != "" {
		ps.Set(KeyDataDescriptionFile, cfg.DataDescriptionFile)
	}
	if cfg.FadingModel != "" {
		ps.Set(KeyFadingModel, cfg.FadingModel)
	}
	if cfg.NodeCount != 0 {
		ps.Set(KeyNodeCount, strconv.Itoa(cfg.NodeCount))
	}
	if cfg.RandomSeed != 0 {
		ps.Set(KeyRandomSeed, strconv.FormatInt(cfg.RandomSeed, 10))
	}
	if cfg.LogLevel != "" {
		ps.Set(KeyLogLevel, cfg.LogLevel)
	}
	return ps
}
