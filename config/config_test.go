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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testYamlMapping = `
data_description_file: ./data/description.csv
fading_model: rician
node_count: 13
random_seed: 42
`

var testYamlList = `
- key: fading_model
  value: none
- key: data_description_file
  value: desc.csv
- key: fading_model
  value: rayleigh
`

func TestParseMapping(t *testing.T) {
	ps, err := Parse([]byte(testYamlMapping))
	require.Nil(t, err)
	assert.Equal(t, 4, len(ps))
	assert.Equal(t, KeyDataDescriptionFile, ps[0].Key)

	v, ok := ps.Get(KeyFadingModel)
	assert.True(t, ok)
	assert.Equal(t, "rician", v)

	cfg, unused, err := Decode(ps)
	require.Nil(t, err)
	assert.Empty(t, unused)
	assert.Equal(t, "./data/description.csv", cfg.DataDescriptionFile)
	assert.Equal(t, "rician", cfg.FadingModel)
	assert.Equal(t, 13, cfg.NodeCount)
	assert.Equal(t, int64(42), cfg.RandomSeed)
}

func TestParseListKeepsOrder(t *testing.T) {
	ps, err := Parse([]byte(testYamlList))
	require.Nil(t, err)
	assert.Equal(t, 3, len(ps))

	// the last occurrence wins.
	v, _ := ps.Get(KeyFadingModel)
	assert.Equal(t, "rayleigh", v)
	cfg, _, err := Decode(ps)
	require.Nil(t, err)
	assert.Equal(t, "rayleigh", cfg.FadingModel)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("just a string"))
	assert.NotNil(t, err)
	_, err = Parse([]byte("fading_model: [a, b]"))
	assert.NotNil(t, err)
}

func TestDecodeDefaultsAndUnused(t *testing.T) {
	cfg, unused, err := Decode(Params{{Key: "color", Value: "blue"}})
	require.Nil(t, err)
	assert.Equal(t, DefaultFadingModel, cfg.FadingModel)
	assert.Equal(t, "", cfg.DataDescriptionFile)
	assert.Equal(t, []string{"color"}, unused)

	_, _, err = Decode(Params{{Key: KeyNodeCount, Value: "many"}})
	assert.NotNil(t, err)
}

func TestDecodeKeepsFadingModelVerbatim(t *testing.T) {
	cfg, _, err := Decode(Params{
		{Key: " " + KeyFadingModel, Value: " rician "},
		{Key: KeyNodeCount, Value: " 4 "},
	})
	require.Nil(t, err)
	assert.Equal(t, " rician ", cfg.FadingModel)
	assert.Equal(t, 4, cfg.NodeCount)
}

func TestParamsSetAndToParams(t *testing.T) {
	var ps Params
	ps.Set(KeyFadingModel, "none")
	ps.Set(KeyFadingModel, "rician")
	assert.Equal(t, 1, len(ps))

	cfg := &Config{DataDescriptionFile: "d.csv", FadingModel: "nakagami", NodeCount: 4, RandomSeed: -7}
	back, _, err := Decode(cfg.ToParams())
	require.Nil(t, err)
	assert.Equal(t, cfg, back)
}

func TestLoadFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "params.yaml")
	require.Nil(t, os.WriteFile(fn, []byte(testYamlMapping), 0644))
	ps, err := LoadFile(fn)
	require.Nil(t, err)
	assert.Equal(t, 4, len(ps))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)
}
