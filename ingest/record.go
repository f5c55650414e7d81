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

package ingest

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	. "github.com/openthread/ban-propag/types"
)

var (
	ErrIncompleteRecord = errors.New("incomplete description record")
	ErrMalformedField   = errors.New("malformed field")
	ErrMissingSamples   = errors.New("fewer samples than announced")
)

// Record is one row of the data description file.
type Record struct {
	Src    NodeId
	Dst    NodeId
	File   string
	Count  int
	Period float64

	// hasPair is set once source and destination parsed, even when a later field did not.
	hasPair bool
}

type recordField int

const (
	fieldSrc recordField = iota
	fieldDst
	fieldFile
	fieldCount
	fieldPeriod
	fieldDone
)

var recordFieldNames = []string{"source", "destination", "file name", "sample count", "sampled time"}

// recordParser accumulates the fields of a description row, in order, and emits the record at the end
// of the row. Fields past the fifth are ignored.
type recordParser struct {
	next recordField
	rec  Record
	err  error
}

func (p *recordParser) reset() {
	*p = recordParser{}
}

// Field consumes the next field of the current row.
func (p *recordParser) Field(s string) {
	if p.err != nil || p.next == fieldDone {
		return
	}
	s = strings.TrimSpace(s)
	var err error
	switch p.next {
	case fieldSrc:
		p.rec.Src, err = strconv.Atoi(s)
	case fieldDst:
		p.rec.Dst, err = strconv.Atoi(s)
		p.rec.hasPair = err == nil
	case fieldFile:
		if s == "" {
			err = errors.New("empty")
		}
		p.rec.File = s
	case fieldCount:
		p.rec.Count, err = strconv.Atoi(s)
	case fieldPeriod:
		p.rec.Period, err = strconv.ParseFloat(s, 64)
	}
	if err != nil {
		p.err = errors.Wrapf(ErrMalformedField, "%s '%s'", recordFieldNames[p.next], s)
	}
	p.next++
}

// EndRow finishes the current row, returning the completed record, and readies the parser for the next row.
func (p *recordParser) EndRow() (Record, error) {
	defer p.reset()
	if p.err != nil {
		return p.rec, p.err
	}
	if p.next != fieldDone {
		return p.rec, errors.Wrapf(ErrIncompleteRecord, "%s not set", recordFieldNames[p.next])
	}
	return p.rec, nil
}
