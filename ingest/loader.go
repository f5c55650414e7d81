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

// Package ingest reads the data description file and the per-link sample files into the sample store.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/openthread/ban-propag/logger"
	"github.com/openthread/ban-propag/samples"
	. "github.com/openthread/ban-propag/types"
)

// Diagnostics receives ingestion anomalies; see the metrics package.
type Diagnostics interface {
	AddDiscardedSamples(n int)
	IncAbandonedRecords()
}

// Summary reports the outcome of loading a description file.
type Summary struct {
	Records   int // rows read
	Links     int // rows successfully ingested
	Abandoned int // rows ignored because of an error
	Discarded int // samples dropped because a file held more than announced
}

// Loader fills a sample store from a description file. The store must be allocated.
type Loader struct {
	store *samples.Store
	diag  Diagnostics
	log   *logger.ComponentLogger
}

// NewLoader creates a loader logging through log; a nil log uses the shared "ban-propag" component logger.
func NewLoader(store *samples.Store, diag Diagnostics, log *logger.ComponentLogger) *Loader {
	if log == nil {
		log = logger.For("ban-propag")
	}
	return &Loader{
		store: store,
		diag:  diag,
		log:   log,
	}
}

func newCsvReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.ReuseRecord = true
	return cr
}

// LoadDescriptionFile reads the description file at path. Relative sample file names are looked up in the
// working directory first, then next to the description file.
func (l *Loader) LoadDescriptionFile(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, errors.Wrapf(err, "unable to open the data description file")
	}
	defer f.Close()

	l.log.Infof("Reading the data description file (%s).", path)
	return l.LoadDescription(f, filepath.Dir(path))
}

// LoadDescription reads description rows from r. A row that cannot be ingested is abandoned and logged, and
// reading continues, including after a row the CSV reader rejects; only a read failure returns an error.
func (l *Loader) LoadDescription(r io.Reader, baseDir string) (Summary, error) {
	if !l.store.IsInitialized() {
		return Summary{}, samples.ErrNotInitialized
	}

	var sum Summary
	var parser recordParser
	cr := newCsvReader(r)
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		} else if perr, ok := err.(*csv.ParseError); ok {
			sum.Records++
			l.abandon(&sum, perr)
			continue
		} else if err != nil {
			return sum, errors.Wrapf(err, "data description file")
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}

		for _, field := range fields {
			parser.Field(field)
		}
		sum.Records++

		rec, err := parser.EndRow()
		if err == nil {
			var discarded int
			discarded, err = l.loadRecord(rec, baseDir)
			sum.Discarded += discarded
		} else if rec.hasPair {
			l.resetSeries(rec.Src, rec.Dst)
		}
		if err != nil {
			l.abandon(&sum, err)
			continue
		}
		sum.Links++
	}
	return sum, nil
}

func (l *Loader) abandon(sum *Summary, err error) {
	l.log.Warnf("An error occurred, ignoring this record (row %d): %v", sum.Records, err)
	sum.Abandoned++
	if l.diag != nil {
		l.diag.IncAbandonedRecords()
	}
}

// resetSeries drops whatever an earlier row ingested for the pair.
func (l *Loader) resetSeries(src, dst NodeId) {
	if series, err := l.store.SeriesFor(src, dst); err == nil {
		series.Reset()
	}
}

func resolveSampleFile(name string, baseDir string) string {
	if filepath.IsAbs(name) || baseDir == "" {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(baseDir, name)
}

func (l *Loader) loadRecord(rec Record, baseDir string) (int, error) {
	l.log.Debugf("Summary for the link: source %d, destination %d, file %s, sample count %d, sampled time %f",
		rec.Src, rec.Dst, rec.File, rec.Count, rec.Period)

	series, err := l.store.SeriesFor(rec.Src, rec.Dst)
	if err != nil {
		return 0, err
	}
	if rec.Count <= 0 {
		series.Reset()
		return 0, errors.Wrapf(ErrMalformedField, "sample count %d", rec.Count)
	}
	if !(rec.Period > 0) {
		series.Reset()
		return 0, errors.Wrapf(ErrMalformedField, "sampled time %f", rec.Period)
	}

	fn := resolveSampleFile(rec.File, baseDir)
	f, err := os.Open(fn)
	if err != nil {
		series.Reset()
		return 0, errors.Wrapf(err, "unable to open the sample file")
	}
	defer f.Close()

	series.Declare(rec.Period, rec.Count)
	if err = ReadSamples(f, series); err != nil {
		series.Reset()
		return 0, errors.Wrapf(err, "sample file %s", fn)
	}

	discarded := series.Discarded()
	if discarded > 0 {
		l.log.Warnf("Too many samples in %s (%d announced), %d discarded.", fn, rec.Count, discarded)
		if l.diag != nil {
			l.diag.AddDiscardedSamples(discarded)
		}
	}
	if filled := series.FilledCount(); filled < series.DeclaredCount() {
		series.Reset()
		return discarded, errors.Wrapf(ErrMissingSamples, "%d of %d announced in %s", filled, rec.Count, fn)
	}
	l.log.Debugf("Link data read, entries: %d.", series.FilledCount())
	return discarded, nil
}

// ReadSamples appends the comma- or row-separated values read from r to series, in order. Values beyond the
// declared count are discarded by the series. Empty fields are skipped; a non-numeric field is an error.
func ReadSamples(r io.Reader, series *samples.Series) error {
	cr := newCsvReader(r)
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		for _, field := range fields {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return errors.Wrapf(ErrMalformedField, "sample '%s'", field)
			}
			series.Append(v)
		}
	}
}
