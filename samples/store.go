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

// Package samples implements the sample store: a square matrix of per-link pathloss time-series,
// indexed by (source, destination) node.
package samples

import (
	"github.com/pkg/errors"

	. "github.com/openthread/ban-propag/types"
)

var (
	ErrAlreadyInitialized = errors.New("sample tables already initialized")
	ErrNotInitialized     = errors.New("sample tables not initialized")
	ErrInvalidSize        = errors.New("node count must be strictly positive")
	ErrOutOfRange         = errors.New("node id out of range")
)

// Link is an ordered (source, destination) node pair.
type Link struct {
	Src NodeId
	Dst NodeId
}

// Store owns the nodeCount x nodeCount matrix of Series. It is filled during setup and must be treated as
// read-only once propagation starts.
type Store struct {
	nodeCount int
	table     []Series
}

// NewStore returns an unallocated store.
func NewStore() *Store {
	return &Store{}
}

// Allocate creates a nodeCount x nodeCount matrix of empty series.
func (st *Store) Allocate(nodeCount int) error {
	if st.table != nil {
		return ErrAlreadyInitialized
	}
	if nodeCount <= 0 {
		return errors.Wrapf(ErrInvalidSize, "node count %d", nodeCount)
	}
	st.nodeCount = nodeCount
	st.table = make([]Series, nodeCount*nodeCount)
	return nil
}

// Release frees all series and the matrix itself.
func (st *Store) Release() error {
	if st.table == nil {
		return ErrNotInitialized
	}
	for i := range st.table {
		st.table[i].Reset()
	}
	st.table = nil
	st.nodeCount = 0
	return nil
}

// IsInitialized is true between Allocate and Release.
func (st *Store) IsInitialized() bool {
	return st.table != nil
}

// NodeCount is the matrix dimension, or 0 if not allocated.
func (st *Store) NodeCount() int {
	return st.nodeCount
}

func (st *Store) index(src, dst NodeId) (int, error) {
	if st.table == nil {
		return -1, ErrNotInitialized
	}
	if src < 0 || src >= st.nodeCount || dst < 0 || dst >= st.nodeCount {
		return -1, errors.Wrapf(ErrOutOfRange, "link %d->%d with %d nodes", src, dst, st.nodeCount)
	}
	return src*st.nodeCount + dst, nil
}

// SeriesFor returns the series of the ordered pair (src, dst).
func (st *Store) SeriesFor(src, dst NodeId) (*Series, error) {
	idx, err := st.index(src, dst)
	if err != nil {
		return nil, err
	}
	return &st.table[idx], nil
}

// Links returns all pairs with an allocated series, ordered by source then destination.
func (st *Store) Links() []Link {
	var links []Link
	for i := range st.table {
		if st.table[i].IsAllocated() {
			links = append(links, Link{Src: i / st.nodeCount, Dst: i % st.nodeCount})
		}
	}
	return links
}
