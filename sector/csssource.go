// Copyright (c) 2026 The dvdrip Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of dvdrip.
//
// dvdrip is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// dvdrip is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with dvdrip.  If not, see <https://www.gnu.org/licenses/>.

package sector

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dvdripgo/dvdrip/dvderr"
)

// keyCacheSize bounds the per-source memory used to remember which
// cells already had their title key negotiated this rip. It is not a
// correctness requirement, only an optimization against redundant
// native round trips when a chapter range is re-entered.
const keyCacheSize = 16

// CSSSource is the CSS-handle sector source variant: a native
// handle opened against a raw device path, with per-cell key
// negotiation driven by Seek.
type CSSSource struct {
	device     string
	libPath    string
	lib        cssLibrary
	handle     uintptr
	keyedCells *lru.Cache[uint32, struct{}]
}

// NewCSSSource constructs a CSS-handle source for device (e.g.
// "/dev/sr0" or `\\.\D:`). libPath overrides the native library's
// default search location; pass "" to use the platform default.
func NewCSSSource(device, libPath string) *CSSSource {
	return &CSSSource{device: device, libPath: libPath}
}

func (s *CSSSource) Open(ctx context.Context) error {
	if s.lib != nil {
		return fmt.Errorf("css source already open")
	}
	lib, err := newNativeCSSLibrary(s.libPath)
	if err != nil {
		return err
	}
	handle, err := lib.open(s.device)
	if err != nil {
		return err
	}
	cache, _ := lru.New[uint32, struct{}](keyCacheSize)
	s.lib = lib
	s.handle = handle
	s.keyedCells = cache
	return nil
}

func (s *CSSSource) Seek(sector uint32, requestKey bool) error {
	if s.lib == nil {
		return fmt.Errorf("css source not open")
	}
	flags := cssSeekMPEG
	_, alreadyKeyed := s.keyedCells.Get(sector)
	if requestKey && !alreadyKeyed {
		flags |= cssSeekKey
	}
	if _, err := s.lib.seek(s.handle, sector, flags); err != nil {
		return err
	}
	if requestKey {
		s.keyedCells.Add(sector, struct{}{})
	}
	return nil
}

func (s *CSSSource) Read(buf []byte, sectorCount int, decrypt bool) (int, error) {
	if s.lib == nil {
		return 0, fmt.Errorf("css source not open")
	}
	flags := cssNoFlags
	if decrypt {
		flags = cssReadDecrypt
	}
	n, err := s.lib.read(s.handle, buf, sectorCount, flags)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, &dvderr.SectorRead{Reason: "native read returned no sectors"}
	}
	return n, nil
}

func (s *CSSSource) Close() error {
	if s.lib == nil {
		return nil
	}
	err := s.lib.close(s.handle)
	s.lib = nil
	s.handle = 0
	return err
}

func (s *CSSSource) SupportsDecryption() bool {
	return true
}

var _ Source = (*CSSSource)(nil)
