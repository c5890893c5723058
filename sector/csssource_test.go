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
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
)

// fakeCSSLibrary is an in-memory stand-in for the dynamically loaded
// native CSS library, used to verify the key-request ordering
// contract without a real native dependency.
type fakeCSSLibrary struct {
	seeks []struct {
		sector uint32
		flags  int
	}
	reads []struct {
		sectors int
		flags   int
	}
}

func (f *fakeCSSLibrary) open(device string) (uintptr, error) { return 1, nil }
func (f *fakeCSSLibrary) close(handle uintptr) error          { return nil }

func (f *fakeCSSLibrary) seek(handle uintptr, sector uint32, flags int) (uint32, error) {
	f.seeks = append(f.seeks, struct {
		sector uint32
		flags  int
	}{sector, flags})
	return sector, nil
}

func (f *fakeCSSLibrary) read(handle uintptr, buf []byte, sectors int, flags int) (int, error) {
	f.reads = append(f.reads, struct {
		sectors int
		flags   int
	}{sectors, flags})
	return sectors, nil
}

func (f *fakeCSSLibrary) lastError(handle uintptr) string { return "" }

func newTestCSSSource(lib cssLibrary) *CSSSource {
	s := NewCSSSource("/dev/sr0", "")
	s.lib = lib
	s.handle = 1
	cache, _ := lru.New[uint32, struct{}](keyCacheSize)
	s.keyedCells = cache
	return s
}

func TestCSSSourceKeyRequestOrdering(t *testing.T) {
	fake := &fakeCSSLibrary{}
	src := newTestCSSSource(fake)

	cells := []struct{ start, last uint32 }{
		{0, 999}, {1000, 1999}, {2000, 2999},
	}

	buf := make([]byte, readBatchTestSize)
	for _, c := range cells {
		if err := src.Seek(c.start, true); err != nil {
			t.Fatalf("Seek: %v", err)
		}
		if _, err := src.Read(buf, 1, true); err != nil {
			t.Fatalf("Read: %v", err)
		}
	}

	if len(fake.seeks) != 3 {
		t.Fatalf("seeks = %d, want 3", len(fake.seeks))
	}
	for i, c := range cells {
		if fake.seeks[i].sector != c.start {
			t.Errorf("seek[%d] sector = %d, want %d", i, fake.seeks[i].sector, c.start)
		}
		if fake.seeks[i].flags&cssSeekKey == 0 {
			t.Errorf("seek[%d] flags = %#x, want SEEK_KEY set", i, fake.seeks[i].flags)
		}
	}
	if len(fake.reads) != 3 {
		t.Fatalf("reads = %d, want 3", len(fake.reads))
	}
	for i, r := range fake.reads {
		if r.flags&cssReadDecrypt == 0 {
			t.Errorf("read[%d] flags = %#x, want READ_DECRYPT set", i, r.flags)
		}
	}
}

func TestCSSSourceKeyedCellNotReKeyed(t *testing.T) {
	fake := &fakeCSSLibrary{}
	src := newTestCSSSource(fake)

	if err := src.Seek(500, true); err != nil {
		t.Fatal(err)
	}
	if err := src.Seek(500, true); err != nil {
		t.Fatal(err)
	}

	if len(fake.seeks) != 2 {
		t.Fatalf("seeks = %d, want 2", len(fake.seeks))
	}
	if fake.seeks[0].flags&cssSeekKey == 0 {
		t.Error("first seek to sector 500 should request a key")
	}
	if fake.seeks[1].flags&cssSeekKey != 0 {
		t.Error("re-entering an already-keyed cell should not re-request SEEK_KEY")
	}
}

func TestCSSSourceSupportsDecryption(t *testing.T) {
	src := NewCSSSource("/dev/sr0", "")
	if !src.SupportsDecryption() {
		t.Error("CSSSource.SupportsDecryption() = false, want true")
	}
}

const readBatchTestSize = SectorSize
