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

package ripper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dvdripgo/dvdrip/dvderr"
	"github.com/dvdripgo/dvdrip/resolve"
	"github.com/dvdripgo/dvdrip/sector"
)

// fakeSource is an in-memory sector.Source backed by a single
// contiguous byte slice addressed by logical sector number, letting
// the engine tests exercise the full batching and cancellation
// contract without real disc I/O.
type fakeSource struct {
	data              []byte
	cursor            uint32
	supportsDecrypt   bool
	failReadAfter     int
	cancelFn          context.CancelFunc
	cancelAfterBatch  int
	batchesRead       int
	seeks             []uint32
	seekRequestedKeys []bool
}

func newFakeSource(totalSectors int, supportsDecrypt bool) *fakeSource {
	return &fakeSource{data: make([]byte, totalSectors*sector.SectorSize), supportsDecrypt: supportsDecrypt}
}

func (f *fakeSource) Open(ctx context.Context) error { return nil }
func (f *fakeSource) Close() error                   { return nil }

func (f *fakeSource) Seek(s uint32, requestKey bool) error {
	f.seeks = append(f.seeks, s)
	f.seekRequestedKeys = append(f.seekRequestedKeys, requestKey)
	f.cursor = s
	return nil
}

func (f *fakeSource) Read(buf []byte, sectorCount int, decrypt bool) (int, error) {
	f.batchesRead++
	if f.failReadAfter > 0 && f.batchesRead > f.failReadAfter {
		return 0, &dvderr.SectorRead{Sector: f.cursor, Reason: "simulated failure"}
	}
	if f.cancelFn != nil && f.batchesRead == f.cancelAfterBatch {
		f.cancelFn()
	}
	n := sectorCount
	start := int(f.cursor) * sector.SectorSize
	end := start + n*sector.SectorSize
	if end > len(f.data) {
		end = len(f.data)
		n = (end - start) / sector.SectorSize
	}
	copy(buf, f.data[start:end])
	f.cursor += uint32(n)
	return n, nil
}

func (f *fakeSource) SupportsDecryption() bool { return f.supportsDecrypt }

var _ sector.Source = (*fakeSource)(nil)

func TestEngineRunHappyPath(t *testing.T) {
	src := newFakeSource(4096, false)
	dest := filepath.Join(t.TempDir(), "out.mpg")

	var progress []Progress
	eng := New(src, dest, false, func(p Progress) { progress = append(progress, p) }, nil)

	playlist := []resolve.SectorRange{{Start: 0, Last: 4095}}
	if err := eng.Run(context.Background(), playlist); err != nil {
		t.Fatalf("Run: %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat destination: %v", err)
	}
	wantSize := int64(4096 * sector.SectorSize)
	if info.Size() != wantSize {
		t.Errorf("destination size = %d, want %d", info.Size(), wantSize)
	}
	if info.Size()%sector.SectorSize != 0 {
		t.Error("destination length must be divisible by 2048")
	}

	if len(progress) == 0 {
		t.Fatal("expected at least one progress event")
	}
	last := progress[len(progress)-1]
	if last.BytesWritten != wantSize || last.BytesTotal != wantSize {
		t.Errorf("last progress = %+v, want BytesWritten=BytesTotal=%d", last, wantSize)
	}
	for i := 1; i < len(progress); i++ {
		if progress[i].BytesWritten < progress[i-1].BytesWritten {
			t.Errorf("progress regressed at index %d: %+v -> %+v", i, progress[i-1], progress[i])
		}
		if progress[i].BytesWritten > progress[i].BytesTotal {
			t.Errorf("progress %d exceeds total: %+v", i, progress[i])
		}
	}
}

func TestEnginePerCellSeeksNeverCoalesced(t *testing.T) {
	src := newFakeSource(3000, false)
	dest := filepath.Join(t.TempDir(), "out.mpg")
	eng := New(src, dest, false, nil, nil)

	playlist := []resolve.SectorRange{
		{Start: 0, Last: 999},
		{Start: 1000, Last: 1999}, // contiguous with the previous range
		{Start: 2000, Last: 2999},
	}
	if err := eng.Run(context.Background(), playlist); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(src.seeks) != 3 {
		t.Fatalf("seeks = %d, want 3 (one per cell, never coalesced)", len(src.seeks))
	}
	want := []uint32{0, 1000, 2000}
	for i, s := range want {
		if src.seeks[i] != s {
			t.Errorf("seeks[%d] = %d, want %d", i, src.seeks[i], s)
		}
	}
}

func TestEngineSectorReadFailureIsFatal(t *testing.T) {
	src := newFakeSource(4096, false)
	src.failReadAfter = 1
	dest := filepath.Join(t.TempDir(), "out.mpg")
	eng := New(src, dest, false, nil, nil)

	err := eng.Run(context.Background(), []resolve.SectorRange{{Start: 0, Last: 4095}})
	var sr *dvderr.SectorRead
	if !errors.As(err, &sr) {
		t.Fatalf("err = %v, want *dvderr.SectorRead", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination file should have been cleaned up after failure")
	}
}

func TestEngineCapabilityViolation(t *testing.T) {
	src := newFakeSource(10, false)
	dest := filepath.Join(t.TempDir(), "out.mpg")
	eng := New(src, dest, true, nil, nil) // decrypt requested, source doesn't support it

	err := eng.Run(context.Background(), []resolve.SectorRange{{Start: 0, Last: 9}})
	if !errors.Is(err, dvderr.ErrCapabilityViolation) {
		t.Fatalf("err = %v, want ErrCapabilityViolation", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination file should never have been created")
	}
}

func TestEngineCancellationMidRip(t *testing.T) {
	src := newFakeSource(4096, false)
	dest := filepath.Join(t.TempDir(), "out.mpg")

	ctx, cancel := context.WithCancel(context.Background())
	src.cancelFn = cancel
	src.cancelAfterBatch = 2

	var events int
	eng := New(src, dest, false, func(Progress) { events++ }, nil)

	err := eng.Run(ctx, []resolve.SectorRange{{Start: 0, Last: 4095}})
	if !errors.Is(err, dvderr.ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination file should not exist after cancellation")
	}
	if events < 1 || events > 2 {
		t.Errorf("progress events = %d, want in [1,2]", events)
	}
}
