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
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/dvdripgo/dvdrip/dvderr"
)

// fillSectors returns a buffer of n sectors where each sector's first
// byte is a marker distinguishing which file/offset it came from.
func fillSectors(n int, marker byte) []byte {
	buf := make([]byte, n*SectorSize)
	for i := 0; i < n; i++ {
		buf[i*SectorSize] = marker
	}
	return buf
}

// TestFileSourceMultiFileBoundary: two VOB
// files of 512 sectors each, a cell spanning sectors [500, 700].
func TestFileSourceMultiFileBoundary(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/VIDEO_TS"
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, dir+"/VTS_01_1.VOB", fillSectors(512, 0xAA), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, dir+"/VTS_01_2.VOB", fillSectors(512, 0xBB), 0o644); err != nil {
		t.Fatal(err)
	}
	// Menu VOB must be excluded from the segment set.
	if err := afero.WriteFile(fs, dir+"/VTS_01_0.VOB", fillSectors(1, 0xFF), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(fs, dir, 1)
	if err := src.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if err := src.Seek(500, false); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	buf := make([]byte, 201*SectorSize)
	n, err := src.Read(buf, 201, false)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 201 {
		t.Fatalf("sectorsRead = %d, want 201", n)
	}

	// First 12 sectors (500..511) come from file 1.
	for i := 0; i < 12; i++ {
		if buf[i*SectorSize] != 0xAA {
			t.Errorf("sector %d marker = %#x, want 0xAA (file 1)", i, buf[i*SectorSize])
		}
	}
	// Remainder (512..700, i.e. sectors 12..200) come from file 2.
	for i := 12; i < 201; i++ {
		if buf[i*SectorSize] != 0xBB {
			t.Errorf("sector %d marker = %#x, want 0xBB (file 2)", i, buf[i*SectorSize])
		}
	}
}

func TestFileSourceExcludesMenuVOB(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/VIDEO_TS"
	_ = fs.MkdirAll(dir, 0o755)
	_ = afero.WriteFile(fs, dir+"/VTS_01_0.VOB", fillSectors(10, 0xFF), 0o644)
	_ = afero.WriteFile(fs, dir+"/VTS_01_1.VOB", fillSectors(10, 0xAA), 0o644)

	src := NewFileSource(fs, dir, 1)
	if err := src.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if err := src.Seek(0, false); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, SectorSize)
	if _, err := src.Read(buf, 1, false); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0xAA {
		t.Errorf("first sector marker = %#x, want 0xAA (menu VOB must be excluded)", buf[0])
	}
}

func TestFileSourceMissingVTSDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	src := NewFileSource(fs, "/VIDEO_TS", 1)
	err := src.Open(context.Background())
	if err == nil {
		t.Fatal("expected error opening missing VIDEO_TS directory")
	}
}

func TestFileSourceCapabilityViolation(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/VIDEO_TS"
	_ = fs.MkdirAll(dir, 0o755)
	_ = afero.WriteFile(fs, dir+"/VTS_01_1.VOB", fillSectors(10, 0xAA), 0o644)

	src := NewFileSource(fs, dir, 1)
	if err := src.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	_, err := src.Read(make([]byte, SectorSize), 1, true)
	if !errors.Is(err, dvderr.ErrCapabilityViolation) {
		t.Errorf("err = %v, want ErrCapabilityViolation", err)
	}
}

func TestFileSourceSupportsDecryption(t *testing.T) {
	src := NewFileSource(nil, "/VIDEO_TS", 1)
	if src.SupportsDecryption() {
		t.Error("FileSource.SupportsDecryption() = true, want false")
	}
}

func TestFileSourceSectorOutsideSegments(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/VIDEO_TS"
	_ = fs.MkdirAll(dir, 0o755)
	_ = afero.WriteFile(fs, dir+"/VTS_01_1.VOB", fillSectors(10, 0xAA), 0o644)

	src := NewFileSource(fs, dir, 1)
	if err := src.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if err := src.Seek(9999, false); err != nil {
		t.Fatal(err)
	}
	_, err := src.Read(make([]byte, SectorSize), 1, false)
	var sr *dvderr.SectorRead
	if !errors.As(err, &sr) {
		t.Fatalf("err = %v, want *dvderr.SectorRead", err)
	}
}

func TestFileSourceLexicalOrderingAcrossNineSegments(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/VIDEO_TS"
	_ = fs.MkdirAll(dir, 0o755)
	for m := 1; m <= 9; m++ {
		name := dir + "/VTS_02_" + string(rune('0'+m)) + ".VOB"
		_ = afero.WriteFile(fs, name, fillSectors(1, byte(m)), 0o644)
	}

	src := NewFileSource(fs, dir, 2)
	if err := src.Open(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	for m := 1; m <= 9; m++ {
		if err := src.Seek(uint32(m-1), false); err != nil {
			t.Fatal(err)
		}
		buf := make([]byte, SectorSize)
		if _, err := src.Read(buf, 1, false); err != nil {
			t.Fatal(err)
		}
		if buf[0] != byte(m) {
			t.Errorf("segment %d marker = %d, want %d (lexical VOB ordering)", m, buf[0], m)
		}
	}
}
