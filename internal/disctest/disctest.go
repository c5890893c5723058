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

// Package disctest builds synthetic VIDEO_TS images: IFO files in the
// byte layout the ifo package decodes, plus VOB segments whose sectors
// carry their own sector number as a marker for byte-provenance
// checks. It is shared by the package tests and by cmd/dvdripgen.
package disctest

import (
	"fmt"
	"os"
	"path/filepath"
)

const sectorSize = 2048

// Cell describes one PGC cell and its exact-match C_ADT entry. C_ADT
// entries are always emitted with the same sector range as their PGC
// cell, exercising the exact-match tier of cell joining.
type Cell struct {
	Start, Last uint32
	VobID       uint16
	CellID      uint8
}

// TitleEntry describes one TT_SRPT row of the generated VIDEO_TS.IFO.
type TitleEntry struct {
	AngleCount   byte
	ChapterCount uint16
	VTSNumber    byte
	TitleInVTS   byte
}

// PutU16 stores v big-endian at buf[off:].
func PutU16(buf []byte, off int, v uint16) { buf[off] = byte(v >> 8); buf[off+1] = byte(v) }

// PutU32 stores v big-endian at buf[off:].
func PutU32(buf []byte, off int, v uint32) {
	buf[off] = byte(v >> 24)
	buf[off+1] = byte(v >> 16)
	buf[off+2] = byte(v >> 8)
	buf[off+3] = byte(v)
}

// BCD4 encodes a whole-second BCD duration with zero frames, NTSC flag.
func BCD4(hh, mm, ss byte) []byte {
	toBCD := func(n byte) byte { return (n/10)<<4 | (n % 10) }
	return []byte{toBCD(hh), toBCD(mm), toBCD(ss), 0xC0}
}

// BuildVMG constructs a VIDEO_TS.IFO image whose TT_SRPT holds the
// given title entries.
func BuildVMG(titles []TitleEntry) []byte {
	const ttsrptSector = 1
	base := ttsrptSector * sectorSize
	buf := make([]byte, base+8+12*len(titles)+64)
	copy(buf, "DVDVIDEO-VMG")
	PutU32(buf, 0xC4, ttsrptSector)
	PutU16(buf, base, uint16(len(titles)))
	for i, te := range titles {
		off := base + 8 + 12*i
		buf[off+1] = te.AngleCount
		PutU16(buf, off+2, te.ChapterCount)
		buf[off+6] = te.VTSNumber
		buf[off+7] = te.TitleInVTS
	}
	return buf
}

// BuildVTS constructs a single-PGC VTS_nn_0.IFO image whose cells and
// program map are given by cells/programMap, with C_ADT entries that
// exactly match each cell's sector range.
func BuildVTS(cells []Cell, programMap []int, cssProtected bool) []byte {
	const (
		pgciSector   = 1
		cadtSector   = 2
		pgcRelOffset = 0x100
	)
	programMapOff := 0xEA
	cellPlaybackOff := programMapOff + len(programMap)
	pgcBlockSize := cellPlaybackOff + 24*len(cells)

	buf := make([]byte, 3*sectorSize+pgcRelOffset+pgcBlockSize+64)
	copy(buf, "DVDVIDEO-VTS")
	if cssProtected {
		buf[0x100] = 0x80
	}
	PutU16(buf, 0x200, 0) // audio_count = 0
	PutU16(buf, 0x254, 0) // subtitle_count = 0
	PutU32(buf, 0xCC, pgciSector)
	PutU32(buf, 0xE0, cadtSector)

	pgciBase := pgciSector * sectorSize
	PutU16(buf, pgciBase, 1) // pgc_count = 1
	PutU32(buf, pgciBase+8+4, uint32(pgcRelOffset))

	pgcBase := pgciBase + pgcRelOffset
	buf[pgcBase+2] = byte(len(programMap))
	buf[pgcBase+3] = byte(len(cells))
	copy(buf[pgcBase+4:], BCD4(0, 0, 1))
	PutU16(buf, pgcBase+0xE6, uint16(programMapOff))
	PutU16(buf, pgcBase+0xE8, uint16(cellPlaybackOff))
	for i, first := range programMap {
		buf[pgcBase+programMapOff+i] = byte(first)
	}
	for i, c := range cells {
		off := pgcBase + cellPlaybackOff + 24*i
		copy(buf[off+4:], BCD4(0, 0, 1))
		PutU32(buf, off+8, c.Start)
		PutU32(buf, off+20, c.Last)
	}

	cadtBase := cadtSector * sectorSize
	PutU32(buf, cadtBase+4, uint32(8+12*len(cells)-1))
	for i, c := range cells {
		off := cadtBase + 8 + 12*i
		PutU16(buf, off, c.VobID)
		buf[off+2] = c.CellID
		buf[off+3] = 0 // angle
		PutU32(buf, off+4, c.Start)
		PutU32(buf, off+8, c.Last)
	}
	return buf
}

// WriteVOBSegments writes the VOB files for VTS vtsNumber covering
// totalSectors sectors, split every segmentSectors sectors (0 writes a
// single file). Each sector's first 4 bytes hold its logical sector
// number big-endian, a deterministic marker used to verify correct
// file+offset addressing across segment boundaries.
func WriteVOBSegments(dir string, vtsNumber, totalSectors, segmentSectors int) error {
	if segmentSectors <= 0 {
		segmentSectors = totalSectors
	}
	written := 0
	segment := 1
	for written < totalSectors {
		n := segmentSectors
		if written+n > totalSectors {
			n = totalSectors - written
		}
		buf := make([]byte, n*sectorSize)
		for s := 0; s < n; s++ {
			PutU32(buf, s*sectorSize, uint32(written+s))
		}
		name := fmt.Sprintf("VTS_%02d_%d.VOB", vtsNumber, segment)
		if err := os.WriteFile(filepath.Join(dir, name), buf, 0o644); err != nil {
			return err
		}
		written += n
		segment++
	}
	return nil
}
