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

// Command dvdripgen writes a synthetic VIDEO_TS tree to disk: a single
// title, VTS 01, with a configurable chapter count, cell size, and VOB
// segmentation. It is the command-line face of the internal/disctest
// builders the test suite uses in-process, for manual exploration of
// the ifo/resolve/sector packages against a real on-disk tree. It is
// not part of the rip pipeline and is never invoked by dvdrip itself.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dvdripgo/dvdrip/internal/disctest"
)

var (
	outDir            = flag.String("out", "", "output directory for the VIDEO_TS tree (required)")
	chapters          = flag.Int("chapters", 5, "number of chapters (one cell per chapter)")
	sectorsPerChapter = flag.Int("sectors-per-chapter", 1000, "sectors per chapter/cell")
	vobSegmentSectors = flag.Int("vob-segment-sectors", 0, "split the VOB every N sectors (0 = single file)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -out <dir> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Writes a synthetic single-title VIDEO_TS tree for testing.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *outDir == "" {
		fmt.Fprintln(os.Stderr, "Error: -out is required")
		flag.Usage()
		os.Exit(1)
	}

	if err := generate(*outDir, *chapters, *sectorsPerChapter, *vobSegmentSectors); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote synthetic VIDEO_TS tree to %s (%d chapters, %d sectors/chapter)\n",
		*outDir, *chapters, *sectorsPerChapter)
}

func generate(dir string, chapterCount, sectorsPerChapter, vobSegmentSectors int) error {
	if chapterCount < 1 {
		return fmt.Errorf("chapters must be >= 1")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	cells := make([]disctest.Cell, chapterCount)
	programMap := make([]int, chapterCount)
	for i := range cells {
		cells[i] = disctest.Cell{
			Start:  uint32(i * sectorsPerChapter),
			Last:   uint32((i+1)*sectorsPerChapter - 1),
			VobID:  1,
			CellID: uint8(i + 1),
		}
		programMap[i] = i + 1
	}

	vmg := disctest.BuildVMG([]disctest.TitleEntry{{
		AngleCount:   1,
		ChapterCount: uint16(chapterCount),
		VTSNumber:    1,
		TitleInVTS:   1,
	}})
	if err := os.WriteFile(filepath.Join(dir, "VIDEO_TS.IFO"), vmg, 0o644); err != nil {
		return err
	}

	vts := disctest.BuildVTS(cells, programMap, false)
	if err := os.WriteFile(filepath.Join(dir, "VTS_01_0.IFO"), vts, 0o644); err != nil {
		return err
	}

	return disctest.WriteVOBSegments(dir, 1, chapterCount*sectorsPerChapter, vobSegmentSectors)
}
