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

package ifo

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dvdripgo/dvdrip/dvderr"
)

// Decode parses the VIDEO_TS directory at videoTsPath into a Disc.
// Titles whose VTS_nn_0.IFO is missing are skipped with a logged
// warning rather than aborting the whole pass; every other
// parse failure is fatal. logger may be nil, in which case
// slog.Default() is used.
func Decode(videoTsPath string, logger *slog.Logger) (*Disc, error) {
	if logger == nil {
		logger = slog.Default()
	}

	vmgPath, err := findCaseInsensitive(videoTsPath, "VIDEO_TS.IFO")
	if err != nil {
		return nil, err
	}
	vmgBuf, err := os.ReadFile(vmgPath)
	if err != nil {
		return nil, err
	}
	entries, err := parseVMG(vmgBuf)
	if err != nil {
		return nil, err
	}

	disc := &Disc{
		VideoTsPath:  videoTsPath,
		TitleEntries: entries,
		titles:       make(map[int]*Title),
	}

	for _, te := range entries {
		vtsPath, err := findCaseInsensitive(videoTsPath, vtsFileName(te.VTSNumber))
		var missing *dvderr.MissingFile
		if errors.As(err, &missing) {
			logger.Warn("skipping title: VTS file not found",
				slog.Int("title_number", te.TitleNumber),
				slog.Int("vts_number", te.VTSNumber))
			continue
		}
		if err != nil {
			return nil, err
		}
		vtsBuf, err := os.ReadFile(vtsPath)
		if err != nil {
			return nil, err
		}
		data, err := parseVTS(vtsBuf, te.VTSNumber, te.TitleInVTS)
		if err != nil {
			return nil, err
		}

		cells := joinCells(data.pgcCells, data.cadt, logger, vtsFileName(te.VTSNumber))
		chapters := buildChapters(data.programMap, cells)

		disc.titles[te.TitleNumber] = &Title{
			TitleNumber:  te.TitleNumber,
			Duration:     data.pgcDuration,
			Chapters:     chapters,
			Audio:        data.Audio,
			Subtitles:    data.Subtitles,
			Cells:        cells,
			CSSProtected: data.CSSProtected,
		}
	}

	return disc, nil
}

// buildChapters partitions cells [1..len(cells)] into chapters per the
// PGC program map: chapter k covers cells
// [programMap[k-1] .. programMap[k]-1], and the last chapter runs to
// len(cells).
func buildChapters(programMap []int, cells []CellRef) []Chapter {
	chapters := make([]Chapter, 0, len(programMap))
	var offset int64
	for k := range programMap {
		first := programMap[k]
		var last int
		if k+1 < len(programMap) {
			last = programMap[k+1] - 1
		} else {
			last = len(cells)
		}

		var dur int64
		for _, c := range cells[first-1 : last] {
			dur += int64(c.Duration)
		}

		chapters = append(chapters, Chapter{
			ChapterNumber:      k + 1,
			FirstCell:          first,
			LastCell:           last,
			Duration:           time.Duration(dur),
			StartOffsetInTitle: time.Duration(offset),
		})
		offset += dur
	}
	return chapters
}

func findCaseInsensitive(dir, name string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), name) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", &dvderr.MissingFile{Path: filepath.Join(dir, name)}
}

