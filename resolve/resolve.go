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

// Package resolve joins a parsed Title's cell list with an optional
// chapter range to produce an ordered playlist of sector ranges.
package resolve

import (
	"fmt"

	"github.com/dvdripgo/dvdrip/dvderr"
	"github.com/dvdripgo/dvdrip/ifo"
)

// SectorRange is a contiguous [Start, Last] span of logical sectors
// that the rip engine must enter through its own seek: adjacent cells
// are never coalesced because the CSS title key changes per cell.
type SectorRange struct {
	Start uint32
	Last  uint32
}

// SectorCount returns the number of 2048-byte sectors this range spans.
func (s SectorRange) SectorCount() uint32 {
	return s.Last - s.Start + 1
}

// ChapterRange selects an inclusive, 1-based chapter span.
type ChapterRange struct {
	First int
	Last  int
}

// Playlist resolves title against an optional chapter range into an
// ordered list of SectorRange, one per cell, in playback order. A nil
// chapterRange selects every cell of the title.
func Playlist(title *ifo.Title, chapterRange *ChapterRange) ([]SectorRange, error) {
	firstCell, lastCell := 1, len(title.Cells)

	if chapterRange != nil {
		cr := *chapterRange
		chapterCount := len(title.Chapters)
		if cr.First < 1 || cr.Last < cr.First || cr.Last > chapterCount {
			return nil, fmt.Errorf("chapter range [%d,%d] outside [1,%d]: %w",
				cr.First, cr.Last, chapterCount, dvderr.ErrInvalidRequest)
		}
		firstCell = title.Chapters[cr.First-1].FirstCell
		lastCell = title.Chapters[cr.Last-1].LastCell
	}

	if firstCell < 1 || lastCell > len(title.Cells) || firstCell > lastCell {
		return nil, fmt.Errorf("resolved cell range [%d,%d] outside [1,%d]: %w",
			firstCell, lastCell, len(title.Cells), dvderr.ErrInvalidRequest)
	}

	playlist := make([]SectorRange, 0, lastCell-firstCell+1)
	for _, cell := range title.Cells[firstCell-1 : lastCell] {
		playlist = append(playlist, SectorRange{Start: cell.StartSector, Last: cell.LastSector})
	}
	return playlist, nil
}

// BytesTotal computes the a-priori total byte count of a playlist:
// the sum of sector_count * 2048 across every range.
func BytesTotal(playlist []SectorRange) int64 {
	var total int64
	for _, r := range playlist {
		total += int64(r.SectorCount()) * 2048
	}
	return total
}
