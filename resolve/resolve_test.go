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

package resolve

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dvdripgo/dvdrip/dvderr"
	"github.com/dvdripgo/dvdrip/ifo"
)

// fiveChapterTitle builds a synthetic Title with 5 chapters, each
// mapped 1:1 to a 1000-sector cell.
func fiveChapterTitle() *ifo.Title {
	title := &ifo.Title{TitleNumber: 1}
	for i := 0; i < 5; i++ {
		title.Cells = append(title.Cells, ifo.CellRef{
			StartSector: uint32(i * 1000),
			LastSector:  uint32(i*1000 + 999),
		})
		title.Chapters = append(title.Chapters, ifo.Chapter{
			ChapterNumber: i + 1,
			FirstCell:     i + 1,
			LastCell:      i + 1,
		})
	}
	return title
}

func TestPlaylistWholeTitle(t *testing.T) {
	title := fiveChapterTitle()
	got, err := Playlist(title, nil)
	if err != nil {
		t.Fatalf("Playlist: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	if got[0].Start != 0 || got[4].Last != 4999 {
		t.Errorf("got = %+v", got)
	}
}

func TestPlaylistChapterRange(t *testing.T) {
	title := fiveChapterTitle()
	got, err := Playlist(title, &ChapterRange{First: 2, Last: 4})
	if err != nil {
		t.Fatalf("Playlist: %v", err)
	}
	want := []SectorRange{
		{Start: 1000, Last: 1999},
		{Start: 2000, Last: 2999},
		{Start: 3000, Last: 3999},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Playlist mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaylistInvalidChapterRange(t *testing.T) {
	title := fiveChapterTitle()
	cases := []ChapterRange{
		{First: 0, Last: 2},
		{First: 3, Last: 2},
		{First: 1, Last: 6},
	}
	for _, cr := range cases {
		_, err := Playlist(title, &cr)
		if !errors.Is(err, dvderr.ErrInvalidRequest) {
			t.Errorf("Playlist(%+v) err = %v, want ErrInvalidRequest", cr, err)
		}
	}
}

func TestBytesTotal(t *testing.T) {
	playlist := []SectorRange{{Start: 0, Last: 999}, {Start: 1000, Last: 1999}}
	if got, want := BytesTotal(playlist), int64(2000*2048); got != want {
		t.Errorf("BytesTotal = %d, want %d", got, want)
	}
}

func TestSectorRangeSectorCount(t *testing.T) {
	r := SectorRange{Start: 500, Last: 700}
	if got, want := r.SectorCount(), uint32(201); got != want {
		t.Errorf("SectorCount = %d, want %d", got, want)
	}
}
