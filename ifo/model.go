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
	"time"

	"golang.org/x/text/language"
)

// AudioCoding enumerates the audio coding formats a VTS IFO can
// declare for a stream.
type AudioCoding int

const (
	AudioUnknown AudioCoding = iota
	AudioAC3
	AudioMPEG1
	AudioMPEG2
	AudioLPCM
	AudioDTS
)

func (c AudioCoding) String() string {
	switch c {
	case AudioAC3:
		return "AC-3"
	case AudioMPEG1:
		return "MPEG-1"
	case AudioMPEG2:
		return "MPEG-2"
	case AudioLPCM:
		return "LPCM"
	case AudioDTS:
		return "DTS"
	default:
		return "Unknown"
	}
}

// AudioStream is purely descriptive metadata for one audio track of a
// title; the core neither extracts nor decodes audio payload.
type AudioStream struct {
	Index      int
	Language   language.Base
	Coding     AudioCoding
	Channels   int
	SampleRate int
}

// SubtitleStream is purely descriptive metadata for one subtitle track;
// the core enumerates but never extracts subtitle payload.
type SubtitleStream struct {
	Index    int
	Language language.Base
}

// CellRef is one cell in playback order, after the PGC cell-playback
// list has been joined against C_ADT. Sector numbers are logical
// sectors on the disc (or, equivalently for an honestly authored disc,
// byte offsets into the concatenated VOB files divided by 2048).
type CellRef struct {
	VobID       uint16
	CellID      uint8
	Angle       uint8
	CellType    uint8
	StartSector uint32
	LastSector  uint32
	Duration    time.Duration
}

// SectorCount returns the number of 2048-byte sectors this cell spans.
func (c CellRef) SectorCount() uint32 {
	return c.LastSector - c.StartSector + 1
}

// Chapter is a PGC program: a contiguous run of cells exposed to the
// user as a navigable chapter.
type Chapter struct {
	ChapterNumber      int
	FirstCell          int // 1-based, inclusive, into Title.Cells
	LastCell           int // 1-based, inclusive, into Title.Cells
	Duration           time.Duration
	StartOffsetInTitle time.Duration
}

// Title is the fully parsed title: a TitleEntry joined with its VTS
// program chain, streams, and resolved cell list.
type Title struct {
	TitleNumber int
	Duration    time.Duration
	Chapters    []Chapter
	Audio       []AudioStream
	Subtitles   []SubtitleStream
	Cells       []CellRef
	// CSSProtected is a best-effort hint surfaced from the VTS
	// attribute block. The rip engine never trusts it to skip CSS.
	CSSProtected bool
}

// TitleEntry is one row of the global title table (TT_SRPT) in
// VIDEO_TS.IFO, before the corresponding VTS has been parsed.
type TitleEntry struct {
	TitleNumber    int // 1-based, unique within Disc
	VTSNumber      int // 1..99
	TitleInVTS     int // 1-based within that VTS
	ChapterCount   int
	AngleCount     int
	VTSEntrySector uint32
}

// Disc is the root of the parsed model: one entry per playable title,
// in TT_SRPT order, plus the path of the VIDEO_TS directory it was
// read from. Disc and everything it owns is produced once by the
// decoder and is immutable thereafter.
type Disc struct {
	VideoTsPath  string
	TitleEntries []TitleEntry
	titles       map[int]*Title
}

// TitleSummary is a read-only projection of a Title suited for
// listing UIs; it carries no cell-level detail.
type TitleSummary struct {
	TitleNumber       int
	Duration          time.Duration
	ChapterCount      int
	AudioLanguages    []string
	SubtitleLanguages []string
	CSSProtected      bool
}

// Titles returns a summary of every successfully parsed title, in
// TT_SRPT order, for display purposes (e.g. a CLI "-list" flag).
func (d *Disc) Titles() []TitleSummary {
	summaries := make([]TitleSummary, 0, len(d.TitleEntries))
	for _, te := range d.TitleEntries {
		t, ok := d.titles[te.TitleNumber]
		if !ok {
			continue
		}
		s := TitleSummary{
			TitleNumber:  t.TitleNumber,
			Duration:     t.Duration,
			ChapterCount: len(t.Chapters),
			CSSProtected: t.CSSProtected,
		}
		for _, a := range t.Audio {
			s.AudioLanguages = append(s.AudioLanguages, a.Language.String())
		}
		for _, sub := range t.Subtitles {
			s.SubtitleLanguages = append(s.SubtitleLanguages, sub.Language.String())
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// Title returns the fully parsed title by its 1-based title number, or
// false if the title was not parsed (e.g. skipped because
// its VTS file was absent).
func (d *Disc) Title(titleNumber int) (*Title, bool) {
	t, ok := d.titles[titleNumber]
	return t, ok
}
