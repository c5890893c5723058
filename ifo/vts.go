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
	"bytes"
	"time"

	"github.com/icza/bitio"
	"golang.org/x/text/language"
)

const vtsMagic = "DVDVIDEO-VTS"

const (
	vtsOffAudioCount    = 0x200
	vtsOffAudioTable    = 0x202
	vtsOffSubtitleCount = 0x254
	vtsOffSubtitleTable = 0x256
	vtsOffPGCI          = 0xCC
	vtsOffCADT          = 0xE0

	maxAudioStreams    = 8
	maxSubtitleStreams = 32
)

// pgcCell is one entry of the PGC cell-playback-info table, before it
// has been joined against C_ADT.
type pgcCell struct {
	CellType    uint8
	Duration    time.Duration
	StartSector uint32
	LastSector  uint32
}

// cadtEntry is one row of the cell address table.
type cadtEntry struct {
	VobID       uint16
	CellID      uint8
	Angle       uint8
	StartSector uint32
	LastSector  uint32
}

// vtsData is the intermediate parse result of a VTS_nn_0.IFO file,
// before cell joining and chapter construction.
type vtsData struct {
	Audio        []AudioStream
	Subtitles    []SubtitleStream
	CSSProtected bool
	pgcDuration  time.Duration
	pgcCells     []pgcCell
	programMap   []int // 1-based first-cell number of each program
	cadt         []cadtEntry
}

func vtsFileName(vtsNumber int) string {
	digits := "0123456789"
	tens, ones := vtsNumber/10, vtsNumber%10
	return "VTS_" + string(digits[tens]) + string(digits[ones]) + "_0.IFO"
}

// parseVTS decodes a VTS_nn_0.IFO image for the PGC identified by
// titleInVTS (1-based, clamped into [1, pgc_count]).
func parseVTS(buf []byte, vtsNumber, titleInVTS int) (*vtsData, error) {
	file := vtsFileName(vtsNumber)
	r := newReader(buf, file)

	magic, err := r.ascii(0, len(vtsMagic))
	if err != nil {
		return nil, err
	}
	if magic != vtsMagic {
		return nil, r.corrupt("bad magic")
	}

	audio, err := parseAudioStreams(r)
	if err != nil {
		return nil, err
	}
	subs, err := parseSubtitleStreams(r)
	if err != nil {
		return nil, err
	}

	pgci, err := r.sectorOffset(vtsOffPGCI)
	if err != nil {
		return nil, err
	}
	pgcCount, err := r.u16(pgci)
	if err != nil {
		return nil, err
	}
	if pgcCount == 0 {
		return nil, r.corrupt("no program chains")
	}

	index := clamp(titleInVTS, 1, int(pgcCount)) - 1
	searchBase := pgci + 8 + 8*index
	pgcRelOffset, err := r.u32(searchBase + 4)
	if err != nil {
		return nil, err
	}
	pgcBase := pgci + int(pgcRelOffset)

	programCount, err := r.u8(pgcBase + 2)
	if err != nil {
		return nil, err
	}
	cellCount, err := r.u8(pgcBase + 3)
	if err != nil {
		return nil, err
	}
	pgcDuration, err := r.bcdDuration(pgcBase + 4)
	if err != nil {
		return nil, err
	}
	programMapOff, err := r.u16(pgcBase + 0xE6)
	if err != nil {
		return nil, err
	}
	cellPlaybackOff, err := r.u16(pgcBase + 0xE8)
	if err != nil {
		return nil, err
	}

	programMap := make([]int, programCount)
	mapBase := pgcBase + int(programMapOff)
	for i := 0; i < int(programCount); i++ {
		b, err := r.u8(mapBase + i)
		if err != nil {
			return nil, err
		}
		programMap[i] = int(b)
	}

	cellBase := pgcBase + int(cellPlaybackOff)
	cells := make([]pgcCell, cellCount)
	for i := 0; i < int(cellCount); i++ {
		off := cellBase + 24*i
		cellType, err := r.u8(off)
		if err != nil {
			return nil, err
		}
		dur, err := r.bcdDuration(off + 4)
		if err != nil {
			return nil, err
		}
		first, err := r.u32(off + 8)
		if err != nil {
			return nil, err
		}
		last, err := r.u32(off + 20)
		if err != nil {
			return nil, err
		}
		cells[i] = pgcCell{CellType: cellType, Duration: dur, StartSector: first, LastSector: last}
	}

	cadt, err := parseCADT(r)
	if err != nil {
		return nil, err
	}

	category, err := r.u8(0x100)
	if err != nil {
		return nil, err
	}

	return &vtsData{
		Audio:        audio,
		Subtitles:    subs,
		CSSProtected: category&0x80 != 0,
		pgcDuration:  pgcDuration,
		pgcCells:     cells,
		programMap:   programMap,
		cadt:         cadt,
	}, nil
}

func parseAudioStreams(r *reader) ([]AudioStream, error) {
	count, err := r.u16(vtsOffAudioCount)
	if err != nil {
		return nil, err
	}
	n := int(count)
	if n > maxAudioStreams {
		n = maxAudioStreams
	}
	streams := make([]AudioStream, 0, n)
	for i := 0; i < n; i++ {
		off := vtsOffAudioTable + 8*i
		b, err := r.bytes(off, 8)
		if err != nil {
			return nil, err
		}
		br := bitio.NewReader(bytes.NewReader(b[0:1]))
		codingBits, err := br.ReadBits(3)
		if err != nil {
			return nil, err
		}
		streams = append(streams, AudioStream{
			Index:      i,
			Language:   languageFromBytes(b[2], b[3]),
			Coding:     audioCodingFromBits(uint8(codingBits)),
			Channels:   int(b[1]&0x7) + 1,
			SampleRate: sampleRateFromBits((b[1] >> 4) & 0x3),
		})
	}
	return streams, nil
}

func parseSubtitleStreams(r *reader) ([]SubtitleStream, error) {
	count, err := r.u16(vtsOffSubtitleCount)
	if err != nil {
		return nil, err
	}
	n := int(count)
	if n > maxSubtitleStreams {
		n = maxSubtitleStreams
	}
	streams := make([]SubtitleStream, 0, n)
	for i := 0; i < n; i++ {
		off := vtsOffSubtitleTable + 6*i
		b, err := r.bytes(off, 6)
		if err != nil {
			return nil, err
		}
		streams = append(streams, SubtitleStream{
			Index:    i,
			Language: languageFromBytes(b[2], b[3]),
		})
	}
	return streams, nil
}

func parseCADT(r *reader) ([]cadtEntry, error) {
	cadt, err := r.sectorOffset(vtsOffCADT)
	if err != nil {
		return nil, err
	}
	lastByte, err := r.u32(cadt + 4)
	if err != nil {
		return nil, err
	}
	count := (int(lastByte) + 1 - 8) / 12
	if count < 0 {
		return nil, r.corrupt("negative C_ADT entry count")
	}
	entries := make([]cadtEntry, 0, count)
	for i := 0; i < count; i++ {
		off := cadt + 8 + 12*i
		vobID, err := r.u16(off)
		if err != nil {
			return nil, err
		}
		cellID, err := r.u8(off + 2)
		if err != nil {
			return nil, err
		}
		angle, err := r.u8(off + 3)
		if err != nil {
			return nil, err
		}
		start, err := r.u32(off + 4)
		if err != nil {
			return nil, err
		}
		last, err := r.u32(off + 8)
		if err != nil {
			return nil, err
		}
		entries = append(entries, cadtEntry{VobID: vobID, CellID: cellID, Angle: angle, StartSector: start, LastSector: last})
	}
	return entries, nil
}

func audioCodingFromBits(b uint8) AudioCoding {
	switch b {
	case 0:
		return AudioAC3
	case 2:
		return AudioMPEG1
	case 3:
		return AudioMPEG2
	case 4:
		return AudioLPCM
	case 6:
		return AudioDTS
	default:
		return AudioUnknown
	}
}

func sampleRateFromBits(b uint8) int {
	if b == 0 {
		return 48000
	}
	return 96000
}

func languageFromBytes(a, b byte) language.Base {
	if a == 0 || b == 0 {
		base, _ := language.ParseBase("und")
		return base
	}
	base, err := language.ParseBase(string([]byte{a, b}))
	if err != nil {
		base, _ = language.ParseBase("und")
	}
	return base
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
