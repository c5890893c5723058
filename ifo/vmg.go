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

const vmgMagic = "DVDVIDEO-VMG"

const (
	vmgOffTTSRPT = 0xC4
)

// parseVMG decodes the global title table (TT_SRPT) out of a
// VIDEO_TS.IFO image.
func parseVMG(buf []byte) ([]TitleEntry, error) {
	r := newReader(buf, "VIDEO_TS.IFO")

	magic, err := r.ascii(0, len(vmgMagic))
	if err != nil {
		return nil, err
	}
	if magic != vmgMagic {
		return nil, r.corrupt("bad magic")
	}

	ttsrpt, err := r.sectorOffset(vmgOffTTSRPT)
	if err != nil {
		return nil, err
	}

	titleCount, err := r.u16(ttsrpt)
	if err != nil {
		return nil, err
	}

	entries := make([]TitleEntry, 0, titleCount)
	for i := 0; i < int(titleCount); i++ {
		base := ttsrpt + 8 + 12*i

		angleCount, err := r.u8(base + 1)
		if err != nil {
			return nil, err
		}
		chapterCount, err := r.u16(base + 2)
		if err != nil {
			return nil, err
		}
		vtsNumber, err := r.u8(base + 6)
		if err != nil {
			return nil, err
		}
		titleInVTS, err := r.u8(base + 7)
		if err != nil {
			return nil, err
		}
		entrySector, err := r.u32(base + 8)
		if err != nil {
			return nil, err
		}

		entries = append(entries, TitleEntry{
			TitleNumber:    i + 1,
			VTSNumber:      int(vtsNumber),
			TitleInVTS:     int(titleInVTS),
			ChapterCount:   int(chapterCount),
			AngleCount:     int(angleCount),
			VTSEntrySector: entrySector,
		})
	}
	return entries, nil
}
