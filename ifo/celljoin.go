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

import "log/slog"

// joinCells resolves each PGC cell-playback entry to a CellRef by
// locating its C_ADT counterpart. Three tiers, in order:
//
//  1. exact match on (start_sector, last_sector)
//  2. the C_ADT entry that fully contains the PGC sector range
//  3. a synthesized CellRef (vob_id=1, angle=0) using the PGC sectors
//     directly
//
// The third tier keeps a malformed disc playable but is logged, since
// it means the disc's C_ADT and PGC tables disagree.
func joinCells(cells []pgcCell, cadt []cadtEntry, logger *slog.Logger, file string) []CellRef {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]CellRef, 0, len(cells))
	for i, c := range cells {
		if entry, ok := exactMatch(cadt, c); ok {
			out = append(out, refFromEntry(entry, c))
			continue
		}
		if entry, ok := containingMatch(cadt, c); ok {
			out = append(out, refFromEntry(entry, c))
			continue
		}
		logger.Warn("C_ADT fallback: synthesizing cell reference",
			slog.String("file", file),
			slog.Int("cell_index", i+1),
			slog.Uint64("start_sector", uint64(c.StartSector)),
			slog.Uint64("last_sector", uint64(c.LastSector)))
		out = append(out, CellRef{
			VobID:       1,
			CellID:      uint8(i + 1),
			Angle:       0,
			CellType:    c.CellType,
			StartSector: c.StartSector,
			LastSector:  c.LastSector,
			Duration:    c.Duration,
		})
	}
	return out
}

func exactMatch(cadt []cadtEntry, c pgcCell) (cadtEntry, bool) {
	for _, e := range cadt {
		if e.StartSector == c.StartSector && e.LastSector == c.LastSector {
			return e, true
		}
	}
	return cadtEntry{}, false
}

func containingMatch(cadt []cadtEntry, c pgcCell) (cadtEntry, bool) {
	for _, e := range cadt {
		if e.StartSector <= c.StartSector && e.LastSector >= c.LastSector {
			return e, true
		}
	}
	return cadtEntry{}, false
}

func refFromEntry(e cadtEntry, c pgcCell) CellRef {
	return CellRef{
		VobID:       e.VobID,
		CellID:      e.CellID,
		Angle:       e.Angle,
		CellType:    c.CellType,
		StartSector: c.StartSector,
		LastSector:  c.LastSector,
		Duration:    c.Duration,
	}
}
