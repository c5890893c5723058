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

// Package sector implements the Source capability: reading raw DVD
// sectors either through a CSS-aware native handle or by translating
// logical sectors into file+offset pairs across a segmented VOB file
// set. The variant is fixed at construction and never changes
// thereafter.
package sector

import "context"

// SectorSize is the fixed DVD addressing unit.
const SectorSize = 2048

// Source is the capability the rip engine drives. Both variants
// (CSS-handle and file-backed) satisfy it identically; dispatch
// happens once, at construction, never inside the hot loop.
type Source interface {
	// Open prepares the source for reading. Idempotent: safe to call
	// again as long as Close was called in between.
	Open(ctx context.Context) error

	// Seek positions the cursor at sector. When requestKey is true the
	// source must, if it supports decryption, negotiate the title key
	// for the cell starting at sector before the next Read.
	Seek(sector uint32, requestKey bool) error

	// Read fills up to sectorCount sectors (sectorCount*2048 bytes) into
	// buf, returning the number of sectors actually read. Short reads are permitted; the
	// caller loops. When decrypt is true the source descrambles the
	// returned bytes.
	Read(buf []byte, sectorCount int, decrypt bool) (sectorsRead int, err error)

	// Close releases any native handle or open file descriptors.
	Close() error

	// SupportsDecryption reports whether this source variant can
	// descramble CSS-protected payload.
	SupportsDecryption() bool
}
