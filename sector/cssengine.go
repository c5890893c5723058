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

package sector

// Flag constants for the CSS native library's seek and read entry
// points, per the ABI contract.
const (
	cssNoFlags     = 0
	cssReadDecrypt = 1
	cssSeekMPEG    = 1
	cssSeekKey     = 2
)

// cssLibrary is the Go-side view of the dynamically loaded CSS native
// library: five C-calling-convention entry points bound once, during
// Open, and never re-resolved in the hot path.
type cssLibrary interface {
	// open returns a non-zero handle on success.
	open(device string) (handle uintptr, err error)
	close(handle uintptr) error
	// seek returns the resulting sector, or an error on negative status.
	seek(handle uintptr, sector uint32, flags int) (uint32, error)
	// read returns the number of sectors actually read.
	read(handle uintptr, buf []byte, sectors int, flags int) (int, error)
	lastError(handle uintptr) string
}

// cssLibraryPath is the expected location named in DecryptionUnavailable
// messages. Platform files override it with their native extension.
var cssLibraryPath = "libcss"
