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

// Package dvderr defines the error taxonomy shared by every stage of the
// rip pipeline: byte reader, IFO decoder, title resolver, sector source,
// and rip engine. Kinds are distinguished by type or sentinel value, not
// by message text, so callers can use errors.Is / errors.As across
// package boundaries.
package dvderr

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when a fixed-width read would run past the
// end of an in-memory IFO image.
var ErrTruncated = errors.New("truncated")

// ErrInvalidRequest is returned when a RipRequest names a title number
// or chapter range that does not exist on the parsed disc.
var ErrInvalidRequest = errors.New("invalid request")

// ErrCapabilityViolation is returned when the engine asks a sector
// source to decrypt and the source does not support decryption.
var ErrCapabilityViolation = errors.New("capability violation: source does not support decryption")

// ErrCancelled is returned when a rip is aborted by a cooperative
// cancellation signal.
var ErrCancelled = errors.New("cancelled")

// CorruptIfo reports a structurally invalid IFO file: a bad magic, an
// offset that falls outside the file, or an internally inconsistent
// count.
type CorruptIfo struct {
	File   string
	Reason string
}

func (e *CorruptIfo) Error() string {
	return fmt.Sprintf("corrupt ifo %s: %s", e.File, e.Reason)
}

// MissingFile reports that a VTS IFO or VOB file the decoder or sector
// source needed to open does not exist.
type MissingFile struct {
	Path string
}

func (e *MissingFile) Error() string {
	return fmt.Sprintf("missing file: %s", e.Path)
}

// DecryptionUnavailable reports that the CSS native library could not
// be loaded or opened. Message names the artifact the caller is
// missing and, where known, its expected location.
type DecryptionUnavailable struct {
	Message string
}

func (e *DecryptionUnavailable) Error() string {
	return "decryption unavailable: " + e.Message
}

// SectorRead reports a native read failure or a premature end of data
// in the middle of a cell.
type SectorRead struct {
	Sector uint32
	Reason string
}

func (e *SectorRead) Error() string {
	return fmt.Sprintf("sector read failed at sector %d: %s", e.Sector, e.Reason)
}

// IoWrite reports a failure creating, writing, or flushing the
// destination file.
type IoWrite struct {
	Path string
	Err  error
}

func (e *IoWrite) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *IoWrite) Unwrap() error {
	return e.Err
}
