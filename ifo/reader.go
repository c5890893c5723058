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

// Package ifo decodes the binary IFO metadata tables of a DVD-Video
// VIDEO_TS tree (VIDEO_TS.IFO and VTS_nn_0.IFO) into a Disc model.
package ifo

import (
	"encoding/binary"
	"time"

	"github.com/dvdripgo/dvdrip/dvderr"
)

// sectorSize is the fixed DVD addressing unit. IFO sector pointers are
// multiplied by this to obtain a byte offset within the same file.
const sectorSize = 2048

// reader is a bounds-checked big-endian cursor over an in-memory IFO
// image. IFO files are small (typically under 1 MB), so the whole file
// is held in memory rather than streamed.
type reader struct {
	buf  []byte
	file string
}

func newReader(buf []byte, file string) *reader {
	return &reader{buf: buf, file: file}
}

func (r *reader) len() int {
	return len(r.buf)
}

// u16 decodes a big-endian uint16 at off.
func (r *reader) u16(off int) (uint16, error) {
	if off < 0 || off+2 > len(r.buf) {
		return 0, dvderr.ErrTruncated
	}
	return binary.BigEndian.Uint16(r.buf[off : off+2]), nil
}

// u32 decodes a big-endian uint32 at off.
func (r *reader) u32(off int) (uint32, error) {
	if off < 0 || off+4 > len(r.buf) {
		return 0, dvderr.ErrTruncated
	}
	return binary.BigEndian.Uint32(r.buf[off : off+4]), nil
}

// u8 reads a single byte at off.
func (r *reader) u8(off int) (uint8, error) {
	if off < 0 || off+1 > len(r.buf) {
		return 0, dvderr.ErrTruncated
	}
	return r.buf[off], nil
}

// bytes returns a copy of n bytes at off.
func (r *reader) bytes(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(r.buf) {
		return nil, dvderr.ErrTruncated
	}
	out := make([]byte, n)
	copy(out, r.buf[off:off+n])
	return out, nil
}

// ascii reads a fixed-length ASCII tag at off.
func (r *reader) ascii(off, n int) (string, error) {
	b, err := r.bytes(off, n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// sectorOffset converts a sector pointer read from the IFO (a u32 at
// off) into an absolute byte offset within the same file.
func (r *reader) sectorOffset(off int) (int, error) {
	sector, err := r.u32(off)
	if err != nil {
		return 0, err
	}
	return int(sector) * sectorSize, nil
}

// bcdByte decodes one binary-coded-decimal byte. Matches hardware: out
// of range digits (>9) are not rejected, only combined arithmetically.
func bcdByte(b byte) int {
	return int((b>>4)&0xF)*10 + int(b&0xF)
}

// bcdDuration reads the 4-byte HH MM SS FF duration encoding used
// throughout IFO tables. FF's low 6 bits hold a frame count and its top
// 2 bits select the frame rate: 11 -> 30fps (NTSC), 10 -> 25fps (PAL);
// any other value is treated as PAL.
func (r *reader) bcdDuration(off int) (time.Duration, error) {
	b, err := r.bytes(off, 4)
	if err != nil {
		return 0, err
	}
	hh := bcdByte(b[0])
	mm := bcdByte(b[1])
	ss := bcdByte(b[2])
	frames := int(b[3] & 0x3F)
	fps := 25
	if b[3]>>6 == 0x3 {
		fps = 30
	}
	total := time.Duration(hh)*time.Hour +
		time.Duration(mm)*time.Minute +
		time.Duration(ss)*time.Second
	if fps > 0 {
		total += time.Duration(frames) * time.Second / time.Duration(fps)
	}
	return total, nil
}

func (r *reader) corrupt(reason string) error {
	return &dvderr.CorruptIfo{File: r.file, Reason: reason}
}
