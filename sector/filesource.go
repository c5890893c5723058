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

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/dvdripgo/dvdrip/dvderr"
)

// vobSegment is one VOB file's span within the contiguous logical
// sector numbering FileSource exposes, counted from 0 across every
// segment in lexical filename order.
type vobSegment struct {
	path        string
	firstSector uint32
	lastSector  uint32
}

// FileSource is the file-backed sector source variant: it
// reads sectors directly out of the VTS's VOB files, exploiting the
// fact that, for an honestly authored disc, unencrypted VOB bytes
// concatenate in on-disc logical sector order.
type FileSource struct {
	fs         afero.Fs
	videoTsDir string
	vtsNumber  int

	segments []vobSegment
	cursor   uint32

	open afero.File
	seg  int
}

// NewFileSource constructs a file-backed source over the VIDEO_TS
// directory videoTsDir for the given VTS number. fs defaults to the OS
// filesystem when nil.
func NewFileSource(fs afero.Fs, videoTsDir string, vtsNumber int) *FileSource {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSource{fs: fs, videoTsDir: videoTsDir, vtsNumber: vtsNumber}
}

func (s *FileSource) Open(ctx context.Context) error {
	names, err := s.vobFileNames()
	if err != nil {
		return err
	}
	var cursor uint32
	segments := make([]vobSegment, 0, len(names))
	for _, name := range names {
		info, err := s.fs.Stat(name)
		if err != nil {
			return &dvderr.MissingFile{Path: name}
		}
		sectors := uint32(info.Size() / SectorSize)
		if sectors == 0 {
			continue
		}
		segments = append(segments, vobSegment{
			path:        name,
			firstSector: cursor,
			lastSector:  cursor + sectors - 1,
		})
		cursor += sectors
	}
	s.segments = segments
	s.seg = -1
	return nil
}

// vobFileNames returns every VTS_nn_m.VOB file (m in 1..9) for this
// VTS, in lexical order, excluding the menu VOB VTS_nn_0.VOB.
func (s *FileSource) vobFileNames() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.videoTsDir)
	if err != nil {
		return nil, err
	}
	prefix := fmt.Sprintf("VTS_%02d_", s.vtsNumber)
	var names []string
	for _, e := range entries {
		upper := strings.ToUpper(e.Name())
		if !strings.HasPrefix(upper, prefix) || !strings.HasSuffix(upper, ".VOB") {
			continue
		}
		mPart := strings.TrimSuffix(strings.TrimPrefix(upper, prefix), ".VOB")
		m, err := strconv.Atoi(mPart)
		if err != nil || m == 0 {
			continue // menu VOB (m=0) or unparseable name, skip
		}
		names = append(names, s.videoTsDir+"/"+e.Name())
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, &dvderr.MissingFile{Path: fmt.Sprintf("%s/%sN.VOB", s.videoTsDir, prefix)}
	}
	return names, nil
}

func (s *FileSource) Seek(sector uint32, _ bool) error {
	s.cursor = sector
	return nil
}

// Read fills buf from the current cursor, opening and closing VOB
// file handles as the cursor crosses segment boundaries. A single call
// may span multiple files.
func (s *FileSource) Read(buf []byte, sectorCount int, decrypt bool) (int, error) {
	if decrypt {
		return 0, dvderr.ErrCapabilityViolation
	}
	remaining := sectorCount
	read := 0
	for remaining > 0 {
		idx, offsetInSeg, err := s.locate(s.cursor)
		if err != nil {
			return read, err
		}
		if err := s.ensureOpen(idx); err != nil {
			return read, err
		}
		seg := s.segments[idx]
		segSectorsLeft := seg.lastSector - seg.firstSector + 1 - offsetInSeg
		chunk := remaining
		if uint32(chunk) > segSectorsLeft {
			chunk = int(segSectorsLeft)
		}

		dst := buf[read*SectorSize : (read+chunk)*SectorSize]
		n, err := s.open.ReadAt(dst, int64(offsetInSeg)*SectorSize)
		if err != nil && n == 0 {
			return read, &dvderr.SectorRead{Sector: s.cursor, Reason: err.Error()}
		}
		got := n / SectorSize
		if got == 0 {
			return read, &dvderr.SectorRead{Sector: s.cursor, Reason: "short read"}
		}
		read += got
		remaining -= got
		s.cursor += uint32(got)
		if got < chunk {
			break
		}
	}
	return read, nil
}

// locate finds which segment contains sector and the sector's offset
// within that segment.
func (s *FileSource) locate(sector uint32) (idx int, offsetInSegment uint32, err error) {
	for i, seg := range s.segments {
		if sector >= seg.firstSector && sector <= seg.lastSector {
			return i, sector - seg.firstSector, nil
		}
	}
	return 0, 0, &dvderr.SectorRead{Sector: sector, Reason: "sector outside any VOB segment"}
}

func (s *FileSource) ensureOpen(idx int) error {
	if s.seg == idx && s.open != nil {
		return nil
	}
	if s.open != nil {
		_ = s.open.Close()
		s.open = nil
	}
	f, err := s.fs.Open(s.segments[idx].path)
	if err != nil {
		return &dvderr.MissingFile{Path: s.segments[idx].path}
	}
	s.open = f
	s.seg = idx
	return nil
}

func (s *FileSource) Close() error {
	s.segments = nil
	if s.open != nil {
		err := s.open.Close()
		s.open = nil
		s.seg = -1
		return err
	}
	return nil
}

func (s *FileSource) SupportsDecryption() bool {
	return false
}

var _ Source = (*FileSource)(nil)
