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

package dvdrip

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dvdripgo/dvdrip/dvderr"
	"github.com/dvdripgo/dvdrip/ifo"
	"github.com/dvdripgo/dvdrip/resolve"
	"github.com/dvdripgo/dvdrip/ripper"
	"github.com/dvdripgo/dvdrip/sector"
)

// ChapterRange selects an inclusive, 1-based chapter span.
type ChapterRange = resolve.ChapterRange

// Progress reports (bytes_written, bytes_total) after each batch.
type Progress = ripper.Progress

// ProgressFunc receives Progress updates in strict, non-regressing order.
type ProgressFunc = ripper.ProgressFunc

// SectorRange is a contiguous [Start, Last] span of logical sectors.
type SectorRange = resolve.SectorRange

// Disc is the parsed disc model produced by decoding a VIDEO_TS tree.
type Disc = ifo.Disc

// Title is a fully parsed title.
type Title = ifo.Title

// TitleSummary is a listing-friendly projection of a Title.
type TitleSummary = ifo.TitleSummary

// RipRequest is the input to Rip: a resolved selection of what to rip,
// where from, and where to write it. It carries no
// environment-derived configuration; every field is explicit.
type RipRequest struct {
	// VideoTsPath is the directory containing VIDEO_TS.IFO and the
	// VTS_nn_0.IFO/VOB files.
	VideoTsPath string
	// RawDevicePath is the raw device (e.g. /dev/sr0, \\.\D:) backing
	// the CSS-handle source. Required iff Decrypt is true.
	RawDevicePath string
	// CSSLibraryPath overrides the native CSS library's default search
	// location. Empty uses the platform default.
	CSSLibraryPath string
	// TitleNumber is the 1-based title to rip, as assigned by TT_SRPT.
	TitleNumber int
	// ChapterRange optionally restricts the rip to an inclusive,
	// 1-based chapter span. Nil selects the whole title.
	ChapterRange *ChapterRange
	// Decrypt requests CSS descrambling through the raw-device source.
	Decrypt bool
	// Destination is the path the concatenated MPEG program stream is
	// written to. Any existing content is truncated.
	Destination string
}

// OpenDisc decodes the VIDEO_TS tree at videoTsPath into a Disc. logger
// may be nil, in which case slog.Default() is used. Titles whose VTS
// file is missing are skipped with a logged warning rather than
// aborting the whole pass.
func OpenDisc(videoTsPath string, logger *slog.Logger) (*Disc, error) {
	return ifo.Decode(videoTsPath, logger)
}

// Rip executes the five-stage pipeline end to end: it resolves
// req.TitleNumber/req.ChapterRange against the disc at
// req.VideoTsPath, constructs the sector source matching req.Decrypt,
// and streams the playlist to req.Destination, invoking onProgress
// after every batch. On success it returns req.Destination; on any
// failure, including cancellation via ctx, the partial destination
// file is removed and the original error is returned.
//
// onProgress and logger may both be nil.
func Rip(ctx context.Context, req RipRequest, onProgress ProgressFunc, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	disc, err := ifo.Decode(req.VideoTsPath, logger)
	if err != nil {
		return "", fmt.Errorf("decode video_ts tree: %w", err)
	}

	title, ok := disc.Title(req.TitleNumber)
	if !ok {
		return "", fmt.Errorf("title %d not found on disc: %w", req.TitleNumber, dvderr.ErrInvalidRequest)
	}

	playlist, err := resolve.Playlist(title, req.ChapterRange)
	if err != nil {
		return "", fmt.Errorf("resolve playlist: %w", err)
	}

	src, err := newSource(disc, req)
	if err != nil {
		return "", err
	}

	engine := ripper.New(src, req.Destination, req.Decrypt, onProgress, logger)
	if err := engine.Run(ctx, playlist); err != nil {
		return "", err
	}
	return req.Destination, nil
}

// newSource constructs the sector source matching req.Decrypt.
// Decryption being requested always selects the CSS-handle variant,
// even if the title's VTS advertises no
// encryption: the variant degrades to passthrough rather than the
// engine second-guessing the request.
func newSource(disc *Disc, req RipRequest) (sector.Source, error) {
	if req.Decrypt {
		if req.RawDevicePath == "" {
			return nil, fmt.Errorf("decrypt requested without raw_device_path: %w", dvderr.ErrInvalidRequest)
		}
		return sector.NewCSSSource(req.RawDevicePath, req.CSSLibraryPath), nil
	}

	var vtsNumber int
	for _, te := range disc.TitleEntries {
		if te.TitleNumber == req.TitleNumber {
			vtsNumber = te.VTSNumber
			break
		}
	}
	if vtsNumber == 0 {
		return nil, fmt.Errorf("title %d has no VTS entry: %w", req.TitleNumber, dvderr.ErrInvalidRequest)
	}
	return sector.NewFileSource(nil, req.VideoTsPath, vtsNumber), nil
}
