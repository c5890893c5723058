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

// Package ripper drives a sector.Source over a resolved playlist,
// concatenating sectors into a single destination file, emitting
// progress, honouring cancellation, and guaranteeing cleanup on
// failure.
package ripper

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/gofrs/flock"

	"github.com/dvdripgo/dvdrip/dvderr"
	"github.com/dvdripgo/dvdrip/resolve"
	"github.com/dvdripgo/dvdrip/sector"
)

// readBatch is the number of sectors read per Source.Read call: a
// tradeoff between syscall overhead and progress granularity. It is
// not exposed as public API.
const readBatch = 64

// Progress is delivered after every successful batch write. BytesTotal
// is the a-priori sum of sector_count*2048 across the whole playlist.
type Progress struct {
	BytesWritten int64
	BytesTotal   int64
}

// ProgressFunc receives Progress updates in strict, non-regressing
// order.
type ProgressFunc func(Progress)

// Engine drives a single rip from a resolved playlist against a fixed
// sector.Source to a destination path.
type Engine struct {
	Source      sector.Source
	Destination string
	Decrypt     bool
	OnProgress  ProgressFunc
	Logger      *slog.Logger
}

// New constructs an Engine. logger may be nil, in which case
// slog.Default() is used.
func New(src sector.Source, destination string, decrypt bool, onProgress ProgressFunc, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if onProgress == nil {
		onProgress = func(Progress) {}
	}
	return &Engine{
		Source:      src,
		Destination: destination,
		Decrypt:     decrypt,
		OnProgress:  onProgress,
		Logger:      logger,
	}
}

// Run executes the rip: open the source, create the destination,
// stream every SectorRange of playlist in order, and clean up the
// partial file on any failure or cancellation after creation. The
// caller retains a single Source instance across the whole rip; Run
// never reconstructs the source mid-loop.
func (e *Engine) Run(ctx context.Context, playlist []resolve.SectorRange) (err error) {
	if e.Decrypt && !e.Source.SupportsDecryption() {
		return dvderr.ErrCapabilityViolation
	}

	if err := e.Source.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := e.Source.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bytesTotal := resolve.BytesTotal(playlist)

	f, err := os.Create(e.Destination)
	if err != nil {
		return &dvderr.IoWrite{Path: e.Destination, Err: err}
	}

	lock := flock.New(e.Destination)
	locked, err := lock.TryLock()
	if err == nil && !locked {
		err = errors.New("destination is locked by another process")
	}
	if err != nil {
		_ = f.Close()
		_ = os.Remove(e.Destination)
		return &dvderr.IoWrite{Path: e.Destination, Err: err}
	}

	created := true
	defer func() {
		if err != nil && created {
			_ = lock.Unlock()
			_ = f.Close()
			if rmErr := os.Remove(e.Destination); rmErr != nil && !os.IsNotExist(rmErr) {
				e.Logger.Warn("failed to remove partial rip file",
					slog.String("path", e.Destination), slog.Any("error", rmErr))
			}
		}
	}()

	buf := make([]byte, readBatch*sector.SectorSize)
	var bytesWritten int64

	for _, rng := range playlist {
		if cerr := ctx.Err(); cerr != nil {
			return mapCancellation(cerr)
		}

		if serr := e.Source.Seek(rng.Start, e.Decrypt); serr != nil {
			return serr
		}

		remaining := int(rng.SectorCount())
		sector0 := rng.Start
		for remaining > 0 {
			if cerr := ctx.Err(); cerr != nil {
				return mapCancellation(cerr)
			}

			chunk := remaining
			if chunk > readBatch {
				chunk = readBatch
			}

			n, rerr := e.Source.Read(buf, chunk, e.Decrypt)
			if rerr != nil {
				return rerr
			}
			if n <= 0 {
				return &dvderr.SectorRead{Sector: sector0, Reason: "read returned no sectors"}
			}

			if cerr := ctx.Err(); cerr != nil {
				return mapCancellation(cerr)
			}

			nbytes := n * sector.SectorSize
			if _, werr := f.Write(buf[:nbytes]); werr != nil {
				return &dvderr.IoWrite{Path: e.Destination, Err: werr}
			}

			bytesWritten += int64(nbytes)
			sector0 += uint32(n)
			remaining -= n

			e.OnProgress(Progress{BytesWritten: bytesWritten, BytesTotal: bytesTotal})
		}
	}

	if serr := f.Sync(); serr != nil {
		return &dvderr.IoWrite{Path: e.Destination, Err: serr}
	}
	if cerr := f.Close(); cerr != nil {
		return &dvderr.IoWrite{Path: e.Destination, Err: cerr}
	}
	if uerr := lock.Unlock(); uerr != nil {
		e.Logger.Warn("failed to release destination lock",
			slog.String("path", e.Destination), slog.Any("error", uerr))
	}
	created = false

	return nil
}

func mapCancellation(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return dvderr.ErrCancelled
	}
	return err
}
