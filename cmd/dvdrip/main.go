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

// Command dvdrip rips a title (optionally a chapter range) from a
// VIDEO_TS tree into a concatenated MPEG program stream. It is a thin
// external collaborator around the dvdrip core: it parses flags,
// resolves an on-disk config, renders progress to a terminal, and
// invokes dvdrip.Rip.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/dvdripgo/dvdrip"
	"github.com/dvdripgo/dvdrip/dvderr"
)

var (
	videoTsPath   = flag.String("i", "", "path to the VIDEO_TS directory (required)")
	titleNumber   = flag.Int("title", 1, "1-based title number to rip")
	chapterStart  = flag.Int("chapter-start", 0, "1-based first chapter to rip (0 = whole title)")
	chapterEnd    = flag.Int("chapter-end", 0, "1-based last chapter to rip (0 = whole title)")
	decrypt       = flag.Bool("decrypt", false, "decrypt through CSS (requires -device)")
	devicePath    = flag.String("device", "", "raw device path for CSS decryption, e.g. /dev/sr0")
	cssLibrary    = flag.String("css-lib", "", "override the CSS native library search path")
	destination   = flag.String("o", "", "destination file path (default: a generated temp file)")
	outputDir     = flag.String("outdir", "", "directory for the generated temp file when -o is omitted")
	configPath    = flag.String("config", "", "path to an optional TOML config file")
	listTitles    = flag.Bool("list", false, "list titles on the disc and exit")
	jsonOutput    = flag.Bool("json", false, "emit -list output as JSON")
	quiet         = flag.Bool("quiet", false, "suppress the progress bar")
	version       = flag.Bool("version", false, "print version and exit")
)

const appVersion = "0.1.0"

// config is the optional on-disk configuration consumed by the CLI,
// not by the core; RipRequest is the only configuration surface the
// core consumes.
type config struct {
	OutputDir string `toml:"output_dir"`
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -i <VIDEO_TS dir> -title <n> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Rips a title from a DVD-Video VIDEO_TS tree to a raw MPEG program stream.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i /media/dvd/VIDEO_TS -list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i /media/dvd/VIDEO_TS -title 3 -chapter-start 2 -chapter-end 4 -o movie.mpg\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i /media/dvd/VIDEO_TS -title 3 -decrypt -device /dev/sr0\n", os.Args[0])
	}
	flag.Parse()

	if *version {
		fmt.Printf("dvdrip version %s\n", appVersion)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *videoTsPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -i (VIDEO_TS path) is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg := loadConfig(*configPath, logger)

	disc, err := dvdrip.OpenDisc(*videoTsPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *listTitles {
		printTitles(disc, *jsonOutput)
		return
	}

	dest := *destination
	if dest == "" {
		dir := *outputDir
		if dir == "" {
			dir = cfg.OutputDir
		}
		if dir == "" {
			dir = os.TempDir()
		}
		dest = filepath.Join(dir, fmt.Sprintf("dvdrip-%s.mpg", uuid.NewString()))
	}

	req := dvdrip.RipRequest{
		VideoTsPath:    *videoTsPath,
		RawDevicePath:  *devicePath,
		CSSLibraryPath: *cssLibrary,
		TitleNumber:    *titleNumber,
		Decrypt:        *decrypt,
		Destination:    dest,
	}
	if *chapterStart > 0 || *chapterEnd > 0 {
		req.ChapterRange = &dvdrip.ChapterRange{First: *chapterStart, Last: *chapterEnd}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bar *progressbar.ProgressBar
	onProgress := func(p dvdrip.Progress) {
		if *quiet {
			return
		}
		if bar == nil {
			bar = progressbar.DefaultBytes(p.BytesTotal, "ripping")
		}
		_ = bar.Set64(p.BytesWritten)
	}

	path, err := dvdrip.Rip(ctx, req, onProgress, logger)
	if err != nil {
		if errors.Is(err, dvderr.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "\nRip cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		os.Exit(1)
	}

	if bar != nil {
		_ = bar.Finish()
	}
	fmt.Printf("\nWrote %s (%s)\n", path, humanizeSize(path))
}

func humanizeSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown size"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func loadConfig(path string, logger *slog.Logger) config {
	var cfg config
	if path == "" {
		return cfg
	}
	if err := decodeTOMLFile(path, &cfg); err != nil {
		logger.Warn("failed to load config, using defaults", slog.String("path", path), slog.Any("error", err))
	}
	return cfg
}

func printTitles(disc *dvdrip.Disc, asJSON bool) {
	summaries := disc.Titles()
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(summaries)
		return
	}
	for _, s := range summaries {
		fmt.Printf("Title %d: %s, %d chapters", s.TitleNumber, s.Duration, s.ChapterCount)
		if s.CSSProtected {
			fmt.Print(" [CSS]")
		}
		fmt.Println()
		if len(s.AudioLanguages) > 0 {
			fmt.Printf("  Audio: %v\n", s.AudioLanguages)
		}
		if len(s.SubtitleLanguages) > 0 {
			fmt.Printf("  Subtitles: %v\n", s.SubtitleLanguages)
		}
	}
}
