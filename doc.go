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

// Package dvdrip is the core of a DVD-Video ripping tool: it decodes a
// VIDEO_TS tree's IFO metadata, resolves a title and chapter range to
// an ordered sector playlist, and streams that playlist - optionally
// CSS-decrypted - into a single concatenated MPEG program stream.
//
// The command-line front end, interactive UI, CSS cryptographic
// engine, transcoder, and drive discovery are external collaborators;
// this package only exposes the Rip entry point and the types needed
// to drive it.
package dvdrip
