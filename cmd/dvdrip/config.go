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

package main

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// decodeTOMLFile reads and unmarshals a TOML config file into dst.
func decodeTOMLFile(path string, dst *config) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return toml.Unmarshal(buf, dst)
}
