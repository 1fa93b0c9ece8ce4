// Atlas Core
// Copyright (c) 2026 The Atlas Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Atlas Core.
//
// Atlas Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Atlas Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Atlas Core.  If not, see <http://www.gnu.org/licenses/>.

package playtime

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// ProcessChecker reports whether an executable is currently running,
// matched by base name.
type ProcessChecker interface {
	IsRunning(baseName string) bool
}

// SystemProcessChecker polls the OS process list through gopsutil.
type SystemProcessChecker struct{}

func NewSystemProcessChecker() SystemProcessChecker {
	return SystemProcessChecker{}
}

func (SystemProcessChecker) IsRunning(baseName string) bool {
	if baseName == "" {
		return false
	}

	procs, err := process.Processes()
	if err != nil {
		log.Warn().Err(err).Msg("error listing processes")
		return false
	}

	for _, p := range procs {
		// Name errors are routine: processes exit between listing and
		// inspection, and some are simply not ours to read.
		name, err := p.Name()
		if err != nil {
			continue
		}
		if strings.EqualFold(name, baseName) {
			return true
		}
	}
	return false
}
