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

package helpers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FSHelper provides utilities for filesystem mocking in tests
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// WriteFile writes content to path, creating parent directories
func (h *FSHelper) WriteFile(path, content string) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(h.Fs, path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// WriteExe creates a fake executable of the given size at path
func (h *FSHelper) WriteExe(path string, size int) error {
	return h.WriteFile(path, strings.Repeat("x", size))
}

// CreateGameDirectory creates a game folder containing a main executable
// plus the usual helper-binary noise found alongside real games
func (h *FSHelper) CreateGameDirectory(dir, exeName string, exeSize int) error {
	if err := h.WriteExe(filepath.Join(dir, exeName), exeSize); err != nil {
		return err
	}

	noise := []string{
		"UnityCrashHandler64.exe",
		"unins000.exe",
	}
	for _, name := range noise {
		if err := h.WriteExe(filepath.Join(dir, name), 64*1024); err != nil {
			return err
		}
	}
	return nil
}
