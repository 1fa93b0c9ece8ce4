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

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Store persists the catalog as a single JSON document. Save is a
// full-replace operation; load of a missing file yields an empty catalog.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a store backed by fs at path.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the on-disk location of the catalog document.
func (s *Store) Path() string {
	return s.path
}

// Load reads all catalog records. A missing catalog file is not an error.
func (s *Store) Load() ([]CatalogRecord, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", s.path).Msg("no catalog file, starting empty")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var records []CatalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	return records, nil
}

// Save replaces the persisted catalog. The document is written to a temp
// file and renamed into place so a failed write never truncates the
// existing catalog.
func (s *Store) Save(records []CatalogRecord) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		if removeErr := s.fs.Remove(tmpPath); removeErr != nil {
			log.Warn().Err(removeErr).Msgf("error removing temp catalog: %s", tmpPath)
		}
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	return nil
}
