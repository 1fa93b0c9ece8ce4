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

// Package launchers discovers installed titles through third-party
// launcher metadata stores. Adapters are trusted sources: their output is
// not run through the name classifier.
package launchers

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Adapter scans one launcher's metadata store. A missing installation is
// not an error: Scan returns an empty list.
type Adapter interface {
	ID() catalog.Launcher
	Scan(ctx context.Context) ([]catalog.CandidateEntry, error)
}

// Report summarizes which sources contributed to a scan, for callers that
// want to present partial-success status.
type Report struct {
	Succeeded []catalog.Launcher
	Failed    []catalog.Launcher
}

// RunAll runs every adapter concurrently, each under its own timeout.
// One adapter's failure or timeout drops only that adapter's results; the
// aggregate scan always completes.
func RunAll(ctx context.Context, adapters []Adapter, timeout time.Duration) ([]catalog.CandidateEntry, Report) {
	var (
		mu      syncutil.Mutex
		results []catalog.CandidateEntry
		report  Report
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, adapter := range adapters {
		adapter := adapter
		g.Go(func() error {
			scanCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				scanCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			entries, err := adapter.Scan(scanCtx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error().Err(err).Str("launcher", string(adapter.ID())).Msg("adapter scan failed")
				report.Failed = append(report.Failed, adapter.ID())
				return nil
			}
			log.Info().
				Str("launcher", string(adapter.ID())).
				Int("count", len(entries)).
				Msg("adapter scan complete")
			results = append(results, entries...)
			report.Succeeded = append(report.Succeeded, adapter.ID())
			return nil
		})
	}
	// Goroutines only return nil; Wait is for joining.
	_ = g.Wait()

	return results, report
}

// largestExe returns the biggest executable directly inside dir. Used by
// adapters whose launcher keeps no per-game manifest and games must be
// resolved by folder convention.
func largestExe(fs afero.Fs, dir string) (string, bool) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", false
	}

	var name string
	var size int64 = -1
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".exe") {
			continue
		}
		if entry.Size() > size {
			name, size = entry.Name(), entry.Size()
		}
	}

	if name == "" {
		return "", false
	}
	return filepath.Join(dir, name), true
}

// slugID derives a stable fallback identifier from a folder name, for
// launcher entries without a native ID. Repeated scans of the same install
// map to the same catalog row.
func slugID(launcher catalog.Launcher, name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return string(launcher) + "-" + strings.Trim(b.String(), "-")
}
