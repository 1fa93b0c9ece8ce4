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

// Package walker discovers executable candidates by walking directory
// trees with an explicit depth budget.
package walker

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/scanner/classify"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// junkDirNames are skipped without descending: hidden directories, caches
// and package stores that are all noise and often huge.
var junkDirNames = map[string]struct{}{
	"node_modules": {},
	"__pycache__":  {},
	"cache":        {},
	"caches":       {},
	"temp":         {},
	"tmp":          {},
	"logs":         {},
	"crashdumps":   {},
}

// deepScanDirs are the curated game-convention directories DeepScan visits
// under each root. Raw Program-Files-equivalents and OS directories are
// deliberately absent.
var deepScanDirs = []string{
	"Games",
	"My Games",
	"GOG Games",
	"Epic Games",
	filepath.Join("SteamLibrary", "steamapps", "common"),
	filepath.Join("Steam", "steamapps", "common"),
}

// Walker produces desktop candidates from directory trees. Every
// discovered executable passes through the classifier before being
// considered, and per-directory failures never abort a walk.
type Walker struct {
	fs         afero.Fs
	classifier *classify.Classifier
	minExeSize int64
}

func New(fs afero.Fs, classifier *classify.Classifier, minExeSize int64) *Walker {
	return &Walker{
		fs:         fs,
		classifier: classifier,
		minExeSize: minExeSize,
	}
}

type workItem struct {
	path  string
	depth int
}

// ScanFolder walks root up to maxDepth levels deep and returns one
// candidate per directory that holds at least one surviving executable.
// Directories on the hard deny list are never entered.
func (w *Walker) ScanFolder(ctx context.Context, root string, maxDepth int) []catalog.CandidateEntry {
	var results []catalog.CandidateEntry

	// Explicit worklist rather than recursion: the depth budget is carried
	// per item and a visited set guards against symlink loops.
	work := []workItem{{path: root, depth: 0}}
	visited := make(map[string]struct{})

	for len(work) > 0 {
		if ctx.Err() != nil {
			log.Debug().Msg("folder scan canceled")
			return results
		}

		item := work[len(work)-1]
		work = work[:len(work)-1]

		cleaned := filepath.Clean(item.path)
		if _, seen := visited[cleaned]; seen {
			continue
		}
		visited[cleaned] = struct{}{}

		if classify.DeniedPath(cleaned) {
			log.Debug().Str("dir", cleaned).Msg("skipping denied directory")
			continue
		}

		entries, err := afero.ReadDir(w.fs, cleaned)
		if err != nil {
			// Permission and transient I/O errors cost this subtree only.
			log.Debug().Err(err).Str("dir", cleaned).Msg("unreadable directory, skipping subtree")
			continue
		}

		if cand, ok := w.pickRepresentative(cleaned, entries); ok {
			results = append(results, cand)
		}

		if item.depth >= maxDepth {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || skipDirName(entry.Name()) {
				continue
			}
			work = append(work, workItem{
				path:  filepath.Join(cleaned, entry.Name()),
				depth: item.depth + 1,
			})
		}
	}

	return results
}

// DeepScan walks only the curated game-convention directories under the
// given roots (typically detected drive roots), with a shallow depth
// budget. It never enters OS directories regardless of input roots.
func (w *Walker) DeepScan(ctx context.Context, roots []string, maxDepth int) []catalog.CandidateEntry {
	var results []catalog.CandidateEntry

	for _, root := range roots {
		for _, conventional := range deepScanDirs {
			dir := filepath.Join(root, conventional)
			if _, err := w.fs.Stat(dir); err != nil {
				continue
			}
			log.Debug().Str("dir", dir).Msg("deep scanning")
			results = append(results, w.ScanFolder(ctx, dir, maxDepth)...)
		}
	}

	return results
}

// DetectDriveRoots returns existing drive roots to feed DeepScan.
func DetectDriveRoots(fs afero.Fs) []string {
	var roots []string
	for letter := 'A'; letter <= 'Z'; letter++ {
		drive := string(letter) + `:\`
		if info, err := fs.Stat(drive); err == nil && info.IsDir() {
			roots = append(roots, drive)
		}
	}
	if len(roots) == 0 {
		// Non-Windows fallback: home directory conventions.
		if home, err := os.UserHomeDir(); err == nil {
			roots = append(roots, home)
		}
	}
	return roots
}

// pickRepresentative selects the single largest surviving executable in a
// directory. Games commonly ship many helper binaries alongside the real
// one; size is the strongest cheap signal for which is the game.
func (w *Walker) pickRepresentative(dir string, entries []os.FileInfo) (catalog.CandidateEntry, bool) {
	var best os.FileInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".exe") {
			continue
		}
		if entry.Size() < w.minExeSize {
			// Size floor suppresses stub launchers.
			continue
		}
		if !w.classifier.IsValidCandidate(entry.Name(), dir) {
			continue
		}
		if best == nil || entry.Size() > best.Size() {
			best = entry
		}
	}

	if best == nil {
		return catalog.CandidateEntry{}, false
	}

	return catalog.CandidateEntry{
		// Filesystem discoveries have no native identifier to derive a
		// deterministic key from.
		ID:             uuid.New().String(),
		Name:           CleanName(best.Name()),
		ExecutablePath: filepath.Join(dir, best.Name()),
		InstallPath:    dir,
		Launcher:       catalog.LauncherDesktop,
		ItemType:       catalog.ItemTypeApp,
	}, true
}

func skipDirName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, junk := junkDirNames[strings.ToLower(name)]
	return junk
}

// CleanName turns an executable file name into a display name: extension
// stripped, separator characters replaced with spaces, runs collapsed.
func CleanName(fileName string) string {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	name = strings.NewReplacer("_", " ", ".", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}
