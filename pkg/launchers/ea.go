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

package launchers

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// eaLocalContent holds one .mfst manifest per installed title, written in
// URL query-string format.
const eaLocalContent = `C:\ProgramData\Origin\LocalContent`

var eaGameRoots = []string{
	`C:\Program Files\EA Games`,
	`C:\Program Files (x86)\Origin Games`,
	`C:\Program Files\Origin Games`,
}

// EA discovers installed titles from Origin/EA Desktop .mfst manifests,
// falling back to the EA Games folder convention for installs with no
// manifest.
type EA struct {
	fs  afero.Fs
	cfg *config.Instance
}

func NewEA(fs afero.Fs, cfg *config.Instance) *EA {
	return &EA{fs: fs, cfg: cfg}
}

func (*EA) ID() catalog.Launcher {
	return catalog.LauncherEA
}

func (e *EA) Scan(ctx context.Context) ([]catalog.CandidateEntry, error) {
	results := e.scanManifests(ctx)

	covered := make(map[string]struct{}, len(results))
	for _, cand := range results {
		covered[strings.ToLower(cand.InstallPath)] = struct{}{}
	}

	roots := eaGameRoots
	if def, ok := e.cfg.LookupLauncherDefaults("ea"); ok && def.InstallDir != "" {
		roots = append([]string{def.InstallDir}, roots...)
	}

	for _, root := range roots {
		dirs, err := afero.ReadDir(e.fs, root)
		if err != nil {
			log.Debug().Err(err).Str("dir", root).Msg("ea games root not found")
			continue
		}
		for _, dir := range dirs {
			if ctx.Err() != nil {
				return results, nil
			}
			if !dir.IsDir() {
				continue
			}
			gameDir := filepath.Join(root, dir.Name())
			if _, ok := covered[strings.ToLower(gameDir)]; ok {
				continue
			}
			executable, ok := largestExe(e.fs, gameDir)
			if !ok {
				continue
			}
			results = append(results, catalog.CandidateEntry{
				ID:             slugID(catalog.LauncherEA, dir.Name()),
				Name:           dir.Name(),
				ExecutablePath: executable,
				InstallPath:    gameDir,
				Launcher:       catalog.LauncherEA,
				ItemType:       catalog.ItemTypeGame,
			})
		}
	}

	return results, nil
}

func (e *EA) scanManifests(ctx context.Context) []catalog.CandidateEntry {
	var results []catalog.CandidateEntry

	titleDirs, err := afero.ReadDir(e.fs, eaLocalContent)
	if err != nil {
		log.Debug().Err(err).Msg("ea local content directory not found")
		return nil
	}

	for _, titleDir := range titleDirs {
		if ctx.Err() != nil {
			return results
		}
		if !titleDir.IsDir() {
			continue
		}

		contentDir := filepath.Join(eaLocalContent, titleDir.Name())
		files, err := afero.ReadDir(e.fs, contentDir)
		if err != nil {
			log.Warn().Err(err).Str("dir", contentDir).Msg("unreadable ea content directory")
			continue
		}

		for _, file := range files {
			if !strings.EqualFold(filepath.Ext(file.Name()), ".mfst") {
				continue
			}
			cand, ok := e.readManifest(filepath.Join(contentDir, file.Name()), titleDir.Name())
			if !ok {
				continue
			}
			results = append(results, cand)
			break
		}
	}

	return results
}

func (e *EA) readManifest(path, title string) (catalog.CandidateEntry, bool) {
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		log.Warn().Err(err).Msgf("error reading ea manifest: %s", path)
		return catalog.CandidateEntry{}, false
	}

	values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(string(data)), "?"))
	if err != nil {
		log.Warn().Err(err).Msgf("error parsing ea manifest: %s", path)
		return catalog.CandidateEntry{}, false
	}

	eaID := values.Get("id")
	if eaID == "" {
		return catalog.CandidateEntry{}, false
	}

	// Partially downloaded titles report a non-ready state.
	if state := values.Get("currentstate"); state != "" && !strings.EqualFold(state, "kReadyToStart") {
		log.Debug().Str("id", eaID).Str("state", state).Msg("skipping ea title not ready to start")
		return catalog.CandidateEntry{}, false
	}

	installPath := values.Get("dipinstallpath")
	name := title
	if installPath != "" {
		name = filepath.Base(installPath)
	}

	executable := ""
	if installPath != "" {
		if exe, ok := largestExe(e.fs, installPath); ok {
			executable = exe
		}
	}

	return catalog.CandidateEntry{
		ID:             "ea-" + eaID,
		Name:           name,
		ExecutablePath: executable,
		InstallPath:    installPath,
		Launcher:       catalog.LauncherEA,
		ItemType:       catalog.ItemTypeGame,
		EAID:           eaID,
	}, true
}
