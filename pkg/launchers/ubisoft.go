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
	"path/filepath"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	ini "gopkg.in/ini.v1"
)

var ubisoftDefaultRoots = []string{
	`C:\Program Files (x86)\Ubisoft\Ubisoft Game Launcher`,
	`C:\Program Files\Ubisoft\Ubisoft Game Launcher`,
}

// ubisoftInstallManifest is the per-game INI manifest name. Where absent
// the game folder convention is used instead.
const ubisoftInstallManifest = "uplay_install.ini"

// Ubisoft discovers installed titles under the Ubisoft Game Launcher's
// games directory, reading per-game install manifests where present.
type Ubisoft struct {
	fs  afero.Fs
	cfg *config.Instance
}

func NewUbisoft(fs afero.Fs, cfg *config.Instance) *Ubisoft {
	return &Ubisoft{fs: fs, cfg: cfg}
}

func (*Ubisoft) ID() catalog.Launcher {
	return catalog.LauncherUbisoft
}

func (u *Ubisoft) Scan(ctx context.Context) ([]catalog.CandidateEntry, error) {
	roots := ubisoftDefaultRoots
	if def, ok := u.cfg.LookupLauncherDefaults("ubisoft"); ok && def.InstallDir != "" {
		roots = append([]string{def.InstallDir}, roots...)
	}

	var results []catalog.CandidateEntry
	seen := make(map[string]struct{})

	for _, root := range roots {
		gamesDir := filepath.Join(root, "games")
		dirs, err := afero.ReadDir(u.fs, gamesDir)
		if err != nil {
			log.Debug().Err(err).Str("dir", gamesDir).Msg("ubisoft games directory not found")
			continue
		}

		for _, dir := range dirs {
			if ctx.Err() != nil {
				return results, nil
			}
			if !dir.IsDir() {
				continue
			}

			cand, ok := u.readGameDir(filepath.Join(gamesDir, dir.Name()), dir.Name())
			if !ok {
				continue
			}
			if _, dup := seen[cand.ID]; dup {
				continue
			}
			seen[cand.ID] = struct{}{}
			results = append(results, cand)
		}
	}

	return results, nil
}

func (u *Ubisoft) readGameDir(gameDir, folderName string) (catalog.CandidateEntry, bool) {
	cand := catalog.CandidateEntry{
		ID:          slugID(catalog.LauncherUbisoft, folderName),
		Name:        folderName,
		InstallPath: gameDir,
		Launcher:    catalog.LauncherUbisoft,
		ItemType:    catalog.ItemTypeGame,
	}

	manifestPath := filepath.Join(gameDir, ubisoftInstallManifest)
	if data, err := afero.ReadFile(u.fs, manifestPath); err == nil {
		manifest, err := ini.Load(data)
		if err != nil {
			log.Warn().Err(err).Msgf("error parsing ubisoft manifest: %s", manifestPath)
		} else {
			section := manifest.Section("Install")
			if id := section.Key("Id").String(); id != "" {
				cand.UplayID = id
				cand.ID = "ubisoft-" + id
			}
			if name := section.Key("DisplayName").String(); name != "" {
				cand.Name = name
			}
			if exe := section.Key("Executable").String(); exe != "" {
				cand.ExecutablePath = filepath.Join(gameDir, filepath.FromSlash(exe))
			}
		}
	}

	if cand.ExecutablePath == "" {
		executable, ok := largestExe(u.fs, gameDir)
		if !ok {
			return catalog.CandidateEntry{}, false
		}
		cand.ExecutablePath = executable
	}

	return cand, true
}
