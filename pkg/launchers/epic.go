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
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const epicManifestsDir = `C:\ProgramData\Epic\EpicGamesLauncher\Data\Manifests`

// epicManifest is the subset of an Epic .item manifest the scan needs.
type epicManifest struct {
	DisplayName         string `json:"DisplayName"`
	AppName             string `json:"AppName"`
	InstallLocation     string `json:"InstallLocation"`
	LaunchExecutable    string `json:"LaunchExecutable"`
	IsIncompleteInstall bool   `json:"bIsIncompleteInstall"`
}

// Epic discovers installed titles from the Epic Games Launcher's per-item
// manifest files.
type Epic struct {
	fs  afero.Fs
	cfg *config.Instance
}

func NewEpic(fs afero.Fs, cfg *config.Instance) *Epic {
	return &Epic{fs: fs, cfg: cfg}
}

func (*Epic) ID() catalog.Launcher {
	return catalog.LauncherEpic
}

func (e *Epic) Scan(ctx context.Context) ([]catalog.CandidateEntry, error) {
	dir := epicManifestsDir
	if def, ok := e.cfg.LookupLauncherDefaults("epic"); ok && def.InstallDir != "" {
		dir = def.InstallDir
	}

	entries, err := afero.ReadDir(e.fs, dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", dir).Msg("epic manifests directory not found")
		return nil, nil
	}

	var results []catalog.CandidateEntry
	for _, entry := range entries {
		if ctx.Err() != nil {
			return results, nil
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".item") {
			continue
		}

		data, err := afero.ReadFile(e.fs, filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Warn().Err(err).Msgf("error reading epic manifest: %s", entry.Name())
			continue
		}

		var manifest epicManifest
		if err := json.Unmarshal(data, &manifest); err != nil {
			log.Warn().Err(err).Msgf("error parsing epic manifest: %s", entry.Name())
			continue
		}

		if manifest.IsIncompleteInstall || manifest.AppName == "" || manifest.DisplayName == "" {
			continue
		}

		executable := ""
		if manifest.LaunchExecutable != "" && manifest.InstallLocation != "" {
			executable = filepath.Join(manifest.InstallLocation, manifest.LaunchExecutable)
		}

		results = append(results, catalog.CandidateEntry{
			ID:             "epic-" + manifest.AppName,
			Name:           manifest.DisplayName,
			ExecutablePath: executable,
			InstallPath:    manifest.InstallLocation,
			Launcher:       catalog.LauncherEpic,
			ItemType:       catalog.ItemTypeGame,
			EpicAppName:    manifest.AppName,
		})
	}

	return results, nil
}
