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

var gogDefaultRoots = []string{
	`C:\Program Files (x86)\GOG Galaxy\Games`,
	`C:\GOG Games`,
}

// gogInfo is the goggame-<id>.info sidecar GOG writes into each game
// directory.
type gogInfo struct {
	GameID    string        `json:"gameId"`
	Name      string        `json:"name"`
	PlayTasks []gogPlayTask `json:"playTasks"`
}

type gogPlayTask struct {
	Path      string `json:"path"`
	Category  string `json:"category"`
	IsPrimary bool   `json:"isPrimary"`
}

// GOG discovers installed titles from goggame-*.info sidecar files under
// known GOG installation roots, falling back to folder convention when a
// sidecar is missing.
type GOG struct {
	fs  afero.Fs
	cfg *config.Instance
}

func NewGOG(fs afero.Fs, cfg *config.Instance) *GOG {
	return &GOG{fs: fs, cfg: cfg}
}

func (*GOG) ID() catalog.Launcher {
	return catalog.LauncherGOG
}

func (g *GOG) Scan(ctx context.Context) ([]catalog.CandidateEntry, error) {
	roots := gogDefaultRoots
	if def, ok := g.cfg.LookupLauncherDefaults("gog"); ok && def.InstallDir != "" {
		roots = append([]string{def.InstallDir}, roots...)
	}

	var results []catalog.CandidateEntry
	seen := make(map[string]struct{})

	for _, root := range roots {
		dirs, err := afero.ReadDir(g.fs, root)
		if err != nil {
			log.Debug().Err(err).Str("dir", root).Msg("gog root not found")
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
			cand, ok := g.readGameDir(gameDir, dir.Name())
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

func (g *GOG) readGameDir(gameDir, folderName string) (catalog.CandidateEntry, bool) {
	entries, err := afero.ReadDir(g.fs, gameDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", gameDir).Msg("unreadable gog game directory")
		return catalog.CandidateEntry{}, false
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "goggame-") || !strings.HasSuffix(name, ".info") {
			continue
		}

		data, err := afero.ReadFile(g.fs, filepath.Join(gameDir, name))
		if err != nil {
			log.Warn().Err(err).Msgf("error reading gog sidecar: %s", name)
			break
		}

		var info gogInfo
		if err := json.Unmarshal(data, &info); err != nil {
			log.Warn().Err(err).Msgf("error parsing gog sidecar: %s", name)
			break
		}
		if info.GameID == "" || info.Name == "" {
			break
		}

		executable := ""
		for _, task := range info.PlayTasks {
			if task.IsPrimary && task.Category == "game" && task.Path != "" {
				executable = filepath.Join(gameDir, filepath.FromSlash(task.Path))
				break
			}
		}

		return catalog.CandidateEntry{
			ID:             "gog-" + info.GameID,
			Name:           info.Name,
			ExecutablePath: executable,
			InstallPath:    gameDir,
			Launcher:       catalog.LauncherGOG,
			ItemType:       catalog.ItemTypeGame,
			GOGID:          info.GameID,
		}, true
	}

	// No sidecar: folder convention.
	executable, ok := largestExe(g.fs, gameDir)
	if !ok {
		return catalog.CandidateEntry{}, false
	}
	return catalog.CandidateEntry{
		ID:             slugID(catalog.LauncherGOG, folderName),
		Name:           folderName,
		ExecutablePath: executable,
		InstallPath:    gameDir,
		Launcher:       catalog.LauncherGOG,
		ItemType:       catalog.ItemTypeGame,
	}, true
}
