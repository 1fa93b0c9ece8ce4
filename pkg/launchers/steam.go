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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"
	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// stateFullyInstalled is the StateFlags bit Steam sets once an app is
// completely on disk.
const stateFullyInstalled = 4

// steamSystemApps are non-game manifests Steam keeps alongside games:
// redistributable bundles, compatibility tools and container runtimes.
var steamSystemApps = map[string]struct{}{
	"228980":  {}, // Steamworks Common Redistributables
	"1070560": {}, // Steam Linux Runtime
	"1391110": {}, // Steam Linux Runtime - Soldier
	"1628350": {}, // Steam Linux Runtime - Sniper
	"1493710": {}, // Proton Experimental
	"2180100": {}, // Proton Hotfix
}

// Steam discovers installed apps from Steam's appmanifest files across all
// library folders.
type Steam struct {
	fs  afero.Fs
	cfg *config.Instance
}

func NewSteam(fs afero.Fs, cfg *config.Instance) *Steam {
	return &Steam{fs: fs, cfg: cfg}
}

func (*Steam) ID() catalog.Launcher {
	return catalog.LauncherSteam
}

func (s *Steam) Scan(ctx context.Context) ([]catalog.CandidateEntry, error) {
	root := s.findSteamRoot()
	if root == "" {
		log.Debug().Msg("steam installation not found")
		return nil, nil
	}

	mainSteamApps := filepath.Join(root, "steamapps")
	libraries := s.libraryFolders(mainSteamApps)

	var results []catalog.CandidateEntry
	seen := make(map[string]struct{})

	for _, steamApps := range libraries {
		if ctx.Err() != nil {
			return results, nil
		}

		entries, err := afero.ReadDir(s.fs, steamApps)
		if err != nil {
			log.Warn().Err(err).Str("dir", steamApps).Msg("error listing steamapps folder")
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasPrefix(name, "appmanifest_") || !strings.HasSuffix(name, ".acf") {
				continue
			}

			cand, ok := s.readManifest(filepath.Join(steamApps, name), steamApps)
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

// readManifest parses a single appmanifest_*.acf. Corrupt manifests cost
// only themselves.
func (s *Steam) readManifest(manifestPath, steamApps string) (catalog.CandidateEntry, bool) {
	f, err := s.fs.Open(manifestPath)
	if err != nil {
		log.Warn().Err(err).Msgf("error opening manifest: %s", manifestPath)
		return catalog.CandidateEntry{}, false
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing manifest file")
		}
	}()

	p := vdf.NewParser(f)
	m, err := p.Parse()
	if err != nil {
		log.Warn().Err(err).Msgf("error parsing manifest: %s", manifestPath)
		return catalog.CandidateEntry{}, false
	}
	m = normalizeVDFKeys(m)

	appState, ok := m["appstate"].(map[string]any)
	if !ok {
		log.Warn().Msgf("appstate is not a map in manifest: %s", manifestPath)
		return catalog.CandidateEntry{}, false
	}

	appID, ok := appState["appid"].(string)
	if !ok {
		log.Warn().Msgf("appid is not a string in manifest: %s", manifestPath)
		return catalog.CandidateEntry{}, false
	}

	if _, system := steamSystemApps[appID]; system {
		return catalog.CandidateEntry{}, false
	}

	name, ok := appState["name"].(string)
	if !ok {
		log.Warn().Msgf("name is not a string in manifest: %s", manifestPath)
		return catalog.CandidateEntry{}, false
	}

	stateFlags, _ := appState["stateflags"].(string)
	flags, err := strconv.Atoi(stateFlags)
	if err != nil || flags&stateFullyInstalled == 0 {
		log.Debug().Str("appId", appID).Str("stateFlags", stateFlags).Msg("skipping not fully installed app")
		return catalog.CandidateEntry{}, false
	}

	installPath := ""
	if installDir, ok := appState["installdir"].(string); ok && installDir != "" {
		installPath = filepath.Join(steamApps, "common", installDir)
	}

	return catalog.CandidateEntry{
		ID:          "steam-" + appID,
		Name:        name,
		InstallPath: installPath,
		Launcher:    catalog.LauncherSteam,
		ItemType:    catalog.ItemTypeGame,
		SteamAppID:  appID,
	}, true
}

// libraryFolders resolves all steamapps directories: the main one plus any
// secondary libraries listed in libraryfolders.vdf.
func (s *Steam) libraryFolders(mainSteamApps string) []string {
	libraries := []string{mainSteamApps}

	f, err := s.fs.Open(filepath.Join(mainSteamApps, "libraryfolders.vdf"))
	if err != nil {
		log.Debug().Err(err).Msg("failed to open libraryfolders.vdf")
		return libraries
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing libraryfolders.vdf")
		}
	}()

	p := vdf.NewParser(f)
	m, err := p.Parse()
	if err != nil {
		log.Warn().Err(err).Msg("failed to parse libraryfolders.vdf")
		return libraries
	}
	m = normalizeVDFKeys(m)

	lfs, ok := m["libraryfolders"].(map[string]any)
	if !ok {
		return libraries
	}

	for id, v := range lfs {
		ls, ok := v.(map[string]any)
		if !ok {
			log.Warn().Msgf("library %s is not a map", id)
			continue
		}
		libraryPath, ok := ls["path"].(string)
		if !ok {
			continue
		}
		steamApps := filepath.Join(libraryPath, "steamapps")
		if steamApps == mainSteamApps {
			continue
		}
		libraries = append(libraries, steamApps)
	}

	return libraries
}

func (s *Steam) findSteamRoot() string {
	if def, ok := s.cfg.LookupLauncherDefaults("steam"); ok && def.InstallDir != "" {
		if _, err := s.fs.Stat(def.InstallDir); err == nil {
			log.Debug().Msgf("using user-configured Steam directory: %s", def.InstallDir)
			return def.InstallDir
		}
		log.Warn().Msgf("user-configured Steam directory not found: %s", def.InstallDir)
	}

	paths := []string{
		`C:\Program Files (x86)\Steam`,
		`C:\Program Files\Steam`,
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
		)
	}

	for _, path := range paths {
		if _, err := s.fs.Stat(path); err == nil {
			log.Debug().Msgf("found Steam installation: %s", path)
			return path
		}
	}

	return ""
}

// normalizeVDFKeys lower-cases keys recursively; manifests in the wild mix
// "AppState" and "appstate".
func normalizeVDFKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]any); ok {
			out[strings.ToLower(k)] = normalizeVDFKeys(sub)
			continue
		}
		out[strings.ToLower(k)] = v
	}
	return out
}
