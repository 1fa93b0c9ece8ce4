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
	"testing"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appManifest(appID, name, stateFlags, installDir string) string {
	return `"AppState"
{
	"appid"		"` + appID + `"
	"name"		"` + name + `"
	"StateFlags"		"` + stateFlags + `"
	"installdir"		"` + installDir + `"
}`
}

func TestSteamScan(t *testing.T) {
	t.Parallel()

	t.Run("returns_empty_when_steam_not_installed", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		steam := NewSteam(h.Fs, newTestConfig(t, ""))

		results, err := steam.Scan(context.Background())

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("keeps_only_fully_installed_apps", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		require.NoError(t, h.WriteFile("/steam/steamapps/appmanifest_620.acf",
			appManifest("620", "Portal 2", "4", "Portal 2")))
		// StateFlags 2 means update required, not yet on disk.
		require.NoError(t, h.WriteFile("/steam/steamapps/appmanifest_400.acf",
			appManifest("400", "Portal", "2", "Portal")))

		steam := NewSteam(h.Fs, newTestConfig(t, launcherOverride("steam", "/steam")))
		results, err := steam.Scan(context.Background())

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "steam-620", results[0].ID)
		assert.Equal(t, "Portal 2", results[0].Name)
		assert.Equal(t, "620", results[0].SteamAppID)
		assert.Equal(t, catalog.ItemTypeGame, results[0].ItemType)
		assert.Equal(t, "/steam/steamapps/common/Portal 2", results[0].InstallPath)
	})

	t.Run("skips_system_manifests", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		require.NoError(t, h.WriteFile("/steam/steamapps/appmanifest_228980.acf",
			appManifest("228980", "Steamworks Common Redistributables", "4", "Steamworks Shared")))
		require.NoError(t, h.WriteFile("/steam/steamapps/appmanifest_1493710.acf",
			appManifest("1493710", "Proton Experimental", "4", "Proton - Experimental")))

		steam := NewSteam(h.Fs, newTestConfig(t, launcherOverride("steam", "/steam")))
		results, err := steam.Scan(context.Background())

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("scans_secondary_library_folders", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		require.NoError(t, h.WriteFile("/steam/steamapps/libraryfolders.vdf", `"libraryfolders"
{
	"0"
	{
		"path"		"/steam"
	}
	"1"
	{
		"path"		"/library2"
	}
}`))
		require.NoError(t, h.WriteFile("/steam/steamapps/appmanifest_620.acf",
			appManifest("620", "Portal 2", "4", "Portal 2")))
		require.NoError(t, h.WriteFile("/library2/steamapps/appmanifest_1245620.acf",
			appManifest("1245620", "ELDEN RING", "4", "ELDEN RING")))

		steam := NewSteam(h.Fs, newTestConfig(t, launcherOverride("steam", "/steam")))
		results, err := steam.Scan(context.Background())

		require.NoError(t, err)
		require.Len(t, results, 2)

		ids := []string{results[0].ID, results[1].ID}
		assert.ElementsMatch(t, []string{"steam-620", "steam-1245620"}, ids)
	})

	t.Run("corrupt_manifest_costs_only_itself", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		require.NoError(t, h.WriteFile("/steam/steamapps/appmanifest_1.acf", "not valid vdf {{{"))
		require.NoError(t, h.WriteFile("/steam/steamapps/appmanifest_620.acf",
			appManifest("620", "Portal 2", "4", "Portal 2")))

		steam := NewSteam(h.Fs, newTestConfig(t, launcherOverride("steam", "/steam")))
		results, err := steam.Scan(context.Background())

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "steam-620", results[0].ID)
	})

	t.Run("mixed_case_manifest_keys_are_normalized", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		require.NoError(t, h.WriteFile("/steam/steamapps/appmanifest_632470.acf", `"appstate"
{
	"AppID"		"632470"
	"Name"		"Disco Elysium"
	"stateflags"		"4"
	"InstallDir"		"Disco Elysium"
}`))

		steam := NewSteam(h.Fs, newTestConfig(t, launcherOverride("steam", "/steam")))
		results, err := steam.Scan(context.Background())

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Disco Elysium", results[0].Name)
	})
}
