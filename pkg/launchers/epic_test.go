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

	"github.com/atlasproject/atlas-core/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpicScan(t *testing.T) {
	t.Parallel()

	t.Run("returns_empty_when_launcher_not_installed", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		epic := NewEpic(h.Fs, newTestConfig(t, ""))

		results, err := epic.Scan(context.Background())

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("parses_item_manifests", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		require.NoError(t, h.WriteFile("/epic/manifests/alanwake.item", `{
			"DisplayName": "Alan Wake Remastered",
			"AppName": "c3700ddc",
			"InstallLocation": "/games/AlanWakeRemastered",
			"LaunchExecutable": "AlanWake.exe",
			"bIsIncompleteInstall": false
		}`))
		require.NoError(t, h.WriteFile("/epic/manifests/notes.txt", "not a manifest"))

		epic := NewEpic(h.Fs, newTestConfig(t, launcherOverride("epic", "/epic/manifests")))
		results, err := epic.Scan(context.Background())

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "epic-c3700ddc", results[0].ID)
		assert.Equal(t, "Alan Wake Remastered", results[0].Name)
		assert.Equal(t, "c3700ddc", results[0].EpicAppName)
		assert.Equal(t, "/games/AlanWakeRemastered/AlanWake.exe", results[0].ExecutablePath)
	})

	t.Run("skips_incomplete_installs", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		require.NoError(t, h.WriteFile("/epic/manifests/partial.item", `{
			"DisplayName": "Partially Installed",
			"AppName": "deadbeef",
			"InstallLocation": "/games/Partial",
			"LaunchExecutable": "Partial.exe",
			"bIsIncompleteInstall": true
		}`))

		epic := NewEpic(h.Fs, newTestConfig(t, launcherOverride("epic", "/epic/manifests")))
		results, err := epic.Scan(context.Background())

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("invalid_manifest_costs_only_itself", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		require.NoError(t, h.WriteFile("/epic/manifests/broken.item", "{oops"))
		require.NoError(t, h.WriteFile("/epic/manifests/good.item", `{
			"DisplayName": "Hades",
			"AppName": "min",
			"InstallLocation": "/games/Hades",
			"LaunchExecutable": "Hades.exe"
		}`))

		epic := NewEpic(h.Fs, newTestConfig(t, launcherOverride("epic", "/epic/manifests")))
		results, err := epic.Scan(context.Background())

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Hades", results[0].Name)
	})
}
