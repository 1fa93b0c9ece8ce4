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

package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/config"
	"github.com/atlasproject/atlas-core/pkg/launchers"
	"github.com/atlasproject/atlas-core/pkg/testing/helpers"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestConfig(t *testing.T, body string) *config.Instance {
	t.Helper()

	dir := t.TempDir()
	content := "config_schema = 1\n" + body
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.CfgFile), []byte(content), 0o600))

	cfg, err := config.NewConfig(dir, config.BaseDefaults)
	require.NoError(t, err)
	return cfg
}

type stubAdapter struct {
	id      catalog.Launcher
	entries []catalog.CandidateEntry
}

func (s stubAdapter) ID() catalog.Launcher { return s.id }

func (s stubAdapter) Scan(context.Context) ([]catalog.CandidateEntry, error) {
	return s.entries, nil
}

func newTestSession(t *testing.T, h *helpers.FSHelper, adapters []launchers.Adapter) *Session {
	t.Helper()

	cfg := newTestConfig(t, "[scanner]\nroots = [\"/drive\"]\n")
	store := catalog.NewStore(h.Fs, "/data/catalog.json")
	return NewSession(cfg, h.Fs, store, adapters, nil, clockwork.NewFakeClock())
}

func TestRunFullScan(t *testing.T) {
	t.Parallel()

	t.Run("combines_adapter_and_filesystem_candidates", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		require.NoError(t, h.CreateGameDirectory("/drive/Games/Stardew Valley", "Stardew Valley.exe", 2*1024*1024))

		adapters := []launchers.Adapter{stubAdapter{
			id: catalog.LauncherSteam,
			entries: []catalog.CandidateEntry{
				{ID: "steam-620", Name: "Portal 2", Launcher: catalog.LauncherSteam, ItemType: catalog.ItemTypeGame},
			},
		}}

		session := newTestSession(t, h, adapters)
		records, err := session.RunFullScan(context.Background())

		require.NoError(t, err)
		require.Len(t, records, 2)

		names := []string{records[0].Name, records[1].Name}
		assert.ElementsMatch(t, []string{"Portal 2", "Stardew Valley"}, names)
	})

	t.Run("persists_catalog_across_sessions", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		adapters := []launchers.Adapter{stubAdapter{
			id: catalog.LauncherGOG,
			entries: []catalog.CandidateEntry{
				{ID: "gog-1", Name: "Cuphead", Launcher: catalog.LauncherGOG, ItemType: catalog.ItemTypeGame},
			},
		}}

		session := newTestSession(t, h, adapters)
		_, err := session.RunFullScan(context.Background())
		require.NoError(t, err)

		store := catalog.NewStore(h.Fs, "/data/catalog.json")
		records, err := store.Load()
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "gog-1", records[0].ID)
	})

	t.Run("second_scan_with_same_input_changes_nothing", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		adapters := []launchers.Adapter{stubAdapter{
			id: catalog.LauncherSteam,
			entries: []catalog.CandidateEntry{
				{ID: "steam-620", Name: "Portal 2", Launcher: catalog.LauncherSteam, ItemType: catalog.ItemTypeGame},
			},
		}}

		session := newTestSession(t, h, adapters)
		first, err := session.RunFullScan(context.Background())
		require.NoError(t, err)

		second, err := session.RunFullScan(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("cross_launcher_duplicates_are_collapsed", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		adapters := []launchers.Adapter{
			stubAdapter{id: catalog.LauncherSteam, entries: []catalog.CandidateEntry{
				{ID: "steam-1245620", Name: "ELDEN RING", Launcher: catalog.LauncherSteam, ItemType: catalog.ItemTypeGame},
			}},
			stubAdapter{id: catalog.LauncherXbox, entries: []catalog.CandidateEntry{
				{ID: "xbox-abc", Name: "Elden Ring", Launcher: catalog.LauncherXbox, ItemType: catalog.ItemTypeGame},
			}},
		}

		session := newTestSession(t, h, adapters)
		records, err := session.RunFullScan(context.Background())

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "steam-1245620", records[0].ID)
	})

	t.Run("concurrent_scan_is_rejected", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		started := make(chan struct{})
		release := make(chan struct{})

		blocking := blockingAdapter{started: started, release: release}
		session := newTestSession(t, h, []launchers.Adapter{blocking})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := session.RunFullScan(context.Background())
			assert.NoError(t, err)
		}()

		<-started
		_, err := session.RunFullScan(context.Background())
		assert.ErrorIs(t, err, ErrScanInProgress)

		close(release)
		wg.Wait()
	})

	t.Run("canceled_context_aborts_before_catalog_write", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		session := newTestSession(t, h, nil)
		_, err := session.RunFullScan(ctx)

		require.Error(t, err)
		exists, statErr := afero.Exists(h.Fs, "/data/catalog.json")
		require.NoError(t, statErr)
		assert.False(t, exists)
	})
}

type blockingAdapter struct {
	started chan struct{}
	release chan struct{}
}

func (blockingAdapter) ID() catalog.Launcher { return catalog.LauncherManual }

func (b blockingAdapter) Scan(context.Context) ([]catalog.CandidateEntry, error) {
	close(b.started)
	<-b.release
	return nil, nil
}

func TestRunFolderScan(t *testing.T) {
	t.Parallel()

	t.Run("returns_candidates_without_touching_catalog", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		require.NoError(t, h.CreateGameDirectory("/somewhere/Hades", "Hades Game.exe", 2*1024*1024))

		session := newTestSession(t, h, nil)
		candidates, err := session.RunFolderScan(context.Background(), "/somewhere")

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "Hades Game", candidates[0].Name)
		assert.Equal(t, catalog.LauncherDesktop, candidates[0].Launcher)

		exists, err := afero.Exists(h.Fs, "/data/catalog.json")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("merge_candidates_persists_folder_results", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		require.NoError(t, h.CreateGameDirectory("/somewhere/Hades", "Hades Game.exe", 2*1024*1024))

		session := newTestSession(t, h, nil)
		candidates, err := session.RunFolderScan(context.Background(), "/somewhere")
		require.NoError(t, err)

		records, err := session.MergeCandidates(context.Background(), candidates)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Hades Game", records[0].Name)

		persisted, err := session.Catalog()
		require.NoError(t, err)
		assert.Len(t, persisted, 1)
	})
}

func TestRecordSession(t *testing.T) {
	t.Parallel()

	t.Run("accumulates_playtime_with_local_provenance", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		adapters := []launchers.Adapter{stubAdapter{
			id: catalog.LauncherSteam,
			entries: []catalog.CandidateEntry{
				{ID: "steam-620", Name: "Portal 2", Launcher: catalog.LauncherSteam, ItemType: catalog.ItemTypeGame},
			},
		}}

		session := newTestSession(t, h, adapters)
		_, err := session.RunFullScan(context.Background())
		require.NoError(t, err)

		start := time.Date(2026, 8, 20, 19, 0, 0, 0, time.UTC)
		require.NoError(t, session.RecordSession(context.Background(), "steam-620",
			catalog.PlaySession{Date: start, Minutes: 45}))
		require.NoError(t, session.RecordSession(context.Background(), "steam-620",
			catalog.PlaySession{Date: start.Add(2 * time.Hour), Minutes: 30}))

		records, err := session.Catalog()
		require.NoError(t, err)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, 75, rec.PlayTime.TotalMinutes)
		assert.Len(t, rec.PlayTime.Sessions, 2)
		assert.Equal(t, catalog.OriginAtlas, rec.StatsSource.Playtime)
		assert.Equal(t, catalog.OriginAtlas, rec.StatsSource.LastPlayed)
		require.NotNil(t, rec.LastPlayed)
		assert.Equal(t, start.Add(2*time.Hour+30*time.Minute), *rec.LastPlayed)
	})

	t.Run("unknown_id_is_an_error", func(t *testing.T) {
		t.Parallel()

		h := helpers.NewMemoryFS()
		session := newTestSession(t, h, nil)

		err := session.RecordSession(context.Background(), "missing",
			catalog.PlaySession{Date: time.Now(), Minutes: 10})

		assert.Error(t, err)
	})
}
