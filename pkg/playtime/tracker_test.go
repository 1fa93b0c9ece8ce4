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

package playtime

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureChecker struct {
	mu      sync.Mutex
	running map[string]bool
}

func (f *fixtureChecker) IsRunning(baseName string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running[baseName]
}

func (f *fixtureChecker) set(baseName string, running bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running == nil {
		f.running = map[string]bool{}
	}
	f.running[baseName] = running
}

type fixtureWriter struct {
	mu       sync.Mutex
	sessions map[string][]catalog.PlaySession
}

func (f *fixtureWriter) RecordSession(_ context.Context, id string, session catalog.PlaySession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessions == nil {
		f.sessions = map[string][]catalog.PlaySession{}
	}
	f.sessions[id] = append(f.sessions[id], session)
	return nil
}

func (f *fixtureWriter) recorded(id string) []catalog.PlaySession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id]
}

func portalRecords() []catalog.CatalogRecord {
	return []catalog.CatalogRecord{{
		CandidateEntry: catalog.CandidateEntry{
			ID:             "steam-620",
			Name:           "Portal 2",
			ExecutablePath: filepath.Join("steam", "steamapps", "common", "Portal 2", "portal2.exe"),
			Launcher:       catalog.LauncherSteam,
		},
	}}
}

func TestTracker(t *testing.T) {
	t.Parallel()

	t.Run("records_session_when_process_stops", func(t *testing.T) {
		t.Parallel()

		checker := &fixtureChecker{}
		writer := &fixtureWriter{}
		clock := clockwork.NewFakeClock()
		tracker := NewTracker(checker, writer, clock, time.Minute)
		tracker.SetTargets(portalRecords())

		checker.set("portal2.exe", true)
		tracker.poll(context.Background())

		clock.Advance(45 * time.Minute)
		tracker.poll(context.Background())

		checker.set("portal2.exe", false)
		tracker.poll(context.Background())

		sessions := writer.recorded("steam-620")
		require.Len(t, sessions, 1)
		assert.Equal(t, 45, sessions[0].Minutes)
	})

	t.Run("sub_minute_sessions_are_discarded", func(t *testing.T) {
		t.Parallel()

		checker := &fixtureChecker{}
		writer := &fixtureWriter{}
		clock := clockwork.NewFakeClock()
		tracker := NewTracker(checker, writer, clock, time.Minute)
		tracker.SetTargets(portalRecords())

		checker.set("portal2.exe", true)
		tracker.poll(context.Background())

		clock.Advance(10 * time.Second)
		checker.set("portal2.exe", false)
		tracker.poll(context.Background())

		assert.Empty(t, writer.recorded("steam-620"))
	})

	t.Run("records_without_executable_are_not_watched", func(t *testing.T) {
		t.Parallel()

		checker := &fixtureChecker{}
		writer := &fixtureWriter{}
		tracker := NewTracker(checker, writer, clockwork.NewFakeClock(), time.Minute)

		tracker.SetTargets([]catalog.CatalogRecord{{
			CandidateEntry: catalog.CandidateEntry{ID: "xbox-abc", Name: "Cloud Only"},
		}})
		tracker.poll(context.Background())

		assert.Empty(t, writer.sessions)
	})

	t.Run("cancellation_flushes_open_sessions", func(t *testing.T) {
		t.Parallel()

		checker := &fixtureChecker{}
		writer := &fixtureWriter{}
		clock := clockwork.NewFakeClock()
		tracker := NewTracker(checker, writer, clock, time.Minute)
		tracker.SetTargets(portalRecords())

		checker.set("portal2.exe", true)
		tracker.poll(context.Background())
		clock.Advance(30 * time.Minute)
		tracker.poll(context.Background())

		ctx, cancel := context.WithCancel(context.Background())
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Watch(ctx)
		}()

		clock.BlockUntil(1)
		cancel()
		wg.Wait()

		sessions := writer.recorded("steam-620")
		require.Len(t, sessions, 1)
		assert.Equal(t, 30, sessions[0].Minutes)
	})
}
