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

// Package playtime observes running catalog executables and accumulates
// play sessions into the catalog through a single-writer interface.
package playtime

import (
	"context"
	"path/filepath"
	"time"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// CatalogWriter records finished play sessions. The implementation owns
// catalog write serialization; the tracker never touches the store
// directly.
type CatalogWriter interface {
	RecordSession(ctx context.Context, id string, session catalog.PlaySession) error
}

// target is one watched executable.
type target struct {
	id       string
	baseName string
}

// activeSession tracks an executable observed running.
type activeSession struct {
	startedAt time.Time
	lastSeen  time.Time
}

// Tracker polls process liveness on a fixed interval and turns observed
// run spans into play sessions.
type Tracker struct {
	checker  ProcessChecker
	writer   CatalogWriter
	clock    clockwork.Clock
	active   map[string]activeSession
	targets  []target
	interval time.Duration
	mu       syncutil.Mutex
}

func NewTracker(
	checker ProcessChecker,
	writer CatalogWriter,
	clock clockwork.Clock,
	interval time.Duration,
) *Tracker {
	return &Tracker{
		checker:  checker,
		writer:   writer,
		clock:    clock,
		interval: interval,
		active:   make(map[string]activeSession),
	}
}

// SetTargets replaces the watched set, usually after a scan refreshes the
// catalog. Records without an executable path cannot be observed and are
// skipped. Targets already being tracked keep their running session.
func (t *Tracker) SetTargets(records []catalog.CatalogRecord) {
	targets := make([]target, 0, len(records))
	for _, record := range records {
		if record.ExecutablePath == "" {
			continue
		}
		targets = append(targets, target{
			id:       record.ID,
			baseName: filepath.Base(record.ExecutablePath),
		})
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.targets = targets
}

// Watch polls until ctx is canceled, flushing a session each time a
// watched executable stops. Cancellation flushes any sessions still
// open.
func (t *Tracker) Watch(ctx context.Context) {
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", t.interval).Msg("playtime tracking started")

	for {
		select {
		case <-ctx.Done():
			t.flushAll(context.WithoutCancel(ctx))
			log.Info().Msg("playtime tracking stopped")
			return
		case <-ticker.Chan():
			t.poll(ctx)
		}
	}
}

func (t *Tracker) poll(ctx context.Context) {
	t.mu.Lock()
	targets := make([]target, len(t.targets))
	copy(targets, t.targets)
	t.mu.Unlock()

	now := t.clock.Now().UTC()

	for _, tgt := range targets {
		if ctx.Err() != nil {
			return
		}

		running := t.checker.IsRunning(tgt.baseName)

		t.mu.Lock()
		session, wasRunning := t.active[tgt.id]
		switch {
		case running && !wasRunning:
			t.active[tgt.id] = activeSession{startedAt: now, lastSeen: now}
			log.Debug().Str("id", tgt.id).Msg("play session started")
		case running && wasRunning:
			session.lastSeen = now
			t.active[tgt.id] = session
		case !running && wasRunning:
			delete(t.active, tgt.id)
		}
		t.mu.Unlock()

		if !running && wasRunning {
			t.record(ctx, tgt.id, session)
		}
	}
}

// flushAll closes every open session, crediting time up to the last
// positive liveness observation.
func (t *Tracker) flushAll(ctx context.Context) {
	t.mu.Lock()
	open := t.active
	t.active = make(map[string]activeSession)
	t.mu.Unlock()

	for id, session := range open {
		t.record(ctx, id, session)
	}
}

func (t *Tracker) record(ctx context.Context, id string, session activeSession) {
	minutes := int(session.lastSeen.Sub(session.startedAt).Round(time.Minute) / time.Minute)
	if minutes <= 0 {
		log.Debug().Str("id", id).Msg("discarding sub-minute play session")
		return
	}

	err := t.writer.RecordSession(ctx, id, catalog.PlaySession{
		Date:    session.startedAt,
		Minutes: minutes,
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("error recording play session")
		return
	}
	log.Info().Str("id", id).Int("minutes", minutes).Msg("play session recorded")
}
