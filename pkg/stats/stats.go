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

// Package stats dispatches per-launcher statistics lookups through a
// capability table. Most launchers expose no local statistics at all;
// their entries report ErrUnavailable and the catalog keeps its existing
// provenance labels rather than inventing any.
package stats

import (
	"context"
	"errors"
	"time"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/rs/zerolog/log"
)

// ErrUnavailable means a launcher has no statistics source for this
// title. It is the normal case, not a failure.
var ErrUnavailable = errors.New("statistics unavailable")

// Result carries launcher-reported statistics for one title. Zero-value
// fields mean the launcher did not report that statistic.
type Result struct {
	LastPlayed      *time.Time
	Achievements    *catalog.Achievements
	PlayTimeMinutes int
}

// Provider fetches launcher statistics for one candidate.
type Provider func(ctx context.Context, entry catalog.CandidateEntry) (Result, error)

// unavailable is the responder for launchers with no statistics source.
func unavailable(context.Context, catalog.CandidateEntry) (Result, error) {
	return Result{}, ErrUnavailable
}

// Table maps each launcher to its statistics provider. Launchers absent
// from the table are treated the same as an ErrUnavailable provider.
//
// Local manifest formats carry no playtime or achievement data, so every
// launcher currently maps to the unavailable responder; the table exists
// so per-launcher API clients can slot in without touching call sites.
func Table() map[catalog.Launcher]Provider {
	return map[catalog.Launcher]Provider{
		catalog.LauncherSteam:   unavailable,
		catalog.LauncherEpic:    unavailable,
		catalog.LauncherXbox:    unavailable,
		catalog.LauncherEA:      unavailable,
		catalog.LauncherUbisoft: unavailable,
		catalog.LauncherGOG:     unavailable,
		catalog.LauncherDesktop: unavailable,
		catalog.LauncherManual:  unavailable,
	}
}

// Refresh queries the table for one record and applies whatever the
// launcher reported. Fields the launcher did not report keep their
// existing values and provenance.
func Refresh(ctx context.Context, table map[catalog.Launcher]Provider, record *catalog.CatalogRecord) {
	provider, ok := table[record.Launcher]
	if !ok {
		return
	}

	result, err := provider(ctx, record.CandidateEntry)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			log.Warn().Err(err).Str("id", record.ID).Msg("statistics lookup failed")
		}
		return
	}

	Apply(record, result)
}

// Apply writes launcher-reported statistics into a record, labeling only
// the fields actually reported. Launcher playtime replaces locally
// accumulated totals because the launcher's figure is authoritative.
func Apply(record *catalog.CatalogRecord, result Result) {
	if result.PlayTimeMinutes > 0 {
		record.PlayTime.TotalMinutes = result.PlayTimeMinutes
		record.StatsSource.Playtime = catalog.OriginLauncher
	}
	if result.LastPlayed != nil {
		record.LastPlayed = result.LastPlayed
		record.StatsSource.LastPlayed = catalog.OriginLauncher
	}
	if result.Achievements != nil {
		record.Achievements = *result.Achievements
		record.StatsSource.Achievements = catalog.OriginLauncher
	}
}
