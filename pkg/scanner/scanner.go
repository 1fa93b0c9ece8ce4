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

// Package scanner orchestrates the discovery pipeline: launcher adapters
// and the filesystem walker produce candidates, which flow through
// dedup, enrichment and catalog reconciliation.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/config"
	"github.com/atlasproject/atlas-core/pkg/helpers/syncutil"
	"github.com/atlasproject/atlas-core/pkg/launchers"
	"github.com/atlasproject/atlas-core/pkg/mediadata"
	"github.com/atlasproject/atlas-core/pkg/scanner/classify"
	"github.com/atlasproject/atlas-core/pkg/scanner/walker"
	"github.com/atlasproject/atlas-core/pkg/stats"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrScanInProgress is returned when a scan is started while another is
// still running. Scans are serialized, never queued.
var ErrScanInProgress = errors.New("scan already in progress")

// Session owns one catalog's scan pipeline and is the single writer to
// its persisted store. The playtime tracker and any other mutation path
// go through Session methods, never the store directly.
type Session struct {
	cfg        *config.Instance
	fs         afero.Fs
	store      *catalog.Store
	enricher   *mediadata.Enricher
	clock      clockwork.Clock
	statsTable map[catalog.Launcher]stats.Provider
	adapters   []launchers.Adapter
	classifier *classify.Classifier
	writeMu    syncutil.Mutex
	scanning   atomic.Bool
}

func NewSession(
	cfg *config.Instance,
	fs afero.Fs,
	store *catalog.Store,
	adapters []launchers.Adapter,
	enricher *mediadata.Enricher,
	clock clockwork.Clock,
) *Session {
	return &Session{
		cfg:        cfg,
		fs:         fs,
		store:      store,
		adapters:   adapters,
		enricher:   enricher,
		clock:      clock,
		statsTable: stats.Table(),
		classifier: classify.NewClassifier(cfg.CustomExclusions()),
	}
}

// RunFullScan runs every adapter, the deep filesystem scan, dedup,
// enrichment and reconciliation, returning the updated catalog. Only one
// scan may run at a time.
func (s *Session) RunFullScan(ctx context.Context) ([]catalog.CatalogRecord, error) {
	if !s.scanning.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer s.scanning.Store(false)

	candidates, report := launchers.RunAll(ctx, s.adapters, s.cfg.AdapterTimeout())
	log.Info().
		Int("candidates", len(candidates)).
		Int("succeeded", len(report.Succeeded)).
		Int("failed", len(report.Failed)).
		Msg("launcher adapters finished")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}

	roots := s.cfg.ScanRoots()
	if len(roots) == 0 {
		roots = walker.DetectDriveRoots(s.fs)
	}
	w := walker.New(s.fs, s.classifier, s.cfg.MinExeSize())
	found := w.DeepScan(ctx, roots, s.cfg.DeepScanDepth())
	log.Info().Int("candidates", len(found)).Msg("deep scan finished")
	candidates = append(candidates, found...)

	return s.finish(ctx, candidates)
}

// RunFolderScan scans a single user-chosen directory and returns the raw
// candidates. Nothing is written: the caller decides whether to pass the
// results to MergeCandidates.
func (s *Session) RunFolderScan(ctx context.Context, root string) ([]catalog.CandidateEntry, error) {
	if !s.scanning.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer s.scanning.Store(false)

	w := walker.New(s.fs, s.classifier, s.cfg.MinExeSize())
	candidates := w.ScanFolder(ctx, root, s.cfg.MaxDepth())
	log.Info().Str("root", root).Int("candidates", len(candidates)).Msg("folder scan finished")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}
	return candidates, nil
}

// MergeCandidates runs candidates through dedup, enrichment and catalog
// reconciliation, returning the updated catalog.
func (s *Session) MergeCandidates(ctx context.Context, candidates []catalog.CandidateEntry) ([]catalog.CatalogRecord, error) {
	return s.finish(ctx, candidates)
}

// finish runs the shared tail of every scan: dedup, enrichment and the
// single read-modify-write pass over the store.
func (s *Session) finish(ctx context.Context, candidates []catalog.CandidateEntry) ([]catalog.CatalogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}

	deduped := catalog.Deduplicate(candidates)
	if len(deduped) < len(candidates) {
		log.Debug().Int("collapsed", len(candidates)-len(deduped)).Msg("duplicate candidates collapsed")
	}

	if s.enricher != nil {
		deduped = s.enricher.Enrich(ctx, deduped)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	existing, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	merged := catalog.Merge(deduped, existing, s.clock)

	for i := range merged {
		stats.Refresh(ctx, s.statsTable, &merged[i])
	}

	if err := s.store.Save(merged); err != nil {
		return nil, err
	}

	log.Info().Int("records", len(merged)).Msg("catalog updated")
	return merged, nil
}

// Classify exposes the classifier verdict for a single executable, for
// callers that want to explain why a file was rejected.
func (s *Session) Classify(fileName, containingDir string) classify.Result {
	return s.classifier.Classify(fileName, containingDir)
}

// Catalog returns the current persisted catalog.
func (s *Session) Catalog() ([]catalog.CatalogRecord, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.store.Load()
}

// RecordSession appends an observed play session to a record and updates
// locally-observed provenance. It is safe to call while a scan is
// running; catalog writes are serialized.
func (s *Session) RecordSession(ctx context.Context, id string, session catalog.PlaySession) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("record session canceled: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	records, err := s.store.Load()
	if err != nil {
		return err
	}

	idx := -1
	for i := range records {
		if records[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no catalog record with id %q", id)
	}

	record := &records[idx]
	record.PlayTime.Sessions = append(record.PlayTime.Sessions, session)
	record.PlayTime.TotalMinutes += session.Minutes

	ended := session.Date.Add(time.Duration(session.Minutes) * time.Minute)
	if record.LastPlayed == nil || ended.After(*record.LastPlayed) {
		record.LastPlayed = &ended
		if record.StatsSource.LastPlayed != catalog.OriginLauncher {
			record.StatsSource.LastPlayed = catalog.OriginAtlas
		}
	}
	if record.StatsSource.Playtime != catalog.OriginLauncher {
		record.StatsSource.Playtime = catalog.OriginAtlas
	}

	return s.store.Save(records)
}
