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

package catalog

import (
	"sort"

	"github.com/jonboulle/clockwork"
)

// Merge reconciles freshly discovered candidates into the existing catalog.
//
// Candidates with a novel ID are inserted with default user-owned fields.
// For known IDs, discoverable fields (name, paths, native IDs) take the
// candidate's values while user-owned fields keep their stored values; a
// stored absent value is filled from the candidate exactly once. Existing
// records not present in the candidate list are carried over untouched, so
// a launcher being temporarily unreadable never drops its games.
//
// Merge is idempotent: running it twice with the same candidates yields an
// identical catalog after the second run.
func Merge(candidates []CandidateEntry, existing []CatalogRecord, clock clockwork.Clock) []CatalogRecord {
	byID := make(map[string]int, len(existing))
	merged := make([]CatalogRecord, len(existing))
	copy(merged, existing)
	for i, rec := range merged {
		byID[rec.ID] = i
	}

	for _, cand := range candidates {
		idx, ok := byID[cand.ID]
		if !ok {
			merged = append(merged, newRecord(cand, clock))
			byID[cand.ID] = len(merged) - 1
			continue
		}
		merged[idx] = updateRecord(merged[idx], cand)
	}

	// Stable output order keeps repeated merges byte-identical on disk.
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ID < merged[j].ID
	})

	return merged
}

func newRecord(cand CandidateEntry, clock clockwork.Clock) CatalogRecord {
	if cand.ItemType == "" {
		cand.ItemType = DefaultItemType(cand.Launcher)
	}

	return CatalogRecord{
		CandidateEntry: cand,
		AddedAt:        clock.Now().UTC(),
		// Categories may be auto-seeded from the launcher on first insert
		// only; after that they belong to the user.
		Categories:  []string{cand.Launcher.Label()},
		StatsSource: UnknownStatsSource(),
	}
}

// updateRecord refreshes discoverable fields from the candidate while
// keeping every user-owned field. User-owned fields are filled from the
// candidate only when the stored value is absent.
func updateRecord(rec CatalogRecord, cand CandidateEntry) CatalogRecord {
	rec.Name = cand.Name
	rec.ExecutablePath = cand.ExecutablePath
	rec.InstallPath = cand.InstallPath
	rec.Launcher = cand.Launcher

	if cand.SteamAppID != "" {
		rec.SteamAppID = cand.SteamAppID
	}
	if cand.EpicAppName != "" {
		rec.EpicAppName = cand.EpicAppName
	}
	if cand.PackageFamilyID != "" {
		rec.PackageFamilyID = cand.PackageFamilyID
	}
	if cand.EAID != "" {
		rec.EAID = cand.EAID
	}
	if cand.UplayID != "" {
		rec.UplayID = cand.UplayID
	}
	if cand.GOGID != "" {
		rec.GOGID = cand.GOGID
	}

	// One-time fills for user-owned fields.
	if rec.CoverImage == "" {
		rec.CoverImage = cand.CoverImage
	}
	if rec.BackgroundImage == "" {
		rec.BackgroundImage = cand.BackgroundImage
	}
	if rec.ItemType == "" {
		rec.ItemType = cand.ItemType
	}
	if len(rec.Categories) == 0 {
		rec.Categories = []string{cand.Launcher.Label()}
	}

	return rec
}
