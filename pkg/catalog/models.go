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

// Package catalog defines the discovery and catalog data model and the
// dedup/merge pipeline stages that operate on it.
package catalog

import "time"

// Launcher identifies the source a candidate was discovered through.
type Launcher string

const (
	LauncherSteam   Launcher = "steam"
	LauncherEpic    Launcher = "epic"
	LauncherXbox    Launcher = "xbox"
	LauncherEA      Launcher = "ea"
	LauncherUbisoft Launcher = "ubisoft"
	LauncherGOG     Launcher = "gog"
	LauncherDesktop Launcher = "desktop"
	LauncherManual  Launcher = "manual"
)

// launcherPriority orders launchers by metadata richness. Lower is better.
// Used by Deduplicate to pick the surviving candidate for a title that was
// discovered through multiple sources.
var launcherPriority = map[Launcher]int{
	LauncherSteam:   0,
	LauncherEpic:    1,
	LauncherXbox:    2,
	LauncherEA:      3,
	LauncherUbisoft: 4,
	LauncherGOG:     5,
	LauncherDesktop: 6,
	LauncherManual:  7,
}

// Priority returns the dedup rank of the launcher. Unknown launchers rank
// below every known one.
func (l Launcher) Priority() int {
	if p, ok := launcherPriority[l]; ok {
		return p
	}
	return len(launcherPriority)
}

// Label returns the display label used to seed categories on first insert.
func (l Launcher) Label() string {
	switch l {
	case LauncherSteam:
		return "Steam"
	case LauncherEpic:
		return "Epic Games"
	case LauncherXbox:
		return "Xbox"
	case LauncherEA:
		return "EA"
	case LauncherUbisoft:
		return "Ubisoft"
	case LauncherGOG:
		return "GOG"
	case LauncherDesktop:
		return "Desktop"
	case LauncherManual:
		return "Manual"
	default:
		return string(l)
	}
}

// ItemType distinguishes a trackable game from a general application.
type ItemType string

const (
	ItemTypeGame ItemType = "game"
	ItemTypeApp  ItemType = "app"
)

// DefaultItemType returns the item type a launcher's discoveries default to.
// Launcher-sourced entries are games; filesystem discoveries are apps until
// the user reclassifies them.
func DefaultItemType(l Launcher) ItemType {
	if l == LauncherDesktop {
		return ItemTypeApp
	}
	return ItemTypeGame
}

// CandidateEntry is a transient discovery result produced during a scan
// pass and discarded after catalog merge.
type CandidateEntry struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ExecutablePath  string   `json:"executablePath,omitempty"`
	InstallPath     string   `json:"installPath,omitempty"`
	Launcher        Launcher `json:"launcher"`
	ItemType        ItemType `json:"itemType"`
	SteamAppID      string   `json:"steamAppId,omitempty"`
	EpicAppName     string   `json:"epicAppName,omitempty"`
	PackageFamilyID string   `json:"packageFamilyName,omitempty"`
	EAID            string   `json:"eaId,omitempty"`
	UplayID         string   `json:"uplayId,omitempty"`
	GOGID           string   `json:"gogId,omitempty"`
	CoverImage      string   `json:"coverImage,omitempty"`
	BackgroundImage string   `json:"backgroundImage,omitempty"`
}

// PlaySession records a single observed play session.
type PlaySession struct {
	Date    time.Time `json:"date"`
	Minutes int       `json:"duration"`
}

// PlayTime accumulates monotonically across sessions.
type PlayTime struct {
	Sessions     []PlaySession `json:"sessions,omitempty"`
	TotalMinutes int           `json:"totalMinutes"`
}

// Achievement is a single achievement entry from a stats provider.
type Achievement struct {
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Unlocked   bool       `json:"unlocked"`
}

// Achievements is the per-record achievement summary.
type Achievements struct {
	LastUpdated *time.Time    `json:"lastUpdated,omitempty"`
	List        []Achievement `json:"list,omitempty"`
	Unlocked    int           `json:"unlocked"`
	Total       int           `json:"total"`
}

// StatsOrigin labels where a statistic came from. It is never fabricated:
// a stat with no authoritative source stays OriginUnknown.
type StatsOrigin string

const (
	OriginLauncher StatsOrigin = "launcher"
	OriginAtlas    StatsOrigin = "atlas"
	OriginUnknown  StatsOrigin = "unknown"
)

// StatsSource records provenance per statistic.
type StatsSource struct {
	Playtime     StatsOrigin `json:"playtimeSource"`
	LastPlayed   StatsOrigin `json:"lastPlayedSource"`
	Achievements StatsOrigin `json:"achievementsSource"`
}

// UnknownStatsSource is the provenance of a freshly inserted record.
func UnknownStatsSource() StatsSource {
	return StatsSource{
		Playtime:     OriginUnknown,
		LastPlayed:   OriginUnknown,
		Achievements: OriginUnknown,
	}
}

// CatalogRecord is the persisted form of an entry, a superset of
// CandidateEntry with user-owned and activity-owned fields.
type CatalogRecord struct {
	CandidateEntry

	AddedAt      time.Time    `json:"addedAt"`
	LastPlayed   *time.Time   `json:"lastPlayed,omitempty"`
	Categories   []string     `json:"categories,omitempty"`
	PlayTime     PlayTime     `json:"playTime"`
	Achievements Achievements `json:"achievements"`
	StatsSource  StatsSource  `json:"statsSource"`
	IsFavorite   bool         `json:"isFavorite"`
}
