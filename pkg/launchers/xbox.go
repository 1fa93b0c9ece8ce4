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
	"strings"
	"unicode"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/rs/zerolog/log"
)

// Package is one installed UWP/Microsoft Store package.
type Package struct {
	Name            string
	PackageFamilyID string
	InstallLocation string
}

// PackageInventory lists installed store packages. The OS-specific
// implementation lives behind this interface so the adapter can be tested
// with a fixture inventory.
type PackageInventory interface {
	InstalledPackages(ctx context.Context) ([]Package, error)
}

// xboxSystemPrefixes match package names that are OS components or
// frameworks rather than titles a user installed.
var xboxSystemPrefixes = []string{
	"microsoft.windows",
	"microsoft.net",
	"microsoft.ui",
	"microsoft.vclibs",
	"microsoft.services",
	"microsoft.directx",
	"microsoft.advertising",
	"microsoft.gamingservices",
	"microsoft.xbox",
}

var xboxSystemKeywords = []string{
	"runtime",
	"framework",
	"redist",
	"webview",
	"extension",
	"store",
}

// Xbox discovers installed titles from the store package inventory,
// filtering out the large population of system and framework packages.
type Xbox struct {
	inventory PackageInventory
}

func NewXbox(inventory PackageInventory) *Xbox {
	return &Xbox{inventory: inventory}
}

func (*Xbox) ID() catalog.Launcher {
	return catalog.LauncherXbox
}

func (x *Xbox) Scan(ctx context.Context) ([]catalog.CandidateEntry, error) {
	if x.inventory == nil {
		log.Debug().Msg("no package inventory available on this platform")
		return nil, nil
	}

	packages, err := x.inventory.InstalledPackages(ctx)
	if err != nil {
		return nil, err
	}

	var results []catalog.CandidateEntry
	seen := make(map[string]struct{})

	for _, pkg := range packages {
		if pkg.PackageFamilyID == "" || isSystemPackage(pkg.Name) {
			continue
		}

		id := "xbox-" + pkg.PackageFamilyID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		results = append(results, catalog.CandidateEntry{
			ID:              id,
			Name:            packageDisplayName(pkg.Name),
			InstallPath:     pkg.InstallLocation,
			Launcher:        catalog.LauncherXbox,
			ItemType:        catalog.ItemTypeGame,
			PackageFamilyID: pkg.PackageFamilyID,
		})
	}

	return results, nil
}

// isSystemPackage rejects OS components, frameworks and packages whose
// names are dominated by digits (internal build artifacts).
func isSystemPackage(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range xboxSystemPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	for _, keyword := range xboxSystemKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	digits := 0
	for _, r := range name {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits > 5
}

// packageDisplayName derives a readable title from a package name like
// "BethesdaSoftworks.Starfield": take the segment after the publisher and
// split it on camelCase boundaries.
func packageDisplayName(name string) string {
	if i := strings.Index(name, "."); i >= 0 && i+1 < len(name) {
		name = name[i+1:]
	}
	// A second segment usually carries edition qualifiers; keep only the
	// title segment.
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}

	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// "HaloInfinite" splits before I; "XCOMEnemy" splits before E.
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
