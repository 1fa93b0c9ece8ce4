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
	"regexp"
	"sort"
	"strings"
)

// versionTokenRe matches version-number tokens inside titles, e.g. "v1.0",
// "1.2.3". Single bare numbers are kept ("Portal 2" must not collapse into
// "Portal").
var versionTokenRe = regexp.MustCompile(`(?i)\bv?\d+(\.\d+)+[a-z]?\b|\bv\d+\b`)

// NormalizeTitle produces the grouping key used for deduplication: version
// tokens removed, lower-cased, whitespace and punctuation stripped.
func NormalizeTitle(name string) string {
	s := versionTokenRe.ReplaceAllString(name, "")
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Deduplicate collapses candidates referring to the same real-world title.
// Within a group the surviving candidate is the one from the highest
// priority launcher; ties within the same launcher break deterministically
// on lexicographically smallest ID, then shortest executable path. The
// result is sorted by normalized name so the output is independent of input
// order.
func Deduplicate(candidates []CandidateEntry) []CandidateEntry {
	groups := make(map[string]CandidateEntry, len(candidates))

	for _, cand := range candidates {
		key := NormalizeTitle(cand.Name)
		if key == "" {
			key = strings.ToLower(cand.Name)
		}

		existing, ok := groups[key]
		if !ok || wins(cand, existing) {
			groups[key] = cand
		}
	}

	result := make([]CandidateEntry, 0, len(groups))
	for _, cand := range groups {
		result = append(result, cand)
	}
	sort.Slice(result, func(i, j int) bool {
		ni, nj := NormalizeTitle(result[i].Name), NormalizeTitle(result[j].Name)
		if ni != nj {
			return ni < nj
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// wins reports whether a should replace b as a group's survivor.
func wins(a, b CandidateEntry) bool {
	if a.Launcher.Priority() != b.Launcher.Priority() {
		return a.Launcher.Priority() < b.Launcher.Priority()
	}
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return len(a.ExecutablePath) < len(b.ExecutablePath)
}
