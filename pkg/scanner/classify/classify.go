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

// Package classify decides whether a file name plus containing directory
// denotes a legitimate game or application executable versus system noise.
package classify

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	minNameLength  = 4
	minAlphaRatio  = 0.6
	maxDigitCount  = 5
	maxSymbolCount = 3
)

// NormalizePath lower-cases a directory path and normalizes separators to
// forward slashes so the rule tables match either path style.
func NormalizePath(dir string) string {
	return strings.ToLower(strings.ReplaceAll(dir, `\`, `/`))
}

// DeniedPath reports whether dir falls under the hard path deny list. The
// filesystem walker checks this before descending into any directory.
func DeniedPath(dir string) bool {
	normalized := NormalizePath(dir)
	for _, fragment := range hardPathFragments {
		if strings.Contains(normalized, fragment) {
			return true
		}
	}
	return false
}

// Result explains a classification. Reason names the rejecting rule group
// so a caller can answer "why was this excluded"; accepted results carry
// the accepting rule ("whitelist", "trusted", "heuristics").
type Result struct {
	Reason  string
	Allowed bool
}

// Classifier applies the rule tables plus user-curated exclusions from
// config. The zero value is usable and applies only the built-in rules.
type Classifier struct {
	custom []NameRule
}

// NewClassifier compiles user exclusion patterns on top of the built-in
// tables. Invalid patterns are logged and skipped.
func NewClassifier(customExclusions []string) *Classifier {
	c := &Classifier{}
	for _, pattern := range customExclusions {
		re, err := regexp.Compile(`(?i)` + pattern)
		if err != nil {
			log.Warn().Msgf("invalid classifier exclusion pattern: %s", pattern)
			continue
		}
		c.custom = append(c.custom, NameRule{Pattern: re, Reason: "user exclusion"})
	}
	return c
}

// IsValidCandidate reports whether fileName inside containingDir looks like
// a real game/application executable. Deterministic, no I/O,
// case-insensitive on both arguments.
func (c *Classifier) IsValidCandidate(fileName, containingDir string) bool {
	return c.Classify(fileName, containingDir).Allowed
}

// Classify runs the full decision order; first match wins.
func (c *Classifier) Classify(fileName, containingDir string) Result {
	name := strings.ToLower(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
	dir := NormalizePath(containingDir)

	// 1. Hard path reject: system directories never hold user content,
	// whatever the file is called.
	for _, fragment := range hardPathFragments {
		if strings.Contains(dir, fragment) {
			return Result{Allowed: false, Reason: "system path"}
		}
	}

	// 2. Publisher/framework path reject: GUID or hash-shaped segments
	// under a first-party publisher marker.
	if guidSegmentRe.MatchString(dir) {
		return Result{Allowed: false, Reason: "framework path"}
	}
	if hashSegmentRe.MatchString(dir) && hasPublisherMarker(dir) {
		return Result{Allowed: false, Reason: "framework path"}
	}

	// 3. Utility-folder reject.
	if _, ok := utilityFolders[path.Base(dir)]; ok {
		return Result{Allowed: false, Reason: "utility folder"}
	}

	// 4. Name blacklist, built-in tables then user exclusions.
	for _, rule := range nameRejectRules {
		if rule.Pattern.MatchString(name) {
			return Result{Allowed: false, Reason: rule.Reason}
		}
	}
	for _, rule := range c.custom {
		if rule.Pattern.MatchString(name) {
			return Result{Allowed: false, Reason: rule.Reason}
		}
	}

	// 5. Opaque-identifier reject.
	if hexNameRe.MatchString(name) || guidNameRe.MatchString(name) || numericNameRe.MatchString(name) {
		return Result{Allowed: false, Reason: "opaque identifier"}
	}

	// 6. Generic-name reject.
	if _, ok := genericStems[name]; ok {
		return Result{Allowed: false, Reason: "generic name"}
	}

	// 7. Known-tool reject.
	for _, keyword := range toolKeywords {
		if strings.Contains(name, keyword) {
			return Result{Allowed: false, Reason: "known tool"}
		}
	}

	// 8. Whitelist accept, short-circuiting the remaining heuristics.
	// Known-good applications often fail the digit/ratio checks below.
	for _, keyword := range whitelistKeywords {
		if strings.Contains(name, keyword) {
			return Result{Allowed: true, Reason: "whitelist"}
		}
	}

	// 9. Trust relaxation: launcher-managed game-content folders skip the
	// noise heuristics; only the length floor applies.
	trusted := false
	for _, fragment := range trustedPathFragments {
		if strings.Contains(dir, fragment) {
			trusted = true
			break
		}
	}

	// 10. Length floor.
	if len(name) < minNameLength {
		return Result{Allowed: false, Reason: "name too short"}
	}

	if trusted {
		return Result{Allowed: true, Reason: "trusted"}
	}

	// 11. Alphabetic-ratio heuristic.
	alpha, digits, symbols := charCounts(name)
	if float64(alpha)/float64(len(name)) < minAlphaRatio {
		return Result{Allowed: false, Reason: "low alphabetic ratio"}
	}

	// 12. Noise-density heuristic.
	if digits > maxDigitCount || symbols > maxSymbolCount {
		return Result{Allowed: false, Reason: "noisy name"}
	}

	// 13. Nothing known to be wrong with it.
	return Result{Allowed: true, Reason: "heuristics"}
}

func hasPublisherMarker(dir string) bool {
	for _, marker := range publisherMarkers {
		if strings.Contains(dir, marker) {
			return true
		}
	}
	return false
}

// charCounts tallies alphabetic, digit and non-alphanumeric-non-separator
// characters. Spaces, dashes, underscores and dots are separators, counted
// in neither bucket.
func charCounts(name string) (alpha, digits, symbols int) {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			alpha++
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '_' || r == '.':
			// separator
		default:
			symbols++
		}
	}
	return alpha, digits, symbols
}
