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

package mediadata

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/config"
	"github.com/hbollon/go-edlib"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// lookupRate paces requests against the lookup service regardless of
// batch concurrency.
const lookupRate = rate.Limit(5)

var editionSuffixRe = regexp.MustCompile(
	`(?i)\s*(game of the year|goty|definitive|deluxe|ultimate|complete|remastered|enhanced)( edition)?\s*$`,
)

var nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)

// Enricher fills in missing artwork on scan candidates by querying a
// title lookup service. Lookups run in bounded batches and every failure
// is soft: a candidate that cannot be enriched passes through unchanged.
type Enricher struct {
	lookup  TitleLookup
	cfg     *config.Instance
	clock   clockwork.Clock
	limiter *rate.Limiter
}

func NewEnricher(lookup TitleLookup, cfg *config.Instance, clock clockwork.Clock) *Enricher {
	return &Enricher{
		lookup:  lookup,
		cfg:     cfg,
		clock:   clock,
		limiter: rate.NewLimiter(lookupRate, 1),
	}
}

// Enrich returns candidates with artwork filled in where a confident
// match was found. Apps and candidates that already carry a cover are
// left alone. Input order is preserved.
func (e *Enricher) Enrich(ctx context.Context, candidates []catalog.CandidateEntry) []catalog.CandidateEntry {
	if e.lookup == nil || len(candidates) == 0 {
		return candidates
	}

	out := make([]catalog.CandidateEntry, len(candidates))
	copy(out, candidates)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.BatchSize())

	for i := range out {
		if out[i].ItemType == catalog.ItemTypeApp || out[i].CoverImage != "" {
			continue
		}
		i := i

		g.Go(func() error {
			artwork, ok := e.lookupTitle(ctx, out[i].Name)
			if !ok {
				return nil
			}
			out[i].CoverImage = artwork.CoverURI
			out[i].BackgroundImage = artwork.BackgroundURI
			return nil
		})
	}
	// Goroutines only return nil; Wait is for joining.
	_ = g.Wait()

	return out
}

// lookupTitle tries progressively looser variations of the name until one
// of them produces a match above the similarity threshold.
func (e *Enricher) lookupTitle(ctx context.Context, name string) (Artwork, bool) {
	threshold := e.cfg.MinSimilarity()

	for _, variation := range titleVariations(name) {
		results, err := e.search(ctx, variation)
		if err != nil {
			log.Warn().Err(err).Str("title", variation).Msg("artwork lookup failed")
			continue
		}

		if artwork, ok := bestMatch(variation, results, threshold); ok {
			log.Debug().
				Str("title", name).
				Str("matched", artwork.Title).
				Msg("artwork match accepted")
			return artwork, true
		}
	}

	return Artwork{}, false
}

// search performs one lookup with retries, pacing each request through
// the shared limiter.
func (e *Enricher) search(ctx context.Context, title string) ([]Artwork, error) {
	attempts := e.cfg.LookupAttempts()

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		lookupCtx, cancel := context.WithTimeout(ctx, e.cfg.LookupTimeout())
		results, err := e.lookup.Lookup(lookupCtx, title)
		cancel()

		if err == nil {
			return results, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		if attempt < attempts-1 {
			e.clock.Sleep(time.Second << attempt)
		}
	}

	return nil, lastErr
}

// bestMatch picks the highest-similarity result at or above threshold.
// Similarity is normalized edit distance, not a prefix-weighted metric: a
// shared prefix alone ("Counter-Strike" vs "Counter Culture") must not
// clear the gate.
func bestMatch(query string, results []Artwork, threshold float64) (Artwork, bool) {
	var (
		best      Artwork
		bestScore float64 = -1
	)

	for _, result := range results {
		score, err := edlib.StringsSimilarity(
			strings.ToLower(query),
			strings.ToLower(result.Title),
			edlib.DamerauLevenshtein,
		)
		if err != nil {
			log.Warn().Err(err).Str("title", result.Title).Msg("error computing title similarity")
			continue
		}
		if float64(score) > bestScore {
			best, bestScore = result, float64(score)
		}
	}

	if bestScore < threshold {
		return Artwork{}, false
	}
	return best, true
}

// titleVariations yields search terms from most to least specific: the
// name as-is, with punctuation stripped, and with edition suffixes
// removed.
func titleVariations(name string) []string {
	variations := []string{name}

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		for _, existing := range variations {
			if strings.EqualFold(existing, s) {
				return
			}
		}
		variations = append(variations, s)
	}

	add(strings.Join(strings.Fields(nonAlnumRe.ReplaceAllString(name, " ")), " "))
	add(editionSuffixRe.ReplaceAllString(name, ""))

	return variations
}
