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
	"errors"
	"net/url"
	"strings"

	"github.com/atlasproject/atlas-core/pkg/shared/httpclient"
)

// searchResult is the wire shape of one lookup service match.
type searchResult struct {
	Name       string `json:"name"`
	Cover      string `json:"cover"`
	Background string `json:"background"`
}

// HTTPLookup queries a title lookup service over HTTP. The service takes
// the title as a query parameter and returns a JSON array of matches.
type HTTPLookup struct {
	client  *httpclient.Client
	baseURL string
}

func NewHTTPLookup(client *httpclient.Client, baseURL string) (*HTTPLookup, error) {
	if baseURL == "" {
		return nil, errors.New("lookup url not configured")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.New("invalid lookup url")
	}
	if client == nil {
		client = httpclient.DefaultClient
	}
	return &HTTPLookup{client: client, baseURL: baseURL}, nil
}

func (h *HTTPLookup) Lookup(ctx context.Context, title string) ([]Artwork, error) {
	query := url.Values{}
	query.Set("title", title)

	requestURL := h.baseURL
	if strings.Contains(requestURL, "?") {
		requestURL += "&" + query.Encode()
	} else {
		requestURL += "?" + query.Encode()
	}

	var results []searchResult
	if err := h.client.GetJSON(ctx, requestURL, &results); err != nil {
		return nil, err
	}

	artwork := make([]Artwork, 0, len(results))
	for _, r := range results {
		if r.Name == "" {
			continue
		}
		artwork = append(artwork, Artwork{
			Title:         r.Name,
			CoverURI:      r.Cover,
			BackgroundURI: r.Background,
		})
	}
	return artwork, nil
}
