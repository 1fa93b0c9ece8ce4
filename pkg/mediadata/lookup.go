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

// Package mediadata enriches catalog candidates with artwork from an
// external title lookup service.
package mediadata

import "context"

// Artwork is one lookup result. URIs may point at remote images or local
// cache paths depending on the lookup backend.
type Artwork struct {
	Title         string
	CoverURI      string
	BackgroundURI string
}

// TitleLookup searches an artwork source by title. A service that finds
// nothing returns (nil, nil); errors are reserved for transport failures.
type TitleLookup interface {
	Lookup(ctx context.Context, title string) ([]Artwork, error)
}
