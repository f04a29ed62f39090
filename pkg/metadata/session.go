// LBGDB Metadata
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LBGDB Metadata.
//
// LBGDB Metadata is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LBGDB Metadata is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LBGDB Metadata.  If not, see <http://www.gnu.org/licenses/>.

package metadata

import (
	"strings"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/regions"
)

// Query describes one game of the host library. Only Name is required.
type Query struct {
	Name       string
	PlatformID string
	Regions    []string
	Paths      []string
}

// firstRegion returns the first non-blank region descriptor.
func (q Query) firstRegion() string {
	for _, r := range q.Regions {
		if r = strings.TrimSpace(r); r != "" {
			return r
		}
	}
	return ""
}

// pathRegion returns the region tag of the first path that carries one.
func (q Query) pathRegion() string {
	for _, p := range q.Paths {
		if r := regions.FromFileConvention(p); r != "" {
			return r
		}
	}
	return ""
}

// ResolvedGame is the reference game chosen for a session. Name holds the
// matched alternate title when the match came through an alternate name.
type ResolvedGame struct {
	database.Game
	// AlternateName is set when Name was overridden by an alternate title.
	AlternateName bool
}

// Session holds the state of one metadata request: the query, the memoized
// resolution and the region priority list. A Session belongs to a single
// caller and is not safe for concurrent use.
type Session struct {
	game     *ResolvedGame
	priority regions.PriorityList
	images   []database.GameImage
	Query    Query
	resolved bool
	// imagesLoaded is set once the resolved game's images were read.
	imagesLoaded bool
}

func NewSession(q Query) *Session {
	return &Session{Query: q}
}

// Priority returns the session's region priority list, empty until one is
// established.
func (s *Session) Priority() regions.PriorityList {
	return s.priority
}

// SetPriority seeds the region priority before resolution, overriding the
// query's own region hints.
func (s *Session) SetPriority(p regions.PriorityList) {
	s.priority = p
}

// Resolved returns the memoized outcome. The bool is false until Resolve has
// finished once; a nil game with true means nothing matched.
func (s *Session) Resolved() (*ResolvedGame, bool) {
	return s.game, s.resolved
}

func (s *Session) memoize(game *ResolvedGame) {
	s.game = game
	s.resolved = true
}
