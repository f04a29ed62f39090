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

// Package metadata resolves host library entries against the local LaunchBox
// store and turns the matched record into host-facing metadata fields.
package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/platformmap"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/regions"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/slugs"
	"github.com/rs/zerolog/log"
)

// ErrNotResolvable means the query has no usable name or nothing in the store
// matches it. Callers fall back to their own defaults.
var ErrNotResolvable = errors.New("game not resolvable")

// ErrStoreNotReady means the store is being replaced or was left partial by
// a failed import. It wraps ErrNotResolvable and is never memoized.
var ErrStoreNotReady = fmt.Errorf("%w: metadata store not ready", ErrNotResolvable)

// Resolver matches queries against the store. It holds no per-request state
// and may be shared; each Resolve call opens its own store connection.
type Resolver struct {
	open      database.Opener
	platforms *platformmap.Mapper
}

// NewResolver creates a Resolver. A nil mapper uses the embedded platform
// table.
func NewResolver(open database.Opener, platforms *platformmap.Mapper) *Resolver {
	if platforms == nil {
		platforms = platformmap.Default()
	}
	return &Resolver{open: open, platforms: platforms}
}

// PlatformKey maps a host platform id to the store's PlatformSearch key.
func (r *Resolver) PlatformKey(platformID string) string {
	return slugs.Slugify(r.platforms.Resolve(platformID))
}

// Resolve returns the session's reference game, resolving it on first use.
// Found and not-found outcomes are memoized on the session; store errors are
// not, so a later call retries.
func (r *Resolver) Resolve(ctx context.Context, s *Session) (*ResolvedGame, error) {
	if game, done := s.Resolved(); done {
		if game == nil {
			return nil, ErrNotResolvable
		}
		return game, nil
	}

	nameKey := ""
	if strings.TrimSpace(s.Query.Name) != "" {
		nameKey = slugs.Slugify(s.Query.Name)
	}
	if nameKey == "" {
		s.memoize(nil)
		return nil, ErrNotResolvable
	}

	if s.priority.Empty() {
		if region := s.Query.firstRegion(); region != "" {
			s.priority = regions.FromRegionField(region)
		} else if region := s.Query.pathRegion(); region != "" {
			s.priority = regions.FromRegionField(region)
		}
	}

	platformKey := r.PlatformKey(s.Query.PlatformID)

	game, err := r.lookup(ctx, s, platformKey, nameKey)
	if err != nil {
		return nil, err
	}
	if game == nil {
		log.Debug().
			Str("name", s.Query.Name).
			Str("platform", platformKey).
			Msg("no metadata match")
		s.memoize(nil)
		return nil, ErrNotResolvable
	}

	if s.priority.Empty() {
		s.priority = regions.Default()
	}

	log.Debug().
		Int64("databaseId", game.DatabaseID).
		Str("name", game.Name).
		Bool("alternate", game.AlternateName).
		Msg("resolved metadata match")
	s.memoize(game)
	return game, nil
}

func (r *Resolver) lookup(
	ctx context.Context,
	s *Session,
	platformKey, nameKey string,
) (*ResolvedGame, error) {
	db, err := r.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close metadata store")
		}
	}()

	if err := checkComplete(ctx, db); err != nil {
		return nil, err
	}

	found, err := db.FindGame(ctx, platformKey, nameKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no match is not an error
	} else if err != nil {
		return nil, fmt.Errorf("failed to find game: %w", err)
	}

	game := &ResolvedGame{Game: found}
	if found.NameSearch == nameKey {
		return game, nil
	}

	alternates, err := db.GetAlternateNames(ctx, found.DatabaseID, nameKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get alternate names: %w", err)
	}
	if len(alternates) == 0 {
		return game, nil
	}

	first := alternates[0]
	if strings.TrimSpace(first.AlternateName) != "" {
		game.Name = first.AlternateName
		game.AlternateName = true
	}
	if len(alternates) == 1 && strings.TrimSpace(first.Region) != "" && s.priority.Empty() {
		s.priority = regions.FromRegionField(first.Region)
	}

	return game, nil
}

// Images returns the resolved game's images, reading them from the store
// once per session.
func (r *Resolver) Images(ctx context.Context, s *Session) ([]database.GameImage, error) {
	game, err := r.Resolve(ctx, s)
	if err != nil {
		return nil, err
	}
	if s.imagesLoaded {
		return s.images, nil
	}

	db, err := r.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close metadata store")
		}
	}()

	if err := checkComplete(ctx, db); err != nil {
		return nil, err
	}

	images, err := db.GetImages(ctx, game.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get images: %w", err)
	}

	s.images = images
	s.imagesLoaded = true
	return images, nil
}

func checkComplete(ctx context.Context, db database.MetadataDBI) error {
	complete, err := db.Complete(ctx)
	if err != nil {
		return fmt.Errorf("failed to check metadata store: %w", err)
	}
	if !complete {
		return ErrStoreNotReady
	}
	return nil
}
