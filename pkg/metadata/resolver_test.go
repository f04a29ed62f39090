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
	"context"
	"errors"
	"testing"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/platformmap"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/regions"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolve_EndToEnd(t *testing.T) {
	t.Parallel()
	opener := newSeededStore(t)
	resolver := NewResolver(opener.Open, nil)
	ctx := context.Background()

	session := NewSession(Query{Name: "Sonic the Hedgehog", PlatformID: "sega_genesis"})
	game, err := resolver.Resolve(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, int64(1), game.DatabaseID)
	assert.Equal(t, "Sonic the Hedgehog", game.Name)
	assert.False(t, game.AlternateName)
	assert.Equal(t, regions.Default().Ordered(), session.Priority().Ordered())
	assert.Equal(t, int64(1), opener.Opens())

	blank := NewSession(Query{Name: "", PlatformID: "sega_genesis"})
	_, err = resolver.Resolve(ctx, blank)
	require.ErrorIs(t, err, ErrNotResolvable)
	assert.Equal(t, int64(1), opener.Opens(), "blank name must not touch the store")
}

func TestResolve_UnusableNames(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "   ", "(USA) [!]", "!!!"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			opener := helpers.NewCountingOpener(func(context.Context) (database.MetadataDBI, error) {
				return nil, errors.New("store must not be opened")
			})
			resolver := NewResolver(opener.Open, nil)
			session := NewSession(Query{Name: name, PlatformID: "sega_genesis"})

			_, err := resolver.Resolve(context.Background(), session)
			require.ErrorIs(t, err, ErrNotResolvable)
			assert.Zero(t, opener.Opens())

			game, done := session.Resolved()
			assert.True(t, done)
			assert.Nil(t, game)
		})
	}
}

func TestResolve_AlternateNameOverridesAndSeedsRegion(t *testing.T) {
	t.Parallel()
	resolver := NewResolver(newSeededStore(t).Open, nil)

	session := NewSession(Query{Name: "Super Game (Europe)", PlatformID: "sega_genesis"})
	game, err := resolver.Resolve(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, int64(2), game.DatabaseID)
	assert.Equal(t, "Super Game", game.Name)
	assert.True(t, game.AlternateName)
	assert.Equal(t, "megagame", game.NameSearch)
	assert.Equal(t, 0, session.Priority().Rank(regions.Europe))
	assert.Equal(t, regions.FromRegionField("Europe").Ordered(), session.Priority().Ordered())
}

func TestResolve_SeveralAlternatesKeepDefaultPriority(t *testing.T) {
	t.Parallel()
	resolver := NewResolver(newSeededStore(t).Open, nil)

	session := NewSession(Query{Name: "Twins Alpha", PlatformID: "sega_genesis"})
	game, err := resolver.Resolve(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, int64(3), game.DatabaseID)
	assert.Equal(t, "Twins: Alpha", game.Name, "first alternate in insertion order")
	assert.Equal(t, regions.Default().Ordered(), session.Priority().Ordered())
}

func TestResolve_RegionSources(t *testing.T) {
	t.Parallel()
	resolver := NewResolver(newSeededStore(t).Open, nil)

	tests := []struct {
		name  string
		query Query
		first string
	}{
		{
			name:  "query region wins over alternate region",
			query: Query{Name: "Super Game", PlatformID: "sega_genesis", Regions: []string{" ", "Japan"}},
			first: regions.Japan,
		},
		{
			name: "path region when no query region",
			query: Query{
				Name:       "Super Game",
				PlatformID: "sega_genesis",
				Paths:      []string{"/roms/genesis/notes.txt", "/roms/genesis/Super Game (Japan).md"},
			},
			first: regions.Japan,
		},
		{
			name:  "alternate region when no hints",
			query: Query{Name: "Super Game", PlatformID: "sega_genesis"},
			first: regions.Europe,
		},
		{
			name:  "default for own name match",
			query: Query{Name: "Mega Game", PlatformID: "sega_genesis"},
			first: regions.NorthAmerica,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			session := NewSession(tt.query)
			_, err := resolver.Resolve(context.Background(), session)
			require.NoError(t, err)
			assert.Equal(t, tt.first, session.Priority().Ordered()[0])
		})
	}
}

func TestResolve_PresetPriorityKept(t *testing.T) {
	t.Parallel()
	resolver := NewResolver(newSeededStore(t).Open, nil)

	session := NewSession(Query{Name: "Super Game", PlatformID: "sega_genesis", Regions: []string{"Japan"}})
	session.SetPriority(regions.NewPriorityList(regions.Brazil))

	_, err := resolver.Resolve(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, []string{regions.Brazil}, session.Priority().Ordered())
}

func TestResolve_PlatformMapping(t *testing.T) {
	t.Parallel()
	resolver := NewResolver(newSeededStore(t).Open, nil)
	ctx := context.Background()

	snes := NewSession(Query{Name: "Mega Game", PlatformID: "nintendo_super_nes"})
	game, err := resolver.Resolve(ctx, snes)
	require.NoError(t, err)
	assert.Equal(t, int64(4), game.DatabaseID)

	referenceName := NewSession(Query{Name: "Mega Game", PlatformID: "Sega Genesis"})
	game, err = resolver.Resolve(ctx, referenceName)
	require.NoError(t, err)
	assert.Equal(t, int64(2), game.DatabaseID)

	wrongPlatform := NewSession(Query{Name: "Sonic the Hedgehog", PlatformID: "nintendo_super_nes"})
	_, err = resolver.Resolve(ctx, wrongPlatform)
	require.ErrorIs(t, err, ErrNotResolvable)
}

func TestResolve_ExtraPlatformAliases(t *testing.T) {
	t.Parallel()

	mapper, err := platformmap.New(map[string]string{"my_megadrive": "segagenesis"})
	require.NoError(t, err)
	resolver := NewResolver(newSeededStore(t).Open, mapper)

	game, err := resolver.Resolve(context.Background(), NewSession(Query{
		Name:       "Sonic the Hedgehog",
		PlatformID: "MY_MEGADRIVE",
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), game.DatabaseID)
	assert.Equal(t, "segagenesis", resolver.PlatformKey("my_megadrive"))
}

func TestResolve_Memoized(t *testing.T) {
	t.Parallel()
	opener := newSeededStore(t)
	resolver := NewResolver(opener.Open, nil)
	ctx := context.Background()

	found := NewSession(Query{Name: "Sonic the Hedgehog", PlatformID: "sega_genesis"})
	first, err := resolver.Resolve(ctx, found)
	require.NoError(t, err)
	second, err := resolver.Resolve(ctx, found)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), opener.Opens())

	missing := NewSession(Query{Name: "Unknown Game", PlatformID: "sega_genesis"})
	_, err = resolver.Resolve(ctx, missing)
	require.ErrorIs(t, err, ErrNotResolvable)
	_, err = resolver.Resolve(ctx, missing)
	require.ErrorIs(t, err, ErrNotResolvable)
	assert.Equal(t, int64(2), opener.Opens())
	assert.True(t, missing.Priority().Empty(), "no match leaves priority unset")
}

func TestResolve_StoreErrorNotMemoized(t *testing.T) {
	t.Parallel()

	db := helpers.NewMockMetadataDBI()
	db.On("Complete", mock.Anything).Return(true, nil)
	game := database.Game{DatabaseID: 7, Name: "Sonic", NameSearch: "sonic", PlatformSearch: "segagenesis"}
	db.On("FindGame", mock.Anything, "segagenesis", "sonic").
		Return(database.Game{}, errors.New("database is locked")).Once()
	db.On("FindGame", mock.Anything, "segagenesis", "sonic").
		Return(game, nil).Once()
	db.On("Close").Return(nil)

	opener := helpers.NewCountingOpener(helpers.MockOpener(db))
	resolver := NewResolver(opener.Open, nil)
	session := NewSession(Query{Name: "Sonic", PlatformID: "sega_genesis"})

	_, err := resolver.Resolve(context.Background(), session)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotResolvable)
	_, done := session.Resolved()
	assert.False(t, done)

	resolved, err := resolver.Resolve(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resolved.DatabaseID)
	assert.Equal(t, int64(2), opener.Opens())
	db.AssertExpectations(t)
}

func TestResolve_AlternateLookupError(t *testing.T) {
	t.Parallel()

	db := helpers.NewMockMetadataDBI()
	db.On("Complete", mock.Anything).Return(true, nil)
	db.On("FindGame", mock.Anything, "segagenesis", "supergame").
		Return(database.Game{DatabaseID: 2, NameSearch: "megagame"}, nil)
	db.On("GetAlternateNames", mock.Anything, int64(2), "supergame").
		Return(nil, errors.New("disk I/O error"))
	db.On("Close").Return(nil)

	resolver := NewResolver(helpers.MockOpener(db), nil)
	_, err := resolver.Resolve(context.Background(), NewSession(Query{Name: "Super Game", PlatformID: "sega_genesis"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get alternate names")
	db.AssertExpectations(t)
}

func TestResolve_IncompleteStoreNotMemoized(t *testing.T) {
	t.Parallel()

	db := helpers.NewMockMetadataDBI()
	db.On("Complete", mock.Anything).Return(false, nil).Once()
	db.On("Complete", mock.Anything).Return(true, nil)
	db.On("FindGame", mock.Anything, "segagenesis", "sonic").
		Return(database.Game{DatabaseID: 7, NameSearch: "sonic"}, nil).Once()
	db.On("Close").Return(nil)

	resolver := NewResolver(helpers.MockOpener(db), nil)
	session := NewSession(Query{Name: "Sonic", PlatformID: "sega_genesis"})

	_, err := resolver.Resolve(context.Background(), session)
	require.ErrorIs(t, err, ErrStoreNotReady)
	require.ErrorIs(t, err, ErrNotResolvable)
	_, done := session.Resolved()
	assert.False(t, done, "a store mid-import must not memoize a miss")

	resolved, err := resolver.Resolve(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resolved.DatabaseID)
	db.AssertExpectations(t)
}

func TestResolve_CompleteCheckError(t *testing.T) {
	t.Parallel()

	db := helpers.NewMockMetadataDBI()
	db.On("Complete", mock.Anything).Return(false, errors.New("no such table"))
	db.On("Close").Return(nil)

	resolver := NewResolver(helpers.MockOpener(db), nil)
	_, err := resolver.Resolve(context.Background(), NewSession(Query{Name: "Sonic"}))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotResolvable)
	assert.Contains(t, err.Error(), "failed to check metadata store")
	db.AssertNotCalled(t, "FindGame", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_UnmarkedStore(t *testing.T) {
	t.Parallel()

	db, open := helpers.NewTestMetadataDB(t)
	require.NoError(t, db.InsertGames(context.Background(), []database.Game{
		{DatabaseID: 1, Name: "Sonic", NameSearch: "sonic", PlatformSearch: "segagenesis"},
	}))

	resolver := NewResolver(open, nil)
	_, err := resolver.Resolve(context.Background(), NewSession(Query{Name: "Sonic", PlatformID: "sega_genesis"}))
	require.ErrorIs(t, err, ErrStoreNotReady)

	require.NoError(t, db.MarkComplete(context.Background()))
	game, err := resolver.Resolve(context.Background(), NewSession(Query{Name: "Sonic", PlatformID: "sega_genesis"}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), game.DatabaseID)
}

func TestResolve_OpenError(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(func(context.Context) (database.MetadataDBI, error) {
		return nil, errors.New("no such file")
	}, nil)
	_, err := resolver.Resolve(context.Background(), NewSession(Query{Name: "Sonic"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open metadata store")
}

func TestResolver_ImagesLoadedOnce(t *testing.T) {
	t.Parallel()
	opener := newSeededStore(t)
	resolver := NewResolver(opener.Open, nil)
	ctx := context.Background()
	session := NewSession(Query{Name: "Sonic the Hedgehog", PlatformID: "sega_genesis"})

	images, err := resolver.Images(ctx, session)
	require.NoError(t, err)
	assert.Len(t, images, 5)

	_, err = resolver.Images(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, int64(2), opener.Opens(), "one open to resolve, one to read images")

	_, err = resolver.Images(ctx, NewSession(Query{Name: "Nothing", PlatformID: "sega_genesis"}))
	require.ErrorIs(t, err, ErrNotResolvable)
}
