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

package database

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNullSQL is returned by store methods called before Open.
var ErrNullSQL = errors.New("sql connection is nil")

/*
 * Structs for SQL records
 */

// Game is one LaunchBox games database entry. Rating is stored on a 0..100
// scale; NameSearch and PlatformSearch are always derived with slugs.Slugify.
type Game struct {
	ReleaseDate          sql.NullTime
	ReleaseYear          sql.NullInt64
	MaxPlayers           sql.NullInt64
	CommunityRating      sql.NullFloat64
	Name                 string
	Platform             string
	NameSearch           string
	PlatformSearch       string
	Overview             string
	ReleaseType          string
	VideoURL             string
	WikipediaURL         string
	ESRB                 string
	Genres               string
	Developer            string
	Publisher            string
	DatabaseID           int64
	CommunityRatingCount int64
	Cooperative          sql.NullBool
}

// GameAlternateName is an alternate, usually regional, title of a Game.
type GameAlternateName struct {
	AlternateName string `json:"alternateName"`
	NameSearch    string `json:"nameSearch"`
	Region        string `json:"region"`
	DBID          int64  `json:"-"`
	DatabaseID    int64  `json:"databaseId"`
}

// GameImage is a remote artwork file of a Game. An empty Region means the
// image is untagged.
type GameImage struct {
	FileName   string `json:"fileName"`
	Type       string `json:"type"`
	Region     string `json:"region"`
	DBID       int64  `json:"-"`
	DatabaseID int64  `json:"databaseId"`
	CRC32      int64  `json:"crc32"`
}

// Stats holds row counts of the metadata store.
type Stats struct {
	Games          int64 `json:"games"`
	AlternateNames int64 `json:"alternateNames"`
	Images         int64 `json:"images"`
}

/*
 * Interfaces for external deps
 */

type GenericDBI interface {
	UnsafeGetSQLDb() *sql.DB
	MigrateUp(ctx context.Context) error
	Close() error
	GetDBPath() string
}

// BulkWriter writes whole batches of records, one transaction per call.
type BulkWriter interface {
	InsertGames(ctx context.Context, rows []Game) error
	InsertAlternateNames(ctx context.Context, rows []GameAlternateName) error
	InsertImages(ctx context.Context, rows []GameImage) error
}

type MetadataDBI interface {
	GenericDBI
	BulkWriter

	HasGames(ctx context.Context) (bool, error)

	// MarkComplete is written once, after the last import stage. Complete
	// reports whether it was; a store without it is wiped or partial.
	MarkComplete(ctx context.Context) error
	Complete(ctx context.Context) (bool, error)
	Stats(ctx context.Context) (Stats, error)

	// FindGame returns the lowest DatabaseID game on the platform whose own
	// or alternate search key equals nameKey. Returns sql.ErrNoRows, wrapped,
	// when nothing matches.
	FindGame(ctx context.Context, platformKey, nameKey string) (Game, error)
	GetAlternateNames(ctx context.Context, databaseID int64, nameKey string) ([]GameAlternateName, error)
	GetImages(ctx context.Context, databaseID int64) ([]GameImage, error)
}

// Opener returns a fresh, migrated store connection. Callers close it when
// their operation is done.
type Opener func(ctx context.Context) (MetadataDBI, error)
