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

// Package metadatadb is the SQLite store holding the imported LaunchBox
// games database.
package metadatadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// DBFile is the store's file name inside the data directory.
const DBFile = "lbgdb.db"

// MemoryPath opens a private in-memory store, used by tests.
const MemoryPath = ":memory:"

type MetadataDB struct {
	sql  *sql.DB
	path string
}

var _ database.MetadataDBI = (*MetadataDB)(nil)

// Open connects to the store at path, creating parent directories as needed,
// and migrates the schema forward.
func Open(ctx context.Context, path string) (*MetadataDB, error) {
	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		dsn = "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL"
	}

	sqlInstance, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		sqlInstance.SetMaxOpenConns(1)
	}

	db := &MetadataDB{sql: sqlInstance, path: path}
	if err := db.MigrateUp(ctx); err != nil {
		if closeErr := sqlInstance.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close store after migration error")
		}
		return nil, err
	}
	return db, nil
}

// Replace deletes the store file and its WAL side files, then opens a fresh,
// migrated store in its place.
func Replace(ctx context.Context, path string) (*MetadataDB, error) {
	if path != MemoryPath {
		for _, p := range []string{path, path + "-wal", path + "-shm"} {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to delete store file %s: %w", p, err)
			}
		}
		log.Debug().Str("path", path).Msg("deleted metadata store")
	}
	return Open(ctx, path)
}

// NewOpener returns an Opener for the store at path.
func NewOpener(path string) database.Opener {
	return func(ctx context.Context) (database.MetadataDBI, error) {
		return Open(ctx, path)
	}
}

// FromSQL wraps an existing connection without migrating it.
func FromSQL(db *sql.DB, path string) *MetadataDB {
	return &MetadataDB{sql: db, path: path}
}

func (db *MetadataDB) GetDBPath() string {
	return db.path
}

func (db *MetadataDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *MetadataDB) MigrateUp(ctx context.Context) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlMigrateUp(ctx, db.sql)
}

func (db *MetadataDB) Close() error {
	if db.sql == nil {
		return nil
	}
	if err := db.sql.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}

func (db *MetadataDB) InsertGames(ctx context.Context, rows []database.Game) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlInsertGames(ctx, db.sql, rows)
}

func (db *MetadataDB) InsertAlternateNames(ctx context.Context, rows []database.GameAlternateName) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlInsertAlternateNames(ctx, db.sql, rows)
}

func (db *MetadataDB) InsertImages(ctx context.Context, rows []database.GameImage) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlInsertImages(ctx, db.sql, rows)
}

func (db *MetadataDB) HasGames(ctx context.Context) (bool, error) {
	if db.sql == nil {
		return false, database.ErrNullSQL
	}
	return sqlHasGames(ctx, db.sql)
}

// MarkComplete records that every import stage finished. A store without
// the mark holds no valid data.
func (db *MetadataDB) MarkComplete(ctx context.Context) error {
	if db.sql == nil {
		return database.ErrNullSQL
	}
	return sqlMarkComplete(ctx, db.sql, time.Now())
}

func (db *MetadataDB) Complete(ctx context.Context) (bool, error) {
	if db.sql == nil {
		return false, database.ErrNullSQL
	}
	at, err := sqlCompletedAt(ctx, db.sql)
	if err != nil {
		return false, err
	}
	return at.Valid, nil
}

func (db *MetadataDB) Stats(ctx context.Context) (database.Stats, error) {
	if db.sql == nil {
		return database.Stats{}, database.ErrNullSQL
	}
	return sqlStats(ctx, db.sql)
}

func (db *MetadataDB) FindGame(ctx context.Context, platformKey, nameKey string) (database.Game, error) {
	if db.sql == nil {
		return database.Game{}, database.ErrNullSQL
	}
	return sqlFindGame(ctx, db.sql, platformKey, nameKey)
}

func (db *MetadataDB) GetAlternateNames(
	ctx context.Context,
	databaseID int64,
	nameKey string,
) ([]database.GameAlternateName, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlGetAlternateNames(ctx, db.sql, databaseID, nameKey)
}

func (db *MetadataDB) GetImages(ctx context.Context, databaseID int64) ([]database.GameImage, error) {
	if db.sql == nil {
		return nil, database.ErrNullSQL
	}
	return sqlGetImages(ctx, db.sql, databaseID)
}
