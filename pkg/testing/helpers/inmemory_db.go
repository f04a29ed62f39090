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

package helpers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/metadatadb"
)

// NewTestMetadataDB creates a migrated store in a temp file and returns it
// with an opener for the same file. The file persists across connection
// close/reopen, so code under test can open and close the store freely.
func NewTestMetadataDB(t *testing.T) (db *metadatadb.MetadataDB, open database.Opener) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), metadatadb.DBFile)
	db, err := metadatadb.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to open test metadata database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close metadata database: %v", err)
		}
	})

	return db, metadatadb.NewOpener(dbPath)
}

// SeedStore is a store that can be seeded and marked as fully imported.
type SeedStore interface {
	database.BulkWriter
	MarkComplete(ctx context.Context) error
}

// Seed bulk inserts the given rows and marks the import complete, failing
// the test on error.
func Seed(
	t *testing.T,
	db SeedStore,
	games []database.Game,
	alternates []database.GameAlternateName,
	images []database.GameImage,
) {
	t.Helper()
	ctx := context.Background()

	if err := db.InsertGames(ctx, games); err != nil {
		t.Fatalf("Failed to seed games: %v", err)
	}
	if err := db.InsertAlternateNames(ctx, alternates); err != nil {
		t.Fatalf("Failed to seed alternate names: %v", err)
	}
	if err := db.InsertImages(ctx, images); err != nil {
		t.Fatalf("Failed to seed images: %v", err)
	}
	if err := db.MarkComplete(ctx); err != nil {
		t.Fatalf("Failed to mark seeded store complete: %v", err)
	}
}
