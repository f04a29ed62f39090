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

// Package helpers provides testing utilities for the metadata store.
//
// It includes a testify mock of database.MetadataDBI, a file backed store
// that survives the open/close cycle of database.Opener, and an opener that
// counts how often the store was opened.
//
// Example usage:
//
//	func TestResolve(t *testing.T) {
//		db := helpers.NewMockMetadataDBI()
//		db.On("Complete", mock.Anything).Return(true, nil)
//		db.On("FindGame", mock.Anything, "segagenesis", "sonic").
//			Return(database.Game{DatabaseID: 1}, nil)
//		db.On("Close").Return(nil)
//
//		opener := helpers.NewCountingOpener(helpers.MockOpener(db))
//		// ...
//		db.AssertExpectations(t)
//	}
package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/stretchr/testify/mock"
)

type MockMetadataDBI struct {
	mock.Mock
}

func NewMockMetadataDBI() *MockMetadataDBI {
	return &MockMetadataDBI{}
}

// GenericDBI methods
func (m *MockMetadataDBI) UnsafeGetSQLDb() *sql.DB {
	args := m.Called()
	if db, ok := args.Get(0).(*sql.DB); ok {
		return db
	}
	return nil
}

func (m *MockMetadataDBI) MigrateUp(ctx context.Context) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}

func (m *MockMetadataDBI) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}

func (m *MockMetadataDBI) GetDBPath() string {
	args := m.Called()
	return args.String(0)
}

// BulkWriter methods
func (m *MockMetadataDBI) InsertGames(ctx context.Context, rows []database.Game) error {
	args := m.Called(ctx, rows)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}

func (m *MockMetadataDBI) InsertAlternateNames(ctx context.Context, rows []database.GameAlternateName) error {
	args := m.Called(ctx, rows)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}

func (m *MockMetadataDBI) InsertImages(ctx context.Context, rows []database.GameImage) error {
	args := m.Called(ctx, rows)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}

// Query methods
func (m *MockMetadataDBI) HasGames(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return args.Bool(0), fmt.Errorf("mock operation failed: %w", err)
	}
	return args.Bool(0), nil
}

func (m *MockMetadataDBI) MarkComplete(ctx context.Context) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}

func (m *MockMetadataDBI) Complete(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return args.Bool(0), fmt.Errorf("mock operation failed: %w", err)
	}
	return args.Bool(0), nil
}

func (m *MockMetadataDBI) Stats(ctx context.Context) (database.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(database.Stats)
	if err := args.Error(1); err != nil {
		return stats, fmt.Errorf("mock operation failed: %w", err)
	}
	return stats, nil
}

func (m *MockMetadataDBI) FindGame(ctx context.Context, platformKey, nameKey string) (database.Game, error) {
	args := m.Called(ctx, platformKey, nameKey)
	game, _ := args.Get(0).(database.Game)
	if err := args.Error(1); err != nil {
		return game, fmt.Errorf("mock operation failed: %w", err)
	}
	return game, nil
}

func (m *MockMetadataDBI) GetAlternateNames(
	ctx context.Context,
	databaseID int64,
	nameKey string,
) ([]database.GameAlternateName, error) {
	args := m.Called(ctx, databaseID, nameKey)
	names, _ := args.Get(0).([]database.GameAlternateName)
	if err := args.Error(1); err != nil {
		return names, fmt.Errorf("mock operation failed: %w", err)
	}
	return names, nil
}

func (m *MockMetadataDBI) GetImages(ctx context.Context, databaseID int64) ([]database.GameImage, error) {
	args := m.Called(ctx, databaseID)
	images, _ := args.Get(0).([]database.GameImage)
	if err := args.Error(1); err != nil {
		return images, fmt.Errorf("mock operation failed: %w", err)
	}
	return images, nil
}

// MockOpener returns an opener that always hands out db.
func MockOpener(db database.MetadataDBI) database.Opener {
	return func(context.Context) (database.MetadataDBI, error) {
		return db, nil
	}
}

// CountingOpener wraps an opener and records how many times it was called.
type CountingOpener struct {
	open  database.Opener
	count atomic.Int64
}

func NewCountingOpener(open database.Opener) *CountingOpener {
	return &CountingOpener{open: open}
}

func (c *CountingOpener) Open(ctx context.Context) (database.MetadataDBI, error) {
	c.count.Add(1)
	return c.open(ctx)
}

// Opens is the number of times Open was called.
func (c *CountingOpener) Opens() int64 {
	return c.count.Load()
}
