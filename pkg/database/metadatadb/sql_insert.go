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

package metadatadb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/rs/zerolog/log"
)

var gameColumns = []string{
	"DatabaseID", "Name", "Platform", "NameSearch", "PlatformSearch",
	"ReleaseDate", "ReleaseYear", "Overview", "MaxPlayers", "ReleaseType",
	"Cooperative", "VideoURL", "WikipediaURL", "CommunityRating",
	"CommunityRatingCount", "ESRB", "Genres", "Developer", "Publisher",
}

var alternateNameColumns = []string{"DatabaseID", "AlternateName", "NameSearch", "Region"}

var imageColumns = []string{"DatabaseID", "FileName", "Type", "Region", "CRC32"}

// withTx runs fn inside one transaction, rolling back on error.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warn().Err(rbErr).Msg("failed to roll back transaction")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func sqlInsertGames(ctx context.Context, db *sql.DB, rows []database.Game) error {
	if len(rows) == 0 {
		return nil
	}
	return withTx(ctx, db, func(tx *sql.Tx) error {
		bi, err := NewBatchInserter(ctx, tx, "Games", gameColumns, len(rows))
		if err != nil {
			return err
		}
		for i := range rows {
			g := &rows[i]
			err := bi.Add(
				g.DatabaseID, g.Name, g.Platform, g.NameSearch, g.PlatformSearch,
				g.ReleaseDate, g.ReleaseYear, g.Overview, g.MaxPlayers, g.ReleaseType,
				g.Cooperative, g.VideoURL, g.WikipediaURL, g.CommunityRating,
				g.CommunityRatingCount, g.ESRB, g.Genres, g.Developer, g.Publisher,
			)
			if err != nil {
				return fmt.Errorf("failed to add game %d: %w", g.DatabaseID, err)
			}
		}
		return bi.Close()
	})
}

func sqlInsertAlternateNames(ctx context.Context, db *sql.DB, rows []database.GameAlternateName) error {
	if len(rows) == 0 {
		return nil
	}
	return withTx(ctx, db, func(tx *sql.Tx) error {
		bi, err := NewBatchInserter(ctx, tx, "GameAlternateNames", alternateNameColumns, len(rows))
		if err != nil {
			return err
		}
		for _, n := range rows {
			if err := bi.Add(n.DatabaseID, n.AlternateName, n.NameSearch, n.Region); err != nil {
				return fmt.Errorf("failed to add alternate name for game %d: %w", n.DatabaseID, err)
			}
		}
		return bi.Close()
	})
}

func sqlInsertImages(ctx context.Context, db *sql.DB, rows []database.GameImage) error {
	if len(rows) == 0 {
		return nil
	}
	return withTx(ctx, db, func(tx *sql.Tx) error {
		bi, err := NewBatchInserter(ctx, tx, "GameImages", imageColumns, len(rows))
		if err != nil {
			return err
		}
		for _, img := range rows {
			if err := bi.Add(img.DatabaseID, img.FileName, img.Type, img.Region, img.CRC32); err != nil {
				return fmt.Errorf("failed to add image for game %d: %w", img.DatabaseID, err)
			}
		}
		return bi.Close()
	})
}
