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
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/rs/zerolog/log"
)

const selectGameColumns = `
		DatabaseID, Name, Platform, NameSearch, PlatformSearch,
		ReleaseDate, ReleaseYear, Overview, MaxPlayers, ReleaseType,
		Cooperative, VideoURL, WikipediaURL, CommunityRating,
		CommunityRatingCount, ESRB, Genres, Developer, Publisher`

func closeStmt(stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql statement")
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql rows")
	}
}

func sqlFindGame(ctx context.Context, db *sql.DB, platformKey, nameKey string) (database.Game, error) {
	var row database.Game
	stmt, err := db.PrepareContext(ctx, `
		select`+selectGameColumns+`
		from Games
		where PlatformSearch = ?
		and (
			NameSearch = ?
			or DatabaseID in (
				select DatabaseID from GameAlternateNames where NameSearch = ?
			)
		)
		order by DatabaseID
		limit 1;
	`)
	if err != nil {
		return row, fmt.Errorf("failed to prepare find game statement: %w", err)
	}
	defer closeStmt(stmt)

	err = stmt.QueryRowContext(ctx, platformKey, nameKey, nameKey).Scan(
		&row.DatabaseID,
		&row.Name,
		&row.Platform,
		&row.NameSearch,
		&row.PlatformSearch,
		&row.ReleaseDate,
		&row.ReleaseYear,
		&row.Overview,
		&row.MaxPlayers,
		&row.ReleaseType,
		&row.Cooperative,
		&row.VideoURL,
		&row.WikipediaURL,
		&row.CommunityRating,
		&row.CommunityRatingCount,
		&row.ESRB,
		&row.Genres,
		&row.Developer,
		&row.Publisher,
	)
	if err != nil {
		return row, fmt.Errorf("failed to scan game row: %w", err)
	}
	return row, nil
}

func sqlGetAlternateNames(
	ctx context.Context,
	db *sql.DB,
	databaseID int64,
	nameKey string,
) ([]database.GameAlternateName, error) {
	names := make([]database.GameAlternateName, 0, 1)
	stmt, err := db.PrepareContext(ctx, `
		select
		DBID, DatabaseID, AlternateName, NameSearch, Region
		from GameAlternateNames
		where DatabaseID = ?
		and NameSearch = ?
		order by DBID;
	`)
	if err != nil {
		return names, fmt.Errorf("failed to prepare alternate names statement: %w", err)
	}
	defer closeStmt(stmt)

	rows, err := stmt.QueryContext(ctx, databaseID, nameKey)
	if err != nil {
		return names, fmt.Errorf("failed to query alternate names: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var n database.GameAlternateName
		if err := rows.Scan(&n.DBID, &n.DatabaseID, &n.AlternateName, &n.NameSearch, &n.Region); err != nil {
			return names, fmt.Errorf("failed to scan alternate name row: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return names, fmt.Errorf("failed to iterate alternate names: %w", err)
	}
	return names, nil
}

func sqlGetImages(ctx context.Context, db *sql.DB, databaseID int64) ([]database.GameImage, error) {
	images := make([]database.GameImage, 0, 8)
	stmt, err := db.PrepareContext(ctx, `
		select
		DBID, DatabaseID, FileName, Type, Region, CRC32
		from GameImages
		where DatabaseID = ?
		order by DBID;
	`)
	if err != nil {
		return images, fmt.Errorf("failed to prepare images statement: %w", err)
	}
	defer closeStmt(stmt)

	rows, err := stmt.QueryContext(ctx, databaseID)
	if err != nil {
		return images, fmt.Errorf("failed to query images: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var img database.GameImage
		if err := rows.Scan(
			&img.DBID, &img.DatabaseID, &img.FileName, &img.Type, &img.Region, &img.CRC32,
		); err != nil {
			return images, fmt.Errorf("failed to scan image row: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return images, fmt.Errorf("failed to iterate images: %w", err)
	}
	return images, nil
}

func sqlHasGames(ctx context.Context, db *sql.DB) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `select exists(select 1 from Games limit 1);`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for games: %w", err)
	}
	return exists, nil
}

func sqlStats(ctx context.Context, db *sql.DB) (database.Stats, error) {
	var stats database.Stats
	err := db.QueryRowContext(ctx, `
		select
		(select count(*) from Games),
		(select count(*) from GameAlternateNames),
		(select count(*) from GameImages);
	`).Scan(&stats.Games, &stats.AlternateNames, &stats.Images)
	if err != nil {
		return stats, fmt.Errorf("failed to count rows: %w", err)
	}
	return stats, nil
}

func sqlMarkComplete(ctx context.Context, db *sql.DB, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		insert into ImportState (ID, CompletedAt) values (1, ?)
		on conflict (ID) do update set CompletedAt = excluded.CompletedAt;
	`, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to mark import complete: %w", err)
	}
	return nil
}

func sqlCompletedAt(ctx context.Context, db *sql.DB) (sql.NullTime, error) {
	var at sql.NullTime
	err := db.QueryRowContext(ctx, `select CompletedAt from ImportState where ID = 1;`).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return at, nil
	} else if err != nil {
		return at, fmt.Errorf("failed to read import state: %w", err)
	}
	return at, nil
}
