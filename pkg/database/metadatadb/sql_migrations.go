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
	"embed"
	"fmt"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(ctx context.Context, db *sql.DB) error {
	if err := database.MigrateUp(ctx, db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run metadata database migrations: %w", err)
	}
	return nil
}
