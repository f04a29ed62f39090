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
	"strings"

	"github.com/rs/zerolog/log"
)

// SQLite's default SQLITE_MAX_VARIABLE_NUMBER is 32766.
// Use 32000 to provide a safety margin
const maxSQLiteVars = 32000

// BatchInserter manages batched multi-row inserts for a specific table. A
// statement is executed every time the buffer reaches the row limit, so a
// single call never exceeds the SQLite variable limit.
type BatchInserter struct {
	ctx          context.Context
	tx           *sql.Tx
	tableName    string
	columns      []string
	buffer       []any
	rowsPerStmt  int
	columnCount  int
	currentCount int
	flushes      int
}

// NewBatchInserter creates a batch inserter for the given table. rowsPerStmt
// is capped so rowsPerStmt*len(columns) stays below the variable limit.
func NewBatchInserter(
	ctx context.Context,
	tx *sql.Tx,
	tableName string,
	columns []string,
	rowsPerStmt int,
) (*BatchInserter, error) {
	if tx == nil {
		return nil, errors.New("transaction is nil")
	}
	if tableName == "" {
		return nil, errors.New("table name is empty")
	}
	if len(columns) == 0 {
		return nil, errors.New("columns list is empty")
	}
	if rowsPerStmt <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", rowsPerStmt)
	}
	if limit := maxSQLiteVars / len(columns); rowsPerStmt > limit {
		rowsPerStmt = limit
	}

	return &BatchInserter{
		ctx:         ctx,
		tx:          tx,
		tableName:   tableName,
		columns:     columns,
		rowsPerStmt: rowsPerStmt,
		columnCount: len(columns),
		buffer:      make([]any, 0, rowsPerStmt*len(columns)),
	}, nil
}

// Add appends a row to the current batch, executing the batch when full.
func (b *BatchInserter) Add(values ...any) error {
	if len(values) != b.columnCount {
		return fmt.Errorf(
			"expected %d values for columns %v, got %d",
			b.columnCount,
			b.columns,
			len(values),
		)
	}

	b.buffer = append(b.buffer, values...)
	b.currentCount++

	if b.currentCount >= b.rowsPerStmt {
		return b.Flush()
	}
	return nil
}

// Flush executes the current batch and resets the buffer
func (b *BatchInserter) Flush() error {
	if b.currentCount == 0 {
		return nil
	}

	sqlStmt := b.generateMultiRowInsertSQL(b.currentCount)
	stmt, err := b.tx.PrepareContext(b.ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert into %s: %w", b.tableName, err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close batch insert statement")
		}
	}()

	if _, err := stmt.ExecContext(b.ctx, b.buffer...); err != nil {
		log.Error().Err(err).
			Str("table", b.tableName).
			Int("row_count", b.currentCount).
			Msg("batch insert failed")
		return fmt.Errorf("failed to execute batch insert into %s: %w", b.tableName, err)
	}

	log.Trace().
		Str("table", b.tableName).
		Int("row_count", b.currentCount).
		Msg("flushed batch")

	b.buffer = b.buffer[:0]
	b.currentCount = 0
	b.flushes++
	return nil
}

// Statements is the number of INSERT statements executed so far.
func (b *BatchInserter) Statements() int {
	return b.flushes
}

// Close flushes remaining rows.
func (b *BatchInserter) Close() error {
	return b.Flush()
}

// generateMultiRowInsertSQL creates a multi-row INSERT statement
func (b *BatchInserter) generateMultiRowInsertSQL(rowCount int) string {
	// Example for GameImages with 3 rows:
	// INSERT INTO GameImages (DatabaseID, FileName, Type, Region, CRC32) VALUES
	//     (?, ?, ?, ?, ?),
	//     (?, ?, ?, ?, ?),
	//     (?, ?, ?, ?, ?)
	colNames := strings.Join(b.columns, ", ")
	placeholder := "(" + strings.Repeat("?, ", b.columnCount-1) + "?)"
	placeholders := strings.Repeat(placeholder+",\n    ", rowCount-1) + placeholder

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES\n    %s", b.tableName, colNames, placeholders)
}
