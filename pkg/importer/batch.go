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

package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/config"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/launchbox"
)

const maxBatchPrealloc = 4096

type batch[T any] struct {
	flush func(context.Context, []T) error
	rows  []T
	size  int
}

func newBatch[T any](size int, flush func(context.Context, []T) error) *batch[T] {
	return &batch[T]{
		flush: flush,
		rows:  make([]T, 0, min(size, maxBatchPrealloc)),
		size:  size,
	}
}

func (b *batch[T]) add(ctx context.Context, row T) error {
	b.rows = append(b.rows, row)
	if len(b.rows) >= b.size {
		return b.write(ctx)
	}
	return nil
}

// write hands the buffered rows to the writer and starts a new buffer, so
// the writer may keep the slice it was given.
func (b *batch[T]) write(ctx context.Context) error {
	if len(b.rows) == 0 {
		return nil
	}
	rows := b.rows
	b.rows = make([]T, 0, min(b.size, maxBatchPrealloc))
	return b.flush(ctx, rows)
}

// ImportTyped streams the records of kind from r, transforms them into store
// rows and writes them to w in batches of batchSize, followed by one final
// partial batch. Returns the number of records read.
func ImportTyped(
	ctx context.Context,
	kind launchbox.Kind,
	r io.Reader,
	w database.BulkWriter,
	batchSize int,
) (int, error) {
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}

	switch kind {
	case launchbox.KindGame:
		return importTyped(ctx, kind, r, batchSize, w.InsertGames, (*launchbox.GameRecord).Transform)
	case launchbox.KindAlternateName:
		return importTyped(
			ctx, kind, r, batchSize, w.InsertAlternateNames, (*launchbox.AlternateNameRecord).Transform,
		)
	case launchbox.KindImage:
		return importTyped(ctx, kind, r, batchSize, w.InsertImages, (*launchbox.ImageRecord).Transform)
	default:
		return 0, fmt.Errorf("unknown record kind %d", int(kind))
	}
}

func importTyped[R launchbox.Record, T any](
	ctx context.Context,
	kind launchbox.Kind,
	r io.Reader,
	batchSize int,
	flush func(context.Context, []T) error,
	transform func(R) T,
) (int, error) {
	b := newBatch(batchSize, func(ctx context.Context, rows []T) error {
		if err := flush(ctx, rows); err != nil {
			return fmt.Errorf("failed to write %d %s rows: %w", len(rows), kind, err)
		}
		return nil
	})

	count, err := launchbox.Stream(ctx, r, kind, func(rec launchbox.Record) error {
		typed, ok := rec.(R)
		if !ok {
			return fmt.Errorf("unexpected %T record in %s stream", rec, kind)
		}
		return b.add(ctx, transform(typed))
	})
	if err != nil {
		return count, err
	}
	if err := b.write(ctx); err != nil {
		return count, err
	}
	return count, nil
}
