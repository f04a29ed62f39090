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
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/launchbox"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// recordingWriter keeps every batch it is given.
type recordingWriter struct {
	err        error
	games      [][]database.Game
	alternates [][]database.GameAlternateName
	images     [][]database.GameImage
}

func (w *recordingWriter) InsertGames(_ context.Context, rows []database.Game) error {
	if w.err != nil {
		return w.err
	}
	w.games = append(w.games, rows)
	return nil
}

func (w *recordingWriter) InsertAlternateNames(_ context.Context, rows []database.GameAlternateName) error {
	if w.err != nil {
		return w.err
	}
	w.alternates = append(w.alternates, rows)
	return nil
}

func (w *recordingWriter) InsertImages(_ context.Context, rows []database.GameImage) error {
	if w.err != nil {
		return w.err
	}
	w.images = append(w.images, rows)
	return nil
}

func gamesXML(n int) string {
	var b strings.Builder
	b.WriteString("<LaunchBox>")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b,
			"<Game><Name>Game %d</Name><DatabaseID>%d</DatabaseID><Platform>Sega Genesis</Platform></Game>",
			i, i)
	}
	b.WriteString("</LaunchBox>")
	return b.String()
}

func batchSizes[T any](batches [][]T) []int {
	sizes := make([]int, 0, len(batches))
	for _, b := range batches {
		sizes = append(sizes, len(b))
	}
	return sizes
}

func TestImportTyped_FlushesFullAndPartialBatches(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	n, err := ImportTyped(context.Background(), launchbox.KindGame, strings.NewReader(gamesXML(5)), w, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{2, 2, 1}, batchSizes(w.games))

	var ids []int64
	for _, b := range w.games {
		for _, g := range b {
			ids = append(ids, g.DatabaseID)
		}
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
	assert.Equal(t, "game1", w.games[0][0].NameSearch)
	assert.Equal(t, "segagenesis", w.games[0][0].PlatformSearch)
}

func TestImportTyped_ExactMultipleHasNoEmptyFlush(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	n, err := ImportTyped(context.Background(), launchbox.KindGame, strings.NewReader(gamesXML(4)), w, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int{2, 2}, batchSizes(w.games))
}

func TestImportTyped_EachKind(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	ctx := context.Background()
	for _, kind := range launchbox.Kinds {
		_, err := ImportTyped(ctx, kind, strings.NewReader(fixtures.MetadataXML), w, 0)
		require.NoError(t, err)
	}

	assert.Equal(t, []int{fixtures.MetadataGames}, batchSizes(w.games))
	assert.Equal(t, []int{fixtures.MetadataAlternateNames}, batchSizes(w.alternates))
	assert.Equal(t, []int{fixtures.MetadataImages}, batchSizes(w.images))

	assert.Equal(t, "Super Game", w.alternates[0][0].AlternateName)
	assert.Equal(t, "supergame", w.alternates[0][0].NameSearch)
	assert.Equal(t, "sonic-us.png", w.images[0][0].FileName)
}

func TestImportTyped_EmptyStream(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	n, err := ImportTyped(context.Background(), launchbox.KindImage, strings.NewReader("<LaunchBox/>"), w, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, w.images)
}

func TestImportTyped_MalformedRecord(t *testing.T) {
	t.Parallel()

	doc := `<LaunchBox>
<Game><Name>Ok</Name><DatabaseID>1</DatabaseID></Game>
<Game><Name>No ID</Name></Game>
</LaunchBox>`

	w := &recordingWriter{}
	_, err := ImportTyped(context.Background(), launchbox.KindGame, strings.NewReader(doc), w, 10)
	require.Error(t, err)

	var recErr *launchbox.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, launchbox.KindGame, recErr.Kind)
	assert.Equal(t, 2, recErr.Ordinal)
	assert.Empty(t, w.games)
}

func TestImportTyped_WriteError(t *testing.T) {
	t.Parallel()

	writeErr := errors.New("disk full")
	w := &recordingWriter{err: writeErr}
	_, err := ImportTyped(context.Background(), launchbox.KindGame, strings.NewReader(gamesXML(3)), w, 2)
	require.ErrorIs(t, err, writeErr)
	assert.Contains(t, err.Error(), "failed to write 2 Game rows")
}

func TestImportTyped_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := ImportTyped(context.Background(), launchbox.Kind(42), strings.NewReader("<LaunchBox/>"),
		&recordingWriter{}, 10)
	require.Error(t, err)
}

func TestImportTyped_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ImportTyped(ctx, launchbox.KindGame, strings.NewReader(gamesXML(3)), &recordingWriter{}, 10)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPropertyImportTypedBatching(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 50).Draw(t, "records")
		size := rapid.IntRange(1, 20).Draw(t, "batch")

		w := &recordingWriter{}
		got, err := ImportTyped(context.Background(), launchbox.KindGame, strings.NewReader(gamesXML(n)), w, size)
		if err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if got != n {
			t.Fatalf("imported %d of %d records", got, n)
		}

		total := 0
		for i, b := range w.games {
			total += len(b)
			if len(b) == 0 || len(b) > size {
				t.Fatalf("batch %d has %d rows, limit %d", i, len(b), size)
			}
			if i < len(w.games)-1 && len(b) != size {
				t.Fatalf("non-final batch %d has %d rows", i, len(b))
			}
		}
		if total != n {
			t.Fatalf("wrote %d of %d rows", total, n)
		}
	})
}
