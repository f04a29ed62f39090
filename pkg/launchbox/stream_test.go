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

package launchbox

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, xmlDoc string, kind Kind) ([]Record, error) {
	t.Helper()
	var recs []Record
	n, err := Stream(context.Background(), strings.NewReader(xmlDoc), kind, func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	assert.Equal(t, len(recs), n)
	return recs, err
}

func TestStream_SelectsOnlyRequestedKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     Kind
		expected int
	}{
		{kind: KindGame, expected: fixtures.MetadataGames},
		{kind: KindAlternateName, expected: fixtures.MetadataAlternateNames},
		{kind: KindImage, expected: fixtures.MetadataImages},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()
			recs, err := collect(t, fixtures.MetadataXML, tt.kind)
			require.NoError(t, err)
			require.Len(t, recs, tt.expected)
			for _, r := range recs {
				assert.Equal(t, tt.kind, r.Kind())
			}
		})
	}
}

func TestStream_DecodesGame(t *testing.T) {
	t.Parallel()

	recs, err := collect(t, fixtures.MetadataXML, KindGame)
	require.NoError(t, err)

	sonic, ok := recs[0].(*GameRecord)
	require.True(t, ok)
	assert.Equal(t, "Sonic the Hedgehog", sonic.Name)
	assert.Equal(t, "Sega Genesis", sonic.Platform)
	assert.Equal(t, int64(1), sonic.DatabaseID)
	require.NotNil(t, sonic.CommunityRating)
	assert.InDelta(t, 3.9, *sonic.CommunityRating, 0.0001)
	assert.Equal(t, int64(1200), sonic.CommunityRatingCount)
	require.True(t, sonic.ReleaseDate.Valid)
	assert.Equal(t, time.Date(1991, time.June, 23, 0, 0, 0, 0, time.UTC), sonic.ReleaseDate.Time)
	require.NotNil(t, sonic.Cooperative)
	assert.False(t, *sonic.Cooperative)

	mega, ok := recs[1].(*GameRecord)
	require.True(t, ok)
	assert.False(t, mega.ReleaseDate.Valid)
	require.NotNil(t, mega.ReleaseYear)
	assert.Equal(t, int64(1994), *mega.ReleaseYear)
	assert.Nil(t, mega.MaxPlayers)

	quiet, ok := recs[2].(*GameRecord)
	require.True(t, ok)
	assert.Nil(t, quiet.CommunityRating)
}

func TestStream_MalformedRecordAborts(t *testing.T) {
	t.Parallel()

	doc := `<LaunchBox>
		<GameImage><DatabaseID>1</DatabaseID><FileName>a.png</FileName></GameImage>
		<GameImage><DatabaseID>abc</DatabaseID><FileName>b.png</FileName></GameImage>
		<GameImage><DatabaseID>3</DatabaseID><FileName>c.png</FileName></GameImage>
	</LaunchBox>`

	recs, err := collect(t, doc, KindImage)
	require.Len(t, recs, 1)

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, KindImage, recErr.Kind)
	assert.Equal(t, 2, recErr.Ordinal)
	assert.Contains(t, err.Error(), "GameImage record #2")
}

func TestStream_MissingRequiredField(t *testing.T) {
	t.Parallel()

	doc := `<LaunchBox><GameAlternateName><AlternateName>X</AlternateName></GameAlternateName></LaunchBox>`
	_, err := collect(t, doc, KindAlternateName)

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 1, recErr.Ordinal)
	require.ErrorIs(t, err, errMissingDatabaseID)
}

func TestStream_InvalidDate(t *testing.T) {
	t.Parallel()

	doc := `<LaunchBox><Game><DatabaseID>1</DatabaseID><ReleaseDate>soon</ReleaseDate></Game></LaunchBox>`
	_, err := collect(t, doc, KindGame)

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestStream_DateOnly(t *testing.T) {
	t.Parallel()

	doc := `<LaunchBox><Game><DatabaseID>1</DatabaseID><ReleaseDate>2001-09-14</ReleaseDate></Game></LaunchBox>`
	recs, err := collect(t, doc, KindGame)
	require.NoError(t, err)
	game, ok := recs[0].(*GameRecord)
	require.True(t, ok)
	assert.Equal(t, time.Date(2001, time.September, 14, 0, 0, 0, 0, time.UTC), game.ReleaseDate.Time)
}

func TestStream_TruncatedDocument(t *testing.T) {
	t.Parallel()

	doc := `<LaunchBox><Game><DatabaseID>1</DatabaseID></Game><Game><Name>cut`
	recs, err := collect(t, doc, KindGame)
	require.Error(t, err)
	assert.Len(t, recs, 1)

	var recErr *RecordError
	assert.NotErrorAs(t, err, &recErr)
}

func TestStream_CallbackErrorStops(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	calls := 0
	_, err := Stream(context.Background(), strings.NewReader(fixtures.MetadataXML), KindImage,
		func(Record) error {
			calls++
			return stop
		})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestStream_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Stream(ctx, strings.NewReader(fixtures.MetadataXML), KindGame, func(Record) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestStream_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := Stream(context.Background(), strings.NewReader("<a/>"), Kind(99), func(Record) error { return nil })
	require.Error(t, err)
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
