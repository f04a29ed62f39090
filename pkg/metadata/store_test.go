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

package metadata

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/testing/helpers"
)

// newSeededStore returns a counting opener over a small catalog:
//
//	1  Sonic the Hedgehog  Sega Genesis, full credits and images
//	2  Mega Game           Sega Genesis, alternates "Super Game" (Europe) and
//	                       "Mega Game USA" (North America), year only
//	3  Twin Game           Sega Genesis, two alternates keyed "twinsalpha"
//	4  Mega Game           Super Nintendo
func newSeededStore(t *testing.T) *helpers.CountingOpener {
	t.Helper()

	db, open := helpers.NewTestMetadataDB(t)
	helpers.Seed(t, db,
		[]database.Game{
			{
				DatabaseID:           1,
				Name:                 "Sonic the Hedgehog",
				Platform:             "Sega Genesis",
				NameSearch:           "sonicthehedgehog",
				PlatformSearch:       "segagenesis",
				ReleaseDate:          sql.NullTime{Time: time.Date(1991, 6, 23, 0, 0, 0, 0, time.UTC), Valid: true},
				ReleaseYear:          sql.NullInt64{Int64: 1991, Valid: true},
				Overview:             "Sonic races to stop Dr. Robotnik.",
				Genres:               "Platform; Action",
				Developer:            "Sonic Team",
				Publisher:            "Sega",
				CommunityRating:      sql.NullFloat64{Float64: 78, Valid: true},
				CommunityRatingCount: 1200,
				WikipediaURL:         "https://en.wikipedia.org/wiki/Sonic_the_Hedgehog_(1991_video_game)",
				VideoURL:             "https://www.youtube.com/watch?v=sonic",
			},
			{
				DatabaseID:           2,
				Name:                 "Mega Game",
				Platform:             "Sega Genesis",
				NameSearch:           "megagame",
				PlatformSearch:       "segagenesis",
				ReleaseYear:          sql.NullInt64{Int64: 1994, Valid: true},
				Developer:            "B Studio; A Studio;",
				CommunityRating:      sql.NullFloat64{Float64: 50, Valid: true},
				CommunityRatingCount: 0,
			},
			{
				DatabaseID:     3,
				Name:           "Twin Game",
				Platform:       "Sega Genesis",
				NameSearch:     "twingame",
				PlatformSearch: "segagenesis",
			},
			{
				DatabaseID:     4,
				Name:           "Mega Game",
				Platform:       "Super Nintendo Entertainment System",
				NameSearch:     "megagame",
				PlatformSearch: "supernintendoentertainmentsystem",
			},
		},
		[]database.GameAlternateName{
			{DatabaseID: 2, AlternateName: "Super Game", NameSearch: "supergame", Region: "Europe"},
			{DatabaseID: 2, AlternateName: "Mega Game USA", NameSearch: "megagameusa", Region: "North America"},
			{DatabaseID: 3, AlternateName: "Twins: Alpha", NameSearch: "twinsalpha", Region: "Japan"},
			{DatabaseID: 3, AlternateName: "Twins Alpha", NameSearch: "twinsalpha", Region: "Europe"},
		},
		[]database.GameImage{
			{DatabaseID: 1, FileName: "sonic-eu.png", Type: TypeBoxFront, Region: "Europe"},
			{DatabaseID: 1, FileName: "sonic-us.png", Type: TypeBoxFront, Region: "North America"},
			{DatabaseID: 1, FileName: "sonic-bg.jpg", Type: TypeFanartBackground},
			{DatabaseID: 1, FileName: "sonic-logo.png", Type: TypeClearLogo, Region: "North America"},
			{DatabaseID: 1, FileName: "sonic-shot.png", Type: TypeScreenshotGameplay},
			{DatabaseID: 2, FileName: "mega-us.png", Type: TypeBoxFront, Region: "North America"},
			{DatabaseID: 2, FileName: "mega-eu.png", Type: TypeBoxFront, Region: "Europe"},
		},
	)

	return helpers.NewCountingOpener(open)
}
