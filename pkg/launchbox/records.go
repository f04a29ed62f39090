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

// Package launchbox reads the LaunchBox games database dump and talks to the
// LaunchBox download endpoint.
package launchbox

import (
	"database/sql"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/slugs"
)

// Kind identifies one of the importable record shapes in Metadata.xml.
type Kind int

const (
	KindGame Kind = iota + 1
	KindAlternateName
	KindImage
)

// Kinds lists every importable kind in import order.
var Kinds = []Kind{KindGame, KindAlternateName, KindImage}

// ElementName is the XML element holding records of this kind.
func (k Kind) ElementName() string {
	switch k {
	case KindGame:
		return "Game"
	case KindAlternateName:
		return "GameAlternateName"
	case KindImage:
		return "GameImage"
	default:
		return ""
	}
}

func (k Kind) String() string {
	if name := k.ElementName(); name != "" {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Record is a decoded element of Metadata.xml. The concrete type is one of
// *GameRecord, *AlternateNameRecord or *ImageRecord.
type Record interface {
	Kind() Kind
	validate() error
}

var errMissingDatabaseID = errors.New("missing DatabaseID")

// GameRecord is a <Game> element.
type GameRecord struct {
	ReleaseDate          Date     `xml:"ReleaseDate"`
	ReleaseYear          *int64   `xml:"ReleaseYear"`
	MaxPlayers           *int64   `xml:"MaxPlayers"`
	Cooperative          *bool    `xml:"Cooperative"`
	CommunityRating      *float64 `xml:"CommunityRating"`
	Name                 string   `xml:"Name"`
	Platform             string   `xml:"Platform"`
	Overview             string   `xml:"Overview"`
	ReleaseType          string   `xml:"ReleaseType"`
	VideoURL             string   `xml:"VideoURL"`
	WikipediaURL         string   `xml:"WikipediaURL"`
	ESRB                 string   `xml:"ESRB"`
	Genres               string   `xml:"Genres"`
	Developer            string   `xml:"Developer"`
	Publisher            string   `xml:"Publisher"`
	DatabaseID           int64    `xml:"DatabaseID"`
	CommunityRatingCount int64    `xml:"CommunityRatingCount"`
}

func (*GameRecord) Kind() Kind { return KindGame }

func (r *GameRecord) validate() error {
	if r.DatabaseID == 0 {
		return errMissingDatabaseID
	}
	return nil
}

// ScaleRating converts a 0..5 LaunchBox rating to 0..100, rounding half to
// even.
func ScaleRating(rating float64) float64 {
	return math.RoundToEven(rating * 20)
}

// Transform derives the search keys and rescales the rating.
func (r *GameRecord) Transform() database.Game {
	g := database.Game{
		DatabaseID:           r.DatabaseID,
		Name:                 strings.TrimSpace(r.Name),
		Platform:             strings.TrimSpace(r.Platform),
		NameSearch:           slugs.Slugify(r.Name),
		PlatformSearch:       slugs.Slugify(r.Platform),
		Overview:             r.Overview,
		ReleaseType:          r.ReleaseType,
		VideoURL:             strings.TrimSpace(r.VideoURL),
		WikipediaURL:         strings.TrimSpace(r.WikipediaURL),
		ESRB:                 r.ESRB,
		Genres:               r.Genres,
		Developer:            r.Developer,
		Publisher:            r.Publisher,
		CommunityRatingCount: r.CommunityRatingCount,
	}
	if r.ReleaseDate.Valid {
		g.ReleaseDate = sql.NullTime{Time: r.ReleaseDate.Time, Valid: true}
	}
	if r.ReleaseYear != nil {
		g.ReleaseYear = sql.NullInt64{Int64: *r.ReleaseYear, Valid: true}
	}
	if r.MaxPlayers != nil {
		g.MaxPlayers = sql.NullInt64{Int64: *r.MaxPlayers, Valid: true}
	}
	if r.Cooperative != nil {
		g.Cooperative = sql.NullBool{Bool: *r.Cooperative, Valid: true}
	}
	if r.CommunityRating != nil {
		g.CommunityRating = sql.NullFloat64{Float64: ScaleRating(*r.CommunityRating), Valid: true}
	}
	return g
}

// AlternateNameRecord is a <GameAlternateName> element.
type AlternateNameRecord struct {
	AlternateName string `xml:"AlternateName"`
	Region        string `xml:"Region"`
	DatabaseID    int64  `xml:"DatabaseID"`
}

func (*AlternateNameRecord) Kind() Kind { return KindAlternateName }

func (r *AlternateNameRecord) validate() error {
	if r.DatabaseID == 0 {
		return errMissingDatabaseID
	}
	return nil
}

// Transform derives the alternate name's search key.
func (r *AlternateNameRecord) Transform() database.GameAlternateName {
	return database.GameAlternateName{
		DatabaseID:    r.DatabaseID,
		AlternateName: strings.TrimSpace(r.AlternateName),
		NameSearch:    slugs.Slugify(r.AlternateName),
		Region:        strings.TrimSpace(r.Region),
	}
}

// ImageRecord is a <GameImage> element.
type ImageRecord struct {
	FileName   string `xml:"FileName"`
	Type       string `xml:"Type"`
	Region     string `xml:"Region"`
	DatabaseID int64  `xml:"DatabaseID"`
	CRC32      int64  `xml:"CRC32"`
}

func (*ImageRecord) Kind() Kind { return KindImage }

func (r *ImageRecord) validate() error {
	if r.DatabaseID == 0 {
		return errMissingDatabaseID
	}
	if strings.TrimSpace(r.FileName) == "" {
		return errors.New("missing FileName")
	}
	return nil
}

// Transform copies the image as is.
func (r *ImageRecord) Transform() database.GameImage {
	return database.GameImage{
		DatabaseID: r.DatabaseID,
		FileName:   strings.TrimSpace(r.FileName),
		Type:       strings.TrimSpace(r.Type),
		Region:     strings.TrimSpace(r.Region),
		CRC32:      r.CRC32,
	}
}

func newRecord(kind Kind) (Record, error) {
	switch kind {
	case KindGame:
		return &GameRecord{}, nil
	case KindAlternateName:
		return &AlternateNameRecord{}, nil
	case KindImage:
		return &ImageRecord{}, nil
	default:
		return nil, fmt.Errorf("unknown record kind %d", int(kind))
	}
}

// Date is an optional calendar date. LaunchBox writes full timestamps with
// an offset; only the date part is kept.
type Date struct {
	Time  time.Time
	Valid bool
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalXML accepts empty elements as a missing date.
func (d *Date) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	var raw string
	if err := dec.DecodeElement(&raw, &start); err != nil {
		return fmt.Errorf("failed to decode date: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*d = Date{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			y, m, day := t.Date()
			*d = Date{Time: time.Date(y, m, day, 0, 0, 0, 0, time.UTC), Valid: true}
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", raw)
}
