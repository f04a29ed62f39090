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
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/launchbox"
	"github.com/rs/zerolog/log"
)

// Link is a named external reference.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Icon is a resized icon and the image it was made from.
type Icon struct {
	FileName string `json:"fileName"`
	Source   string `json:"source"`
	Data     []byte `json:"data"`
}

// Metadata collects every field a Provider can produce. Unset fields mean
// the host should keep its own value.
type Metadata struct {
	ReleaseDate     *time.Time `json:"releaseDate,omitempty"`
	CommunityScore  *int       `json:"communityScore,omitempty"`
	Icon            *Icon      `json:"icon,omitempty"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	CoverImage      string     `json:"coverImage,omitempty"`
	BackgroundImage string     `json:"backgroundImage,omitempty"`
	Genres          []string   `json:"genres,omitempty"`
	Developers      []string   `json:"developers,omitempty"`
	Publishers      []string   `json:"publishers,omitempty"`
	Links           []Link     `json:"links,omitempty"`
	DatabaseID      int64      `json:"databaseId"`
}

type ProviderOptions struct {
	// Fetcher downloads icon source images. Icon is unavailable when nil.
	Fetcher      AssetFetcher
	ImageBaseURL string
	IconSize     int
}

// Provider exposes the fields of one session's resolved game. Every getter
// returns ok == false when the host should fall back to its own value; a
// store or fetch failure is logged and reported the same way. A Provider is
// bound to one session and is not safe for concurrent use.
type Provider struct {
	resolver *Resolver
	session  *Session
	opts     ProviderOptions
}

func NewProvider(resolver *Resolver, session *Session, opts ProviderOptions) *Provider {
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = launchbox.DefaultImageBaseURL
	}
	if opts.IconSize <= 0 {
		opts.IconSize = 256
	}
	return &Provider{resolver: resolver, session: session, opts: opts}
}

// Session returns the session the provider reads from.
func (p *Provider) Session() *Session {
	return p.session
}

func (p *Provider) game(ctx context.Context) (*ResolvedGame, bool) {
	game, err := p.resolver.Resolve(ctx, p.session)
	if err != nil {
		if !errors.Is(err, ErrNotResolvable) {
			log.Error().Err(err).Str("name", p.session.Query.Name).Msg("metadata resolution failed")
		}
		return nil, false
	}
	return game, true
}

func (p *Provider) Name(ctx context.Context) (string, bool) {
	game, ok := p.game(ctx)
	if !ok || strings.TrimSpace(game.Name) == "" {
		return "", false
	}
	return game.Name, true
}

func (p *Provider) Genres(ctx context.Context) ([]string, bool) {
	game, ok := p.game(ctx)
	if !ok {
		return nil, false
	}
	return splitList(game.Genres)
}

func (p *Provider) Developers(ctx context.Context) ([]string, bool) {
	game, ok := p.game(ctx)
	if !ok {
		return nil, false
	}
	return splitList(game.Developer)
}

func (p *Provider) Publishers(ctx context.Context) ([]string, bool) {
	game, ok := p.game(ctx)
	if !ok {
		return nil, false
	}
	return splitList(game.Publisher)
}

func (p *Provider) Description(ctx context.Context) (string, bool) {
	game, ok := p.game(ctx)
	if !ok || strings.TrimSpace(game.Overview) == "" {
		return "", false
	}
	return game.Overview, true
}

// ReleaseDate returns the full release date, or January 1st of the release
// year when only the year is known.
func (p *Provider) ReleaseDate(ctx context.Context) (time.Time, bool) {
	game, ok := p.game(ctx)
	if !ok {
		return time.Time{}, false
	}
	switch {
	case game.ReleaseDate.Valid:
		return game.ReleaseDate.Time, true
	case game.ReleaseYear.Valid && game.ReleaseYear.Int64 > 0:
		return time.Date(int(game.ReleaseYear.Int64), time.January, 1, 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}

// CommunityScore is the weighted community rating, only produced when the
// game has a rating backed by at least one vote.
func (p *Provider) CommunityScore(ctx context.Context) (int, bool) {
	game, ok := p.game(ctx)
	if !ok || !game.CommunityRating.Valid || game.CommunityRatingCount <= 0 {
		return 0, false
	}
	return WeightedRating(game.CommunityRatingCount, game.CommunityRating.Float64), true
}

func (p *Provider) CoverImage(ctx context.Context) (string, bool) {
	return p.imageURL(ctx, CategoryCover)
}

func (p *Provider) BackgroundImage(ctx context.Context) (string, bool) {
	return p.imageURL(ctx, CategoryBackground)
}

func (p *Provider) imageURL(ctx context.Context, category ImageCategory) (string, bool) {
	fileName, ok := p.bestImage(ctx, category)
	if !ok {
		return "", false
	}
	return p.opts.ImageBaseURL + fileName, true
}

func (p *Provider) bestImage(ctx context.Context, category ImageCategory) (string, bool) {
	if _, ok := p.game(ctx); !ok {
		return "", false
	}
	images, err := p.resolver.Images(ctx, p.session)
	if err != nil {
		log.Error().Err(err).Stringer("category", category).Msg("failed to load images")
		return "", false
	}

	types := category.Types()
	best, ok := SelectBestImage(ImagesOfTypes(images, types), types, p.session.Priority())
	if !ok || best.FileName == "" {
		return "", false
	}
	return best.FileName, true
}

// Icon downloads the best icon image and pad-resizes it to a square PNG.
func (p *Provider) Icon(ctx context.Context) (Icon, bool) {
	if p.opts.Fetcher == nil {
		return Icon{}, false
	}
	fileName, ok := p.bestImage(ctx, CategoryIcon)
	if !ok {
		return Icon{}, false
	}

	source := p.opts.ImageBaseURL + fileName
	data, err := p.opts.Fetcher.Fetch(ctx, source)
	if err != nil {
		log.Warn().Err(err).Str("url", source).Msg("failed to fetch icon")
		return Icon{}, false
	}
	resized, err := PadResizePNG(data, p.opts.IconSize)
	if err != nil {
		log.Warn().Err(err).Str("url", source).Msg("failed to resize icon")
		return Icon{}, false
	}

	return Icon{FileName: fileName, Source: source, Data: resized}, true
}

// Links returns the LaunchBox page followed by the Wikipedia and video links
// when present.
func (p *Provider) Links(ctx context.Context) ([]Link, bool) {
	game, ok := p.game(ctx)
	if !ok {
		return nil, false
	}

	links := []Link{{
		Name: "LaunchBox",
		URL:  launchbox.DefaultGameURL + strconv.FormatInt(game.DatabaseID, 10),
	}}
	if strings.TrimSpace(game.WikipediaURL) != "" {
		links = append(links, Link{Name: "Wikipedia", URL: game.WikipediaURL})
	}
	if strings.TrimSpace(game.VideoURL) != "" {
		links = append(links, Link{Name: "Video", URL: game.VideoURL})
	}
	return links, true
}

// Fields resolves the game and collects every available field. It returns
// ErrNotResolvable when nothing matched, or the store error that prevented
// resolution. The icon is only fetched when includeIcon is set.
func (p *Provider) Fields(ctx context.Context, includeIcon bool) (Metadata, error) {
	game, err := p.resolver.Resolve(ctx, p.session)
	if err != nil {
		return Metadata{}, err
	}
	if _, err := p.resolver.Images(ctx, p.session); err != nil {
		return Metadata{}, err
	}

	md := Metadata{DatabaseID: game.DatabaseID}
	md.Name, _ = p.Name(ctx)
	md.Description, _ = p.Description(ctx)
	md.Genres, _ = p.Genres(ctx)
	md.Developers, _ = p.Developers(ctx)
	md.Publishers, _ = p.Publishers(ctx)
	md.CoverImage, _ = p.CoverImage(ctx)
	md.BackgroundImage, _ = p.BackgroundImage(ctx)
	md.Links, _ = p.Links(ctx)
	if date, ok := p.ReleaseDate(ctx); ok {
		md.ReleaseDate = &date
	}
	if score, ok := p.CommunityScore(ctx); ok {
		md.CommunityScore = &score
	}
	if includeIcon {
		if icon, ok := p.Icon(ctx); ok {
			md.Icon = &icon
		}
	}
	return md, nil
}

// splitList splits a ';' separated credit or genre field, trimming and
// sorting the entries.
func splitList(value string) ([]string, bool) {
	var out []string
	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	slices.Sort(out)
	return out, true
}
