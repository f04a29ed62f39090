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
	"fmt"
	"io"
	"strings"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/shared/httpclient"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultArchiveURL is the published games database dump.
	DefaultArchiveURL = "https://gamesdb.launchbox-app.com/Metadata.zip"
	// DefaultMetadataFile is the archive entry holding the XML dump.
	DefaultMetadataFile = "Metadata.xml"
	// DefaultImageBaseURL prefixes GameImage file names.
	DefaultImageBaseURL = "https://images.launchbox-app.com/"
	// DefaultGameURL prefixes a DatabaseID to link to its games database page.
	DefaultGameURL = "https://gamesdb.launchbox-app.com/games/dbid/"
)

// Source provides the remote dump and a version hash for it.
type Source interface {
	GetMetadataHash(ctx context.Context) (string, error)
	DownloadMetadata(ctx context.Context) (io.ReadCloser, error)
}

// HTTPSource reads the dump from an HTTP endpoint. The version hash is the
// archive's ETag, or its Last-Modified date when no ETag is sent.
type HTTPSource struct {
	client *httpclient.Client
	group  singleflight.Group
	url    string
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource returns a Source for the archive at url.
func NewHTTPSource(client *httpclient.Client, url string) *HTTPSource {
	if url == "" {
		url = DefaultArchiveURL
	}
	return &HTTPSource{client: client, url: url}
}

// GetMetadataHash sends a HEAD request for the archive. Concurrent callers
// share one request.
func (s *HTTPSource) GetMetadataHash(ctx context.Context) (string, error) {
	v, err, shared := s.group.Do(s.url, func() (any, error) {
		header, err := s.client.Head(ctx, s.url)
		if err != nil {
			return "", err
		}
		if etag := normalizeETag(header.Get("ETag")); etag != "" {
			return etag, nil
		}
		if modified := strings.TrimSpace(header.Get("Last-Modified")); modified != "" {
			return modified, nil
		}
		return "", errors.New("response has no ETag or Last-Modified header")
	})
	if err != nil {
		return "", fmt.Errorf("%w: metadata hash: %w", ErrFetch, err)
	}
	hash, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: unexpected hash type %T", ErrFetch, v)
	}
	log.Debug().Str("hash", hash).Bool("shared", shared).Msg("fetched metadata hash")
	return hash, nil
}

func normalizeETag(etag string) string {
	etag = strings.TrimSpace(etag)
	etag = strings.TrimPrefix(etag, "W/")
	return strings.Trim(etag, `"`)
}

// DownloadMetadata starts a GET of the archive. The caller closes the body.
func (s *HTTPSource) DownloadMetadata(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata download: %w", ErrFetch, err)
	}
	log.Info().
		Str("url", s.url).
		Int64("content_length", resp.ContentLength).
		Msg("downloading metadata archive")
	return resp.Body, nil
}
