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

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/config"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/metadatadb"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/platformmap"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/importer"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/launchbox"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/metadata"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/shared/httpclient"
	"github.com/spf13/afero"
)

// Engine bundles the services built from one config.
type Engine struct {
	Config    *config.Instance
	Source    launchbox.Source
	Importer  *importer.Importer
	Resolver  *metadata.Resolver
	Platforms *platformmap.Mapper
	Fetcher   metadata.AssetFetcher
	Open      database.Opener
	// Notifications carries import progress changes. Sends never block, so
	// it may go unread.
	Notifications <-chan importer.Progress
	DBPath        string
}

const notificationBuffer = 32

type engineDeps struct {
	source  launchbox.Source
	fetcher metadata.AssetFetcher
	fs      afero.Fs
}

// NewEngine wires the store in dataDir to the LaunchBox endpoints named in
// cfg. Image requests are limited to the configured fetch rate.
func NewEngine(cfg *config.Instance, dataDir string) (*Engine, error) {
	var opts []httpclient.Option
	if rate := cfg.FetchRate(); rate > 0 {
		opts = append(opts, httpclient.WithRateLimit(float64(rate), rate))
	}
	client := httpclient.NewClient(opts...)

	return newEngine(cfg, dataDir, engineDeps{
		source:  launchbox.NewHTTPSource(newArchiveClient(), cfg.ArchiveURL()),
		fetcher: metadata.NewHTTPFetcher(client),
		fs:      afero.NewOsFs(),
	})
}

// newArchiveClient returns the client for the metadata archive. The archive
// is large, so only the caller's context and the transport's dial and header
// timeouts bound a download.
func newArchiveClient() *httpclient.Client {
	return httpclient.NewClient(httpclient.WithTimeout(0))
}

func newEngine(cfg *config.Instance, dataDir string, deps engineDeps) (*Engine, error) {
	mapper, err := platformmap.New(cfg.PlatformAliases())
	if err != nil {
		return nil, fmt.Errorf("failed to load platform aliases: %w", err)
	}

	dbPath := filepath.Join(dataDir, metadatadb.DBFile)
	open := metadatadb.NewOpener(dbPath)

	notifications := make(chan importer.Progress, notificationBuffer)
	imp, err := importer.New(importer.Options{
		Source:        deps.source,
		Config:        cfg,
		Fs:            deps.fs,
		Notifications: notifications,
		Open:          open,
		DBPath:        dbPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create importer: %w", err)
	}

	return &Engine{
		Config:        cfg,
		Source:        deps.source,
		Importer:      imp,
		Resolver:      metadata.NewResolver(open, mapper),
		Platforms:     mapper,
		Fetcher:       deps.fetcher,
		Open:          open,
		Notifications: notifications,
		DBPath:        dbPath,
	}, nil
}
