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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/api"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/metadata"
	"github.com/rs/zerolog/log"
)

// ErrNoAction is returned by Post when no action flag was given.
var ErrNoAction = errors.New("no action given")

// Post runs the action selected by the parsed flags, writing results to out.
func (f *Flags) Post(ctx context.Context, e *Engine, out io.Writer) error {
	switch {
	case *f.Check:
		return check(ctx, e, out)
	case *f.Update:
		return update(ctx, e, out)
	case f.isFlagPassed("import"):
		if *f.Import == "" {
			return errors.New("import flag requires a value")
		}
		return importFile(ctx, e, *f.Import, out)
	case f.isFlagPassed("lookup"):
		return lookup(ctx, e, metadata.Query{
			Name:       *f.Lookup,
			PlatformID: *f.Platform,
			Regions:    optional(*f.Region),
			Paths:      optional(*f.Path),
		}, *f.Icon, out)
	case f.isFlagPassed("serve"):
		addr := *f.Serve
		if addr == "" {
			addr = e.Config.APIListen()
		}
		return serve(ctx, e, addr)
	default:
		return ErrNoAction
	}
}

func optional(value string) []string {
	if value == "" {
		return nil
	}
	return []string{value}
}

func check(ctx context.Context, e *Engine, out io.Writer) error {
	hasData, err := e.Importer.HasData(ctx)
	if err != nil {
		return fmt.Errorf("failed to check store: %w", err)
	}
	available, err := e.Importer.NewMetadataAvailable(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for new metadata: %w", err)
	}

	switch {
	case !hasData:
		_, _ = fmt.Fprintln(out, "no local metadata, run -update")
	case available:
		_, _ = fmt.Fprintln(out, "new metadata available")
	default:
		_, _ = fmt.Fprintf(out, "metadata is up to date (%s)\n", e.Config.LastHash())
	}
	return nil
}

func update(ctx context.Context, e *Engine, out io.Writer) error {
	hash, err := e.Importer.Update(ctx)
	if err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}
	p := e.Importer.Progress()
	_, _ = fmt.Fprintf(out, "imported %d records (%s)\n", p.Records, hash)
	return nil
}

func importFile(ctx context.Context, e *Engine, path string, out io.Writer) error {
	if err := e.Importer.ImportArchiveFile(ctx, path); err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(out, "imported %d records from %s\n", e.Importer.Progress().Records, path)
	return nil
}

func lookup(ctx context.Context, e *Engine, q metadata.Query, icon bool, out io.Writer) error {
	if q.PlatformID == "" {
		return errors.New("lookup requires -platform")
	}

	provider := metadata.NewProvider(e.Resolver, metadata.NewSession(q), metadata.ProviderOptions{
		Fetcher:      e.Fetcher,
		ImageBaseURL: e.Config.ImageBaseURL(),
		IconSize:     e.Config.IconSize(),
	})

	md, err := provider.Fields(ctx, icon)
	if errors.Is(err, metadata.ErrStoreNotReady) {
		_, _ = fmt.Fprintln(out, "no complete local metadata, run -update")
		return nil
	} else if errors.Is(err, metadata.ErrNotResolvable) {
		_, _ = fmt.Fprintf(out, "no match for %q on %s\n", q.Name, q.PlatformID)
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to look up %q: %w", q.Name, err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(md); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	return nil
}

func serve(ctx context.Context, e *Engine, addr string) error {
	srv, err := api.NewServer(ctx, api.Options{
		Config:        e.Config,
		Resolver:      e.Resolver,
		Importer:      e.Importer,
		Platforms:     e.Platforms,
		Fetcher:       e.Fetcher,
		Open:          e.Open,
		Notifications: e.Notifications,
	})
	if err != nil {
		return fmt.Errorf("failed to create api server: %w", err)
	}

	log.Info().Str("addr", addr).Msg("serving metadata api")
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("failed to serve api: %w", err)
	}
	return nil
}
