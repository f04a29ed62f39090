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

package methods

import (
	"context"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/config"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/platformmap"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/importer"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/metadata"
	"github.com/jonboulle/clockwork"
)

// Env holds the services shared by every handler.
type Env struct {
	Config    *config.Instance
	Resolver  *metadata.Resolver
	Importer  *importer.Importer
	Platforms *platformmap.Mapper
	Fetcher   metadata.AssetFetcher
	Open      database.Opener
	Clock     clockwork.Clock
	// Go runs fn outside the request, bound to the server's lifetime.
	Go func(fn func(ctx context.Context))
}
