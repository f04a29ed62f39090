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
	"fmt"
	"net/http"
	"strconv"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/api/models"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/config"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/rs/zerolog/log"
)

// HandleStatus reports the store contents and import state. With check=true
// it also asks the source whether newer metadata is published.
func HandleStatus(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		resp := models.StatusResponse{
			CheckedAt: env.Clock.Now(),
			Version:   config.AppVersion,
			LastHash:  env.Config.LastHash(),
			Progress:  env.Importer.Progress(),
		}
		if env.Platforms != nil {
			resp.PlatformTable = env.Platforms.Version()
		}

		hasData, err := env.Importer.HasData(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to check store")
			writeError(w, http.StatusInternalServerError, "failed to check store")
			return
		}
		resp.HasData = hasData

		if hasData {
			stats, err := storeStats(ctx, env.Open)
			if err != nil {
				log.Error().Err(err).Msg("failed to read store stats")
				writeError(w, http.StatusInternalServerError, "failed to read store stats")
				return
			}
			resp.Stats = &stats
		}

		if check, _ := strconv.ParseBool(r.URL.Query().Get("check")); check {
			available, err := env.Importer.NewMetadataAvailable(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("failed to check for new metadata")
			} else {
				resp.UpdateAvailable = &available
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func storeStats(ctx context.Context, open database.Opener) (database.Stats, error) {
	db, err := open(ctx)
	if err != nil {
		return database.Stats{}, fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close store")
		}
	}()

	stats, err := db.Stats(ctx)
	if err != nil {
		return database.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}
