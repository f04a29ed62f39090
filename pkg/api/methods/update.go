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
	"errors"
	"net/http"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/api/models"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/importer"
	"github.com/rs/zerolog/log"
)

// HandleUpdate starts a metadata update in the background and returns 202,
// or 409 when an import is already running.
func HandleUpdate(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if env.Importer.Running() {
			writeJSON(w, http.StatusConflict, models.UpdateResponse{Progress: env.Importer.Progress()})
			return
		}

		log.Info().Msg("received update request")
		env.Go(func(ctx context.Context) {
			_, err := env.Importer.Update(ctx)
			switch {
			case errors.Is(err, importer.ErrImportRunning):
				log.Debug().Msg("update already running")
			case err != nil:
				log.Error().Err(err).Msg("background update failed")
			}
		})

		writeJSON(w, http.StatusAccepted, models.UpdateResponse{
			Started:  true,
			Progress: env.Importer.Progress(),
		})
	}
}

// HandleUpdateProgress returns the progress of the current or last import.
func HandleUpdateProgress(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, env.Importer.Progress())
	}
}
