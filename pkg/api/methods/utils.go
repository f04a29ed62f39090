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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/api/models"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/api/validation"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

// writeInvalidParams reports a validation failure with one entry per field.
func writeInvalidParams(w http.ResponseWriter, err error) {
	resp := models.ErrorResponse{Error: validation.ErrInvalidParams.Error()}

	var ve *validation.Error
	if errors.As(err, &ve) {
		for _, fe := range ve.Fields {
			resp.Fields = append(resp.Fields, models.FieldError{
				Field:   fe.Field,
				Message: fe.Message,
			})
		}
	} else {
		resp.Fields = []models.FieldError{{Message: err.Error()}}
	}

	writeJSON(w, http.StatusBadRequest, resp)
}
