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
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/api/models"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/api/validation"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/metadata"
	"github.com/rs/zerolog/log"
)

// ParseMetadataParams reads and validates the lookup query of r.
func ParseMetadataParams(r *http.Request) (models.MetadataParams, error) {
	q := r.URL.Query()
	params := models.MetadataParams{
		Name:     strings.TrimSpace(q.Get(models.ParamName)),
		Platform: strings.TrimSpace(q.Get(models.ParamPlatform)),
		Regions:  nonBlank(q[models.ParamRegion]),
		Paths:    nonBlank(q[models.ParamPath]),
	}

	if raw := q.Get(models.ParamIcon); raw != "" {
		icon, err := strconv.ParseBool(raw)
		if err != nil {
			return params, &validation.Error{Fields: []validation.FieldError{{
				Value:   raw,
				Field:   models.ParamIcon,
				Tag:     "boolean",
				Message: "icon must be true or false",
			}}}
		}
		params.Icon = icon
	}

	if err := validation.DefaultValidator.Validate(&params); err != nil {
		return params, err
	}
	return params, nil
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// HandleMetadata resolves one game and returns every field found for it.
// Lookups get 503 while an import is replacing the store.
func HandleMetadata(env *Env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := ParseMetadataParams(r)
		if err != nil {
			writeInvalidParams(w, err)
			return
		}

		if env.Importer != nil && env.Importer.Running() {
			writeError(w, http.StatusServiceUnavailable, metadata.ErrStoreNotReady.Error())
			return
		}

		log.Debug().
			Str("name", params.Name).
			Str("platform", params.Platform).
			Strs("regions", params.Regions).
			Msg("received metadata request")

		session := metadata.NewSession(metadata.Query{
			Name:       params.Name,
			PlatformID: params.Platform,
			Regions:    params.Regions,
			Paths:      params.Paths,
		})
		provider := metadata.NewProvider(env.Resolver, session, metadata.ProviderOptions{
			Fetcher:      env.Fetcher,
			ImageBaseURL: env.Config.ImageBaseURL(),
			IconSize:     env.Config.IconSize(),
		})

		md, err := provider.Fields(r.Context(), params.Icon)
		switch {
		case errors.Is(err, metadata.ErrStoreNotReady):
			writeError(w, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, metadata.ErrNotResolvable):
			writeError(w, http.StatusNotFound, err.Error())
		case err != nil:
			log.Error().Err(err).Str("name", params.Name).Msg("metadata lookup failed")
			writeError(w, http.StatusInternalServerError, "metadata lookup failed")
		default:
			writeJSON(w, http.StatusOK, md)
		}
	}
}
