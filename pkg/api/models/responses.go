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

package models

import (
	"time"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/importer"
)

type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type StatusResponse struct {
	CheckedAt       time.Time         `json:"checkedAt"`
	Stats           *database.Stats   `json:"stats,omitempty"`
	UpdateAvailable *bool             `json:"updateAvailable,omitempty"`
	Version         string            `json:"version"`
	LastHash        string            `json:"lastHash,omitempty"`
	Progress        importer.Progress `json:"progress"`
	PlatformTable   int               `json:"platformTable"`
	HasData         bool              `json:"hasData"`
}

type UpdateResponse struct {
	Progress importer.Progress `json:"progress"`
	Started  bool              `json:"started"`
}

type ProgressNotification struct {
	Method string            `json:"method"`
	Params importer.Progress `json:"params"`
}
