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

// MetadataParams are the query parameters of a metadata lookup. Region and
// path may be repeated.
type MetadataParams struct {
	Name     string   `json:"name" validate:"required,max=512"`
	Platform string   `json:"platform" validate:"required,max=128"`
	Regions  []string `json:"regions" validate:"max=8,dive,region"`
	Paths    []string `json:"paths" validate:"max=8,dive,max=4096"`
	Icon     bool     `json:"icon"`
}
