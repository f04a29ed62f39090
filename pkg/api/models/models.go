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

// Package models holds the request and response shapes of the HTTP API.
package models

const APIVersion = "v1"

const (
	PathMetadata       = "/api/v1/metadata"
	PathStatus         = "/api/v1/status"
	PathUpdate         = "/api/v1/update"
	PathUpdateProgress = "/api/v1/update/progress"
	// PathUpdateEvents is a websocket pushing a ProgressNotification on every
	// import progress change.
	PathUpdateEvents = "/api/v1/update/events"
)

// MethodUpdateProgress names the notification sent on PathUpdateEvents.
const MethodUpdateProgress = "update.progress"

// Query parameters of PathMetadata.
const (
	ParamName     = "name"
	ParamPlatform = "platform"
	ParamRegion   = "region"
	ParamPath     = "path"
	ParamIcon     = "icon"
)
