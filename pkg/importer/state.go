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

package importer

import "github.com/ZaparooProject/lbgdb-metadata/pkg/launchbox"

// State is a step of an import run.
type State string

const (
	StateIdle                    State = "idle"
	StateDownloading             State = "downloading"
	StateReplacing               State = "replacing"
	StateImportingGames          State = "importing_games"
	StateImportingAlternateNames State = "importing_alternate_names"
	StateImportingImages         State = "importing_images"
)

// TotalStages counts the states a full update passes through before it
// returns to idle.
const TotalStages = 5

// stateFor returns the import state of a record kind.
func stateFor(kind launchbox.Kind) State {
	switch kind {
	case launchbox.KindGame:
		return StateImportingGames
	case launchbox.KindAlternateName:
		return StateImportingAlternateNames
	case launchbox.KindImage:
		return StateImportingImages
	default:
		return StateIdle
	}
}
