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

package launchbox

import (
	"errors"
	"fmt"
)

// ErrFetch wraps failures talking to the LaunchBox download endpoint. The
// caller decides whether to retry.
var ErrFetch = errors.New("launchbox fetch failed")

// RecordError reports a record that could not be decoded or is missing
// required fields. Ordinal counts records of Kind from 1.
type RecordError struct {
	Err     error
	Kind    Kind
	Ordinal int
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("malformed %s record #%d: %v", e.Kind, e.Ordinal, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
