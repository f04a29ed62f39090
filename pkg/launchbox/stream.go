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
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Stream decodes every element named after kind from r, in document order,
// and calls fn with each record. Elements of other kinds are skipped without
// being decoded, so the document is never held in memory as a whole.
// Returns the number of records passed to fn.
func Stream(ctx context.Context, r io.Reader, kind Kind, fn func(Record) error) (int, error) {
	name := kind.ElementName()
	if name == "" {
		return 0, fmt.Errorf("unknown record kind %d", int(kind))
	}

	dec := xml.NewDecoder(r)
	// Metadata.xml declares utf-8; anything else is passed through as is.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	count := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("failed to read %s stream: %w", kind, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != name {
			continue
		}

		if err := ctx.Err(); err != nil {
			return count, fmt.Errorf("stream cancelled: %w", err)
		}

		ordinal := count + 1
		rec, err := newRecord(kind)
		if err != nil {
			return count, err
		}
		if err := dec.DecodeElement(rec, &start); err != nil {
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return count, fmt.Errorf("failed to read %s stream: %w", kind, err)
			}
			return count, &RecordError{Kind: kind, Ordinal: ordinal, Err: err}
		}
		if err := rec.validate(); err != nil {
			return count, &RecordError{Kind: kind, Ordinal: ordinal, Err: err}
		}

		if err := fn(rec); err != nil {
			return count, err
		}
		count++
	}
}
