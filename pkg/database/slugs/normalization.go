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

package slugs

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// NormalizeWidth folds fullwidth ASCII to halfwidth and halfwidth katakana to
// fullwidth, e.g. "Ｓｏｎｉｃ １" → "Sonic 1".
// Returns the input unchanged if normalization fails.
func NormalizeWidth(s string) string {
	if normalized, _, err := transform.String(width.Fold, s); err == nil {
		return normalized
	}
	return s
}

// combiningDiacritics covers the Combining Diacritical Marks block only, so
// Latin, Greek and Cyrillic accents are dropped while kana voicing marks
// (U+3099, U+309A) survive decomposition.
var combiningDiacritics = runes.In(&unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036F, Stride: 1}},
})

// NormalizeUnicode removes symbols (™, ©, currency), applies NFKC and strips
// diacritics: "Pokémon™" → "Pokemon", "ﬁnal" → "final".
// Pure ASCII input is returned as is.
func NormalizeUnicode(s string) string {
	if isASCII(s) {
		return s
	}

	symbols := runes.Remove(runes.Predicate(func(r rune) bool {
		return unicode.Is(unicode.So, r) || unicode.Is(unicode.Sc, r)
	}))
	if cleaned, _, err := transform.String(symbols, s); err == nil {
		s = cleaned
	}

	s = norm.NFKC.String(s)
	return removeDiacritics(s)
}

func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(combiningDiacritics), norm.NFC)
	if normalized, _, err := transform.String(t, s); err == nil {
		return normalized
	}
	return s
}
