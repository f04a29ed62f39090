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

package regions

import "strings"

// FromFileConvention extracts the region from a No-Intro style file name such
// as "Super Game (USA, Europe) (Rev 1).sfc". The first parenthesized tag whose
// comma separated tokens are all region names wins, and its first token is
// returned as a LaunchBox region name. Returns "" when no tag qualifies.
func FromFileConvention(path string) string {
	for _, tag := range parenTags(baseName(path)) {
		if region, ok := regionTag(tag); ok {
			return region
		}
	}
	return ""
}

// baseName strips directories using either separator, since host paths may
// come from another OS.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// parenTags returns the contents of top-level parenthesized groups in order.
func parenTags(name string) []string {
	tags := make([]string, 0, 4)
	start := -1
	for i := range len(name) {
		switch name[i] {
		case '(':
			start = i + 1
		case ')':
			if start >= 0 {
				if tag := strings.TrimSpace(name[start:i]); tag != "" {
					tags = append(tags, tag)
				}
				start = -1
			}
		}
	}
	return tags
}

func regionTag(tag string) (string, bool) {
	var first string
	for i, part := range strings.Split(tag, ",") {
		region, ok := noIntroRegions[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return "", false
		}
		if i == 0 {
			first = region
		}
	}
	return first, first != ""
}
