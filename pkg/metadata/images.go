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

package metadata

import (
	"cmp"
	"slices"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/regions"
)

// ImageCategory is a host-facing artwork role backed by one or more
// LaunchBox image types.
type ImageCategory int

const (
	CategoryCover ImageCategory = iota
	CategoryBackground
	CategoryIcon
)

// LaunchBox image type strings.
const (
	TypeBoxFront              = "Box - Front"
	TypeBoxFrontReconstructed = "Box - Front - Reconstructed"
	TypeFanartBoxFront        = "Fanart - Box - Front"
	TypeBox3D                 = "Box - 3D"
	TypeFanartBackground      = "Fanart - Background"
	TypeScreenshotGameplay    = "Screenshot - Gameplay"
	TypeScreenshotGameTitle   = "Screenshot - Game Title"
	TypeClearLogo             = "Clear Logo"
	TypeSquare                = "Square"
)

// categoryTypes lists each category's types from most to least preferred.
var categoryTypes = map[ImageCategory][]string{
	CategoryCover: {
		TypeBoxFront,
		TypeBoxFrontReconstructed,
		TypeFanartBoxFront,
		TypeBox3D,
	},
	CategoryBackground: {
		TypeFanartBackground,
		TypeScreenshotGameplay,
		TypeScreenshotGameTitle,
	},
	CategoryIcon: {
		TypeClearLogo,
		TypeSquare,
		TypeBoxFront,
	},
}

// Types returns the category's image types in preference order.
func (c ImageCategory) Types() []string {
	return slices.Clone(categoryTypes[c])
}

func (c ImageCategory) String() string {
	switch c {
	case CategoryCover:
		return "cover"
	case CategoryBackground:
		return "background"
	case CategoryIcon:
		return "icon"
	default:
		return "unknown"
	}
}

// ImagesOfTypes keeps the images whose type is one of types, in their
// original order.
func ImagesOfTypes(images []database.GameImage, types []string) []database.GameImage {
	out := make([]database.GameImage, 0, len(images))
	for _, img := range images {
		if slices.Contains(types, img.Type) {
			out = append(out, img)
		}
	}
	return out
}

// SelectBestImage picks one image for the first preferred type that has any
// candidates. Within that type the candidate with the best ranked region
// wins, ties keeping candidate order. When no candidate's region is ranked,
// the first candidate of that type is returned. When no preferred type
// matches at all, the first candidate is returned.
func SelectBestImage(
	candidates []database.GameImage,
	preferredTypes []string,
	priority regions.PriorityList,
) (database.GameImage, bool) {
	if len(candidates) == 0 {
		return database.GameImage{}, false
	}

	for _, imageType := range preferredTypes {
		var ofType []database.GameImage
		for _, img := range candidates {
			if img.Type == imageType {
				ofType = append(ofType, img)
			}
		}
		if len(ofType) == 0 {
			continue
		}

		ranked := make([]database.GameImage, 0, len(ofType))
		for _, img := range ofType {
			if priority.Contains(img.Region) {
				ranked = append(ranked, img)
			}
		}
		if len(ranked) == 0 {
			return ofType[0], true
		}

		slices.SortStableFunc(ranked, func(a, b database.GameImage) int {
			return cmp.Compare(priority.Rank(a.Region), priority.Rank(b.Region))
		})
		return ranked[0], true
	}

	return candidates[0], true
}
