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

// Package regions builds ordered region preference lists used to choose
// between regional variants of names and artwork.
package regions

import (
	"math"
	"slices"
	"strings"
)

// LaunchBox region names as they appear in the games database.
const (
	NorthAmerica   = "North America"
	UnitedStates   = "United States"
	Canada         = "Canada"
	Europe         = "Europe"
	UnitedKingdom  = "United Kingdom"
	Germany        = "Germany"
	France         = "France"
	Italy          = "Italy"
	Spain          = "Spain"
	Netherlands    = "The Netherlands"
	Sweden         = "Sweden"
	Norway         = "Norway"
	Denmark        = "Denmark"
	Finland        = "Finland"
	Scandinavia    = "Scandinavia"
	Portugal       = "Portugal"
	Poland         = "Poland"
	Greece         = "Greece"
	Russia         = "Russia"
	Japan          = "Japan"
	Asia           = "Asia"
	Korea          = "Korea"
	China          = "China"
	HongKong       = "Hong Kong"
	Taiwan         = "Taiwan"
	Australia      = "Australia"
	Oceania        = "Oceania"
	NewZealand     = "New Zealand"
	Brazil         = "Brazil"
	SouthAmerica   = "South America"
	World          = "World"
	Untagged       = ""
	Unranked       = math.MaxInt
	maxListEntries = 64
)

// PriorityList maps region names to a rank, 0 being most preferred. The zero
// value is an empty list. Lookups ignore case and surrounding spaces.
type PriorityList struct {
	rank  map[string]int
	order []string
}

// NewPriorityList ranks regions in the given order. Duplicates keep their
// first position.
func NewPriorityList(regions ...string) PriorityList {
	p := PriorityList{
		rank:  make(map[string]int, len(regions)),
		order: make([]string, 0, len(regions)),
	}
	for _, r := range regions {
		key := rankKey(r)
		if _, seen := p.rank[key]; seen || len(p.order) >= maxListEntries {
			continue
		}
		p.rank[key] = len(p.order)
		p.order = append(p.order, strings.TrimSpace(r))
	}
	return p
}

func rankKey(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}

// Rank returns the region's rank, or Unranked when it is not in the list.
func (p PriorityList) Rank(region string) int {
	if r, ok := p.rank[rankKey(region)]; ok {
		return r
	}
	return Unranked
}

// Contains reports whether the region has a rank.
func (p PriorityList) Contains(region string) bool {
	_, ok := p.rank[rankKey(region)]
	return ok
}

// Len is the number of ranked regions.
func (p PriorityList) Len() int {
	return len(p.order)
}

// Empty reports whether no priority has been established.
func (p PriorityList) Empty() bool {
	return len(p.order) == 0
}

// Ordered returns the regions from most to least preferred.
func (p PriorityList) Ordered() []string {
	return slices.Clone(p.order)
}

// defaultTail is appended after a family's own regions, World and the
// untagged region.
var defaultTail = []string{
	NorthAmerica, UnitedStates, Europe, UnitedKingdom, Australia, Canada, Japan,
}

var europeanCountries = []string{
	UnitedKingdom, Germany, France, Italy, Spain, Netherlands, Sweden, Norway,
	Denmark, Finland, Scandinavia, Portugal, Poland, Greece, Russia,
}

var asianCountries = []string{Japan, Korea, China, HongKong, Taiwan}

var families = map[string][]string{
	NorthAmerica: {NorthAmerica, UnitedStates, Canada},
	UnitedStates: {UnitedStates, NorthAmerica, Canada},
	Canada:       {Canada, NorthAmerica, UnitedStates},
	Europe:       append([]string{Europe}, europeanCountries...),
	Japan:        {Japan, Asia},
	Asia:         append([]string{Asia}, asianCountries...),
	Korea:        {Korea, Asia},
	China:        {China, HongKong, Taiwan, Asia},
	HongKong:     {HongKong, China, Taiwan, Asia},
	Taiwan:       {Taiwan, HongKong, China, Asia},
	Australia:    {Australia, Oceania, NewZealand},
	Oceania:      {Oceania, Australia, NewZealand},
	NewZealand:   {NewZealand, Oceania, Australia},
	Brazil:       {Brazil, SouthAmerica},
	SouthAmerica: {SouthAmerica, Brazil},
	World:        {World},
}

func familyList(family []string) PriorityList {
	regions := make([]string, 0, len(family)+2+len(defaultTail))
	regions = append(regions, family...)
	regions = append(regions, World, Untagged)
	regions = append(regions, defaultTail...)
	return NewPriorityList(regions...)
}

// Default is the fallback ordering used when a game was found but nothing
// hinted at a region.
func Default() PriorityList {
	return familyList([]string{NorthAmerica, UnitedStates})
}

// FromRegionField derives a priority list from a free-text region such as
// "USA", "Europe" or "Germany". A European country ranks before Europe and
// the rest of the continent. Unrecognized text ranks first, followed by the
// default ordering; blank text yields Default.
func FromRegionField(text string) PriorityList {
	text = strings.TrimSpace(text)
	if text == "" {
		return Default()
	}

	canonical, ok := Canonical(text)
	if !ok {
		return familyList([]string{text, NorthAmerica, UnitedStates})
	}

	if family, ok := families[canonical]; ok {
		return familyList(family)
	}

	if slices.Contains(europeanCountries, canonical) {
		family := make([]string, 0, len(europeanCountries)+2)
		family = append(family, canonical, Europe)
		family = append(family, europeanCountries...)
		return familyList(family)
	}

	return familyList([]string{canonical})
}
