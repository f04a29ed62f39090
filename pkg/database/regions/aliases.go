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

// noIntroRegions are the region tokens used in No-Intro style file names,
// mapped to LaunchBox region names. Only full names are accepted here so
// language tags such as "(Fr,De)" are not mistaken for regions.
var noIntroRegions = map[string]string{
	"usa":           NorthAmerica,
	"canada":        Canada,
	"europe":        Europe,
	"uk":            UnitedKingdom,
	"germany":       Germany,
	"france":        France,
	"italy":         Italy,
	"spain":         Spain,
	"netherlands":   Netherlands,
	"sweden":        Sweden,
	"norway":        Norway,
	"denmark":       Denmark,
	"finland":       Finland,
	"scandinavia":   Scandinavia,
	"portugal":      Portugal,
	"poland":        Poland,
	"greece":        Greece,
	"russia":        Russia,
	"japan":         Japan,
	"asia":          Asia,
	"korea":         Korea,
	"china":         China,
	"hong kong":     HongKong,
	"taiwan":        Taiwan,
	"australia":     Australia,
	"new zealand":   NewZealand,
	"brazil":        Brazil,
	"world":         World,
	"north america": NorthAmerica,
}

// regionFieldAliases extends noIntroRegions with codes and spellings seen in
// host region fields.
var regionFieldAliases = map[string]string{
	"us":              NorthAmerica,
	"u.s.a.":          NorthAmerica,
	"na":              NorthAmerica,
	"ntsc-u":          NorthAmerica,
	"america":         NorthAmerica,
	"united states":   UnitedStates,
	"ca":              Canada,
	"eu":              Europe,
	"eur":             Europe,
	"pal":             Europe,
	"united kingdom":  UnitedKingdom,
	"great britain":   UnitedKingdom,
	"england":         UnitedKingdom,
	"gb":              UnitedKingdom,
	"de":              Germany,
	"ger":             Germany,
	"fr":              France,
	"fra":             France,
	"it":              Italy,
	"ita":             Italy,
	"es":              Spain,
	"spa":             Spain,
	"nl":              Netherlands,
	"the netherlands": Netherlands,
	"holland":         Netherlands,
	"se":              Sweden,
	"swe":             Sweden,
	"ru":              Russia,
	"jp":              Japan,
	"jpn":             Japan,
	"ntsc-j":          Japan,
	"kr":              Korea,
	"kor":             Korea,
	"south korea":     Korea,
	"cn":              China,
	"chn":             China,
	"hk":              HongKong,
	"tw":              Taiwan,
	"au":              Australia,
	"aus":             Australia,
	"oceania":         Oceania,
	"nz":              NewZealand,
	"br":              Brazil,
	"bra":             Brazil,
	"south america":   SouthAmerica,
	"wor":             World,
	"worldwide":       World,
}

// Canonical maps a region token or name to the LaunchBox region name.
func Canonical(token string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(token))
	if key == "" {
		return "", false
	}
	if name, ok := noIntroRegions[key]; ok {
		return name, true
	}
	if name, ok := regionFieldAliases[key]; ok {
		return name, true
	}
	for _, name := range canonicalNames {
		if strings.EqualFold(name, key) {
			return name, true
		}
	}
	return "", false
}

var canonicalNames = []string{
	NorthAmerica, UnitedStates, Canada, Europe, UnitedKingdom, Germany, France,
	Italy, Spain, Netherlands, Sweden, Norway, Denmark, Finland, Scandinavia,
	Portugal, Poland, Greece, Russia, Japan, Asia, Korea, China, HongKong,
	Taiwan, Australia, Oceania, NewZealand, Brazil, SouthAmerica, World,
}
