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

import "math"

// WeightedRating turns a vote count and an approval percentage (0..100) into
// a 0..100 score that is pulled toward 50 when few votes back it. The pull
// halves every time the vote count grows tenfold.
func WeightedRating(count int64, percent float64) int {
	if count < 0 {
		count = 0
	}
	if math.IsNaN(percent) {
		percent = 0
	}
	percent = min(max(percent, 0), 100)

	votes := float64(count)
	positive := math.Floor(percent / 100 * votes)
	negative := votes - positive
	total := positive + negative

	average := 0.0
	if total >= 1 {
		average = positive / total
	}
	score := average - (average-0.5)*math.Pow(2, -math.Log10(total+1))

	return min(max(int(score*100), 0), 100)
}
