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
	"regexp"
	"strings"
	"unicode"
)

// Slugify converts a game title or platform name into the search key stored
// in the NameSearch and PlatformSearch columns.
//
// Normalization pipeline:
//
//	Stage 1: Width + Unicode normalization - "Ｐｏｋéｍｏｎ™" → "Pokemon"
//	Stage 2: Metadata stripping - "(Europe) [!]" removed
//	Stage 3: Article stripping - "The Legend of Zelda: The Minish Cap" → "Legend of Zelda Minish Cap"
//	Stage 4: Trailing article - "Legend, The" → "Legend"
//	Stage 5: Conjunctions - "Sonic & Knuckles" → "Sonic and Knuckles"
//	Stage 6: Edition/version suffix stripping - "Red Version" → "Red"
//	Stage 7: Lowercase, keep letters and digits only
//
// Roman numerals are left alone so keys derived from platform names such as
// "Apple II" stay "appleii".
//
// Slugify is deterministic and idempotent:
//
//	Slugify(Slugify(x)) == Slugify(x)
//
// Example:
//
//	Slugify("The Legend of Zelda: Ocarina of Time (USA) [!]")
//	→ "legendofzeldaocarinaoftime"
func Slugify(input string) string {
	s := normalizeWords(input)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

var (
	editionSuffixRegex = regexp.MustCompile(
		`(?i)\s+(version|edition|ausgabe|versione|edizione|versao|edicao)$`,
	)
	versionSuffixRegex   = regexp.MustCompile(`(?i)\s+v[.]?\d{1,3}(?:[.]\d{1,4})*$`)
	trailingArticleRegex = regexp.MustCompile(`(?i),\s*the\s*($|[\s:\-\(\[])`)
)

// normalizeWords runs every stage except the final character filter, so
// word boundaries are still visible to the suffix regexes.
func normalizeWords(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if !isASCII(s) {
		s = NormalizeWidth(s)
		s = NormalizeUnicode(s)
	}

	s = StripMetadataBrackets(s)
	s = splitAndStripArticles(s)
	s = StripTrailingArticle(s)
	s = NormalizeConjunctions(s)
	s = StripEditionAndVersionSuffixes(s)

	return strings.TrimSpace(s)
}

func isASCII(s string) bool {
	for i := range len(s) {
		if s[i] >= 128 {
			return false
		}
	}
	return true
}

// SplitTitle splits a title into main and secondary parts on the first ":" or
// " - " delimiter.
//
// Examples:
//   - "Zelda: Link's Awakening" → ("Zelda", "Link's Awakening", true)
//   - "Game - Subtitle" → ("Game", "Subtitle", true)
//   - "Simple Title" → ("Simple Title", "", false)
func SplitTitle(title string) (mainTitle, secondaryTitle string, hasSecondary bool) {
	cleaned := strings.TrimSpace(title)

	if idx := strings.Index(cleaned, ":"); idx != -1 {
		return strings.TrimSpace(cleaned[:idx]), strings.TrimSpace(cleaned[idx+1:]), true
	}
	if idx := strings.Index(cleaned, " - "); idx != -1 {
		return strings.TrimSpace(cleaned[:idx]), strings.TrimSpace(cleaned[idx+3:]), true
	}

	return cleaned, "", false
}

func splitAndStripArticles(s string) string {
	mainTitle, secondaryTitle, hasSecondary := SplitTitle(s)
	mainTitle = StripLeadingArticle(mainTitle)
	if hasSecondary {
		secondaryTitle = StripLeadingArticle(secondaryTitle)
		return strings.TrimSpace(mainTitle + " " + secondaryTitle)
	}
	return mainTitle
}

// StripLeadingArticle removes a leading "The", "A" or "An".
// A title made only of the article is returned unchanged.
func StripLeadingArticle(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	for _, article := range []string{"the ", "an ", "a "} {
		if strings.HasPrefix(lower, article) && len(s) > len(article) {
			return strings.TrimSpace(s[len(article):])
		}
	}
	return s
}

// StripTrailingArticle removes a trailing ", The" as used by sorted catalog
// names, e.g. "Legend, The" → "Legend" and "Story, the: Act 1" → "Story: Act 1".
func StripTrailingArticle(s string) string {
	if trailingArticleRegex.MatchString(s) {
		s = trailingArticleRegex.ReplaceAllString(s, "$1")
		return strings.TrimSpace(s)
	}
	return s
}

// NormalizeConjunctions rewrites "&", " + " and " 'n' " to "and" so
// "Sonic & Knuckles" and "Sonic and Knuckles" share a key.
func NormalizeConjunctions(s string) string {
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, " + ", " and ")
	s = strings.ReplaceAll(s, " 'n' ", " and ")
	s = strings.ReplaceAll(s, " n' ", " and ")
	return s
}

// StripMetadataBrackets removes every bracketed section ((), [], {}, <>),
// including nested ones. This is where region and dump tags such as
// "(Europe)", "(Rev 1)" and "[!]" disappear.
func StripMetadataBrackets(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	// 0=(), 1=[], 2={}, 3=<>
	depth := [4]int{}

	for _, r := range s {
		switch r {
		case '(':
			depth[0]++
		case ')':
			if depth[0] > 0 {
				depth[0]--
			}
		case '[':
			depth[1]++
		case ']':
			if depth[1] > 0 {
				depth[1]--
			}
		case '{':
			depth[2]++
		case '}':
			if depth[2] > 0 {
				depth[2]--
			}
		case '<':
			depth[3]++
		case '>':
			if depth[3] > 0 {
				depth[3]--
			}
		default:
			if depth == [4]int{} {
				result.WriteRune(r)
			}
		}
	}

	return strings.TrimSpace(result.String())
}

// StripEditionAndVersionSuffixes removes a trailing "Edition"/"Version" word
// and a trailing version number. Semantic markers such as "Special" or
// "Ultimate" are kept: "Game Special Edition" → "Game Special".
func StripEditionAndVersionSuffixes(s string) string {
	s = strings.TrimSpace(editionSuffixRegex.ReplaceAllString(s, ""))
	s = strings.TrimSpace(versionSuffixRegex.ReplaceAllString(s, ""))
	return s
}
