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

// Package platformmap translates host platform identifiers into the platform
// search keys used by the LaunchBox games database.
package platformmap

import (
	_ "embed"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

//go:embed platforms.toml
var platformsTOML []byte

// tableFile is the on-disk shape of platforms.toml.
type tableFile struct {
	Aliases map[string]string `toml:"aliases"`
	Version int               `toml:"version"`
}

// Mapper resolves host platform ids. It is immutable after construction and
// safe for concurrent use.
type Mapper struct {
	aliases map[string]string
	version int
}

// New builds a Mapper from the embedded table plus optional extra aliases.
// Extra aliases only add ids; an id already in the embedded table keeps its
// embedded value.
func New(extra map[string]string) (*Mapper, error) {
	var tf tableFile
	if err := toml.Unmarshal(platformsTOML, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse platform table: %w", err)
	}

	m := &Mapper{
		aliases: make(map[string]string, 2*(len(tf.Aliases)+len(extra))),
		version: tf.Version,
	}
	for id, platform := range tf.Aliases {
		m.add(id, platform)
	}
	for id, platform := range extra {
		if _, exists := m.aliases[normalizeID(id)]; exists {
			continue
		}
		m.add(id, platform)
	}

	// Reference-side names resolve to themselves.
	for _, platform := range m.values() {
		key := normalizeID(platform)
		if _, exists := m.aliases[key]; !exists {
			m.aliases[key] = platform
		}
	}

	return m, nil
}

func (m *Mapper) add(id, platform string) {
	id = normalizeID(id)
	platform = strings.TrimSpace(platform)
	if id == "" || platform == "" {
		return
	}
	m.aliases[id] = platform
}

func (m *Mapper) values() []string {
	vals := make([]string, 0, len(m.aliases))
	for _, v := range m.aliases {
		vals = append(vals, v)
	}
	return vals
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Resolve returns the LaunchBox platform for a host platform id. Lookup is
// case-insensitive and unknown ids are returned unchanged.
func (m *Mapper) Resolve(id string) string {
	if platform, ok := m.aliases[normalizeID(id)]; ok {
		return platform
	}
	return id
}

// Known reports whether the id has an entry, including identity entries.
func (m *Mapper) Known(id string) bool {
	_, ok := m.aliases[normalizeID(id)]
	return ok
}

// Aliases returns a copy of the full alias table keyed by lower-case id.
func (m *Mapper) Aliases() map[string]string {
	return maps.Clone(m.aliases)
}

// Version is the data version of the embedded table.
func (m *Mapper) Version() int {
	return m.version
}

var defaultMapper = sync.OnceValue(func() *Mapper {
	m, err := New(nil)
	if err != nil {
		// The table is compiled into the binary and covered by tests.
		panic(err)
	}
	return m
})

// Default returns the Mapper built from the embedded table only.
func Default() *Mapper {
	return defaultMapper()
}

// Resolve maps an id using the embedded table.
func Resolve(id string) string {
	return Default().Resolve(id)
}
