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

// Package cli implements the lbgdb command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/config"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/helpers"
)

type Flags struct {
	fs       *flag.FlagSet
	DataDir  *string
	Import   *string
	Lookup   *string
	Platform *string
	Region   *string
	Path     *string
	Serve    *string
	Check    *bool
	Update   *bool
	Icon     *bool
	Debug    *bool
	Version  *bool
}

// SetupFlags defines every flag on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs: fs,
		DataDir: fs.String(
			"data",
			"",
			"data directory holding config.toml and the metadata store",
		),
		Check: fs.Bool(
			"check",
			false,
			"report whether newer metadata is published",
		),
		Update: fs.Bool(
			"update",
			false,
			"download the latest metadata and rebuild the store",
		),
		Import: fs.String(
			"import",
			"",
			"rebuild the store from a local Metadata.zip",
		),
		Lookup: fs.String(
			"lookup",
			"",
			"print the metadata of a game name as JSON",
		),
		Platform: fs.String(
			"platform",
			"",
			"host platform id or LaunchBox platform name for -lookup",
		),
		Region: fs.String(
			"region",
			"",
			"preferred region for -lookup",
		),
		Path: fs.String(
			"path",
			"",
			"game file path for -lookup, used for its region tag",
		),
		Icon: fs.Bool(
			"icon",
			false,
			"include the resized icon in -lookup output",
		),
		Serve: fs.String(
			"serve",
			"",
			"serve the HTTP API on addr, or the configured address when empty",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

func (f *Flags) isFlagPassed(name string) bool {
	found := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Serving reports whether -serve was given, which keeps the process running.
func (f *Flags) Serving() bool {
	return f.isFlagPassed("serve")
}

// Pre parses args and handles flags that need no setup. Returns true when
// the program should exit.
func (f *Flags) Pre(args []string, out io.Writer) (bool, error) {
	if err := f.fs.Parse(args); err != nil {
		return true, fmt.Errorf("failed to parse flags: %w", err)
	}

	if *f.Version {
		_, _ = fmt.Fprintf(out, "lbgdb-metadata v%s\n", config.AppVersion)
		return true, nil
	}
	return false, nil
}

// ResolveDataDir returns the -data flag, or the default data directory.
func (f *Flags) ResolveDataDir() (string, error) {
	if *f.DataDir != "" {
		return *f.DataDir, nil
	}
	dir := helpers.DataDir()
	if dir == "" {
		return "", errors.New("could not determine data directory")
	}
	return dir, nil
}

// Setup creates the data directory, starts logging and loads the config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(
	dataDir string,
	defaultConfig config.Values,
	writers []io.Writer,
	debug bool,
) (*config.Instance, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := helpers.InitLogging(dataDir, writers); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.NewConfig(dataDir, defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.SetDebugLogging(debug || cfg.DebugLogging())
	return cfg, nil
}
