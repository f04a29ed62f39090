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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/cli"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)

	exit, err := flags.Pre(os.Args[1:], os.Stdout)
	if err != nil {
		return err
	} else if exit {
		return nil
	}

	dataDir, err := flags.ResolveDataDir()
	if err != nil {
		return err
	}

	var logWriters []io.Writer
	if *flags.Debug || flags.Serving() {
		logWriters = []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	}

	cfg, err := cli.Setup(dataDir, config.BaseDefaults, logWriters, *flags.Debug)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := cli.NewEngine(cfg, dataDir)
	if err != nil {
		return err
	}

	err = flags.Post(ctx, engine, os.Stdout)
	if errors.Is(err, cli.ErrNoAction) {
		flag.Usage()
		return nil
	}
	return err
}
