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

// Package importer replaces the local metadata store with the contents of a
// LaunchBox Metadata.zip archive.
package importer

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync/atomic"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/config"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/database/metadatadb"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/launchbox"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	// ErrImportFailed wraps every failure of an import run. The stored
	// metadata hash is left unchanged when it is returned.
	ErrImportFailed  = errors.New("metadata import failed")
	ErrImportRunning = errors.New("metadata import already running")
	ErrEntryNotFound = errors.New("metadata entry not found in archive")
	ErrNoSource      = errors.New("no metadata source configured")
)

// ReplaceFunc deletes the store at path and returns a fresh, migrated one.
type ReplaceFunc func(ctx context.Context, path string) (database.MetadataDBI, error)

func replaceStore(ctx context.Context, p string) (database.MetadataDBI, error) {
	return metadatadb.Replace(ctx, p)
}

type Options struct {
	Source        launchbox.Source
	Config        *config.Instance
	Fs            afero.Fs
	Clock         clockwork.Clock
	Notifications chan<- Progress
	Replace       ReplaceFunc
	Open          database.Opener
	DBPath        string
	TempDir       string
}

// Importer runs metadata imports, one at a time.
type Importer struct {
	source  launchbox.Source
	cfg     *config.Instance
	fs      afero.Fs
	tracker *ProgressTracker
	replace ReplaceFunc
	open    database.Opener
	dbPath  string
	tempDir string
	running atomic.Bool
}

func New(opts Options) (*Importer, error) {
	if opts.Config == nil {
		return nil, errors.New("importer requires a config")
	}
	if opts.DBPath == "" {
		return nil, errors.New("importer requires a store path")
	}

	i := &Importer{
		source:  opts.Source,
		cfg:     opts.Config,
		fs:      opts.Fs,
		tracker: NewProgressTracker(opts.Clock, opts.Notifications),
		replace: opts.Replace,
		open:    opts.Open,
		dbPath:  opts.DBPath,
		tempDir: opts.TempDir,
	}
	if i.fs == nil {
		i.fs = afero.NewOsFs()
	}
	if i.replace == nil {
		i.replace = replaceStore
	}
	if i.open == nil {
		i.open = metadatadb.NewOpener(opts.DBPath)
	}
	return i, nil
}

// Progress returns a snapshot of the current or last run.
func (i *Importer) Progress() Progress {
	return i.tracker.Get()
}

// Running reports whether an import is in progress.
func (i *Importer) Running() bool {
	return i.running.Load()
}

// NewMetadataAvailable reports whether the remote archive hash differs from
// the hash of the last successful import.
func (i *Importer) NewMetadataAvailable(ctx context.Context) (bool, error) {
	if i.source == nil {
		return false, ErrNoSource
	}
	hash, err := i.source.GetMetadataHash(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get metadata hash: %w", err)
	}
	return !strings.EqualFold(strings.TrimSpace(hash), i.cfg.LastHash()), nil
}

// HasData reports whether the store exists, was fully imported and holds at
// least one game. A store wiped or left partial by a running or failed
// import has no data.
func (i *Importer) HasData(ctx context.Context) (bool, error) {
	if i.dbPath != metadatadb.MemoryPath {
		if _, err := os.Stat(i.dbPath); errors.Is(err, os.ErrNotExist) {
			return false, nil
		} else if err != nil {
			return false, fmt.Errorf("failed to stat store: %w", err)
		}
	}

	db, err := i.open(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close store")
		}
	}()

	complete, err := db.Complete(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check store: %w", err)
	}
	if !complete {
		return false, nil
	}

	ok, err := db.HasGames(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check store: %w", err)
	}
	return ok, nil
}

// Update downloads the remote archive and replaces the store with its
// contents. On success the archive hash is saved to config and returned.
func (i *Importer) Update(ctx context.Context) (string, error) {
	if i.source == nil {
		return "", ErrNoSource
	}
	if !i.running.CompareAndSwap(false, true) {
		return "", ErrImportRunning
	}
	defer i.running.Store(false)

	runID := uuid.NewString()
	i.tracker.Start(runID, TotalStages)
	log.Info().Str("run", runID).Msg("starting metadata update")

	hash, err := i.update(ctx, runID)
	if err != nil {
		log.Error().Err(err).Str("run", runID).Msg("metadata update failed")
		i.tracker.Fail(err)
		return "", err
	}

	i.tracker.Complete(hash)
	log.Info().Str("run", runID).Str("hash", hash).Msg("metadata update complete")
	return hash, nil
}

func (i *Importer) update(ctx context.Context, runID string) (string, error) {
	hash, err := i.source.GetMetadataHash(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrImportFailed, "hash", err)
	}
	hash = strings.TrimSpace(hash)

	i.tracker.Advance(StateDownloading)
	archivePath, err := i.download(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrImportFailed, StateDownloading, err)
	}
	defer func() {
		if rmErr := i.fs.Remove(archivePath); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", archivePath).Msg("failed to remove downloaded archive")
		}
	}()

	if err := i.runImport(ctx, runID, archivePath); err != nil {
		return "", err
	}

	i.cfg.SetLastHash(hash)
	if err := i.cfg.Save(); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrImportFailed, "save hash", err)
	}
	return hash, nil
}

// ImportArchiveFile replaces the store with the contents of a local archive.
// The stored metadata hash is not changed.
func (i *Importer) ImportArchiveFile(ctx context.Context, archivePath string) error {
	if !i.running.CompareAndSwap(false, true) {
		return ErrImportRunning
	}
	defer i.running.Store(false)

	runID := uuid.NewString()
	i.tracker.Start(runID, TotalStages-1)
	log.Info().Str("run", runID).Str("path", archivePath).Msg("starting metadata import")

	if err := i.runImport(ctx, runID, archivePath); err != nil {
		log.Error().Err(err).Str("run", runID).Msg("metadata import failed")
		i.tracker.Fail(err)
		return err
	}

	i.tracker.Complete(i.cfg.LastHash())
	log.Info().Str("run", runID).Msg("metadata import complete")
	return nil
}

func (i *Importer) download(ctx context.Context) (string, error) {
	rc, err := i.source.DownloadMetadata(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to download metadata: %w", err)
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close download stream")
		}
	}()

	if i.tempDir != "" {
		if err := i.fs.MkdirAll(i.tempDir, 0o750); err != nil {
			return "", fmt.Errorf("failed to create temp dir: %w", err)
		}
	}
	tmp, err := afero.TempFile(i.fs, i.tempDir, "lbgdb-metadata-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := tmp.Name()

	n, copyErr := io.Copy(tmp, rc)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		if rmErr := i.fs.Remove(name); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", name).Msg("failed to remove partial archive")
		}
		return "", fmt.Errorf("failed to write archive: %w", err)
	}

	log.Debug().Int64("bytes", n).Str("path", name).Msg("downloaded metadata archive")
	return name, nil
}

// runImport runs the import stages on a background goroutine and waits for
// them to finish. Cancelling ctx stops the stages at the next record.
func (i *Importer) runImport(ctx context.Context, runID, archivePath string) error {
	done := make(chan error, 1)
	go func() {
		done <- i.importArchive(ctx, runID, archivePath)
	}()
	return <-done
}

func (i *Importer) importArchive(ctx context.Context, runID, archivePath string) error {
	f, err := i.fs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImportFailed, "open archive", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close archive")
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImportFailed, "stat archive", err)
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImportFailed, "read archive", err)
	}
	entry, err := findEntry(zr, i.cfg.MetadataFileName())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImportFailed, "read archive", err)
	}

	i.tracker.Advance(StateReplacing)
	db, err := i.replace(ctx, i.dbPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImportFailed, StateReplacing, err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close store after import")
		}
	}()

	batchSize := i.cfg.BatchSize()
	for _, kind := range launchbox.Kinds {
		state := stateFor(kind)
		i.tracker.Advance(state)

		n, err := importEntry(ctx, entry, kind, db, batchSize)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrImportFailed, state, err)
		}
		i.tracker.AddRecords(n)
		log.Info().Str("run", runID).Stringer("kind", kind).Int("records", n).Msg("imported records")
	}

	if err := db.MarkComplete(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrImportFailed, "mark complete", err)
	}
	return nil
}

func importEntry(
	ctx context.Context,
	entry *zip.File,
	kind launchbox.Kind,
	w database.BulkWriter,
	batchSize int,
) (int, error) {
	rc, err := entry.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", entry.Name, err)
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close archive entry")
		}
	}()
	return ImportTyped(ctx, kind, rc, w, batchSize)
}

// findEntry returns the archive file whose base name matches name, ignoring
// case.
func findEntry(zr *zip.Reader, name string) (*zip.File, error) {
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.EqualFold(path.Base(f.Name), name) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
}
