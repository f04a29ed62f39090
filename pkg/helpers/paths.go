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

package helpers

import (
	"os"
	"path/filepath"
	"sync"
)

const (
	// UserDir is a portable data directory placed next to the executable.
	UserDir = "user"
	AppName = "lbgdb-metadata"
	DataEnv = "LBGDB_DATA"
)

var (
	userDirOnce        sync.Once
	userDirCache       string
	userDirCacheExists bool
)

func ExeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}

	return filepath.Dir(exe)
}

// HasUserDir reports whether a "user" directory exists next to the
// executable. The result is cached for the life of the process.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		exeDir := ExeDir()
		if exeDir == "" {
			return
		}
		userDirCache, userDirCacheExists = userDirIn(exeDir)
	})

	return userDirCache, userDirCacheExists
}

func userDirIn(exeDir string) (string, bool) {
	userDir := filepath.Join(exeDir, UserDir)
	info, err := os.Stat(userDir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return userDir, true
}

// DataDir returns where the store, config and logs live: $LBGDB_DATA, a
// portable user dir, or the OS config directory, in that order.
func DataDir() string {
	if v := os.Getenv(DataEnv); v != "" {
		return v
	}
	if v, ok := HasUserDir(); ok {
		return v
	}
	return defaultDataDir(os.UserConfigDir)
}

func defaultDataDir(userConfigDir func() (string, error)) string {
	base, err := userConfigDir()
	if err != nil || base == "" {
		return filepath.Join(ExeDir(), UserDir)
	}
	return filepath.Join(base, AppName)
}
