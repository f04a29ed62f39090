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

package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/api/validation"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/helpers/syncutil"
	"github.com/ZaparooProject/lbgdb-metadata/pkg/launchbox"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion    = 1
	CfgEnv           = "LBGDB_CFG"
	CfgFile          = "config.toml"
	DefaultAPIPort   = 7480
	DefaultBatchSize = 10000
	DefaultIconSize  = 256
)

// AppVersion is set at build time with -ldflags "-X".
var AppVersion = "DEVELOPMENT"

type Values struct {
	Platforms    Platforms `toml:"platforms,omitempty"`
	Metadata     Metadata  `toml:"metadata"`
	API          API       `toml:"api,omitempty"`
	ConfigSchema int       `toml:"config_schema"`
	DebugLogging bool      `toml:"debug_logging"`
}

type Metadata struct {
	ArchiveURL   string `toml:"archive_url" validate:"required,url"`
	FileName     string `toml:"file_name" validate:"required"`
	ImageBaseURL string `toml:"image_base_url" validate:"required,baseurl"`
	LastHash     string `toml:"last_hash,omitempty"`
	BatchSize    int    `toml:"batch_size" validate:"min=1,max=1000000"`
	IconSize     int    `toml:"icon_size" validate:"min=16,max=4096"`
	// FetchRate is the number of image requests per second, 0 for no limit.
	FetchRate int `toml:"fetch_rate" validate:"min=0"`
}

// Platforms holds host platform ids appended to the embedded alias table.
type Platforms struct {
	Aliases map[string]string `toml:"aliases,omitempty"`
}

type API struct {
	Port           *int     `toml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Listen         string   `toml:"listen,omitempty"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty,multiline"`
	AllowedIPs     []string `toml:"allowed_ips,omitempty,multiline"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Metadata: Metadata{
		ArchiveURL:   launchbox.DefaultArchiveURL,
		FileName:     launchbox.DefaultMetadataFile,
		ImageBaseURL: launchbox.DefaultImageBaseURL,
		BatchSize:    DefaultBatchSize,
		IconSize:     DefaultIconSize,
	},
	API: API{
		Listen: "localhost",
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Path returns the location of the config file on disk.
func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Fields missing from the file keep their default values.
	newVals := c.defaults
	newVals.Platforms.Aliases = maps.Clone(c.defaults.Platforms.Aliases)
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	if err := validation.DefaultValidator.Validate(&newVals); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) ArchiveURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Metadata.ArchiveURL
}

func (c *Instance) MetadataFileName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Metadata.FileName == "" {
		return launchbox.DefaultMetadataFile
	}
	return c.vals.Metadata.FileName
}

func (c *Instance) ImageBaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Metadata.ImageBaseURL == "" {
		return launchbox.DefaultImageBaseURL
	}
	return c.vals.Metadata.ImageBaseURL
}

func (c *Instance) BatchSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Metadata.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.vals.Metadata.BatchSize
}

func (c *Instance) IconSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Metadata.IconSize <= 0 {
		return DefaultIconSize
	}
	return c.vals.Metadata.IconSize
}

func (c *Instance) FetchRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Metadata.FetchRate
}

// LastHash returns the version hash of the last successful import.
func (c *Instance) LastHash() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Metadata.LastHash
}

func (c *Instance) SetLastHash(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Metadata.LastHash = strings.TrimSpace(hash)
}

// PlatformAliases returns a copy of the user supplied platform aliases.
func (c *Instance) PlatformAliases() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.vals.Platforms.Aliases)
}

func (c *Instance) SetPlatformAlias(hostID, platform string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vals.Platforms.Aliases == nil {
		c.vals.Platforms.Aliases = make(map[string]string)
	}
	c.vals.Platforms.Aliases[hostID] = platform
}

func (c *Instance) APIPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.API.Port == nil {
		return DefaultAPIPort
	}
	return *c.vals.API.Port
}

func (c *Instance) SetAPIPort(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.API.Port = &port
}

// APIListen returns the host:port the HTTP API binds to.
func (c *Instance) APIListen() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	port := DefaultAPIPort
	if c.vals.API.Port != nil {
		port = *c.vals.API.Port
	}
	return c.vals.API.Listen + ":" + strconv.Itoa(port)
}

func (c *Instance) AllowedOrigins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.vals.API.AllowedOrigins...)
}

// AllowedIPs lists the IPs and CIDRs allowed to call the HTTP API. Empty
// allows every client.
func (c *Instance) AllowedIPs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.vals.API.AllowedIPs...)
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
