// Atlas Core
// Copyright (c) 2026 The Atlas Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Atlas Core.
//
// Atlas Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Atlas Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Atlas Core.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atlasproject/atlas-core/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "ATLAS_CFG"
)

// Empirically chosen defaults. The similarity threshold and executable size
// floor are tunables, not invariants.
const (
	DefaultMaxDepth       = 3
	DefaultDeepScanDepth  = 2
	DefaultMinExeSizeKB   = 512
	DefaultMinSimilarity  = 0.6
	DefaultBatchSize      = 10
	DefaultLookupAttempts = 2
	DefaultAdapterTimeout = 30 * time.Second
	DefaultLookupTimeout  = 10 * time.Second
	DefaultPollInterval   = 60 * time.Second
)

type Values struct {
	Scanner      Scanner   `toml:"scanner,omitempty"`
	Media        Media     `toml:"media,omitempty"`
	Launchers    Launchers `toml:"launchers,omitempty"`
	Playtime     Playtime  `toml:"playtime,omitempty"`
	ConfigSchema int       `toml:"config_schema"`
	DebugLogging bool      `toml:"debug_logging"`
}

type Scanner struct {
	Roots                 []string `toml:"roots,omitempty,multiline"`
	Exclusions            []string `toml:"exclusions,omitempty,multiline"`
	MaxDepth              int      `toml:"max_depth,omitempty"`
	DeepScanDepth         int      `toml:"deep_scan_depth,omitempty"`
	MinExeSizeKB          int64    `toml:"min_exe_size_kb,omitempty"`
	AdapterTimeoutSeconds int      `toml:"adapter_timeout_seconds,omitempty"`
}

type Media struct {
	LookupURL            string  `toml:"lookup_url,omitempty"`
	MinSimilarity        float64 `toml:"min_similarity,omitempty"`
	BatchSize            int     `toml:"batch_size,omitempty"`
	LookupAttempts       int     `toml:"lookup_attempts,omitempty"`
	LookupTimeoutSeconds int     `toml:"lookup_timeout_seconds,omitempty"`
}

type Launchers struct {
	Defaults []LauncherDefaults `toml:"default,omitempty"`
}

type LauncherDefaults struct {
	Launcher   string `toml:"launcher"`
	InstallDir string `toml:"install_dir,omitempty"`
}

type Playtime struct {
	PollIntervalSeconds int `toml:"poll_interval_seconds,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Scanner: Scanner{
		MaxDepth:      DefaultMaxDepth,
		DeepScanDepth: DefaultDeepScanDepth,
		MinExeSizeKB:  DefaultMinExeSizeKB,
	},
	Media: Media{
		MinSimilarity:  DefaultMinSimilarity,
		BatchSize:      DefaultBatchSize,
		LookupAttempts: DefaultLookupAttempts,
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
		mu:       syncutil.RWMutex{},
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

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
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

// ScanRoots returns user-directed scan root directories.
func (c *Instance) ScanRoots() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	roots := make([]string, len(c.vals.Scanner.Roots))
	copy(roots, c.vals.Scanner.Roots)
	return roots
}

func (c *Instance) SetScanRoots(roots []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Scanner.Roots = roots
}

// CustomExclusions returns user-curated classifier exclusion patterns.
func (c *Instance) CustomExclusions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	excl := make([]string, len(c.vals.Scanner.Exclusions))
	copy(excl, c.vals.Scanner.Exclusions)
	return excl
}

func (c *Instance) MaxDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Scanner.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.vals.Scanner.MaxDepth
}

func (c *Instance) DeepScanDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Scanner.DeepScanDepth <= 0 {
		return DefaultDeepScanDepth
	}
	return c.vals.Scanner.DeepScanDepth
}

// MinExeSize returns the smallest executable size in bytes that the walker
// will consider a real candidate.
func (c *Instance) MinExeSize() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Scanner.MinExeSizeKB <= 0 {
		return DefaultMinExeSizeKB * 1024
	}
	return c.vals.Scanner.MinExeSizeKB * 1024
}

func (c *Instance) AdapterTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Scanner.AdapterTimeoutSeconds <= 0 {
		return DefaultAdapterTimeout
	}
	return time.Duration(c.vals.Scanner.AdapterTimeoutSeconds) * time.Second
}

func (c *Instance) LookupURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Media.LookupURL
}

// MinSimilarity returns the artwork lookup acceptance threshold, clamped
// to [0, 1].
func (c *Instance) MinSimilarity() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.vals.Media.MinSimilarity
	if s <= 0 || s > 1 {
		return DefaultMinSimilarity
	}
	return s
}

func (c *Instance) BatchSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Media.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.vals.Media.BatchSize
}

func (c *Instance) LookupAttempts() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Media.LookupAttempts <= 0 {
		return DefaultLookupAttempts
	}
	return c.vals.Media.LookupAttempts
}

func (c *Instance) LookupTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Media.LookupTimeoutSeconds <= 0 {
		return DefaultLookupTimeout
	}
	return time.Duration(c.vals.Media.LookupTimeoutSeconds) * time.Second
}

func (c *Instance) PollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Playtime.PollIntervalSeconds <= 0 {
		return DefaultPollInterval
	}
	return time.Duration(c.vals.Playtime.PollIntervalSeconds) * time.Second
}

// LookupLauncherDefaults returns user overrides for a launcher's install
// location, if configured.
func (c *Instance) LookupLauncherDefaults(launcher string) (LauncherDefaults, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, def := range c.vals.Launchers.Defaults {
		if def.Launcher == launcher {
			return def, true
		}
	}
	return LauncherDefaults{}, false
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
