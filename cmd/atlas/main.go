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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/atlasproject/atlas-core/pkg/catalog"
	"github.com/atlasproject/atlas-core/pkg/config"
	"github.com/atlasproject/atlas-core/pkg/helpers"
	"github.com/atlasproject/atlas-core/pkg/launchers"
	"github.com/atlasproject/atlas-core/pkg/mediadata"
	"github.com/atlasproject/atlas-core/pkg/playtime"
	"github.com/atlasproject/atlas-core/pkg/scanner"
	"github.com/atlasproject/atlas-core/pkg/shared/httpclient"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const usage = `Usage: atlas [flags] <command>

Commands:
  scan                 run all launcher adapters plus the deep filesystem scan
  scan-folder <dir>    scan a single directory
  classify <file>      explain the classifier verdict for an executable
  watch                track playtime for cataloged executables

Flags:
`

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	debug := flag.Bool("debug", false, "enable debug logging")
	verbose := flag.Bool("verbose", false, "also log to stderr")
	flag.Usage = func() {
		_, _ = fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		return errors.New("no command given")
	}

	var logWriters []io.Writer
	if *verbose {
		logWriters = append(logWriters, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	logDir := filepath.Join(xdg.StateHome, config.AppName)
	if err := helpers.InitLogging(logDir, logWriters); err != nil {
		return fmt.Errorf("error initializing logging: %w", err)
	}

	configDir := filepath.Join(xdg.ConfigHome, config.AppName)
	cfg, err := config.NewConfig(configDir, config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	cfg.SetDebugLogging(*debug || cfg.DebugLogging())

	dataDir := filepath.Join(xdg.DataHome, config.AppName)
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}

	fs := afero.NewOsFs()
	clock := clockwork.NewRealClock()
	store := catalog.NewStore(fs, filepath.Join(dataDir, config.CatalogFile))

	adapters := []launchers.Adapter{
		launchers.NewSteam(fs, cfg),
		launchers.NewEpic(fs, cfg),
		launchers.NewXbox(launchers.NewSystemPackageInventory()),
		launchers.NewEA(fs, cfg),
		launchers.NewUbisoft(fs, cfg),
		launchers.NewGOG(fs, cfg),
	}

	var enricher *mediadata.Enricher
	if cfg.LookupURL() != "" {
		lookup, err := mediadata.NewHTTPLookup(
			httpclient.NewClientWithTimeout(cfg.LookupTimeout()),
			cfg.LookupURL(),
		)
		if err != nil {
			return fmt.Errorf("error setting up artwork lookup: %w", err)
		}
		enricher = mediadata.NewEnricher(lookup, cfg, clock)
	} else {
		log.Info().Msg("no lookup url configured, artwork enrichment disabled")
	}

	session := scanner.NewSession(cfg, fs, store, adapters, enricher, clock)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd := flag.Arg(0); cmd {
	case "scan":
		records, err := session.RunFullScan(ctx)
		if err != nil {
			return err
		}
		return printRecords(records)
	case "scan-folder":
		if flag.NArg() < 2 {
			return errors.New("scan-folder requires a directory argument")
		}
		candidates, err := session.RunFolderScan(ctx, flag.Arg(1))
		if err != nil {
			return err
		}
		records, err := session.MergeCandidates(ctx, candidates)
		if err != nil {
			return err
		}
		return printRecords(records)
	case "classify":
		if flag.NArg() < 2 {
			return errors.New("classify requires a file argument")
		}
		target := flag.Arg(1)
		result := session.Classify(filepath.Base(target), filepath.Dir(target))
		if result.Allowed {
			fmt.Println("allowed")
			return nil
		}
		fmt.Printf("rejected: %s\n", result.Reason)
		return nil
	case "watch":
		return watch(ctx, cfg, session)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func watch(ctx context.Context, cfg *config.Instance, session *scanner.Session) error {
	records, err := session.Catalog()
	if err != nil {
		return fmt.Errorf("error loading catalog: %w", err)
	}
	if len(records) == 0 {
		return errors.New("catalog is empty, run a scan first")
	}

	tracker := playtime.NewTracker(
		playtime.NewSystemProcessChecker(),
		session,
		clockwork.NewRealClock(),
		cfg.PollInterval(),
	)
	tracker.SetTargets(records)
	tracker.Watch(ctx)
	return nil
}

func printRecords(records []catalog.CatalogRecord) error {
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding catalog: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
