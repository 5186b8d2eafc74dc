// Command dredge is the bulk archive ingestion CLI.
package main

import (
	"fmt"
	"os"

	"github.com/stashware/dredge-cli/internal/adapters/driven/config/file"
	"github.com/stashware/dredge-cli/internal/adapters/driven/progress"
	"github.com/stashware/dredge-cli/internal/adapters/driven/storage/sqlite"
	"github.com/stashware/dredge-cli/internal/adapters/driving/cli"
	"github.com/stashware/dredge-cli/internal/archive/ziparchive"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
	"github.com/stashware/dredge-cli/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close() //nolint:errcheck

	sink := progress.NewConsoleSink(os.Stdout)
	defer sink.Close()

	settings := services.NewSettingsService(configStore)
	opener := driven.ArchiveOpener(func(path string) (driven.ArchiveReader, error) {
		return ziparchive.Open(path)
	})
	orchestrator := services.NewIngestOrchestrator(
		store.HostStore(),
		store.RelationalWriter(),
		settings,
		sink,
		opener,
	)

	cli.Configure(cli.Dependencies{
		Ingest:   orchestrator,
		Hosts:    store.HostStore(),
		Settings: settings,
		Config:   configStore,
		Version:  version,
	})

	return cli.Execute()
}
