// Command drafter drafts parametric garment patterns from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/seamwork/drafter/internal/adapters/driven/codec/xmlcodec"
	"github.com/seamwork/drafter/internal/adapters/driven/config/file"
	"github.com/seamwork/drafter/internal/adapters/driven/measurements"
	"github.com/seamwork/drafter/internal/adapters/driven/storage/memory"
	"github.com/seamwork/drafter/internal/adapters/driven/storage/sqlite"
	"github.com/seamwork/drafter/internal/adapters/driving/cli"
	"github.com/seamwork/drafter/internal/core/ports/driven"
	"github.com/seamwork/drafter/internal/core/services"
	"github.com/seamwork/drafter/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	svc, closeLibrary, err := wire()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	defer closeLibrary()

	cli.SetServices(svc)
	// Command errors are printed by cobra.
	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// wire builds the services from the user's settings.
func wire() (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read settings: %w", err)
	}

	ws := services.NewWorkspace(nil, func() (driven.EntityStore, driven.VariableStore) {
		return memory.NewEntityStore(), memory.NewVariableStore()
	})
	codec := xmlcodec.New()
	source := measurements.NewSource()
	drafting := services.NewDraftingService(ws, codec, source)

	svc := &cli.Services{
		Drafting: drafting,
		History:  services.NewHistoryService(ws, settings.History.MaxDepth),
		Query:    services.NewQueryService(ws),
		Settings: settingsService,
		Watcher:  measurements.NewWatcher(source, settings.Watch.MaxRate),
	}

	// The library is optional; its commands report it missing.
	store, err := sqlite.NewStore(settings.Library.Dir)
	if err != nil {
		logger.Warn("library unavailable: %v", err)
		return svc, func() {}, nil
	}
	svc.Library = services.NewLibraryService(ws, store.LibraryStore(), codec, drafting)
	return svc, func() { _ = store.Close() }, nil
}
