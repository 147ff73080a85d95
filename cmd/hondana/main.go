package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mizue/hondana/internal/adapter"
	"github.com/mizue/hondana/internal/domain"
	"github.com/mizue/hondana/internal/library"
	"github.com/mizue/hondana/internal/prefs"
	"github.com/mizue/hondana/internal/search"
	"github.com/mizue/hondana/internal/store"
	"github.com/mizue/hondana/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("hondana %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("hondana requires an interactive terminal")
	}

	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting hondana", "version", Version)

	preferences, err := prefs.Open(cfg.Data.PreferencesPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open preferences: %w", err)
	}

	libraryStore, err := store.Open(cfg.Data.LibraryPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer libraryStore.Close()

	searcher := search.NewService(logger)
	boundary := tui.NewBoundary()

	engine := library.NewEngine(
		library.Config{
			SearchDefault:           preferences.SearchQuery(),
			FilterDownloadedDefault: preferences.FilterDownloaded(),
			FilterUnreadDefault:     preferences.FilterUnread(),
			PortraitColumns:         preferences.Columns(domain.Portrait),
			LandscapeColumns:        preferences.Columns(domain.Landscape),
			LastUsedCategory:        preferences.LastUsedCategory(),
			SyncEnabled:             preferences.SyncEnabled(),
			Orientation:             domain.Portrait,
		},
		library.Collaborators{
			Source:  libraryStore,
			Writer:  libraryStore,
			Covers:  libraryStore,
			Files:   boundary,
			Dialogs: boundary,
			Notify:  boundary,
			Prefs:   preferences,
		},
		boundary,
		boundary,
		logger,
	)

	model := tui.NewModel(engine, libraryStore, libraryStore, preferences, searcher, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	boundary.Bind(program)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.Start(ctx)
	defer engine.Stop()

	logger.Info("starting TUI")
	if _, err := program.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
