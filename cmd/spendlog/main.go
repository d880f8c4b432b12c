package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/database"
	"github.com/spendlog/spendlog/internal/ledger"
	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/search"
	"github.com/spendlog/spendlog/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, closer, err := logger.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer closer.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	store := ledger.NewStore(ledger.NewSQLitePersistence(db), zl)
	if err := store.Load(ctx); err != nil {
		log.Fatalf("load working set: %v", err)
	}

	engine := search.NewEngine(cfg.Search.CaseInsensitive)

	if cfg.UI.Timezone != "" {
		loc, err := time.LoadLocation(cfg.UI.Timezone)
		if err != nil {
			zl.Warn().Err(err).Str("timezone", cfg.UI.Timezone).Msg("using local timezone")
		} else {
			time.Local = loc
		}
	}

	zl.Info().Int("transactions", len(store.Transactions())).Msg("session start")

	p := tea.NewProgram(tui.New(ctx, cfg, store, engine, zl), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
