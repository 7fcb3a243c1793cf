package main

import (
	"context"
	"fmt"
	"os"

	"github.com/florify/florify/internal/ctl"
	"github.com/florify/florify/internal/logging"
	"github.com/florify/florify/internal/server/config"
	"github.com/florify/florify/internal/server/repositories/repomanager"
	"github.com/florify/florify/internal/server/services"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	db, err := repomanager.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	loader := services.NewDataLoader(db, repomanager.NewPostgresRepositoryManager(), cfg, logger)

	return ctl.NewApp(loader, os.Stdout).Run(ctx, os.Args[1:])
}
