package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"grabarr/internal/cfg"
	"grabarr/internal/database"
	"grabarr/internal/domain/setup"
	"grabarr/internal/utils/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := setup.InitCfgFilesDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	db, err := database.Init(setup.DBFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg.InitCommands(ctx, db)
	if err := cfg.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
