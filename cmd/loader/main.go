package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"payment-reports/internal/app"
	"payment-reports/internal/config"
	"payment-reports/internal/payments"
	"syscall"
	_ "time/tzdata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("import failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("loader", flag.ExitOnError)
	file := fs.String("file", "", "JSON file with the payments to import")
	purge := fs.Bool("purge", false, "remove existing payments first")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if *file == "" {
		return errors.New("-file is required")
	}
	if cfg.Source == config.SourceMemory {
		return fmt.Errorf("the %s source does not outlive the loader, pick sqlite, postgres or redis", cfg.Source)
	}

	records, err := payments.ReadPaymentsFile(*file)
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error opening %s source: %w", cfg.Source, err)
	}
	defer a.Close()

	if err := a.Import(ctx, records, *purge); err != nil {
		return err
	}
	slog.Info("payments imported", "source", cfg.Source, "payments", len(records), "purged", *purge)
	return nil
}
