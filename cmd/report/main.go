package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"payment-reports/internal/app"
	"payment-reports/internal/config"
	"payment-reports/internal/report"
	"strings"
	"syscall"
	_ "time/tzdata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("report failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	query := fs.String("query", "", "query to run: "+strings.Join(report.Queries, ", "))
	month := fs.String("month", "", "year-month as YYYY-MM")
	days := fs.Int("days", 0, "number of days back from now")
	email := fs.String("email", "", "user email")
	over := fs.Int("over", 0, "payment value threshold")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	req := report.Request{Query: *query, Month: *month, Email: *email}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "days":
			req.Days = days
		case "over":
			req.Over = over
		}
	})

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("error opening %s source: %w", cfg.Source, err)
	}
	defer a.Close()

	result, err := report.NewRunner(a.Service).Run(ctx, req)
	if err != nil {
		return fmt.Errorf("query %s: %w", req.Query, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
