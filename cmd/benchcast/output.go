package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aouyang1/go-benchcast"
	"github.com/aouyang1/go-benchcast/resultstore"
	"go.uber.org/zap"
)

func writePlot(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return f.Close()
}

func saveReport(ctx context.Context, dsn string, report *benchcast.Report, logger *zap.Logger) error {
	store, err := resultstore.Open(ctx, dsn, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	run, records := report.StoreRecords()
	if err := store.SaveRun(ctx, run, records); err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}
	return nil
}
