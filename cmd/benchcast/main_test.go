package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aouyang1/go-benchcast"
	"github.com/aouyang1/go-benchcast/forecast"
	"github.com/aouyang1/go-benchcast/resultstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWritePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	require.Nil(t, writePlot(path, func(w io.Writer) error {
		_, err := w.Write([]byte("<html></html>"))
		return err
	}))
	out, err := os.ReadFile(path)
	require.Nil(t, err)
	assert.True(t, bytes.Equal([]byte("<html></html>"), out))

	errRender := errors.New("render")
	err = writePlot(path, func(io.Writer) error { return errRender })
	assert.ErrorIs(t, err, errRender)
}

func TestSaveReport(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "runs.duckdb")
	report := &benchcast.Report{
		RunID: uuid.New(),
		Results: []benchcast.Result{
			{Name: "Naive", Params: map[string]float64{}, Scores: &forecast.Scores{RMSE: 2}},
		},
	}
	require.Nil(t, saveReport(ctx, dsn, report, zap.NewNop()))

	store, err := resultstore.Open(ctx, dsn, nil)
	require.Nil(t, err)
	defer store.Close()
	records, err := store.Results(ctx, report.RunID)
	require.Nil(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Naive", records[0].Method)
	assert.Equal(t, 2.0, records[0].RMSE)
}
