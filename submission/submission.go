// Package submission writes forecasts over the unlabelled table in the sample submission layout
package submission

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

var (
	ErrLenMismatch   = errors.New("forecast and id lengths differ")
	ErrInvalidHeader = errors.New("submission header must have an id and a value column")
)

// Row pairs a test id with its forecast value
type Row struct {
	ID    string  `json:"id"`
	Count float64 `json:"count"`
}

// Build pairs ids with forecast values in order. Ids are copied verbatim.
func Build(ids []string, forecast []float64) ([]Row, error) {
	if len(ids) != len(forecast) {
		return nil, fmt.Errorf("%d ids and %d forecast values, %w", len(ids), len(forecast), ErrLenMismatch)
	}
	rows := make([]Row, len(ids))
	for i, id := range ids {
		rows[i] = Row{ID: id, Count: forecast[i]}
	}
	return rows, nil
}

// Write writes the header followed by one record per row
func Write(w io.Writer, header []string, rows []Row) error {
	if len(header) != 2 {
		return fmt.Errorf("got %d columns, %w", len(header), ErrInvalidHeader)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.ID, strconv.FormatFloat(row.Count, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the submission to path creating any missing parent directories
func WriteFile(path string, header []string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create submission directory, %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create submission file, %w", err)
	}
	if err := Write(f, header, rows); err != nil {
		f.Close()
		return fmt.Errorf("unable to write submission %s, %w", path, err)
	}
	return f.Close()
}
