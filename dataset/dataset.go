// Package dataset loads the labelled historical table, the unlabelled future table, and the
// submission schema from comma separated files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/go-benchcast/timedataset"
)

// DatetimeLayout is the timestamp layout of the passenger tables, e.g. 25-08-2012 00:00
const DatetimeLayout = "02-01-2006 15:04"

var (
	ErrMissingColumn = errors.New("missing column in header")
	ErrEmptyTable    = errors.New("table has no header")
	ErrParseTime     = errors.New("unable to parse timestamp")
	ErrParseValue    = errors.New("unable to parse value")
)

// CSVOptions names the columns to read and the timestamp layout
type CSVOptions struct {
	IDColumn    string         `json:"id_column"`
	TimeColumn  string         `json:"time_column"`
	ValueColumn string         `json:"value_column"`
	TimeLayout  string         `json:"time_layout"`
	Location    *time.Location `json:"-"`
}

// NewDefaultCSVOptions returns the column names of the passenger tables
func NewDefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		IDColumn:    "ID",
		TimeColumn:  "Datetime",
		ValueColumn: "Count",
		TimeLayout:  DatetimeLayout,
		Location:    time.UTC,
	}
}

// Labeled is the historical table. The id column is dropped from the series.
type Labeled struct {
	Series *timedataset.TimeDataset
}

// Unlabeled is the future table with ids and timestamps only
type Unlabeled struct {
	IDs []string
	T   []time.Time
}

// Len returns the number of rows in the unlabelled table
func (u *Unlabeled) Len() int {
	if u == nil {
		return 0
	}
	return len(u.IDs)
}

// LoadLabeled reads an id, timestamp, and value table into a time dataset
func LoadLabeled(r io.Reader, opt *CSVOptions) (*Labeled, error) {
	if opt == nil {
		opt = NewDefaultCSVOptions()
	}

	reader, cols, err := openTable(r, opt.TimeColumn, opt.ValueColumn)
	if err != nil {
		return nil, err
	}
	timeIdx, valueIdx := cols[0], cols[1]

	var (
		t []time.Time
		y []float64
	)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row %d, %w", row, err)
		}

		ts, err := parseTime(record[timeIdx], opt)
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", row, err)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(record[valueIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d, %q, %w", row, record[valueIdx], ErrParseValue)
		}
		t = append(t, ts)
		y = append(y, val)
	}

	series, err := timedataset.NewUnivariateDataset(t, y)
	if err != nil {
		return nil, fmt.Errorf("unable to create labeled dataset, %w", err)
	}
	return &Labeled{Series: series}, nil
}

// LoadUnlabeled reads an id and timestamp table. Ids are kept verbatim.
func LoadUnlabeled(r io.Reader, opt *CSVOptions) (*Unlabeled, error) {
	if opt == nil {
		opt = NewDefaultCSVOptions()
	}

	reader, cols, err := openTable(r, opt.IDColumn, opt.TimeColumn)
	if err != nil {
		return nil, err
	}
	idIdx, timeIdx := cols[0], cols[1]

	u := new(Unlabeled)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read row %d, %w", row, err)
		}

		ts, err := parseTime(record[timeIdx], opt)
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", row, err)
		}
		u.IDs = append(u.IDs, record[idIdx])
		u.T = append(u.T, ts)
	}
	return u, nil
}

// LoadSchema returns the header of the submission template
func LoadSchema(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read schema header, %w", err)
	}
	return header, nil
}

func LoadLabeledFile(path string, opt *CSVOptions) (*Labeled, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadLabeled(f, opt)
}

func LoadUnlabeledFile(path string, opt *CSVOptions) (*Unlabeled, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadUnlabeled(f, opt)
}

func LoadSchemaFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSchema(f)
}

// openTable reads the header and returns the index of each requested column in order
func openTable(r io.Reader, columns ...string) (*csv.Reader, []int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrEmptyTable
	}
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read header, %w", err)
	}
	reader.FieldsPerRecord = len(header)

	idx := make([]int, 0, len(columns))
	for _, col := range columns {
		found := -1
		for i, h := range header {
			if strings.TrimSpace(h) == col {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, nil, fmt.Errorf("%s, %w", col, ErrMissingColumn)
		}
		idx = append(idx, found)
	}
	return reader, idx, nil
}

func parseTime(val string, opt *CSVOptions) (time.Time, error) {
	loc := opt.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := opt.TimeLayout
	if layout == "" {
		layout = DatetimeLayout
	}
	ts, err := time.ParseInLocation(layout, strings.TrimSpace(val), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q, %w", val, ErrParseTime)
	}
	return ts, nil
}
