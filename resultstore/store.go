// Package resultstore persists benchmark runs and their per method scores in duckdb
package resultstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

var ErrRunNotFound = errors.New("run not found")

var schema = []string{`
CREATE TABLE IF NOT EXISTS runs (
	run_id     VARCHAR PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	num_train  INTEGER NOT NULL,
	num_valid  INTEGER NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS results (
	run_id   VARCHAR NOT NULL,
	seq      INTEGER NOT NULL,
	method   VARCHAR NOT NULL,
	params   VARCHAR NOT NULL,
	rmse     DOUBLE,
	mse      DOUBLE,
	mae      DOUBLE,
	mape     DOUBLE,
	PRIMARY KEY (run_id, seq)
)`,
}

// Run describes one benchmark invocation
type Run struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	NumTrain  int       `json:"num_train"`
	NumValid  int       `json:"num_valid"`
}

// Record is the score of one method within a run. Position keeps the evaluation order.
type Record struct {
	Position int                `json:"position"`
	Method   string             `json:"method"`
	Params   map[string]float64 `json:"params"`
	RMSE     float64            `json:"rmse"`
	MSE      float64            `json:"mse"`
	MAE      float64            `json:"mae"`
	MAPE     float64            `json:"mape"`
}

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to the duckdb database at dsn, an empty dsn being in memory, and creates the
// tables if needed
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open duckdb %q, %w", dsn, err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("unable to create result tables, %w", err)
		}
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun writes the run and all its records in one transaction
func (s *Store) SaveRun(ctx context.Context, run Run, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction, %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, num_train, num_valid) VALUES (?, ?, ?, ?)`,
		run.ID.String(), run.CreatedAt.UTC(), run.NumTrain, run.NumValid,
	); err != nil {
		return fmt.Errorf("unable to insert run %s, %w", run.ID, err)
	}

	for _, rec := range records {
		params, err := encodeParams(rec.Params)
		if err != nil {
			return fmt.Errorf("unable to encode params of %s, %w", rec.Method, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO results (run_id, seq, method, params, rmse, mse, mae, mape) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID.String(), rec.Position, rec.Method, string(params),
			nullable(rec.RMSE), nullable(rec.MSE), nullable(rec.MAE), nullable(rec.MAPE),
		); err != nil {
			return fmt.Errorf("unable to insert result %s, %w", rec.Method, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit run %s, %w", run.ID, err)
	}
	s.logger.Debug("saved run", zap.String("run_id", run.ID.String()), zap.Int("results", len(records)))
	return nil
}

// Runs lists every stored run, newest first
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id, created_at, num_train, num_valid FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("unable to query runs, %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			id  string
			run Run
		)
		if err := rows.Scan(&id, &run.CreatedAt, &run.NumTrain, &run.NumValid); err != nil {
			return nil, fmt.Errorf("unable to scan run, %w", err)
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid run id %q, %w", id, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Results returns the records of a run in evaluation order
func (s *Store) Results(ctx context.Context, runID uuid.UUID) ([]Record, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) > 0 FROM runs WHERE run_id = ?`, runID.String(),
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("unable to query run %s, %w", runID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s, %w", runID, ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, method, params, rmse, mse, mae, mape FROM results WHERE run_id = ? ORDER BY seq`,
		runID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to query results of %s, %w", runID, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			rec                  Record
			params               string
			rmse, mse, mae, mape sql.NullFloat64
		)
		if err := rows.Scan(&rec.Position, &rec.Method, &params, &rmse, &mse, &mae, &mape); err != nil {
			return nil, fmt.Errorf("unable to scan result, %w", err)
		}
		if rec.Params, err = decodeParams(params); err != nil {
			return nil, fmt.Errorf("unable to decode params of %s, %w", rec.Method, err)
		}
		rec.RMSE = fromNullable(rmse)
		rec.MSE = fromNullable(mse)
		rec.MAE = fromNullable(mae)
		rec.MAPE = fromNullable(mape)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// undefined scores are stored as NULL
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// params hold fitted states that can be NaN, which json cannot encode, so they are stored as null
func encodeParams(params map[string]float64) (string, error) {
	out := make(map[string]*float64, len(params))
	for k, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[k] = nil
			continue
		}
		out[k] = &v
	}
	bytes, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func decodeParams(raw string) (map[string]float64, error) {
	var in map[string]*float64
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, err
	}
	params := make(map[string]float64, len(in))
	for k, v := range in {
		if v == nil {
			params[k] = math.NaN()
			continue
		}
		params[k] = *v
	}
	return params, nil
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
