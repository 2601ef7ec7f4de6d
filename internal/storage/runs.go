package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/risky-journals/internal/common"
	"github.com/Veraticus/risky-journals/internal/model"
	"github.com/shopspring/decimal"
)

// SaveRun stores a completed scan and its flagged entries, returning the
// new run ID.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run model.Run, flagged []model.ScoredEntry) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (started_at, input_path, rows_scanned, rows_flagged, rows_skipped, flag_threshold)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.StartedAt, run.InputPath, run.RowsScanned, run.RowsFlagged, run.RowsSkipped, run.FlagThreshold)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO findings (run_id, entry_id, date, user, account, amount, memo, source, risk_score, reasons)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range flagged {
		_, err := stmt.ExecContext(ctx,
			runID, f.ID, f.Date, f.User, f.Account,
			f.Amount.StringFixed(2), f.Memo, f.Source,
			f.RiskScore, strings.Join(f.Reasons, ","))
		if err != nil {
			return 0, fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, input_path, rows_scanned, rows_flagged, rows_skipped, flag_threshold
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.InputPath,
			&run.RowsScanned, &run.RowsFlagged, &run.RowsSkipped, &run.FlagThreshold); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun returns one run by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id int64) (model.Run, error) {
	var run model.Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, input_path, rows_scanned, rows_flagged, rows_skipped, flag_threshold
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.StartedAt, &run.InputPath,
		&run.RowsScanned, &run.RowsFlagged, &run.RowsSkipped, &run.FlagThreshold)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, fmt.Errorf("run %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return model.Run{}, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// GetFindings returns the flagged entries stored for a run, highest score
// first.
func (s *SQLiteStorage) GetFindings(ctx context.Context, runID int64) ([]model.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, entry_id, date, user, account, amount, memo, source, risk_score, reasons
		FROM findings
		WHERE run_id = ?
		ORDER BY risk_score DESC, id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var findings []model.Finding
	for rows.Next() {
		var f model.Finding
		var amount, reasons string
		if err := rows.Scan(&f.ID, &f.RunID, &f.EntryID, &f.Date, &f.User, &f.Account,
			&amount, &f.Memo, &f.Source, &f.RiskScore, &reasons); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		f.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
		}
		if reasons != "" {
			f.Reasons = strings.Split(reasons, ",")
		}
		findings = append(findings, f)
	}

	return findings, rows.Err()
}
