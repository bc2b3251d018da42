// Package storage persists pipeline run history in a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const defaultDBPath = "~/.osb-ci/history.db"

// NewService creates a SQLite-backed storage service.
func NewService(dbPath string) (Service, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &service{db: db, dbPath: resolved}, nil
}

type service struct {
	db     *sql.DB
	dbPath string
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultDBPath
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

func (s *service) SaveRun(ctx context.Context, input SaveRunInput) (int64, error) {
	run := input.Run
	if run.Pipeline == "" {
		return 0, errors.New("pipeline name is required")
	}
	if run.RunUUID == "" {
		run.RunUUID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_uuid, pipeline, event, repository, branch, run_timestamp,
			duration_ms, status, jobs_total, jobs_failed, cli_version, run_flags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunUUID, run.Pipeline, run.Event, run.Repository, run.Branch,
		run.StartedAt.UTC(), run.Duration.Milliseconds(), run.Status,
		len(run.Jobs), run.FailedJobs(), input.Version, input.FlagsJSON)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, job := range run.Jobs {
		for _, step := range job.Steps {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO run_steps(run_id, matrix_key, step_name, status, exit_code, duration_ms, error)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, runID, job.MatrixKey, step.Name, step.Status, step.ExitCode,
				step.Duration.Milliseconds(), step.Error)
			if err != nil {
				return 0, err
			}
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return runID, nil
}

func (s *service) GetRecentRuns(pipeline string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT run_id, run_uuid, pipeline, event, repository, branch, run_timestamp,
			duration_ms, status, jobs_total, jobs_failed, cli_version
		FROM runs
	`
	args := []any{}
	if pipeline != "" {
		query += " WHERE pipeline=?"
		args = append(args, pipeline)
	}
	query += " ORDER BY run_timestamp DESC, run_id DESC LIMIT ?"
	args = append(args, limit)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		var repository, branch, version sql.NullString
		if err := rows.Scan(&r.RunID, &r.RunUUID, &r.Pipeline, &r.Event, &repository, &branch,
			&r.RunTimestamp, &r.DurationMS, &r.Status, &r.JobsTotal, &r.JobsFailed, &version); err != nil {
			return nil, err
		}
		r.Repository = repository.String
		r.Branch = branch.String
		r.Version = version.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *service) ListSteps(runID int64) ([]StepSnapshot, error) {
	rows, err := s.db.Query(`
		SELECT matrix_key, step_name, status, exit_code, duration_ms, error
		FROM run_steps WHERE run_id=? ORDER BY step_id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []StepSnapshot{}
	for rows.Next() {
		var st StepSnapshot
		var stepErr sql.NullString
		if err := rows.Scan(&st.MatrixKey, &st.StepName, &st.Status, &st.ExitCode, &st.DurationMS, &stepErr); err != nil {
			return nil, err
		}
		st.Error = stepErr.String
		steps = append(steps, st)
	}
	return steps, rows.Err()
}

func (s *service) GetTrends(pipeline string, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	query := `
		SELECT
			pipeline,
			DATE(run_timestamp) as day,
			COUNT(*),
			SUM(CASE WHEN status='PASSED' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status='FAILED' THEN 1 ELSE 0 END),
			CAST(AVG(duration_ms) AS INTEGER)
		FROM runs
		WHERE run_timestamp >= DATETIME('now', ?)
	`
	args := []any{fmt.Sprintf("-%d day", days)}
	if pipeline != "" {
		query += " AND pipeline=?"
		args = append(args, pipeline)
	}
	query += " GROUP BY pipeline, DATE(run_timestamp) ORDER BY day ASC, pipeline ASC"
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []TrendPoint{}
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Pipeline, &p.Date, &p.Runs, &p.Passed, &p.Failed, &p.AvgDurationMS); err != nil {
			return nil, err
		}
		if p.Runs > 0 {
			p.PassRate = float64(p.Passed) / float64(p.Runs) * 100
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *service) GetRunComparison(runID1, runID2 int64) (*RunComparison, error) {
	first, err := s.stepStatusesByRun(runID1)
	if err != nil {
		return nil, err
	}
	second, err := s.stepStatusesByRun(runID2)
	if err != nil {
		return nil, err
	}

	cmp := &RunComparison{RunID1: runID1, RunID2: runID2}
	for key, status2 := range second {
		status1, seen := first[key]
		switch {
		case status2 == "FAILED" && (!seen || status1 == "PASSED"):
			cmp.Regressed = append(cmp.Regressed, key)
		case status2 == "PASSED" && seen && status1 == "FAILED":
			cmp.Recovered = append(cmp.Recovered, key)
		case status2 == "FAILED" && status1 == "FAILED":
			cmp.StillFailing++
		}
	}
	return cmp, nil
}

func (s *service) stepStatusesByRun(runID int64) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT matrix_key, step_name, status FROM run_steps WHERE run_id=?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, name, status string
		if err := rows.Scan(&key, &name, &status); err != nil {
			return nil, err
		}
		out[key+"/"+name] = status
	}
	return out, rows.Err()
}

func (s *service) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

func (s *service) Reindex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "REINDEX")
	return err
}

func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, errors.New("days must be > 0")
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE run_timestamp < DATETIME('now', ?)
	`, fmt.Sprintf("-%d day", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *service) Close() error {
	return s.db.Close()
}
