package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/cleaning-rota/pkg/db"
)

const dateLayout = "2006-01-02"

// GetScheduleRuns retrieves all schedule runs in insertion order
func (d *DB) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, month, created_at, member_count
		FROM schedule_run
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule runs: %w", err)
	}
	defer rows.Close()

	runs := []db.ScheduleRun{}
	for rows.Next() {
		var r db.ScheduleRun
		var createdAt time.Time
		if err := rows.Scan(&r.ID, &r.Month, &createdAt, &r.MemberCount); err != nil {
			return nil, fmt.Errorf("failed to scan schedule run: %w", err)
		}
		r.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule runs: %w", err)
	}

	return runs, nil
}

// InsertScheduleRun stores a run and its assignments in one transaction
func (d *DB) InsertScheduleRun(ctx context.Context, run *db.ScheduleRun, assignments []db.Assignment) error {
	createdAt, err := time.Parse(time.RFC3339, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("invalid created_at %q: %w", run.CreatedAt, err)
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO schedule_run (id, month, created_at, member_count)
		VALUES ($1, $2, $3, $4)
	`, run.ID, run.Month, createdAt, run.MemberCount)
	if err != nil {
		return fmt.Errorf("failed to insert schedule run: %w", err)
	}

	for _, a := range assignments {
		date, err := time.Parse(dateLayout, a.Date)
		if err != nil {
			return fmt.Errorf("invalid assignment date %q: %w", a.Date, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO assignment (run_id, seq, record_id, member_id, member_name, date)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, run.ID, a.Seq, a.RecordID, a.MemberID, a.MemberName, date)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAssignments retrieves a run's assignments ordered by seq
func (d *DB) GetAssignments(ctx context.Context, runID string) ([]db.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT run_id::text, seq, record_id, member_id, member_name, date
		FROM assignment
		WHERE run_id = $1
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []db.Assignment{}
	for rows.Next() {
		var a db.Assignment
		var date time.Time
		if err := rows.Scan(&a.RunID, &a.Seq, &a.RecordID, &a.MemberID, &a.MemberName, &date); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Date = date.Format(dateLayout)
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}
