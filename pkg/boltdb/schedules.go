package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/jakechorley/cleaning-rota/pkg/db"
)

// GetScheduleRuns retrieves all schedule runs in insertion order
func (d *DB) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	runs := []db.ScheduleRun{}

	err := d.view(ctx, func(tx *bbolt.Tx) error {
		return tx.Bucket(runsBucket).ForEach(func(_, v []byte) error {
			var run db.ScheduleRun
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("failed to unmarshal schedule run: %w", err)
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule runs: %w", err)
	}

	return runs, nil
}

// InsertScheduleRun stores a run and its assignments in one transaction.
// Assignments live in a sub-bucket named after the run id, keyed by Seq.
func (d *DB) InsertScheduleRun(ctx context.Context, run *db.ScheduleRun, assignments []db.Assignment) error {
	if run.ID == "" {
		return fmt.Errorf("schedule run id is required")
	}

	err := d.update(ctx, func(tx *bbolt.Tx) error {
		parent := tx.Bucket(assignmentsBucket)
		if parent.Bucket([]byte(run.ID)) != nil {
			return fmt.Errorf("schedule run %s already exists", run.ID)
		}

		runs := tx.Bucket(runsBucket)
		n, err := runs.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate run sequence: %w", err)
		}
		if err := putJSON(runs, seqKey(n), run); err != nil {
			return err
		}

		b, err := parent.CreateBucket([]byte(run.ID))
		if err != nil {
			return fmt.Errorf("failed to create assignments bucket: %w", err)
		}
		for i := range assignments {
			a := assignments[i]
			a.RunID = run.ID
			if err := putJSON(b, seqKey(uint64(a.Seq)), &a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert schedule run: %w", err)
	}
	return nil
}

// GetAssignments retrieves a run's assignments ordered by Seq.
// An unknown run yields no assignments.
func (d *DB) GetAssignments(ctx context.Context, runID string) ([]db.Assignment, error) {
	assignments := []db.Assignment{}

	err := d.view(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(assignmentsBucket).Bucket([]byte(runID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var a db.Assignment
			if err := json.Unmarshal(v, &a); err != nil {
				return fmt.Errorf("failed to unmarshal assignment: %w", err)
			}
			assignments = append(assignments, a)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	return assignments, nil
}
