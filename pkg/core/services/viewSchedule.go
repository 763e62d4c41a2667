package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/cleaning-rota/pkg/db"
)

// ScheduleView is a stored run with its assignments in placement order
type ScheduleView struct {
	Run         db.ScheduleRun
	Assignments []db.Assignment
}

// ViewSchedule returns the latest stored run for a "YYYY-MM" month
func ViewSchedule(ctx context.Context, store db.ScheduleStore, logger *zap.Logger, month string) (*ScheduleView, error) {
	year, mon, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	key := formatMonth(year, mon)

	logger.Debug("Fetching schedule runs", zap.String("month", key))
	runs, err := store.GetScheduleRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule runs: %w", err)
	}

	run := findLatestRun(runs, key)
	if run == nil {
		return nil, fmt.Errorf("no schedule found for %s", key)
	}

	assignments, err := store.GetAssignments(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	logger.Debug("Loaded schedule",
		zap.String("run_id", run.ID),
		zap.String("created_at", run.CreatedAt),
		zap.Int("assignments", len(assignments)))

	return &ScheduleView{Run: *run, Assignments: assignments}, nil
}
