package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/cleaning-rota/internal/config"
	"github.com/jakechorley/cleaning-rota/pkg/core/schedule"
	"github.com/jakechorley/cleaning-rota/pkg/db"
)

// GenerateScheduleStore defines the database operations needed for generating a schedule
type GenerateScheduleStore interface {
	GetMembers(ctx context.Context) ([]db.Member, error)
	InsertScheduleRun(ctx context.Context, run *db.ScheduleRun, assignments []db.Assignment) error
}

// GeneratedSchedule contains the result of generating a month's schedule
type GeneratedSchedule struct {
	Run         db.ScheduleRun
	Assignments []db.Assignment
	Result      *schedule.Result
	Persisted   bool
}

// GenerateSchedule runs the engine over the stored roster for a "YYYY-MM" month.
// Unless dryRun is set the run and its assignments are stored as a new history entry.
func GenerateSchedule(ctx context.Context, store GenerateScheduleStore, cfg *config.Config, logger *zap.Logger, month string, dryRun bool) (*GeneratedSchedule, error) {
	year, mon, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	weekdays, err := cfg.Weekdays()
	if err != nil {
		return nil, fmt.Errorf("failed to read eligible weekdays: %w", err)
	}

	logger.Debug("Fetching roster")
	stored, err := store.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	members, err := toModelMembers(stored)
	if err != nil {
		return nil, err
	}

	logger.Debug("Generating schedule",
		zap.Int("year", year),
		zap.Int("month", int(mon)),
		zap.Int("members", len(members)),
		zap.Int("weekdays", len(weekdays)))

	result, err := schedule.NewEngine(weekdays).Generate(year, mon, members)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule for %s: %w", month, err)
	}

	run := db.ScheduleRun{
		ID:          uuid.New().String(),
		Month:       formatMonth(year, mon),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		MemberCount: len(members),
	}

	assignments := make([]db.Assignment, len(result.Assignments))
	for i, a := range result.Assignments {
		assignments[i] = db.Assignment{
			RunID:      run.ID,
			Seq:        i,
			RecordID:   a.ID,
			MemberID:   a.Member.ID,
			MemberName: a.Member.Name,
			Date:       a.Day(),
		}
	}

	generated := &GeneratedSchedule{
		Run:         run,
		Assignments: assignments,
		Result:      result,
	}

	if dryRun {
		logger.Info("Dry run, schedule not stored",
			zap.String("month", run.Month),
			zap.Int("assignments", len(assignments)))
		return generated, nil
	}

	logger.Debug("Storing schedule run", zap.String("run_id", run.ID))
	if err := store.InsertScheduleRun(ctx, &run, assignments); err != nil {
		return nil, fmt.Errorf("failed to store schedule run: %w", err)
	}
	generated.Persisted = true

	logger.Info("Generated schedule",
		zap.String("run_id", run.ID),
		zap.String("month", run.Month),
		zap.Int("assignments", len(assignments)),
		zap.Int("dates", len(result.Loads)))

	return generated, nil
}
