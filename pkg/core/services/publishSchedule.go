package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/cleaning-rota/internal/config"
	"github.com/jakechorley/cleaning-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/cleaning-rota/pkg/core/schedule"
	"github.com/jakechorley/cleaning-rota/pkg/db"
)

// SchedulePublisher writes a month's schedule to a spreadsheet
type SchedulePublisher interface {
	PublishSchedule(ctx context.Context, spreadsheetID string, schedule *sheetsclient.PublishedSchedule) error
}

// PublishSchedule writes the latest stored run for a month to the schedule sheet.
// Every eligible date of the month gets a row, including dates nobody was assigned to.
func PublishSchedule(ctx context.Context, store db.ScheduleStore, publisher SchedulePublisher, cfg *config.Config, logger *zap.Logger, month string) (*sheetsclient.PublishedSchedule, error) {
	if cfg.ScheduleSheetID == "" {
		return nil, fmt.Errorf("scheduleSheetID is not configured")
	}

	view, err := ViewSchedule(ctx, store, logger, month)
	if err != nil {
		return nil, err
	}

	year, mon, err := parseMonth(view.Run.Month)
	if err != nil {
		return nil, err
	}

	weekdays, err := cfg.Weekdays()
	if err != nil {
		return nil, fmt.Errorf("failed to read eligible weekdays: %w", err)
	}

	days, err := schedule.ClassifyDays(year, mon, weekdays)
	if err != nil {
		return nil, err
	}

	published, err := buildPublishedSchedule(year, mon, days, view.Assignments)
	if err != nil {
		return nil, err
	}

	logger.Debug("Publishing schedule",
		zap.String("sheet_id", cfg.ScheduleSheetID),
		zap.String("run_id", view.Run.ID),
		zap.Int("rows", len(published.Rows)))

	if err := publisher.PublishSchedule(ctx, cfg.ScheduleSheetID, published); err != nil {
		return nil, fmt.Errorf("failed to publish schedule: %w", err)
	}

	logger.Info("Published schedule",
		zap.String("month", view.Run.Month),
		zap.String("run_id", view.Run.ID),
		zap.String("tab", sheetsclient.ScheduleTabTitle(year, mon)))

	return published, nil
}

// buildPublishedSchedule lays assignments over the month's eligible dates.
// Dates a stored run uses that are no longer eligible (the weekday config
// changed since) still get a row so no assignment is dropped.
func buildPublishedSchedule(year int, month time.Month, days *schedule.CalendarDays, assignments []db.Assignment) (*sheetsclient.PublishedSchedule, error) {
	rowsByDate := make(map[string]*sheetsclient.PublishedScheduleRow)
	var rows []*sheetsclient.PublishedScheduleRow

	for _, d := range days.Chronological() {
		row := &sheetsclient.PublishedScheduleRow{Date: d.Date, Lessons: bucketLabel(d.Bucket)}
		rowsByDate[d.String()] = row
		rows = append(rows, row)
	}

	for _, a := range assignments {
		row, ok := rowsByDate[a.Date]
		if !ok {
			date, err := time.Parse(schedule.DateFormat, a.Date)
			if err != nil {
				return nil, fmt.Errorf("assignment %s has invalid date %q: %w", a.RecordID, a.Date, err)
			}
			row = &sheetsclient.PublishedScheduleRow{Date: date}
			rowsByDate[a.Date] = row
			rows = append(rows, row)
		}
		row.Members = append(row.Members, a.MemberName)
	}

	slices.SortFunc(rows, func(a, b *sheetsclient.PublishedScheduleRow) int {
		return a.Date.Compare(b.Date)
	})

	published := &sheetsclient.PublishedSchedule{
		Year:  year,
		Month: month,
		Rows:  make([]sheetsclient.PublishedScheduleRow, len(rows)),
	}
	for i, row := range rows {
		published.Rows[i] = *row
	}

	return published, nil
}
