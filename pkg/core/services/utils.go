package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jakechorley/cleaning-rota/pkg/core/model"
	"github.com/jakechorley/cleaning-rota/pkg/core/schedule"
	"github.com/jakechorley/cleaning-rota/pkg/db"
)

// parseMonth splits "YYYY-MM" into its parts. Range checks are left to the engine
// so out-of-range months surface as schedule.ErrInvalidMonth.
func parseMonth(s string) (int, time.Month, error) {
	yearStr, monthStr, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in %q: %w", s, err)
	}

	return year, time.Month(month), nil
}

// formatMonth is the inverse of parseMonth
func formatMonth(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// findLatestRun returns the most recently created run for a month.
// Runs with equal or unparseable timestamps resolve to the later one in the list.
func findLatestRun(runs []db.ScheduleRun, month string) *db.ScheduleRun {
	var latest *db.ScheduleRun
	var latestAt time.Time

	for i := range runs {
		if runs[i].Month != month {
			continue
		}
		createdAt, err := time.Parse(time.RFC3339, runs[i].CreatedAt)
		if err != nil {
			createdAt = time.Time{}
		}
		if latest == nil || !createdAt.Before(latestAt) {
			latest = &runs[i]
			latestAt = createdAt
		}
	}

	return latest
}

// toModelMembers converts stored members, failing on the first bad record
func toModelMembers(stored []db.Member) ([]model.Member, error) {
	members := make([]model.Member, 0, len(stored))
	for _, s := range stored {
		m, err := s.ToModel()
		if err != nil {
			return nil, fmt.Errorf("stored roster is invalid: %w", err)
		}
		members = append(members, m)
	}
	return members, nil
}

// bucketLabel is the lesson pair label shown next to a date
func bucketLabel(b schedule.Bucket) string {
	switch b {
	case schedule.BucketMonWed:
		return model.LessonMonWed.Label()
	case schedule.BucketTueThu:
		return model.LessonTueThu.Label()
	default:
		return ""
	}
}
