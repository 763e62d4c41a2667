package sheetsclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	scheduleDateFormat = "Mon 02 Jan 2006"
	memberColumnPrefix = "Member "
)

// headerRowIndex is the 0-based row holding column names; rows above it hold the title
const headerRowIndex = 2

// PublishedScheduleRow is one eligible date and who cleans on it
type PublishedScheduleRow struct {
	Date    time.Time
	Lessons string   // "MW", "TT" or "" for dates outside both lesson pairs
	Members []string // Member names in assignment order
}

// PublishedSchedule is a month's schedule ready for the sheet
type PublishedSchedule struct {
	Year  int
	Month time.Month
	Rows  []PublishedScheduleRow
}

// ScheduleTabTitle returns the tab name for a month, e.g. "Cleaning March 2025"
func ScheduleTabTitle(year int, month time.Month) string {
	return fmt.Sprintf("Cleaning %s %d", month, year)
}

// PublishSchedule writes a schedule to its month tab.
// A missing tab is created. An existing tab is rewritten, keeping any columns
// other than Date, Day, Lessons and Member N for dates that are still present.
func (c *Client) PublishSchedule(ctx context.Context, spreadsheetID string, schedule *PublishedSchedule) error {
	tabTitle := ScheduleTabTitle(schedule.Year, schedule.Month)

	exists, err := c.HasSheet(ctx, spreadsheetID, tabTitle)
	if err != nil {
		return err
	}

	var existing [][]interface{}
	if exists {
		existing, err = c.GetValues(ctx, spreadsheetID, tabTitle)
		if err != nil {
			return fmt.Errorf("failed to read existing tab: %w", err)
		}
		if err := c.ClearValues(ctx, spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to clear existing tab: %w", err)
		}
	} else {
		if _, err := c.CreateSheet(ctx, spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	}

	rows := buildScheduleRows(existing, schedule)
	if err := c.UpdateValues(ctx, spreadsheetID, tabTitle+"!A1", rows); err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}

	c.logger.Debug("Published schedule",
		zap.String("tab", tabTitle),
		zap.Int("dates", len(schedule.Rows)),
		zap.Bool("updated", exists))

	return nil
}

// isManagedColumn reports whether a header cell is rewritten on every publish
func isManagedColumn(name string) bool {
	switch name {
	case "Date", "Day", "Lessons":
		return true
	}
	return strings.HasPrefix(name, memberColumnPrefix)
}

// buildScheduleRows lays out the tab: a title row, a blank row, the header,
// then one row per date. Unmanaged columns from existing are carried over,
// matched on the Date cell.
func buildScheduleRows(existing [][]interface{}, schedule *PublishedSchedule) [][]interface{} {
	maxMembers := 0
	for _, row := range schedule.Rows {
		maxMembers = max(maxMembers, len(row.Members))
	}

	// Columns to keep from a previous publish
	var extraNames []string
	var extraCols []int
	extrasByDate := make(map[string][]interface{})
	if len(existing) > headerRowIndex {
		oldHeader := existing[headerRowIndex]
		oldDateCol := findColumnIndex(oldHeader, "Date")
		for i := range oldHeader {
			name := cellString(oldHeader, i)
			if name != "" && !isManagedColumn(name) {
				extraNames = append(extraNames, name)
				extraCols = append(extraCols, i)
			}
		}
		for _, oldRow := range existing[headerRowIndex+1:] {
			date := cellString(oldRow, oldDateCol)
			if date == "" {
				continue
			}
			values := make([]interface{}, len(extraCols))
			for j, col := range extraCols {
				if col < len(oldRow) {
					values[j] = oldRow[col]
				} else {
					values[j] = ""
				}
			}
			extrasByDate[date] = values
		}
	}

	header := []interface{}{"Date", "Day", "Lessons"}
	for i := 0; i < maxMembers; i++ {
		header = append(header, fmt.Sprintf("%s%d", memberColumnPrefix, i+1))
	}
	for _, name := range extraNames {
		header = append(header, name)
	}

	rows := [][]interface{}{
		{"Cleaning rota", fmt.Sprintf("%s %d", schedule.Month, schedule.Year)},
		{},
		header,
	}

	for _, row := range schedule.Rows {
		date := row.Date.Format(scheduleDateFormat)
		sheetRow := []interface{}{date, row.Date.Weekday().String(), row.Lessons}
		for i := 0; i < maxMembers; i++ {
			if i < len(row.Members) {
				sheetRow = append(sheetRow, row.Members[i])
			} else {
				sheetRow = append(sheetRow, "")
			}
		}
		if extras, ok := extrasByDate[date]; ok {
			sheetRow = append(sheetRow, extras...)
		} else {
			for range extraNames {
				sheetRow = append(sheetRow, "")
			}
		}
		rows = append(rows, sheetRow)
	}

	return rows
}
