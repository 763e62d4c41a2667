package sheetsclient

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/cleaning-rota/pkg/core/model"
)

// Column names in the roster sheet
const (
	memberIDColumn      = "Member ID"
	memberNameColumn    = "Name"
	memberLessonsColumn = "Lessons"
)

// ListMembers reads the roster tab and parses it into members in sheet order.
// Members without a Member ID cell get an empty ID.
func (c *Client) ListMembers(ctx context.Context, spreadsheetID, tab string) ([]model.Member, error) {
	values, err := c.GetValues(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("roster tab %q is empty", tab)
	}

	members, err := parseMembers(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	c.logger.Debug("Read roster", zap.String("tab", tab), zap.Int("members", len(members)))

	return members, nil
}

// parseMembers converts raw sheet rows into members. The first row is the header;
// Name and Lessons are required columns, Member ID is optional.
func parseMembers(raw [][]interface{}) ([]model.Member, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	header := raw[0]
	idCol := findColumnIndex(header, memberIDColumn)
	nameCol := findColumnIndex(header, memberNameColumn)
	lessonsCol := findColumnIndex(header, memberLessonsColumn)

	if nameCol == -1 {
		return nil, fmt.Errorf("missing required field in header: %s", memberNameColumn)
	}
	if lessonsCol == -1 {
		return nil, fmt.Errorf("missing required field in header: %s", memberLessonsColumn)
	}

	members := make([]model.Member, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		name := cellString(row, nameCol)
		if name == "" {
			continue
		}

		lessons, err := model.ParseLessonDays(cellString(row, lessonsCol))
		if err != nil {
			// Sheet rows are 1-based
			return nil, fmt.Errorf("row %d (%s): %w", i+1, name, err)
		}

		members = append(members, model.Member{
			ID:      cellString(row, idCol),
			Name:    name,
			Lessons: lessons,
		})
	}

	return members, nil
}

// cellString returns the trimmed string at index, or "" if the cell is missing or not text
func cellString(row []interface{}, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	if str, ok := row[index].(string); ok {
		return strings.TrimSpace(str)
	}
	return ""
}

// findColumnIndex finds the index of a column by its header name, ignoring case and padding
func findColumnIndex(header []interface{}, columnName string) int {
	for i, cell := range header {
		if str, ok := cell.(string); ok && strings.EqualFold(strings.TrimSpace(str), columnName) {
			return i
		}
	}
	return -1
}
