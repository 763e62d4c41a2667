package db

import (
	"errors"
	"fmt"

	"github.com/jakechorley/cleaning-rota/pkg/core/model"
)

// ErrNotFound is returned when a record lookup by id matches nothing
var ErrNotFound = errors.New("record not found")

// Member represents a database roster record
type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Lessons  string `json:"lessons"` // Comma separated lesson day values, empty for none
	Position int    `json:"position"`
}

// ScheduleRun represents one persisted Generate call
type ScheduleRun struct {
	ID          string `json:"id"`
	Month       string `json:"month"`      // YYYY-MM
	CreatedAt   string `json:"created_at"` // RFC3339
	MemberCount int    `json:"member_count"`
}

// Assignment represents a single member's cleaning date within a run
type Assignment struct {
	RunID      string `json:"run_id"`
	Seq        int    `json:"seq"`       // Placement order within the run
	RecordID   string `json:"record_id"` // Engine record id, unique within the run
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Date       string `json:"date"` // YYYY-MM-DD
}

// ToModel converts a stored member to the engine representation
func (m Member) ToModel() (model.Member, error) {
	lessons, err := model.ParseLessonDays(m.Lessons)
	if err != nil {
		return model.Member{}, fmt.Errorf("member %s (%s): %w", m.ID, m.Name, err)
	}
	return model.Member{ID: m.ID, Name: m.Name, Lessons: lessons}, nil
}

// MemberFromModel converts an engine member to a stored record at the given roster position
func MemberFromModel(m model.Member, position int) Member {
	return Member{
		ID:       m.ID,
		Name:     m.Name,
		Lessons:  model.FormatLessonDays(m.Lessons),
		Position: position,
	}
}
