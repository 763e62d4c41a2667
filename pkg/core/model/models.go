package model

import (
	"fmt"
	"strings"
)

type LessonDay string

const (
	LessonMonWed LessonDay = "lessonMW"
	LessonTueThu LessonDay = "lessonTT"
)

func (l LessonDay) IsValid() bool {
	return l == LessonMonWed || l == LessonTueThu
}

// Label returns the short human form used in sheets and the CLI
func (l LessonDay) Label() string {
	switch l {
	case LessonMonWed:
		return "MW"
	case LessonTueThu:
		return "TT"
	default:
		return string(l)
	}
}

// ParseLessonDay accepts the stored value ("lessonMW"), the short label ("MW")
// or the spelled out day pair ("Mon/Wed"), case-insensitively
func ParseLessonDay(s string) (LessonDay, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "lessonmw", "mw", "mon/wed", "monwed":
		return LessonMonWed, nil
	case "lessontt", "tt", "tue/thu", "tuethu":
		return LessonTueThu, nil
	}
	return "", fmt.Errorf("unknown lesson day %q", s)
}

// ParseLessonDays parses a comma separated list of lesson days.
// An empty string yields an empty (non-nil) slice.
func ParseLessonDays(s string) ([]LessonDay, error) {
	lessons := []LessonDay{}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		lesson, err := ParseLessonDay(part)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

// FormatLessonDays joins lesson days with commas using their stored values
func FormatLessonDays(lessons []LessonDay) string {
	parts := make([]string, len(lessons))
	for i, lesson := range lessons {
		parts[i] = string(lesson)
	}
	return strings.Join(parts, ",")
}

// Member represents a roster member who takes a monthly cleaning duty
type Member struct {
	ID      string
	Name    string
	Lessons []LessonDay // Empty if the member attends no lessons
}

// HasLesson returns true if the member attends the given lesson day
func (m Member) HasLesson(lesson LessonDay) bool {
	for _, l := range m.Lessons {
		if l == lesson {
			return true
		}
	}
	return false
}
