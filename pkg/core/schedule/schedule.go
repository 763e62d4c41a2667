package schedule

import (
	"fmt"
	"slices"
	"time"

	"github.com/jakechorley/cleaning-rota/pkg/core/model"
)

// Engine generates monthly cleaning schedules.
// An Engine only holds configuration; every Generate call starts from an empty ledger.
type Engine struct {
	weekdays []time.Weekday
}

// NewEngine creates an engine for the given eligible weekdays.
// A nil slice uses DefaultWeekdays.
func NewEngine(weekdays []time.Weekday) *Engine {
	if weekdays == nil {
		weekdays = DefaultWeekdays
	}
	return &Engine{weekdays: slices.Clone(weekdays)}
}

// Weekdays returns the engine's eligible weekdays
func (e *Engine) Weekdays() []time.Weekday {
	return slices.Clone(e.weekdays)
}

// DateLoad is the final set of members assigned to one eligible date
type DateLoad struct {
	Date    EligibleDate
	Members []model.Member
}

// Result is the outcome of a Generate call
type Result struct {
	// Days is the classified calendar for the month
	Days *CalendarDays

	// Groups is the classified roster
	Groups *MemberGroups

	// Assignments holds one record per member, in placement order
	Assignments []Assignment

	// Loads holds every eligible date in chronological order with its assigned members
	Loads []DateLoad
}

// Generate assigns every member one cleaning date in the given month.
//
// Allocation order:
//  1. Mon/Wed-only members round robin over Mon/Wed dates
//  2. Tue/Thu-only members round robin over Tue/Thu dates
//  3. Dual-lesson members to the least loaded Mon/Wed or Tue/Thu date
//  4. Unconstrained members to the least loaded date of any bucket
//
// Later phases see the load left by earlier ones. Either every member is
// assigned or an error is returned with no partial result.
func (e *Engine) Generate(year int, month time.Month, members []model.Member) (*Result, error) {
	days, err := ClassifyDays(year, month, e.weekdays)
	if err != nil {
		return nil, err
	}

	groups, err := ClassifyMembers(members)
	if err != nil {
		return nil, err
	}

	r := newRun()
	for _, date := range days.All() {
		r.ledger.Register(date)
	}

	lessonDates := slices.Concat(days.MonWed, days.TueThu)
	anyDates := slices.Concat(lessonDates, days.Other)

	if err := r.allocateRoundRobin(groups.MonWedOnly, days.MonWed); err != nil {
		return nil, fmt.Errorf("failed to allocate Mon/Wed members: %w", err)
	}
	if err := r.allocateRoundRobin(groups.TueThuOnly, days.TueThu); err != nil {
		return nil, fmt.Errorf("failed to allocate Tue/Thu members: %w", err)
	}
	if err := r.allocateLeastLoaded(groups.DualConstrained, lessonDates); err != nil {
		return nil, fmt.Errorf("failed to allocate dual-lesson members: %w", err)
	}
	if err := r.allocateLeastLoaded(groups.Unconstrained, anyDates); err != nil {
		return nil, fmt.Errorf("failed to allocate members without lessons: %w", err)
	}

	loads := make([]DateLoad, 0, len(r.ledger.Dates()))
	for _, date := range days.Chronological() {
		loads = append(loads, DateLoad{
			Date:    date,
			Members: slices.Clone(r.ledger.Members(date)),
		})
	}

	return &Result{
		Days:        days,
		Groups:      groups,
		Assignments: r.assignments,
		Loads:       loads,
	}, nil
}
