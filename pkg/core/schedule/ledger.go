package schedule

import (
	"strconv"

	"github.com/jakechorley/cleaning-rota/pkg/core/model"
)

// Ledger records which members are assigned to each eligible date during one run.
// Entries are only ever appended.
type Ledger struct {
	// dates holds registered dates in registration order
	dates   []EligibleDate
	entries map[string][]model.Member
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		dates:   []EligibleDate{},
		entries: make(map[string][]model.Member),
	}
}

// Register adds an empty entry for a date. Registering a known date is a no-op.
func (l *Ledger) Register(date EligibleDate) {
	key := date.String()
	if _, exists := l.entries[key]; exists {
		return
	}
	l.entries[key] = []model.Member{}
	l.dates = append(l.dates, date)
}

// Assign appends a member to a date's entry, registering the date if needed
func (l *Ledger) Assign(date EligibleDate, member model.Member) {
	l.Register(date)
	key := date.String()
	l.entries[key] = append(l.entries[key], member)
}

// Count returns how many members are assigned to a date (0 for unknown dates)
func (l *Ledger) Count(date EligibleDate) int {
	return len(l.entries[date.String()])
}

// Members returns the members assigned to a date in assignment order
func (l *Ledger) Members(date EligibleDate) []model.Member {
	return l.entries[date.String()]
}

// Dates returns the registered dates in registration order
func (l *Ledger) Dates() []EligibleDate {
	return l.dates
}

// Spread returns max minus min assigned count across the given dates
func (l *Ledger) Spread(dates []EligibleDate) int {
	if len(dates) == 0 {
		return 0
	}
	minCount, maxCount := l.Count(dates[0]), l.Count(dates[0])
	for _, date := range dates[1:] {
		count := l.Count(date)
		minCount = min(minCount, count)
		maxCount = max(maxCount, count)
	}
	return maxCount - minCount
}

// Assignment is a single member's cleaning duty for the month
type Assignment struct {
	// ID is unique within one run; runs number from "0"
	ID     string
	Member model.Member
	Date   EligibleDate
}

// Day returns the assigned date as YYYY-MM-DD
func (a Assignment) Day() string {
	return a.Date.String()
}

// run holds the mutable state of a single Generate call
type run struct {
	ledger      *Ledger
	nextID      int
	assignments []Assignment
}

func newRun() *run {
	return &run{
		ledger:      NewLedger(),
		assignments: []Assignment{},
	}
}

// assemble builds the output record for a placed member
func (r *run) assemble(member model.Member, date EligibleDate) Assignment {
	assignment := Assignment{
		ID:     strconv.Itoa(r.nextID),
		Member: member,
		Date:   date,
	}
	r.nextID++
	return assignment
}

// place records a member on a date in the ledger and emits its assignment
func (r *run) place(member model.Member, date EligibleDate) {
	r.ledger.Assign(date, member)
	r.assignments = append(r.assignments, r.assemble(member, date))
}
