package schedule

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// DateFormat is the ISO-8601 layout used for every date handed to callers
const DateFormat = "2006-01-02"

// Bucket identifies which lesson-day pair an eligible date belongs to
type Bucket int

const (
	BucketMonWed Bucket = iota
	BucketTueThu
	BucketOther
)

func (b Bucket) String() string {
	switch b {
	case BucketMonWed:
		return "MonWed"
	case BucketTueThu:
		return "TueThu"
	default:
		return "Other"
	}
}

// DefaultWeekdays is the cleaning cadence: Monday to Thursday
var DefaultWeekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday}

// EligibleDate is a date within the target month that falls on an eligible weekday
type EligibleDate struct {
	Date   time.Time
	Bucket Bucket
}

// String returns the date in YYYY-MM-DD form
func (d EligibleDate) String() string {
	return d.Date.Format(DateFormat)
}

// CalendarDays holds a month's eligible dates split by bucket, each in ascending order
type CalendarDays struct {
	Year   int
	Month  time.Month
	MonWed []EligibleDate
	TueThu []EligibleDate
	Other  []EligibleDate
}

// All returns every eligible date in bucket order (MonWed, TueThu, Other)
func (c *CalendarDays) All() []EligibleDate {
	all := make([]EligibleDate, 0, len(c.MonWed)+len(c.TueThu)+len(c.Other))
	all = append(all, c.MonWed...)
	all = append(all, c.TueThu...)
	all = append(all, c.Other...)
	return all
}

// Chronological returns every eligible date sorted by calendar date
func (c *CalendarDays) Chronological() []EligibleDate {
	all := c.All()
	slices.SortFunc(all, func(a, b EligibleDate) int {
		return a.Date.Compare(b.Date)
	})
	return all
}

// rruleWeekdays is indexed by time.Weekday
var rruleWeekdays = []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// weekdayTokens maps RRULE BYDAY tokens to weekdays
var weekdayTokens = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

// ParseWeekdays converts RRULE weekday tokens (MO, TU, ...) to weekdays.
// Duplicates are dropped; the first occurrence wins.
func ParseWeekdays(tokens []string) ([]time.Weekday, error) {
	weekdays := make([]time.Weekday, 0, len(tokens))
	for _, token := range tokens {
		weekday, ok := weekdayTokens[strings.ToUpper(strings.TrimSpace(token))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", token)
		}
		if !slices.Contains(weekdays, weekday) {
			weekdays = append(weekdays, weekday)
		}
	}
	return weekdays, nil
}

// BucketFor returns the bucket a weekday belongs to
func BucketFor(weekday time.Weekday) Bucket {
	switch weekday {
	case time.Monday, time.Wednesday:
		return BucketMonWed
	case time.Tuesday, time.Thursday:
		return BucketTueThu
	default:
		return BucketOther
	}
}

// ClassifyDays computes the eligible dates of a month, split into buckets.
//
// The month is one-based (January == 1). Only dates whose weekday is in
// weekdays are produced. An empty weekday set yields empty buckets.
//
// Returns ErrInvalidMonth if year is outside 1..9999 or month outside 1..12.
func ClassifyDays(year int, month time.Month, weekdays []time.Weekday) (*CalendarDays, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d", ErrInvalidMonth, year)
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidMonth, int(month))
	}

	days := &CalendarDays{
		Year:   year,
		Month:  month,
		MonWed: []EligibleDate{},
		TueThu: []EligibleDate{},
		Other:  []EligibleDate{},
	}

	// An empty BYDAY would mean "every day" to the recurrence rule
	if len(weekdays) == 0 {
		return days, nil
	}

	byWeekday := make([]rrule.Weekday, 0, len(weekdays))
	for _, weekday := range weekdays {
		byWeekday = append(byWeekday, rruleWeekdays[weekday])
	}

	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   firstDay,
		Until:     lastDay,
		Byweekday: byWeekday,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence for %d-%02d: %w", year, int(month), err)
	}

	for _, occurrence := range rule.All() {
		date := EligibleDate{Date: occurrence, Bucket: BucketFor(occurrence.Weekday())}
		switch date.Bucket {
		case BucketMonWed:
			days.MonWed = append(days.MonWed, date)
		case BucketTueThu:
			days.TueThu = append(days.TueThu, date)
		default:
			days.Other = append(days.Other, date)
		}
	}

	return days, nil
}
