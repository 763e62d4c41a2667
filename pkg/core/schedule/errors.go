package schedule

import "errors"

var (
	// ErrInvalidMonth is returned when the year/month pair is not a real calendar month
	ErrInvalidMonth = errors.New("invalid month")

	// ErrNoEligibleDates is returned when a non-empty member group has no candidate dates
	ErrNoEligibleDates = errors.New("no eligible dates")

	// ErrInvalidConstraintSet is returned when a member's lesson days match none of the
	// recognised shapes (none, MonWed, TueThu, or both)
	ErrInvalidConstraintSet = errors.New("invalid constraint set")

	// ErrDuplicateMember is returned when two members share an identifier
	ErrDuplicateMember = errors.New("duplicate member")
)
