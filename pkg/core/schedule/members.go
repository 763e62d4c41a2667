package schedule

import (
	"fmt"

	"github.com/jakechorley/cleaning-rota/pkg/core/model"
)

// MemberGroups partitions a roster by lesson-day constraint.
// Each group keeps the order members had in the input.
type MemberGroups struct {
	// Unconstrained members attend no lessons and may clean on any eligible date
	Unconstrained []model.Member

	// DualConstrained members attend both Mon/Wed and Tue/Thu lessons
	DualConstrained []model.Member

	// MonWedOnly members clean on a Monday or Wednesday
	MonWedOnly []model.Member

	// TueThuOnly members clean on a Tuesday or Thursday
	TueThuOnly []model.Member
}

// Total returns the number of classified members
func (g *MemberGroups) Total() int {
	return len(g.Unconstrained) + len(g.DualConstrained) + len(g.MonWedOnly) + len(g.TueThuOnly)
}

// ClassifyMembers splits members into the four constraint groups.
//
// Recognised shapes:
//   - no lessons                -> Unconstrained
//   - {MonWed, TueThu}          -> DualConstrained (either order)
//   - {MonWed}                  -> MonWedOnly
//   - {TueThu}                  -> TueThuOnly
//
// Anything else (unknown values, duplicates, more than two entries) returns
// ErrInvalidConstraintSet. Duplicate member IDs return ErrDuplicateMember.
func ClassifyMembers(members []model.Member) (*MemberGroups, error) {
	groups := &MemberGroups{
		Unconstrained:   []model.Member{},
		DualConstrained: []model.Member{},
		MonWedOnly:      []model.Member{},
		TueThuOnly:      []model.Member{},
	}

	seen := make(map[string]bool, len(members))

	for _, member := range members {
		if seen[member.ID] {
			return nil, fmt.Errorf("%w: id %q", ErrDuplicateMember, member.ID)
		}
		seen[member.ID] = true

		hasMonWed, hasTueThu := false, false
		for _, lesson := range member.Lessons {
			switch {
			case lesson == model.LessonMonWed && !hasMonWed:
				hasMonWed = true
			case lesson == model.LessonTueThu && !hasTueThu:
				hasTueThu = true
			default:
				return nil, fmt.Errorf("%w: member %q (%s) has lessons %v",
					ErrInvalidConstraintSet, member.ID, member.Name, member.Lessons)
			}
		}

		switch {
		case hasMonWed && hasTueThu:
			groups.DualConstrained = append(groups.DualConstrained, member)
		case hasMonWed:
			groups.MonWedOnly = append(groups.MonWedOnly, member)
		case hasTueThu:
			groups.TueThuOnly = append(groups.TueThuOnly, member)
		default:
			groups.Unconstrained = append(groups.Unconstrained, member)
		}
	}

	return groups, nil
}
