package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/cleaning-rota/pkg/core/model"
)

func member(id string, lessons ...model.LessonDay) model.Member {
	return model.Member{ID: id, Name: "Member " + id, Lessons: lessons}
}

func memberIDs(members []model.Member) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

func TestClassifyMembers(t *testing.T) {
	members := []model.Member{
		member("a"),
		member("b", model.LessonMonWed),
		member("c", model.LessonTueThu),
		member("d", model.LessonMonWed, model.LessonTueThu),
		member("e", model.LessonTueThu, model.LessonMonWed),
		member("f"),
		member("g", model.LessonMonWed),
	}

	groups, err := ClassifyMembers(members)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "f"}, memberIDs(groups.Unconstrained))
	assert.Equal(t, []string{"d", "e"}, memberIDs(groups.DualConstrained))
	assert.Equal(t, []string{"b", "g"}, memberIDs(groups.MonWedOnly))
	assert.Equal(t, []string{"c"}, memberIDs(groups.TueThuOnly))
	assert.Equal(t, len(members), groups.Total())
}

func TestClassifyMembers_Empty(t *testing.T) {
	groups, err := ClassifyMembers(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, groups.Total())
	assert.NotNil(t, groups.Unconstrained)
	assert.NotNil(t, groups.DualConstrained)
	assert.NotNil(t, groups.MonWedOnly)
	assert.NotNil(t, groups.TueThuOnly)
}

func TestClassifyMembers_InvalidConstraintSet(t *testing.T) {
	tests := []struct {
		name    string
		lessons []model.LessonDay
	}{
		{"duplicate mon/wed", []model.LessonDay{model.LessonMonWed, model.LessonMonWed}},
		{"duplicate tue/thu", []model.LessonDay{model.LessonTueThu, model.LessonTueThu}},
		{"three entries", []model.LessonDay{model.LessonMonWed, model.LessonTueThu, model.LessonMonWed}},
		{"unknown value", []model.LessonDay{"lessonFri"}},
		{"empty value", []model.LessonDay{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := ClassifyMembers([]model.Member{member("ok"), member("bad", tt.lessons...)})
			assert.ErrorIs(t, err, ErrInvalidConstraintSet)
			assert.Contains(t, err.Error(), `"bad"`)
			assert.Nil(t, groups)
		})
	}
}

func TestClassifyMembers_DuplicateID(t *testing.T) {
	_, err := ClassifyMembers([]model.Member{
		member("x", model.LessonMonWed),
		member("y"),
		member("x"),
	})
	assert.ErrorIs(t, err, ErrDuplicateMember)
	assert.Contains(t, err.Error(), `"x"`)
}
