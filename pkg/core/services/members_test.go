package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/cleaning-rota/internal/config"
	"github.com/jakechorley/cleaning-rota/pkg/core/model"
	"github.com/jakechorley/cleaning-rota/pkg/core/schedule"
	"github.com/jakechorley/cleaning-rota/pkg/db"
)

type mockRosterReader struct {
	members []model.Member
	err     error

	gotSheetID string
	gotTab     string
}

func (m *mockRosterReader) ListMembers(ctx context.Context, spreadsheetID, tab string) ([]model.Member, error) {
	m.gotSheetID = spreadsheetID
	m.gotTab = tab
	if m.err != nil {
		return nil, m.err
	}
	return m.members, nil
}

func TestListMembers(t *testing.T) {
	store := &mockStore{members: []db.Member{
		{ID: "m1", Name: "Alice", Lessons: "lessonMW", Position: 0},
		{ID: "m2", Name: "Bob", Position: 1},
	}}

	members, err := ListMembers(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Alice", members[0].Name)
	assert.Equal(t, []model.LessonDay{model.LessonMonWed}, members[0].Lessons)
	assert.Empty(t, members[1].Lessons)
}

func TestListMembers_StoreError(t *testing.T) {
	store := &mockStore{getMembersErr: errors.New("boom")}

	_, err := ListMembers(context.Background(), store, zap.NewNop())
	assert.ErrorContains(t, err, "failed to fetch members")
}

func TestAddMember_AppendsAtEnd(t *testing.T) {
	store := &mockStore{members: []db.Member{
		{ID: "m1", Name: "Alice", Position: 0},
		{ID: "m2", Name: "Bob", Position: 4},
	}}

	member, err := AddMember(context.Background(), store, zap.NewNop(), "  Carol ", []model.LessonDay{model.LessonTueThu})
	require.NoError(t, err)

	assert.Equal(t, "Carol", member.Name)
	assert.NotEmpty(t, member.ID)
	require.Len(t, store.members, 3)
	added := store.members[2]
	assert.Equal(t, member.ID, added.ID)
	assert.Equal(t, 5, added.Position)
	assert.Equal(t, "lessonTT", added.Lessons)
}

func TestAddMember_EmptyRoster(t *testing.T) {
	store := &mockStore{}

	_, err := AddMember(context.Background(), store, zap.NewNop(), "Alice", nil)
	require.NoError(t, err)
	require.Len(t, store.members, 1)
	assert.Equal(t, 0, store.members[0].Position)
	assert.Equal(t, "", store.members[0].Lessons)
}

func TestAddMember_Invalid(t *testing.T) {
	store := &mockStore{}

	_, err := AddMember(context.Background(), store, zap.NewNop(), "   ", nil)
	assert.ErrorContains(t, err, "name is required")

	_, err = AddMember(context.Background(), store, zap.NewNop(), "Alice", []model.LessonDay{"lessonFR"})
	assert.ErrorIs(t, err, schedule.ErrInvalidConstraintSet)

	assert.Empty(t, store.members)
}

func TestRemoveMember(t *testing.T) {
	store := &mockStore{members: []db.Member{{ID: "m1", Name: "Alice"}}}

	require.NoError(t, RemoveMember(context.Background(), store, zap.NewNop(), "m1"))
	assert.Empty(t, store.members)

	err := RemoveMember(context.Background(), store, zap.NewNop(), "m1")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestImportMembers(t *testing.T) {
	store := &mockStore{members: []db.Member{{ID: "old", Name: "Old member"}}}
	roster := &mockRosterReader{members: []model.Member{
		{ID: "m1", Name: "Alice", Lessons: []model.LessonDay{model.LessonMonWed}},
		{Name: "Bob"},
		{ID: "m3", Name: "Carol", Lessons: []model.LessonDay{model.LessonMonWed, model.LessonTueThu}},
	}}
	cfg := &config.Config{RosterSheetID: "roster-sheet", RosterTab: "Members"}

	members, err := ImportMembers(context.Background(), store, roster, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "roster-sheet", roster.gotSheetID)
	assert.Equal(t, "Members", roster.gotTab)
	assert.True(t, store.replaced)

	require.Len(t, members, 3)
	require.Len(t, store.members, 3)
	assert.Equal(t, "m1", store.members[0].ID)
	assert.NotEmpty(t, store.members[1].ID)
	assert.Equal(t, members[1].ID, store.members[1].ID)
	assert.Equal(t, "m3", store.members[2].ID)
	for i, m := range store.members {
		assert.Equal(t, i, m.Position)
	}
	assert.Equal(t, "lessonMW,lessonTT", store.members[2].Lessons)
}

func TestImportMembers_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		roster  *mockRosterReader
		wantErr string
		wantIs  error
	}{
		{
			name:    "no sheet configured",
			cfg:     &config.Config{},
			roster:  &mockRosterReader{},
			wantErr: "rosterSheetID is not configured",
		},
		{
			name:    "reader fails",
			cfg:     &config.Config{RosterSheetID: "s"},
			roster:  &mockRosterReader{err: errors.New("quota")},
			wantErr: "failed to read roster",
		},
		{
			name: "duplicate ids",
			cfg:  &config.Config{RosterSheetID: "s"},
			roster: &mockRosterReader{members: []model.Member{
				{ID: "m1", Name: "Alice"},
				{ID: "m1", Name: "Bob"},
			}},
			wantIs: schedule.ErrDuplicateMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}

			_, err := ImportMembers(context.Background(), store, tt.roster, tt.cfg, zap.NewNop())
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.False(t, store.replaced)
		})
	}
}
