package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/cleaning-rota/pkg/db"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "rota.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestMembers_InsertGetDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	members, err := store.GetMembers(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)

	require.NoError(t, store.InsertMember(ctx, &db.Member{ID: "b", Name: "Bob", Lessons: "lessonTT", Position: 1}))
	require.NoError(t, store.InsertMember(ctx, &db.Member{ID: "a", Name: "Alice", Position: 0}))
	require.NoError(t, store.InsertMember(ctx, &db.Member{ID: "c", Name: "Carol", Lessons: "lessonMW,lessonTT", Position: 2}))

	members, err = store.GetMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, "a", members[0].ID, "ordered by position, not key")
	assert.Equal(t, "b", members[1].ID)
	assert.Equal(t, "lessonMW,lessonTT", members[2].Lessons)

	err = store.InsertMember(ctx, &db.Member{ID: "a", Name: "Again"})
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, store.DeleteMember(ctx, "b"))
	err = store.DeleteMember(ctx, "b")
	assert.ErrorIs(t, err, db.ErrNotFound)

	members, err = store.GetMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestMembers_Replace(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	require.NoError(t, store.InsertMember(ctx, &db.Member{ID: "old", Name: "Old"}))

	require.NoError(t, store.ReplaceMembers(ctx, []db.Member{
		{ID: "x", Name: "X", Position: 0},
		{ID: "y", Name: "Y", Position: 1},
	}))

	members, err := store.GetMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "x", members[0].ID)
	assert.Equal(t, "y", members[1].ID)

	err = store.ReplaceMembers(ctx, []db.Member{{ID: "z"}, {ID: "z"}})
	assert.ErrorContains(t, err, "duplicate member id")

	members, err = store.GetMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2, "failed replace leaves the roster untouched")
}

func TestScheduleRuns_InsertAndRead(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	first := &db.ScheduleRun{ID: "run-1", Month: "2025-03", CreatedAt: "2025-02-20T10:00:00Z", MemberCount: 2}
	require.NoError(t, store.InsertScheduleRun(ctx, first, []db.Assignment{
		{Seq: 0, RecordID: "0", MemberID: "a", MemberName: "Alice", Date: "2025-03-03"},
		{Seq: 1, RecordID: "1", MemberID: "b", MemberName: "Bob", Date: "2025-03-04"},
	}))

	second := &db.ScheduleRun{ID: "run-2", Month: "2025-04", CreatedAt: "2025-03-20T10:00:00Z", MemberCount: 0}
	require.NoError(t, store.InsertScheduleRun(ctx, second, nil))

	runs, err := store.GetScheduleRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, *first, runs[0])
	assert.Equal(t, *second, runs[1])

	assignments, err := store.GetAssignments(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "run-1", assignments[0].RunID)
	assert.Equal(t, "Alice", assignments[0].MemberName)
	assert.Equal(t, 1, assignments[1].Seq)
	assert.Equal(t, "2025-03-04", assignments[1].Date)

	empty, err := store.GetAssignments(ctx, "run-2")
	require.NoError(t, err)
	assert.Empty(t, empty)

	unknown, err := store.GetAssignments(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, unknown)

	err = store.InsertScheduleRun(ctx, first, nil)
	assert.ErrorContains(t, err, "already exists")
}

func TestScheduleRuns_OrderedBySeqBeyondOneByte(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t)

	assignments := make([]db.Assignment, 300)
	for i := range assignments {
		assignments[i] = db.Assignment{Seq: len(assignments) - 1 - i, MemberID: "m"}
	}
	require.NoError(t, store.InsertScheduleRun(ctx, &db.ScheduleRun{ID: "big"}, assignments))

	got, err := store.GetAssignments(ctx, "big")
	require.NoError(t, err)
	require.Len(t, got, 300)
	for i, a := range got {
		assert.Equal(t, i, a.Seq)
	}
}

func TestDB_RespectsCancelledContext(t *testing.T) {
	store := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.GetMembers(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	err = store.InsertMember(ctx, &db.Member{ID: "a"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rota.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.InsertMember(ctx, &db.Member{ID: "a", Name: "Alice"}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	members, err := store.GetMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Alice", members[0].Name)
}
