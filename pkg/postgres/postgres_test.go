package postgres

import (
	"context"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/cleaning-rota/pkg/db"
)

func TestPendingMigrations_SortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_more.sql": {Data: []byte("ALTER TABLE member ADD COLUMN x INT;")},
		"migrations/001_init.sql": {Data: []byte("CREATE TABLE member ();")},
		"migrations/003_next.sql": {Data: []byte("SELECT 1;")},
		"migrations/README.md":    {Data: []byte("not sql")},
		"migrations/nested/x.sql": {Data: []byte("SELECT 2;")},
	}

	pending, err := pendingMigrations(fsys, "migrations", map[string]bool{"002_more.sql": true})
	require.NoError(t, err)

	require.Len(t, pending, 2)
	assert.Equal(t, "001_init.sql", pending[0].Name)
	assert.Equal(t, "CREATE TABLE member ();", pending[0].SQL)
	assert.Equal(t, "003_next.sql", pending[1].Name)
}

func TestPendingMigrations_MissingDir(t *testing.T) {
	_, err := pendingMigrations(fstest.MapFS{}, "migrations", nil)
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	pending, err := pendingMigrations(migrationsFS, "migrations", nil)
	require.NoError(t, err)

	require.NotEmpty(t, pending)
	assert.Equal(t, "001_init.sql", pending[0].Name)
	for _, table := range []string{"member", "schedule_run", "assignment"} {
		assert.Contains(t, pending[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

// TestDB_Integration runs against a real server when CLEANING_ROTA_TEST_DATABASE_URL is set
func TestDB_Integration(t *testing.T) {
	connString := os.Getenv("CLEANING_ROTA_TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("CLEANING_ROTA_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := NewDB(ctx, connString)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RunMigrations(ctx, zap.NewNop()))
	require.NoError(t, store.RunMigrations(ctx, zap.NewNop()), "migrations are idempotent")

	members := []db.Member{
		{ID: uuid.NewString(), Name: "Alice", Lessons: "lessonMW", Position: 0},
		{ID: uuid.NewString(), Name: "Bob", Position: 1},
	}
	require.NoError(t, store.ReplaceMembers(ctx, members))

	got, err := store.GetMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, members, got)

	require.NoError(t, store.DeleteMember(ctx, members[1].ID))
	assert.ErrorIs(t, store.DeleteMember(ctx, members[1].ID), db.ErrNotFound)

	run := &db.ScheduleRun{
		ID:          uuid.NewString(),
		Month:       "2025-03",
		CreatedAt:   time.Date(2025, time.February, 20, 10, 0, 0, 0, time.UTC).Format(time.RFC3339),
		MemberCount: 1,
	}
	require.NoError(t, store.InsertScheduleRun(ctx, run, []db.Assignment{
		{Seq: 0, RecordID: "0", MemberID: members[0].ID, MemberName: "Alice", Date: "2025-03-03"},
	}))

	assignments, err := store.GetAssignments(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, run.ID, assignments[0].RunID)
	assert.Equal(t, "2025-03-03", assignments[0].Date)

	runs, err := store.GetScheduleRuns(ctx)
	require.NoError(t, err)
	assert.Contains(t, runs, *run)
}
