package db

import "context"

// MemberStore defines the roster operations
type MemberStore interface {
	// GetMembers returns the roster ordered by position
	GetMembers(ctx context.Context) ([]Member, error)
	InsertMember(ctx context.Context, member *Member) error
	// DeleteMember returns ErrNotFound if no member has the id
	DeleteMember(ctx context.Context, id string) error
	// ReplaceMembers atomically swaps the whole roster
	ReplaceMembers(ctx context.Context, members []Member) error
}

// ScheduleStore defines the schedule history operations
type ScheduleStore interface {
	GetScheduleRuns(ctx context.Context) ([]ScheduleRun, error)
	// InsertScheduleRun stores a run and all its assignments atomically
	InsertScheduleRun(ctx context.Context, run *ScheduleRun, assignments []Assignment) error
	// GetAssignments returns a run's assignments ordered by Seq
	GetAssignments(ctx context.Context, runID string) ([]Assignment, error)
}

// Database defines the interface for all database operations.
// Both postgres.DB and boltdb.DB implement this interface.
type Database interface {
	MemberStore
	ScheduleStore
	Close() error
}
