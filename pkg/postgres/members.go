package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/cleaning-rota/pkg/db"
)

// GetMembers retrieves the roster ordered by position
func (d *DB) GetMembers(ctx context.Context) ([]db.Member, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, lessons, position
		FROM member
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}

	members, err := pgx.CollectRows(rows, pgx.RowToStructByPos[db.Member])
	if err != nil {
		return nil, fmt.Errorf("failed to scan members: %w", err)
	}

	return members, nil
}

// InsertMember inserts a new member record
func (d *DB) InsertMember(ctx context.Context, member *db.Member) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO member (id, name, lessons, position)
		VALUES ($1, $2, $3, $4)
	`, member.ID, member.Name, member.Lessons, member.Position)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// DeleteMember removes a member by id
func (d *DB) DeleteMember(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM member WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete member %s: %w", id, db.ErrNotFound)
	}
	return nil
}

// ReplaceMembers swaps the whole roster in one transaction
func (d *DB) ReplaceMembers(ctx context.Context, members []db.Member) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM member`); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"member"},
		[]string{"id", "name", "lessons", "position"},
		pgx.CopyFromSlice(len(members), func(i int) ([]any, error) {
			m := members[i]
			return []any{m.ID, m.Name, m.Lessons, m.Position}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy members: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
