package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"go.etcd.io/bbolt"

	"github.com/jakechorley/cleaning-rota/pkg/db"
)

var _ db.Database = (*DB)(nil)

// GetMembers retrieves the roster ordered by position
func (d *DB) GetMembers(ctx context.Context) ([]db.Member, error) {
	members := []db.Member{}

	err := d.view(ctx, func(tx *bbolt.Tx) error {
		return tx.Bucket(membersBucket).ForEach(func(_, v []byte) error {
			var m db.Member
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("failed to unmarshal member: %w", err)
			}
			members = append(members, m)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}

	// Keys are member ids, so restore roster order
	slices.SortStableFunc(members, func(a, b db.Member) int {
		return a.Position - b.Position
	})

	return members, nil
}

// InsertMember inserts a new member record
func (d *DB) InsertMember(ctx context.Context, member *db.Member) error {
	if member.ID == "" {
		return fmt.Errorf("member id is required")
	}

	err := d.update(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(membersBucket)
		if b.Get([]byte(member.ID)) != nil {
			return fmt.Errorf("member %s already exists", member.ID)
		}
		return putJSON(b, []byte(member.ID), member)
	})
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// DeleteMember removes a member by id
func (d *DB) DeleteMember(ctx context.Context, id string) error {
	err := d.update(ctx, func(tx *bbolt.Tx) error {
		b := tx.Bucket(membersBucket)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("member %s: %w", id, db.ErrNotFound)
		}
		return b.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

// ReplaceMembers swaps the whole roster in one transaction
func (d *DB) ReplaceMembers(ctx context.Context, members []db.Member) error {
	err := d.update(ctx, func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(membersBucket); err != nil {
			return err
		}
		b, err := tx.CreateBucket(membersBucket)
		if err != nil {
			return err
		}

		for i := range members {
			key := []byte(members[i].ID)
			if b.Get(key) != nil {
				return fmt.Errorf("duplicate member id %s", members[i].ID)
			}
			if err := putJSON(b, key, &members[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace members: %w", err)
	}
	return nil
}
