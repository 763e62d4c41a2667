package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/cleaning-rota/internal/config"
	"github.com/jakechorley/cleaning-rota/pkg/core/model"
	"github.com/jakechorley/cleaning-rota/pkg/core/schedule"
	"github.com/jakechorley/cleaning-rota/pkg/db"
)

// RosterReader reads the member roster from an external sheet
type RosterReader interface {
	ListMembers(ctx context.Context, spreadsheetID, tab string) ([]model.Member, error)
}

// ListMembers returns the stored roster in position order
func ListMembers(ctx context.Context, store db.MemberStore, logger *zap.Logger) ([]model.Member, error) {
	stored, err := store.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	members, err := toModelMembers(stored)
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded roster", zap.Int("count", len(members)))
	return members, nil
}

// AddMember appends a new member to the end of the roster
func AddMember(ctx context.Context, store db.MemberStore, logger *zap.Logger, name string, lessons []model.LessonDay) (*model.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("member name is required")
	}

	member := model.Member{
		ID:      uuid.New().String(),
		Name:    name,
		Lessons: lessons,
	}

	// Reject lesson sets the engine would refuse later
	if _, err := schedule.ClassifyMembers([]model.Member{member}); err != nil {
		return nil, err
	}

	stored, err := store.GetMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	position := 0
	for _, m := range stored {
		position = max(position, m.Position+1)
	}

	record := db.MemberFromModel(member, position)
	if err := store.InsertMember(ctx, &record); err != nil {
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}

	logger.Info("Added member",
		zap.String("id", member.ID),
		zap.String("name", member.Name),
		zap.String("lessons", record.Lessons),
		zap.Int("position", position))

	return &member, nil
}

// RemoveMember deletes a member by id
func RemoveMember(ctx context.Context, store db.MemberStore, logger *zap.Logger, id string) error {
	if err := store.DeleteMember(ctx, id); err != nil {
		return fmt.Errorf("failed to remove member %s: %w", id, err)
	}

	logger.Info("Removed member", zap.String("id", id))
	return nil
}

// ImportMembers replaces the stored roster with the roster sheet.
// Sheet order becomes roster order; rows without a Member ID get a new one.
func ImportMembers(ctx context.Context, store db.MemberStore, roster RosterReader, cfg *config.Config, logger *zap.Logger) ([]model.Member, error) {
	if cfg.RosterSheetID == "" {
		return nil, fmt.Errorf("rosterSheetID is not configured")
	}

	logger.Debug("Reading roster sheet", zap.String("sheet_id", cfg.RosterSheetID), zap.String("tab", cfg.RosterTab))
	members, err := roster.ListMembers(ctx, cfg.RosterSheetID, cfg.RosterTab)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	generated := 0
	for i := range members {
		if members[i].ID == "" {
			members[i].ID = uuid.New().String()
			generated++
		}
	}

	groups, err := schedule.ClassifyMembers(members)
	if err != nil {
		return nil, fmt.Errorf("roster sheet is invalid: %w", err)
	}

	records := make([]db.Member, len(members))
	for i, m := range members {
		records[i] = db.MemberFromModel(m, i)
	}

	if err := store.ReplaceMembers(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to store roster: %w", err)
	}

	logger.Info("Imported roster",
		zap.Int("members", len(members)),
		zap.Int("generated_ids", generated),
		zap.Int("mon_wed_only", len(groups.MonWedOnly)),
		zap.Int("tue_thu_only", len(groups.TueThuOnly)),
		zap.Int("dual", len(groups.DualConstrained)),
		zap.Int("unconstrained", len(groups.Unconstrained)))

	return members, nil
}
