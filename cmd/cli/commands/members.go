package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/cleaning-rota/pkg/core/model"
	"github.com/jakechorley/cleaning-rota/pkg/core/services"
)

// ListMembersCmd creates the listMembers command
func ListMembersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listMembers",
		Short: "List the stored roster in allocation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := services.ListMembers(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d members:\n\n", len(members))
			for i, m := range members {
				fmt.Printf("  %2d. %-24s %-8s %s\n", i+1, m.Name, lessonsLabel(m.Lessons), m.ID)
			}
			fmt.Println()

			return nil
		},
	}
}

// AddMemberCmd creates the addMember command
func AddMemberCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addMember <name>",
		Short: "Add a member to the end of the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lessonsFlag, _ := cmd.Flags().GetString("lessons")

			lessons, err := model.ParseLessonDays(lessonsFlag)
			if err != nil {
				return fmt.Errorf("invalid --lessons: %w", err)
			}

			member, err := services.AddMember(app.Ctx, app.Database, app.Logger, args[0], lessons)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Added %s (%s) with lessons %s\n\n", member.Name, member.ID, lessonsLabel(member.Lessons))
			return nil
		},
	}

	cmd.Flags().String("lessons", "", "Lesson pairs the member attends, e.g. MW,TT")

	return cmd
}

// RemoveMemberCmd creates the removeMember command
func RemoveMemberCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "removeMember <member_id>",
		Short: "Remove a member from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.RemoveMember(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}

			fmt.Printf("\n✓ Removed member %s\n\n", args[0])
			return nil
		},
	}
}

// ImportMembersCmd creates the importMembers command
func ImportMembersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importMembers",
		Short: "Replace the stored roster with the roster sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			members, err := services.ImportMembers(app.Ctx, app.Database, client, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			app.Logger.Debug("importMembers finished", zap.Int("count", len(members)))

			fmt.Printf("\n✓ Imported %d members from tab %q\n\n", len(members), app.Cfg.RosterTab)
			return nil
		},
	}
}

// lessonsLabel renders lessons as short labels, "-" for none
func lessonsLabel(lessons []model.LessonDay) string {
	if len(lessons) == 0 {
		return "-"
	}
	labels := make([]string, len(lessons))
	for i, l := range lessons {
		labels[i] = l.Label()
	}
	return strings.Join(labels, ",")
}
