package commands

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/cleaning-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/cleaning-rota/pkg/core/schedule"
	"github.com/jakechorley/cleaning-rota/pkg/core/services"
	"github.com/jakechorley/cleaning-rota/pkg/db"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
)

// GenerateScheduleCmd creates the generateSchedule command
func GenerateScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateSchedule <YYYY-MM>",
		Short: "Assign every roster member one cleaning date in a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			app.Logger.Debug("generateSchedule command",
				zap.String("month", args[0]),
				zap.Bool("dry_run", dryRun))

			generated, err := services.GenerateSchedule(app.Ctx, app.Database, app.Cfg, app.Logger, args[0], dryRun)
			if err != nil {
				return fmt.Errorf("schedule generation failed: %w", err)
			}

			result := generated.Result
			fmt.Printf("\n🧹 Cleaning schedule for %s\n\n", generated.Run.Month)
			fmt.Printf("Run ID:   %s\n", generated.Run.ID)
			fmt.Printf("Members:  %d (MW %d, TT %d, both %d, none %d)\n",
				result.Groups.Total(),
				len(result.Groups.MonWedOnly),
				len(result.Groups.TueThuOnly),
				len(result.Groups.DualConstrained),
				len(result.Groups.Unconstrained))
			if dryRun {
				fmt.Printf("Mode:     🧪 DRY RUN (not saved)\n")
			} else {
				fmt.Printf("Status:   ✅ saved\n")
			}
			fmt.Println()

			rows := make([]dateRow, len(result.Loads))
			for i, load := range result.Loads {
				names := make([]string, len(load.Members))
				for j, m := range load.Members {
					names[j] = m.Name
				}
				rows[i] = dateRow{Date: load.Date.Date, Bucket: load.Date.Bucket, Names: names}
			}
			printDateTable(rows)

			if dryRun {
				fmt.Println("💡 This was a dry run. Use without --dry-run to save the schedule.")
			}

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run without saving to database")

	return cmd
}

// ViewScheduleCmd creates the viewSchedule command
func ViewScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewSchedule <YYYY-MM>",
		Short: "Show the latest saved schedule for a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := services.ViewSchedule(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n🧹 Cleaning schedule for %s\n\n", view.Run.Month)
			fmt.Printf("Run ID:   %s\n", view.Run.ID)
			fmt.Printf("Created:  %s\n", view.Run.CreatedAt)
			fmt.Printf("Members:  %d\n\n", view.Run.MemberCount)

			rows, err := rowsFromAssignments(view.Assignments)
			if err != nil {
				return err
			}
			printDateTable(rows)

			return nil
		},
	}
}

// PublishScheduleCmd creates the publishSchedule command
func PublishScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishSchedule <YYYY-MM>",
		Short: "Publish the latest saved schedule for a month to the schedule sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.SheetsClient()
			if err != nil {
				return err
			}

			published, err := services.PublishSchedule(app.Ctx, app.Database, client, app.Cfg, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Published %d dates to tab %q\n\n",
				len(published.Rows),
				sheetsclient.ScheduleTabTitle(published.Year, published.Month))
			return nil
		},
	}
}

// dateRow is one line of the terminal schedule table
type dateRow struct {
	Date   time.Time
	Bucket schedule.Bucket
	Names  []string
}

// rowsFromAssignments groups stored assignments by date in date order.
// Stored runs do not carry buckets, so they are derived from the weekday.
func rowsFromAssignments(assignments []db.Assignment) ([]dateRow, error) {
	byDate := make(map[string]*dateRow)
	var rows []*dateRow

	for _, a := range assignments {
		row, ok := byDate[a.Date]
		if !ok {
			date, err := time.Parse(schedule.DateFormat, a.Date)
			if err != nil {
				return nil, fmt.Errorf("assignment %s has invalid date %q: %w", a.RecordID, a.Date, err)
			}
			row = &dateRow{Date: date, Bucket: schedule.BucketFor(date.Weekday())}
			byDate[a.Date] = row
			rows = append(rows, row)
		}
		row.Names = append(row.Names, a.MemberName)
	}

	slices.SortFunc(rows, func(a, b *dateRow) int {
		return a.Date.Compare(b.Date)
	})

	out := make([]dateRow, len(rows))
	for i, row := range rows {
		out[i] = *row
	}
	return out, nil
}

// loadColor highlights dates above or below the average load
func loadColor(count int, average float64) string {
	switch {
	case count == 0:
		return colorDim
	case float64(count) > average+0.5:
		return colorYellow
	default:
		return colorGreen
	}
}

func printDateTable(rows []dateRow) {
	total := 0
	for _, row := range rows {
		total += len(row.Names)
	}
	average := 0.0
	if len(rows) > 0 {
		average = float64(total) / float64(len(rows))
	}

	const (
		dateColWidth   = 16
		bucketColWidth = 8
		countColWidth  = 5
	)

	fmt.Printf("%s%-*s  %-*s  %-*s  %s%s\n",
		colorBold,
		dateColWidth, "Date",
		bucketColWidth, "Lessons",
		countColWidth, "Count",
		"Members",
		colorReset)
	fmt.Printf("%s  %s  %s  %s\n",
		strings.Repeat("-", dateColWidth),
		strings.Repeat("-", bucketColWidth),
		strings.Repeat("-", countColWidth),
		strings.Repeat("-", 30))

	for _, row := range rows {
		names := "-"
		if len(row.Names) > 0 {
			names = strings.Join(row.Names, ", ")
		}
		fmt.Printf("%-*s  %-*s  %s%-*d%s  %s\n",
			dateColWidth, row.Date.Format("Mon 02 Jan 2006"),
			bucketColWidth, row.Bucket,
			loadColor(len(row.Names), average), countColWidth, len(row.Names), colorReset,
			names)
	}
	fmt.Printf("\n%d assignments over %d dates\n\n", total, len(rows))
}
