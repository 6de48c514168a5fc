package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"act"},
		Short:   "Manage the activities of a project",
		Long: `Manage the activities of a project.

ACTIVITY may be the row number shown by "activity list", an id, a unique id
prefix or the exact activity name.`,
	}

	cmd.AddCommand(
		newActivityAddCmd(app),
		newActivityListCmd(app),
		newActivityRenameCmd(app),
		newActivitySetCmd(app),
		newActivityRemoveCmd(app),
		newActivityShiftCmd(app),
	)

	return cmd
}

func parseStatus(s string) (domain.ActivityStatus, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if !domain.ValidActivityStatuses[norm] {
		return "", fmt.Errorf("invalid status %q (expected pending, in_progress or completed)", s)
	}
	return domain.ActivityStatus(norm), nil
}

func anyChanged(fs *pflag.FlagSet, names ...string) bool {
	for _, n := range names {
		if fs.Changed(n) {
			return true
		}
	}
	return false
}

func newActivityAddCmd(app *App) *cobra.Command {
	var name, start, end, owner, status string

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add an activity; omit --end for a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			a := &domain.Activity{ProjectID: p.ID, Name: name, Owner: owner}
			if a.StartDate, err = parseDayFlag("start", start); err != nil {
				return err
			}
			if end != "" {
				e, err := parseDayFlag("end", end)
				if err != nil {
					return err
				}
				a.EndDate = &e
			}
			if status != "" {
				if a.Status, err = parseStatus(status); err != nil {
					return err
				}
			}

			if err := app.Activities.Create(ctx, a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s (%s)\n",
				a.Name, p.ShortID, formatter.DateRange(a.StartDate, a.EndDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Activity name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD); omit for a milestone")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner")
	cmd.Flags().StringVar(&status, "status", "", "pending, in_progress or completed")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [PROJECT]",
		Short: "List activities in chart row order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args)
			if err != nil {
				return err
			}
			acts, err := app.Activities.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(acts) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No activities in %s.\n", p.ShortID)
				return nil
			}
			conflicts, err := app.Schedule.Conflicts(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityTable(acts, scheduler.ConflictedActivities(conflicts)))
			return nil
		},
	}
}

func newActivityRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename PROJECT ACTIVITY NAME",
		Short: "Rename an activity",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, a, err := resolveActivity(ctx, app, args[0], args[1])
			if err != nil {
				return err
			}
			if err := app.Activities.Rename(ctx, a.ID, args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s → %s\n", a.Name, strings.TrimSpace(args[2]))
			return nil
		},
	}
}

func newActivitySetCmd(app *App) *cobra.Command {
	var start, end, owner, status string
	var milestone bool

	cmd := &cobra.Command{
		Use:   "set PROJECT ACTIVITY",
		Short: "Change an activity's dates, owner or status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			if !anyChanged(flags, "start", "end", "milestone", "owner", "status") {
				return fmt.Errorf("nothing to change; pass --start, --end, --milestone, --owner or --status")
			}
			if milestone && flags.Changed("end") {
				return fmt.Errorf("--milestone and --end are mutually exclusive")
			}

			_, a, err := resolveActivity(ctx, app, args[0], args[1])
			if err != nil {
				return err
			}
			if flags.Changed("start") {
				if a.StartDate, err = parseDayFlag("start", start); err != nil {
					return err
				}
			}
			if flags.Changed("end") {
				e, err := parseDayFlag("end", end)
				if err != nil {
					return err
				}
				a.EndDate = &e
			}
			if milestone {
				a.EndDate = nil
			}
			if flags.Changed("owner") {
				a.Owner = strings.TrimSpace(owner)
			}
			if flags.Changed("status") {
				if a.Status, err = parseStatus(status); err != nil {
					return err
				}
			}

			if err := app.Activities.Update(ctx, a); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", a.Name, formatter.DateRange(a.StartDate, a.EndDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "New end date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&milestone, "milestone", false, "Clear the end date, making a milestone")
	cmd.Flags().StringVar(&owner, "owner", "", "New owner (empty clears it)")
	cmd.Flags().StringVar(&status, "status", "", "pending, in_progress or completed")

	return cmd
}

func newActivityRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT ACTIVITY",
		Short: "Remove an activity and its dependencies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, a, err := resolveActivity(ctx, app, args[0], args[1])
			if err != nil {
				return err
			}
			if err := app.Activities.Delete(ctx, a.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", a.Name)
			return nil
		},
	}
}

func newActivityShiftCmd(app *App) *cobra.Command {
	var mode string
	var days int

	cmd := &cobra.Command{
		Use:   "shift PROJECT ACTIVITY --days N",
		Short: "Move an activity, or one of its ends, by whole days",
		Long: `Move an activity, or one of its ends, by whole days.

--mode move shifts both dates, start moves only the start and end only the
end. A shift that would put the start after the end is rejected. Dependent
activities are not moved; run "gantry fix" to resolve any conflicts.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dragMode, err := scheduler.ParseDragMode(mode)
			if err != nil {
				return err
			}
			p, a, err := resolveActivity(ctx, app, args[0], args[1])
			if err != nil {
				return err
			}

			change, err := app.Schedule.Shift(ctx, a.ID, dragMode, days)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatDateChange(a.Name, change))

			conflicts, err := app.Schedule.Conflicts(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(conflicts) > 0 {
				fmt.Fprintln(out, formatter.StyleRed.Render(
					fmt.Sprintf("⚠ %d conflicting dependencies; run 'gantry fix %s'", len(conflicts), p.ShortID)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(scheduler.DragMove), "start, end or move")
	cmd.Flags().IntVar(&days, "days", 0, "Days to shift (negative moves earlier)")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}
