package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/scheduler"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dep",
		Aliases: []string{"dependency"},
		Short:   "Manage dependencies between activities",
		Long: `Manage dependencies between activities.

Types: FS finish-to-start (default), SS start-to-start, FF finish-to-finish,
SF start-to-finish. DEP is the row number shown by "dep list" or an id prefix.`,
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepListCmd(app),
		newDepRemoveCmd(app),
		newDepRetypeCmd(app),
	)

	return cmd
}

// resolveDependency accepts a 1-based row of "dep list", a full id or a
// unique id prefix.
func resolveDependency(ctx context.Context, app *App, projectID, ref string) (*domain.Dependency, error) {
	deps, err := app.Dependencies.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(deps) {
			return nil, fmt.Errorf("dependency row %d out of range (project has %d)", n, len(deps))
		}
		return &deps[n-1], nil
	}
	var matches []int
	for i := range deps {
		if deps[i].ID == ref {
			return &deps[i], nil
		}
		if strings.HasPrefix(deps[i].ID, ref) {
			matches = append(matches, i)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("dependency not found: %q", ref)
	case 1:
		return &deps[matches[0]], nil
	default:
		return nil, fmt.Errorf("dependency ID prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func newDepAddCmd(app *App) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "add PROJECT SOURCE TARGET",
		Short: "Make TARGET depend on SOURCE",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := domain.ParseDependencyType(typ)
			if err != nil {
				return err
			}
			p, src, err := resolveActivity(ctx, app, args[0], args[1])
			if err != nil {
				return err
			}
			tgt, err := app.Activities.Resolve(ctx, p.ID, args[2])
			if err != nil {
				return err
			}

			d := &domain.Dependency{ProjectID: p.ID, SourceID: src.ID, TargetID: tgt.ID, Type: t}
			if err := app.Dependencies.Create(ctx, d); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %s %s %s\n", src.Name, formatter.StylePurple.Render("─"+string(t)+"→"), tgt.Name)
			if scheduler.DetectConflict(*src, *tgt, t) {
				fmt.Fprintln(out, formatter.StyleRed.Render(
					fmt.Sprintf("⚠ the current dates violate this dependency; run 'gantry fix %s'", p.ShortID)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&typ, "type", "t", string(domain.FinishToStart), "FS, SS, FF or SF")

	return cmd
}

func newDepListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [PROJECT]",
		Short: "List dependencies with their conflict state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args)
			if err != nil {
				return err
			}
			deps, err := app.Dependencies.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(deps) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No dependencies in %s.\n", p.ShortID)
				return nil
			}
			acts, err := app.Activities.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(),
				formatter.FormatDependencyTable(scheduler.EvaluateDependencies(acts, deps), acts))
			return nil
		},
	}
}

func newDepRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT DEP",
		Short: "Remove a dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			d, err := resolveDependency(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			if err := app.Dependencies.Delete(ctx, d.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed dependency %s\n", shortID(d.ID))
			return nil
		},
	}
}

func newDepRetypeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "retype PROJECT DEP TYPE",
		Short: "Change a dependency's type",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, err := domain.ParseDependencyType(args[2])
			if err != nil {
				return err
			}
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			d, err := resolveDependency(ctx, app, p.ID, args[1])
			if err != nil {
				return err
			}
			if err := app.Dependencies.UpdateType(ctx, d.ID, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dependency %s: %s → %s\n", shortID(d.ID), d.Type, t)
			return nil
		},
	}
}
