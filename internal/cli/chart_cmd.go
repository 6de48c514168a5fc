package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/render"
	"github.com/alexanderramin/gantry/internal/scheduler"
	"github.com/alexanderramin/gantry/internal/timeline"
)

// defaultTermWidth is used when --width is not given for terminal output.
const defaultTermWidth = 100

func newChartCmd(app *App) *cobra.Command {
	var width float64
	var svgPath, stylePath string

	cmd := &cobra.Command{
		Use:   "chart [PROJECT]",
		Short: "Draw the Gantt chart in the terminal or as SVG",
		Long: `Draw the Gantt chart in the terminal or as SVG.

Without --svg, --width is the terminal width in columns. With --svg it is the
canvas width in pixels and defaults to the configured chart width.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args)
			if err != nil {
				return err
			}
			cfg := app.config()

			if svgPath != "" {
				if !cmd.Flags().Changed("width") {
					width = cfg.Chart.Width
				}
				if stylePath == "" {
					stylePath = cfg.Chart.StyleFile
				}
				style, err := render.LoadStyle(stylePath)
				if err != nil {
					return err
				}
				svg, err := app.Schedule.ChartSVG(ctx, p.ID, width, style)
				if err != nil {
					return err
				}
				return writeOutput(cmd, svgPath, svg, "chart")
			}

			if !cmd.Flags().Changed("width") {
				width = defaultTermWidth
			}
			sess, err := app.Schedule.EditSession(ctx, p.ID)
			if err != nil {
				return err
			}
			cols := formatter.ChartColumns(int(width), formatter.DefaultLabelWidth)
			c := sess.Chart(float64(cols), timeline.TerminalGridConfig())

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.StyleHeader.Render(p.ShortID)+"  "+formatter.Bold(p.Name))
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.FormatChart(c, formatter.ChartOptions{}))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&width, "width", "w", 0, "Width in columns, or pixels with --svg")
	cmd.Flags().StringVar(&svgPath, "svg", "", "Write an SVG chart to this file ('-' for stdout)")
	cmd.Flags().StringVar(&stylePath, "style", "", "YAML style file for SVG output")

	return cmd
}

func newConflictsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts [PROJECT]",
		Short: "List dependencies violated by the current dates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args)
			if err != nil {
				return err
			}
			conflicts, err := app.Schedule.Conflicts(ctx, p.ID)
			if err != nil {
				return err
			}
			acts, err := app.Activities.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatConflicts(conflicts, acts))
			return nil
		},
	}
}

func newFixCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix [PROJECT]",
		Short: "Move activities later until every dependency holds",
		Long: `Move activities later until every dependency holds.

Activities keep their durations and are never moved earlier. All changes are
written in one transaction; with --dry-run nothing is written.`,
		Args: cobra.MaximumNArgs(1),
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

			res, err := app.Schedule.FixDates(ctx, p.ID, dryRun)
			if err != nil {
				var cycle *scheduler.CycleError
				if errors.As(err, &cycle) {
					return fmt.Errorf("cannot fix dates: dependencies form a cycle through %s", cycleNames(cycle, acts))
				}
				return err
			}
			loggerFromContext(ctx).Debug("dates fixed", "project", p.ShortID, "changes", len(res.Changes), "dry_run", dryRun)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFixResult(res, acts, dryRun))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show the changes without writing them")

	return cmd
}

func cycleNames(cycle *scheduler.CycleError, acts []domain.Activity) string {
	names := make(map[string]string, len(acts))
	for _, a := range acts {
		names[a.ID] = a.Name
	}
	out := make([]string, 0, len(cycle.ActivityIDs))
	for _, id := range cycle.ActivityIDs {
		if n, ok := names[id]; ok {
			out = append(out, n)
		} else {
			out = append(out, shortID(id))
		}
	}
	return strings.Join(out, ", ")
}

func newGraphCmd(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "graph [PROJECT]",
		Short: "Export the dependency graph as DOT, SVG or PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := render.ParseGraphFormat(format)
			if err != nil {
				return err
			}
			if f == render.FormatPNG && (output == "" || output == "-") {
				return fmt.Errorf("png output needs a file; pass -o FILE")
			}
			p, err := resolveProject(ctx, app, args)
			if err != nil {
				return err
			}
			c, err := app.Schedule.Chart(ctx, p.ID, app.config().Chart.Width)
			if err != nil {
				return err
			}
			data, err := render.RenderGraph(ctx, render.ToDOT(*c), f)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data, "graph")
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatDOT), "dot, svg or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

// writeOutput writes data to path, or to the command output for "" and "-".
func writeOutput(cmd *cobra.Command, path string, data []byte, what string) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s to %s (%d bytes)\n", what, path, len(data))
	return nil
}
