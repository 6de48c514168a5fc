package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project from a JSON plan file",
		Long: `Create a project from a JSON plan file.

The file is validated against the plan schema before anything is written, and
the project, its activities and dependencies are stored in one transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Plans.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s [%s]: %d activities, %d dependencies\n",
				res.Project.Name, res.Project.ShortID, res.ActivityCount, res.DependencyCount)
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [PROJECT]",
		Short: "Write a project as a JSON plan that import accepts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args)
			if err != nil {
				return err
			}
			plan, err := app.Plans.Export(ctx, p.ID)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding plan: %w", err)
			}
			return writeOutput(cmd, output, append(data, '\n'), "plan")
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}
