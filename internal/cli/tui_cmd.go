package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/cli/formatter"
	"github.com/alexanderramin/gantry/internal/domain"
)

// gantryHuhTheme returns a huh theme matching the gruvbox CLI palette.
func gantryHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateDay(s string) error {
	_, err := domain.ParseDay(s)
	return err
}

func validateOptionalDay(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateDay(s)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// newActivityForm collects a new activity; a blank end makes a milestone.
func newActivityForm(v *activityFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Activity name").Value(&v.name).Validate(validateRequired),
			huh.NewInput().Title("Start (YYYY-MM-DD)").Placeholder(v.start).Value(&v.start).Validate(validateDay),
			huh.NewInput().Title("End (YYYY-MM-DD, blank for a milestone)").Value(&v.end).Validate(validateOptionalDay),
			huh.NewInput().Title("Owner (optional)").Value(&v.owner),
		),
	).WithTheme(gantryHuhTheme()).WithShowHelp(false)
}

// selectProject asks which project to open when several exist.
func selectProject(ctx context.Context, app *App) (*domain.Project, error) {
	projects, err := app.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(projects) <= 1 {
		return resolveProject(ctx, app, nil)
	}

	options := make([]huh.Option[string], 0, len(projects))
	for _, p := range projects {
		options = append(options, huh.NewOption(fmt.Sprintf("%s  %s", p.ShortID, p.Name), p.ID))
	}
	var chosen string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Project").Options(options...).Value(&chosen),
		),
	).WithTheme(gantryHuhTheme()).WithShowHelp(false)
	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}
	return app.Projects.GetByID(ctx, chosen)
}

// runTUI opens the interactive chart editor on one project.
func runTUI(cmd *cobra.Command, app *App, ref string) error {
	ctx := cmd.Context()

	var p *domain.Project
	var err error
	if ref != "" {
		p, err = app.Projects.Resolve(ctx, ref)
	} else {
		p, err = selectProject(ctx, app)
	}
	if err != nil {
		return err
	}

	sess, err := app.Schedule.EditSession(ctx, p.ID)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("opening chart editor", "project", p.ShortID)

	run := app.RunTUI
	if run == nil {
		run = func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		}
	}
	return run(newChartModel(ctx, app, p, sess))
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [PROJECT]",
		Short: "Edit the chart interactively",
		Long: `Edit the chart interactively.

Select an activity with the arrow keys, press s, e or m to drag its start,
end or whole bar, move with ← and →, and press enter to commit or esc to
cancel. f fixes all conflicting dates.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) > 0 {
				ref = args[0]
			}
			return runTUI(cmd, app, ref)
		},
	}
}
