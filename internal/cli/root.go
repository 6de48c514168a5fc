package cli

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/gantry/internal/config"
	"github.com/alexanderramin/gantry/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects     service.ProjectService
	Activities   service.ActivityService
	Dependencies service.DependencyService
	Schedule     service.ScheduleService
	Plans        service.PlanService

	Config *config.Config
	Logger *log.Logger

	// IsInteractive reports whether stdin is a terminal. When nil, the bare
	// root command prints help instead of opening the chart.
	IsInteractive func() bool
	// RunTUI runs a bubbletea model. Nil uses a full-screen tea.Program.
	RunTUI func(m tea.Model) error
}

func (a *App) config() *config.Config {
	if a.Config == nil {
		a.Config = config.Default()
	}
	return a.Config
}

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	DBPath     string
	ConfigPath string
	Verbose    bool
	LogFormat  string
}

// BindGlobalFlags registers the global flags on fs.
func BindGlobalFlags(fs *pflag.FlagSet, o *GlobalOptions) {
	fs.StringVar(&o.DBPath, "db", "", "Database path (default ~/.gantry/gantry.db)")
	fs.StringVar(&o.ConfigPath, "config", "", "Config file (default ./gantry.toml or ~/.gantry/config.toml)")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "Enable debug logging")
	fs.StringVar(&o.LogFormat, "log-format", "", "Log format: text, json or logfmt")
}

// ParseGlobalFlags extracts the global flags from a full argument list
// before the command tree exists, so the database and logger can be set up
// first. Unknown flags and parse errors are left for cobra to report.
func ParseGlobalFlags(args []string) GlobalOptions {
	var o GlobalOptions
	fs := pflag.NewFlagSet("gantry", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	BindGlobalFlags(fs, &o)
	_ = fs.Parse(args)
	return o
}

// Apply overlays the flags on a loaded config.
func (o GlobalOptions) Apply(cfg *config.Config) {
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	if o.LogFormat != "" {
		cfg.Log.Format = o.LogFormat
	}
}

// NewLogger builds the process logger from the log settings.
func NewLogger(w io.Writer, cfg *config.Config) (*log.Logger, error) {
	level, err := config.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "gantry",
	})
	logger.SetFormatter(config.ParseLogFormatter(cfg.Log.Format))
	return logger, nil
}

func withLogger(ctx context.Context, logger *log.Logger) context.Context {
	return log.WithContext(ctx, logger)
}

// loggerFromContext returns the command logger, falling back to the
// package default.
func loggerFromContext(ctx context.Context) *log.Logger {
	return log.FromContext(ctx)
}

// NewRootCmd creates the top-level "gantry" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var globals GlobalOptions

	root := &cobra.Command{
		Use:           "gantry",
		Short:         "Gantt charts with dependency conflicts and date fixing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := app.Logger
			if logger == nil {
				logger = log.New(io.Discard)
			}
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(cmd, app, "")
			}
			return cmd.Help()
		},
	}
	BindGlobalFlags(root.PersistentFlags(), &globals)

	root.AddCommand(
		newProjectCmd(app),
		newActivityCmd(app),
		newDepCmd(app),
		newChartCmd(app),
		newConflictsCmd(app),
		newFixCmd(app),
		newGraphCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newServeCmd(app),
		newTUICmd(app),
	)

	return root
}

// Execute runs the root command with os.Args.
func Execute(ctx context.Context, app *App) error {
	root := NewRootCmd(app)
	root.SetArgs(os.Args[1:])
	return root.ExecuteContext(ctx)
}
