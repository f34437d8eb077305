package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/roach88/hq/internal/config"
	"github.com/roach88/hq/internal/slot"
	"github.com/roach88/hq/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
	Backend  string
	BaseDir  string
	Lang     string

	langTag language.Tag

	// ExportDir is the default directory for export. Set from config.
	ExportDir string

	// Clock and IDs override the store's defaults (for testing).
	// If nil, the system clock and UUIDv7 ids are used.
	Clock store.Clock
	IDs   store.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the hq CLI. cfg supplies
// flag defaults.
func NewRootCommand(cfg config.Config) *cobra.Command {
	return newRootCommand(cfg, &RootOptions{})
}

func newRootCommand(cfg config.Config, opts *RootOptions) *cobra.Command {
	opts.ExportDir = cfg.ExportDir

	cmd := &cobra.Command{
		Use:   "hq",
		Short: "hq - local progress tracker",
		Long: `Track a ten-day plan from the terminal.

Progress, notes, bugs, ideas, decisions and a documentation override are
kept in a local overlay on top of a read-only base dataset. Nothing leaves
this machine; use export and import to move progress between machines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if !slices.Contains(slot.ValidBackends, opts.Backend) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid backend %q: must be one of %v", opts.Backend, slot.ValidBackends))
			}
			if opts.Lang != "" {
				tag, err := language.Parse(opts.Lang)
				if err != nil {
					return WrapExitError(ExitCommandError, fmt.Sprintf("invalid language %q", opts.Lang), err)
				}
				opts.langTag = tag
			}

			// Logs go to stderr so JSON output stays parseable.
			logLevel := slog.LevelInfo
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: logLevel,
			})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", cfg.Verbose, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", cfg.Database, "sqlite database file, or directory for the file backend")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", cfg.Backend, "storage backend (sqlite|file)")
	cmd.PersistentFlags().StringVar(&opts.BaseDir, "base", cfg.BaseDir, "base dataset directory")
	cmd.PersistentFlags().StringVar(&opts.Lang, "lang", cfg.Lang, "language tag for numbers in text output")

	// Add subcommands
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewDayCommand(opts))
	cmd.AddCommand(NewPromptsCommand(opts))
	cmd.AddCommand(NewTasksCommand(opts))
	cmd.AddCommand(NewTickCommand(opts))
	cmd.AddCommand(NewNoteCommand(opts))
	cmd.AddCommand(NewCompleteCommand(opts))
	cmd.AddCommand(NewBugCommand(opts))
	cmd.AddCommand(NewIdeaCommand(opts))
	cmd.AddCommand(NewDecisionCommand(opts))
	cmd.AddCommand(NewDocCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewSettingsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
