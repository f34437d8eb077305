package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Dir    string
	Stdout bool
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write progress to a portable file",
		Long: `Write the whole overlay to project-hq-progress-<timestamp>.json.

The file can be imported on another machine with "hq import". Exporting
does not change anything.

Examples:
  hq export
  hq export --dir ~/backups
  hq export --stdout > progress.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "output directory (default $HQ_EXPORT_DIR or .)")
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "write the file content to stdout instead")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	sess, err := openSession(cmd, opts.RootOptions, false)
	if err != nil {
		return err
	}
	defer sess.Close()

	if opts.Stdout {
		data, err := sess.store.Export()
		if err != nil {
			return WrapExitError(ExitFailure, "failed to export", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	dir := opts.Dir
	if dir == "" {
		dir = opts.ExportDir
	}
	if dir == "" {
		dir = "."
	}
	path, err := sess.store.ExportToFile(dir)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to export", err)
	}
	return sess.out.Render(map[string]string{"path": path}, func(w io.Writer) {
		fmt.Fprintf(w, "Exported to %s\n", path)
	})
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace progress with an exported file",
		Long: `Replace the whole overlay with the content of an exported file.

Files from older versions, including the browser-era format, are
upgraded. Fields that cannot be carried over fall back to defaults. A file
that is not valid JSON is rejected and nothing changes.

Examples:
  hq import project-hq-progress-2026-10-17-09-30-00.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read import file", err)
			}

			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.store.Import(sess.ctx, content); err != nil {
				return storeError("import failed", err)
			}
			return sess.out.Render(map[string]string{"imported": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "Imported %s\n", args[0])
			})
		},
	}
}

// ResetOptions holds flags for the reset command.
type ResetOptions struct {
	*RootOptions
	Yes bool
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all local progress",
		Long: `Clear all local progress: ticks, notes, entries, the documentation
override and the activity log. This cannot be undone; export first if in
doubt.

Examples:
  hq reset --yes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.Yes {
				return NewExitError(ExitCommandError, "reset clears your local progress: pass --yes to confirm")
			}

			sess, err := openSession(cmd, opts.RootOptions, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.store.Reset(sess.ctx); err != nil {
				return storeError("reset failed", err)
			}
			return sess.out.Render(map[string]bool{"reset": true}, func(w io.Writer) {
				fmt.Fprintln(w, "Local progress cleared")
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm clearing all local progress")

	return cmd
}
