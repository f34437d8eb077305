package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewDocCommand creates the doc command group.
func NewDocCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Show or override the documentation page",
		Long: `Show the documentation page, or replace it with a local override.

The override is stored exactly as written and sanitized every time it is
shown: only structural and text-formatting markup survives, scripts and
event handlers are removed.

Examples:
  hq doc show
  hq doc set notes.html
  cat notes.html | hq doc set -
  hq doc clear`,
	}

	show := &cobra.Command{
		Use:           "show",
		Short:         "Print the sanitized documentation",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			html := sess.store.Documentation(sess.baseDocumentation())
			patched := sess.store.Overlay().HasDocumentPatch()
			return sess.out.Render(map[string]any{"html": html, "patched": patched}, func(w io.Writer) {
				fmt.Fprintln(w, html)
			})
		},
	}

	set := &cobra.Command{
		Use:           "set <file|->",
		Short:         "Override the documentation with a file (- for stdin)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read documentation", err)
			}

			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.store.SetDocumentPatch(sess.ctx, string(raw)); err != nil {
				return storeError("failed to save documentation", err)
			}
			return sess.out.Render(map[string]any{"chars": len(raw)}, func(w io.Writer) {
				fmt.Fprintf(w, "Documentation override saved (%d chars)\n", len(raw))
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:           "clear",
		Short:         "Drop the local override",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.store.ClearDocumentPatch(sess.ctx); err != nil {
				return storeError("failed to clear documentation", err)
			}
			return sess.out.Render(map[string]any{"cleared": true}, func(w io.Writer) {
				fmt.Fprintln(w, "Documentation override cleared")
			})
		},
	}

	cmd.AddCommand(show, set, clearCmd)
	return cmd
}
