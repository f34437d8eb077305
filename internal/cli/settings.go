package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/hq/internal/store"
)

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change presentation settings",
		Long: `Show or change presentation settings.

Keys: highContrast (true|false), reducedMotion (true|false),
theme (system|light|dark).

Examples:
  hq settings show
  hq settings set theme dark`,
	}

	show := &cobra.Command{
		Use:           "show",
		Short:         "Print the current settings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			s := sess.store.Overlay().Settings
			return sess.out.Render(s, func(w io.Writer) {
				fmt.Fprintf(w, "%s: %t\n", store.SettingHighContrast, s.HighContrast)
				fmt.Fprintf(w, "%s: %t\n", store.SettingReducedMotion, s.ReducedMotion)
				fmt.Fprintf(w, "%s: %s\n", store.SettingTheme, s.Theme)
			})
		},
	}

	set := &cobra.Command{
		Use:           "set <key> <value>",
		Short:         "Change one setting",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.store.SetSetting(sess.ctx, args[0], args[1]); err != nil {
				return storeError("failed to change setting", err)
			}
			s := sess.store.Overlay().Settings
			return sess.out.Render(s, func(w io.Writer) {
				fmt.Fprintf(w, "%s set to %s\n", args[0], args[1])
			})
		},
	}

	cmd.AddCommand(show, set)
	return cmd
}
