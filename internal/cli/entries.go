package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/hq/internal/overlay"
)

// NewBugCommand creates the bug command group.
func NewBugCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bug",
		Short: "Log and triage bugs",
		Long: `Manage the bug log. Seed bugs from the base dataset are listed but
cannot be changed; local bugs are addressed by id.

Examples:
  hq bug add "Export button does nothing" --severity Sev1
  hq bug status 0192f7c8-... "In progress"
  hq bug rm 0192f7c8-...
  hq bug list`,
	}

	var severity string
	add := &cobra.Command{
		Use:           "add <title>...",
		Short:         "Log a new bug",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			b, err := sess.store.AddBug(sess.ctx, strings.Join(args, " "), overlay.Severity(severity))
			if err != nil {
				return storeError("failed to add bug", err)
			}
			return sess.out.Render(b, func(w io.Writer) {
				fmt.Fprintf(w, "Added bug %s [%s] %s\n", b.ID, b.Severity, b.Title)
			})
		},
	}
	add.Flags().StringVar(&severity, "severity", string(overlay.Sev2), "severity (Sev1|Sev2|Sev3)")

	status := &cobra.Command{
		Use:           "status <id> <status>",
		Short:         "Change a bug's status (New|In progress|Done)",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.store.SetBugStatus(sess.ctx, args[0], overlay.BugStatus(args[1])); err != nil {
				return storeError("failed to update bug", err)
			}
			return sess.out.Render(map[string]string{"id": args[0], "status": args[1]}, func(w io.Writer) {
				fmt.Fprintf(w, "Bug %s is now %s\n", args[0], args[1])
			})
		},
	}

	rm := &cobra.Command{
		Use:           "rm <id>",
		Short:         "Delete a local bug",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.store.DeleteBug(sess.ctx, args[0]); err != nil {
				return storeError("failed to delete bug", err)
			}
			return sess.out.Render(map[string]string{"deleted": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted bug %s\n", args[0])
			})
		},
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List seed and local bugs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			var seed []overlay.Bug
			if sess.base != nil {
				seed = sess.base.Bugs
			}
			bugs := append(append([]overlay.Bug{}, seed...), sess.store.Overlay().UserEntries.Bugs...)
			return sess.out.Render(bugs, func(w io.Writer) {
				if len(bugs) == 0 {
					fmt.Fprintln(w, "No bugs.")
				}
				for _, b := range bugs {
					fmt.Fprintf(w, "%-36s  %-4s  %-11s  %-5s  %s\n", b.ID, b.Severity, b.Status, b.Origin, b.Title)
				}
			})
		},
	}

	cmd.AddCommand(add, status, rm, list)
	return cmd
}

// NewIdeaCommand creates the idea (parking lot) command group.
func NewIdeaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idea",
		Short: "Park ideas for later",
		Long: `Manage the parking lot of ideas that are out of scope for now.

Examples:
  hq idea add "Sync between devices" --area sync
  hq idea rm 0192f7c8-...
  hq idea list`,
	}

	var area string
	add := &cobra.Command{
		Use:           "add <name>...",
		Short:         "Park a new idea",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			idea, err := sess.store.AddIdea(sess.ctx, strings.Join(args, " "), area)
			if err != nil {
				return storeError("failed to add idea", err)
			}
			return sess.out.Render(idea, func(w io.Writer) {
				fmt.Fprintf(w, "Parked idea %s: %s\n", idea.ID, idea.Name)
			})
		},
	}
	add.Flags().StringVar(&area, "area", "", "area the idea belongs to")

	rm := &cobra.Command{
		Use:           "rm <id>",
		Short:         "Delete a local idea",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.store.DeleteIdea(sess.ctx, args[0]); err != nil {
				return storeError("failed to delete idea", err)
			}
			return sess.out.Render(map[string]string{"deleted": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted idea %s\n", args[0])
			})
		},
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List seed and local ideas",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			var seed []overlay.Idea
			if sess.base != nil {
				seed = sess.base.Parking
			}
			ideas := append(append([]overlay.Idea{}, seed...), sess.store.Overlay().UserEntries.Ideas...)
			return sess.out.Render(ideas, func(w io.Writer) {
				if len(ideas) == 0 {
					fmt.Fprintln(w, "No ideas parked.")
				}
				for _, i := range ideas {
					fmt.Fprintf(w, "%-36s  %-5s  %-10s  %s\n", i.ID, i.Origin, i.Area, i.Name)
				}
			})
		},
	}

	cmd.AddCommand(add, rm, list)
	return cmd
}

// NewDecisionCommand creates the decision log command group.
func NewDecisionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decision",
		Short: "Record decisions",
		Long: `Manage the decision log. Decision ids are chosen by the author and
must be unique.

Examples:
  hq decision add --id DEC-004 --impact "no server" "Keep all state local"
  hq decision rm DEC-004
  hq decision list`,
	}

	var d overlay.Decision
	add := &cobra.Command{
		Use:           "add <decision>...",
		Short:         "Record a decision",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			in := d
			in.Decision = strings.Join(args, " ")
			added, err := sess.store.AddDecision(sess.ctx, in)
			if err != nil {
				return storeError("failed to add decision", err)
			}
			return sess.out.Render(added, func(w io.Writer) {
				fmt.Fprintf(w, "Recorded %s (%s): %s\n", added.ID, added.Date, added.Decision)
			})
		},
	}
	add.Flags().StringVar(&d.ID, "id", "", "decision id, e.g. DEC-004 (required)")
	_ = add.MarkFlagRequired("id")
	add.Flags().StringVar(&d.Date, "date", "", "decision date (default today)")
	add.Flags().StringVar(&d.Impact, "impact", "", "expected impact")

	rm := &cobra.Command{
		Use:           "rm <id>",
		Short:         "Delete a local decision",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.store.DeleteDecision(sess.ctx, args[0]); err != nil {
				return storeError("failed to delete decision", err)
			}
			return sess.out.Render(map[string]string{"deleted": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted decision %s\n", args[0])
			})
		},
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List seed and local decisions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, rootOpts, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			var seed []overlay.Decision
			if sess.base != nil {
				seed = sess.base.Decisions
			}
			decisions := append(append([]overlay.Decision{}, seed...), sess.store.Overlay().UserEntries.Decisions...)
			return sess.out.Render(decisions, func(w io.Writer) {
				if len(decisions) == 0 {
					fmt.Fprintln(w, "No decisions recorded.")
				}
				for _, d := range decisions {
					fmt.Fprintf(w, "%-8s  %-10s  %-5s  %s", d.ID, d.Date, d.Origin, d.Decision)
					if d.Impact != "" {
						fmt.Fprintf(w, " (impact: %s)", d.Impact)
					}
					fmt.Fprintln(w)
				}
			})
		},
	}

	cmd.AddCommand(add, rm, list)
	return cmd
}
