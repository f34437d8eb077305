package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/hq/internal/basedata"
	"github.com/roach88/hq/internal/overlay"
)

// NewPromptsCommand creates the prompts command.
func NewPromptsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List the start and end prompts of every day",
		Long: `List the suggested start and end prompts for every day of the plan,
in day order. Days without prompts are left out.

Examples:
  hq prompts
  hq prompts --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompts(rootOpts, cmd)
		},
	}
}

func runPrompts(opts *RootOptions, cmd *cobra.Command) error {
	sess, err := openSession(cmd, opts, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	prompts := []basedata.Prompt{}
	for _, day := range overlay.DayIDs() {
		if p, ok := sess.base.Prompt(day); ok {
			prompts = append(prompts, p)
		}
	}

	return sess.out.Render(prompts, func(w io.Writer) {
		if len(prompts) == 0 {
			fmt.Fprintln(w, "No prompts in the base dataset.")
		}
		for i, p := range prompts {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, dayHeading(sess.base, p.Day))
			fmt.Fprintf(w, "  Start: %s\n", p.Start)
			fmt.Fprintf(w, "  End:   %s\n", p.End)
		}
	})
}

// dayHeading is the day id followed by its sprint title, if any.
func dayHeading(base *basedata.Dataset, day string) string {
	if sp, ok := base.Sprint(day); ok && sp.Title != "" {
		return day + " " + sp.Title
	}
	return day
}
