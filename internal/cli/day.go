package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/hq/internal/basedata"
	"github.com/roach88/hq/internal/overlay"
	"github.com/roach88/hq/internal/progress"
	"github.com/roach88/hq/internal/store"
)

// DayItem is a checklist item with its tick state.
type DayItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Desc   string `json:"desc,omitempty"`
	Ticked bool   `json:"ticked"`
}

// DayResult is the full view of one day.
type DayResult struct {
	Day         string    `json:"day"`
	Percent     int       `json:"percent"`
	Complete    bool      `json:"complete"`
	Items       []DayItem `json:"items"`
	StartPrompt string    `json:"start_prompt,omitempty"`
	EndPrompt   string    `json:"end_prompt,omitempty"`
	StartNote   string    `json:"start_note"`
	EndNote     string    `json:"end_note"`
	Intention   string    `json:"intention"`
}

// NewDayCommand creates the day command.
func NewDayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "day <day>",
		Short: "Show a day's checklist, prompts and notes",
		Long: `Show one day: its checklist with tick marks, the suggested start and
end prompts, and the notes recorded for it.

Examples:
  hq day D2
  hq day D2 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDay(rootOpts, args[0], cmd)
		},
	}
}

func runDay(opts *RootOptions, day string, cmd *cobra.Command) error {
	if !overlay.IsDay(day) {
		return WrapExitError(ExitCommandError, "invalid day", fmt.Errorf("%w: %q", store.ErrUnknownDay, day))
	}

	sess, err := openSession(cmd, opts, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	result := buildDayResult(sess.store.Overlay(), sess.base, day)
	return sess.out.Render(result, func(w io.Writer) {
		mark := ""
		if result.Complete {
			mark = " (complete)"
		}
		fmt.Fprintf(w, "%s  %s%s\n\n", day, sess.out.Percent(progress.DayCompletionPercent(sess.store.Overlay(), sess.base, day)), mark)
		if len(result.Items) == 0 {
			fmt.Fprintln(w, "  No checklist items.")
		}
		for _, it := range result.Items {
			box := "[ ]"
			if it.Ticked {
				box = "[x]"
			}
			fmt.Fprintf(w, "  %s %s  %s\n", box, it.ID, it.Title)
		}
		if result.StartPrompt != "" || result.EndPrompt != "" {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Start prompt: %s\n", result.StartPrompt)
			fmt.Fprintf(w, "End prompt:   %s\n", result.EndPrompt)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Intention:  %s\n", result.Intention)
		fmt.Fprintf(w, "Start note: %s\n", result.StartNote)
		fmt.Fprintf(w, "End note:   %s\n", result.EndNote)
	})
}

func buildDayResult(o *overlay.Overlay, base *basedata.Dataset, day string) DayResult {
	dp := o.Day(day)
	result := DayResult{
		Day:       day,
		Percent:   progress.Round(progress.DayCompletionPercent(o, base, day)),
		Complete:  dp.Complete,
		Items:     []DayItem{},
		StartNote: dp.StartNote,
		EndNote:   dp.EndNote,
		Intention: dp.Intention,
	}
	for _, it := range base.Checklist(day) {
		result.Items = append(result.Items, DayItem{
			ID:     it.ID,
			Title:  it.Title,
			Desc:   it.Desc,
			Ticked: slices.Contains(dp.TickedItemIDs, it.ID),
		})
	}
	if p, ok := base.Prompt(day); ok {
		result.StartPrompt = p.Start
		result.EndPrompt = p.End
	}
	return result
}
