// Package progress derives completion percentages, streaks and milestones
// from an overlay and the base checklists. Every function is pure.
package progress

import (
	"math"
	"math/big"
	"slices"

	"github.com/roach88/hq/internal/overlay"
)

// DefaultMilestones are the overall-completion thresholds announced once each.
var DefaultMilestones = []int{25, 50, 75, 100}

// Checklist supplies the checklist item ids the base dataset defines per day.
type Checklist interface {
	ItemIDs(day string) []string
}

// DayCompletionPercent returns ticked/total*100 for day, where total counts
// the base checklist items and ticked counts those present in the day's
// tickedItemIds. Ticks for ids the base no longer defines are ignored.
// A day without items is 0.
func DayCompletionPercent(o *overlay.Overlay, c Checklist, day string) float64 {
	ticked, total := dayCounts(o, c, day)
	if total == 0 {
		return 0
	}
	return float64(ticked) / float64(total) * 100
}

// OverallCompletionPercent is the arithmetic mean of DayCompletionPercent
// over every known day. Days are weighted equally whatever their item count.
// The mean is computed exactly and rounded once, so an overall value that
// is exactly a milestone threshold compares equal to it.
func OverallCompletionPercent(o *overlay.Overlay, c Checklist) float64 {
	days := overlay.DayIDs()
	sum := new(big.Rat)
	for _, d := range days {
		ticked, total := dayCounts(o, c, d)
		if total == 0 {
			continue
		}
		sum.Add(sum, big.NewRat(int64(ticked)*100, int64(total)))
	}
	sum.Quo(sum, big.NewRat(int64(len(days)), 1))
	p, _ := sum.Float64()
	return p
}

// dayCounts returns how many of day's base items are ticked, and how many
// there are.
func dayCounts(o *overlay.Overlay, c Checklist, day string) (ticked, total int) {
	items := c.ItemIDs(day)
	dp := o.Day(day)
	for _, id := range items {
		if slices.Contains(dp.TickedItemIDs, id) {
			ticked++
		}
	}
	return ticked, len(items)
}

// CurrentStreak counts consecutive complete days starting at the first day.
// It stops at the first incomplete day and does not resume after a gap.
func CurrentStreak(o *overlay.Overlay) int {
	n := 0
	for _, d := range overlay.DayIDs() {
		if !o.Day(d).Complete {
			break
		}
		n++
	}
	return n
}

// MilestonesCrossed returns the thresholds t with previous < t <= current
// that are not already in notified, in ascending order.
func MilestonesCrossed(thresholds []int, previous, current float64, notified []int) []int {
	var crossed []int
	for _, t := range thresholds {
		v := float64(t)
		if previous < v && v <= current && !slices.Contains(notified, t) {
			crossed = append(crossed, t)
		}
	}
	slices.Sort(crossed)
	return crossed
}

// Round is the display rounding for percentages: nearest integer, halves
// away from zero.
func Round(p float64) int {
	return int(math.Round(p))
}
