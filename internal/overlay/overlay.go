package overlay

import (
	"maps"
	"slices"
)

// AppendActivity records an activity entry, evicting the oldest entries so
// the log never exceeds ActivityCap.
func (o *Overlay) AppendActivity(a Activity) {
	o.ActivityLog = append(o.ActivityLog, a)
	if over := len(o.ActivityLog) - ActivityCap; over > 0 {
		o.ActivityLog = slices.Delete(o.ActivityLog, 0, over)
	}
}

// Day returns the progress record for day, or an empty record when the day
// is unknown.
func (o *Overlay) Day(day string) DayProgress {
	if dp, ok := o.DayProgress[day]; ok {
		return dp
	}
	return EmptyDay()
}

// HasDocumentPatch reports whether a local documentation override is set.
func (o *Overlay) HasDocumentPatch() bool {
	return o.DocumentPatch != ""
}

// MilestoneNotified reports whether threshold was already announced.
func (o *Overlay) MilestoneNotified(threshold int) bool {
	return slices.Contains(o.NotifiedMilestones, threshold)
}

// Clone returns a deep copy of the overlay.
func (o *Overlay) Clone() *Overlay {
	c := *o
	c.DayProgress = make(map[string]DayProgress, len(o.DayProgress))
	for day, dp := range maps.All(o.DayProgress) {
		dp.TickedItemIDs = slices.Clone(dp.TickedItemIDs)
		c.DayProgress[day] = dp
	}
	c.UserEntries = UserEntries{
		Bugs:      slices.Clone(o.UserEntries.Bugs),
		Ideas:     slices.Clone(o.UserEntries.Ideas),
		Decisions: slices.Clone(o.UserEntries.Decisions),
	}
	c.ActivityLog = slices.Clone(o.ActivityLog)
	c.NotifiedMilestones = slices.Clone(o.NotifiedMilestones)
	if o.LastSavedAt != nil {
		t := *o.LastSavedAt
		c.LastSavedAt = &t
	}
	return &c
}
