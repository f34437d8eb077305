package overlay

import "slices"

var dayIDs = []string{"D1", "D2", "D3", "D4", "D5", "D6", "D7", "D8", "D9", "D10"}

// DayIDs returns the ordered set of known day identifiers.
// The returned slice is a copy.
func DayIDs() []string {
	return slices.Clone(dayIDs)
}

// IsDay reports whether id is a known day identifier.
func IsDay(id string) bool {
	return slices.Contains(dayIDs, id)
}

// DefaultSettings returns settings with every toggle at its default.
func DefaultSettings() Settings {
	return Settings{Theme: ThemeSystem}
}

// EmptyDay returns a day record with no ticks, notes or completion.
func EmptyDay() DayProgress {
	return DayProgress{TickedItemIDs: []string{}}
}

// Default returns a fresh overlay with every field at its documented default.
// Collections are empty but non-nil so they serialize as [] and {}.
func Default() *Overlay {
	days := make(map[string]DayProgress, len(dayIDs))
	for _, d := range dayIDs {
		days[d] = EmptyDay()
	}
	return &Overlay{
		SchemaVersion: CurrentVersion,
		Settings:      DefaultSettings(),
		DayProgress:   days,
		UserEntries: UserEntries{
			Bugs:      []Bug{},
			Ideas:     []Idea{},
			Decisions: []Decision{},
		},
		ActivityLog:        []Activity{},
		NotifiedMilestones: []int{},
	}
}
