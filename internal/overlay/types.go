package overlay

import "time"

// Overlay is the user's locally persisted progress and edit state.
type Overlay struct {
	SchemaVersion      int                    `json:"schemaVersion"`
	Settings           Settings               `json:"settings"`
	DayProgress        map[string]DayProgress `json:"dayProgress"`
	UserEntries        UserEntries            `json:"userEntries"`
	DocumentPatch      string                 `json:"documentPatch"` // raw markup, sanitized only when rendered
	ActivityLog        []Activity             `json:"activityLog"`
	NotifiedMilestones []int                  `json:"notifiedMilestones"`
	LastSavedAt        *time.Time             `json:"lastSavedAt,omitempty"`
}

// Settings holds independently defaulted presentation toggles.
type Settings struct {
	HighContrast  bool  `json:"highContrast"`
	ReducedMotion bool  `json:"reducedMotion"`
	Theme         Theme `json:"theme"`
}

// Theme is the colour scheme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// ValidThemes defines allowed theme values.
var ValidThemes = map[Theme]bool{
	ThemeSystem: true,
	ThemeLight:  true,
	ThemeDark:   true,
}

// DayProgress is the per-day checklist and journal state.
type DayProgress struct {
	TickedItemIDs []string `json:"tickedItemIds"` // sorted, no duplicates
	StartNote     string   `json:"startNote"`
	EndNote       string   `json:"endNote"`
	Intention     string   `json:"intention"`
	Complete      bool     `json:"complete"`
}

// UserEntries groups the three user-created record lists.
type UserEntries struct {
	Bugs      []Bug      `json:"bugs"`
	Ideas     []Idea     `json:"ideas"`
	Decisions []Decision `json:"decisions"`
}

// Origin distinguishes overlay entries from seed entries of the base dataset.
type Origin string

const (
	OriginLocal Origin = "local"
	OriginBase  Origin = "base"
)

// Severity ranks a bug.
type Severity string

const (
	Sev1 Severity = "Sev1"
	Sev2 Severity = "Sev2"
	Sev3 Severity = "Sev3"
)

// ValidSeverities defines allowed bug severities.
var ValidSeverities = map[Severity]bool{Sev1: true, Sev2: true, Sev3: true}

// BugStatus is the only mutable field of a bug.
type BugStatus string

const (
	StatusNew        BugStatus = "New"
	StatusInProgress BugStatus = "In progress"
	StatusDone       BugStatus = "Done"
)

// ValidStatuses defines allowed bug statuses.
var ValidStatuses = map[BugStatus]bool{
	StatusNew:        true,
	StatusInProgress: true,
	StatusDone:       true,
}

// Bug is a logged defect.
type Bug struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Severity Severity  `json:"severity"`
	Status   BugStatus `json:"status"`
	Origin   Origin    `json:"origin"`
}

// Idea is a parking-lot entry.
type Idea struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Area   string `json:"area"`
	Origin Origin `json:"origin"`
}

// Decision is a decision-log entry. ID is chosen by the author (e.g. "DEC-004").
type Decision struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Decision string `json:"decision"`
	Impact   string `json:"impact"`
	Origin   Origin `json:"origin"`
}

// Activity is a diagnostic log line. Never used for undo.
type Activity struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
}
