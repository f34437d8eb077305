package overlay

// Schema version history:
// 1 - Browser-era shape (dayTicks/dayNotes/parkingLocal/...)
// 2 - dayProgress records, userEntries with ids and origin, milestones
//
// Any change to the Overlay shape requires bumping CurrentVersion and
// teaching migrate how to carry the previous shape forward.
const CurrentVersion = 2

const (
	// StorageKey is the single slot key the whole overlay is stored under.
	StorageKey = "LP_HQ_STATE"

	// ActivityCap bounds the activity log. Oldest entries are evicted first.
	ActivityCap = 300
)
