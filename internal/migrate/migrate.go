package migrate

import (
	"fmt"
	"slices"
	"sort"

	"github.com/roach88/hq/internal/codec"
	"github.com/roach88/hq/internal/overlay"
)

// Report lists what reconciliation could not carry over.
type Report struct {
	// SourceVersion is the payload's declared version, 0 when absent.
	SourceVersion int

	// Legacy is set when the payload used the version 1 browser shape.
	Legacy bool

	// Defaulted holds paths that were present but had an incompatible shape.
	Defaulted []string

	// Dropped holds items that were discarded: unknown days, malformed
	// entries, activity beyond the cap.
	Dropped []string
}

// Clean reports whether every present field was carried over.
func (r Report) Clean() bool {
	return len(r.Defaulted) == 0 && len(r.Dropped) == 0
}

func (r *Report) defaulted(path string) {
	r.Defaulted = append(r.Defaulted, path)
}

func (r *Report) dropped(path string) {
	r.Dropped = append(r.Dropped, path)
}

// Reconcile returns a current-schema overlay built from raw.
// A nil raw yields overlay.Default().
func Reconcile(raw codec.RawPayload) *overlay.Overlay {
	o, _ := ReconcileWithReport(raw)
	return o
}

// ReconcileWithReport is Reconcile plus a report of defaulted and dropped
// paths.
func ReconcileWithReport(raw codec.RawPayload) (*overlay.Overlay, Report) {
	var r Report
	o := overlay.Default()
	if raw == nil {
		return o, r
	}

	m, ok := asObject(raw)
	if !ok {
		r.defaulted("$")
		return o, r
	}

	r.SourceVersion = declaredVersion(m)
	if isLegacy(m) {
		r.Legacy = true
		m = upgradeLegacy(m, &r)
	}

	reconcileSettings(m["settings"], o, &r)
	reconcileDays(m["dayProgress"], o, &r)
	reconcileEntries(m["userEntries"], o, &r)
	reconcileDocumentPatch(m["documentPatch"], o, &r)
	reconcileActivity(m["activityLog"], o, &r)
	reconcileMilestones(m["notifiedMilestones"], o, &r)
	reconcileLastSaved(m["lastSavedAt"], o, &r)

	o.SchemaVersion = overlay.CurrentVersion
	return o, r
}

func declaredVersion(m map[string]any) int {
	for _, key := range []string{"schemaVersion", "version"} {
		if v, ok := asInt(m[key]); ok {
			return v
		}
	}
	return 0
}

func reconcileSettings(v any, o *overlay.Overlay, r *Report) {
	if v == nil {
		return
	}
	m, ok := asObject(v)
	if !ok {
		r.defaulted("settings")
		return
	}
	if raw, present := m["highContrast"]; present && raw != nil {
		if b, ok := asBool(raw); ok {
			o.Settings.HighContrast = b
		} else {
			r.defaulted("settings.highContrast")
		}
	}
	if raw, present := m["reducedMotion"]; present && raw != nil {
		if b, ok := asBool(raw); ok {
			o.Settings.ReducedMotion = b
		} else {
			r.defaulted("settings.reducedMotion")
		}
	}
	if raw, present := m["theme"]; present && raw != nil {
		if s, ok := asString(raw); ok && overlay.ValidThemes[overlay.Theme(s)] {
			o.Settings.Theme = overlay.Theme(s)
		} else {
			r.defaulted("settings.theme")
		}
	}
}

func reconcileDays(v any, o *overlay.Overlay, r *Report) {
	if v == nil {
		return
	}
	m, ok := asObject(v)
	if !ok {
		r.defaulted("dayProgress")
		return
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, day := range keys {
		if !overlay.IsDay(day) {
			r.dropped("dayProgress." + day)
			continue
		}
		o.DayProgress[day] = reconcileDay(day, m[day], r)
	}
}

// reconcileDay checks each sub-field independently so one corrupt value
// never discards its siblings.
func reconcileDay(day string, v any, r *Report) overlay.DayProgress {
	dp := overlay.EmptyDay()
	if v == nil {
		return dp
	}
	path := "dayProgress." + day
	m, ok := asObject(v)
	if !ok {
		r.defaulted(path)
		return dp
	}

	if raw := m["tickedItemIds"]; raw != nil {
		if ids, ok := asStringSet(raw); ok {
			dp.TickedItemIDs = ids
		} else {
			r.defaulted(path + ".tickedItemIds")
		}
	}
	stringField(m, "startNote", path, &dp.StartNote, r)
	stringField(m, "endNote", path, &dp.EndNote, r)
	stringField(m, "intention", path, &dp.Intention, r)
	if raw := m["complete"]; raw != nil {
		if b, ok := asBool(raw); ok {
			dp.Complete = b
		} else {
			r.defaulted(path + ".complete")
		}
	}
	return dp
}

// stringField copies m[key] into dst when it is a string. Absent and null
// values are left at the default without being reported.
func stringField(m map[string]any, key, path string, dst *string, r *Report) {
	raw := m[key]
	if raw == nil {
		return
	}
	if s, ok := asString(raw); ok {
		*dst = s
		return
	}
	r.defaulted(path + "." + key)
}

// requiredString returns m[key] when it is a non-empty string.
func requiredString(m map[string]any, key string) (string, bool) {
	s, ok := asString(m[key])
	return s, ok && s != ""
}

func reconcileDocumentPatch(v any, o *overlay.Overlay, r *Report) {
	if v == nil {
		return
	}
	if s, ok := asString(v); ok {
		o.DocumentPatch = s
		return
	}
	r.defaulted("documentPatch")
}

func reconcileActivity(v any, o *overlay.Overlay, r *Report) {
	if v == nil {
		return
	}
	arr, ok := asArray(v)
	if !ok {
		r.defaulted("activityLog")
		return
	}

	for i, elem := range arr {
		path := fmt.Sprintf("activityLog[%d]", i)
		m, ok := asObject(elem)
		if !ok {
			r.dropped(path)
			continue
		}
		ts, ok := asTime(m["timestamp"])
		if !ok {
			r.dropped(path)
			continue
		}
		kind, ok := requiredString(m, "kind")
		if !ok {
			r.dropped(path)
			continue
		}
		entry := overlay.Activity{Timestamp: ts, Kind: kind}
		stringField(m, "detail", path, &entry.Detail, r)
		o.ActivityLog = append(o.ActivityLog, entry)
	}

	if over := len(o.ActivityLog) - overlay.ActivityCap; over > 0 {
		r.dropped(fmt.Sprintf("activityLog: %d oldest entries beyond cap", over))
		o.ActivityLog = slices.Delete(o.ActivityLog, 0, over)
	}
}

func reconcileMilestones(v any, o *overlay.Overlay, r *Report) {
	if v == nil {
		return
	}
	arr, ok := asArray(v)
	if !ok {
		r.defaulted("notifiedMilestones")
		return
	}
	out := make([]int, 0, len(arr))
	for _, elem := range arr {
		n, ok := asInt(elem)
		if !ok || n < 0 || n > 100 {
			r.defaulted("notifiedMilestones")
			return
		}
		out = append(out, n)
	}
	slices.Sort(out)
	o.NotifiedMilestones = slices.Compact(out)
}

func reconcileLastSaved(v any, o *overlay.Overlay, r *Report) {
	if v == nil {
		return
	}
	ts, ok := asTime(v)
	if !ok {
		r.defaulted("lastSavedAt")
		return
	}
	o.LastSavedAt = &ts
}
