package migrate

import (
	"fmt"

	"github.com/roach88/hq/internal/overlay"
)

// reconcileEntries copies the three user entry lists. Each list must be an
// array; within it, malformed records are dropped one by one. Entries keep
// their ids when present and unique; otherwise a deterministic id is
// assigned. Origin is always local: anything stored in the overlay was
// created by the user.
func reconcileEntries(v any, o *overlay.Overlay, r *Report) {
	if v == nil {
		return
	}
	m, ok := asObject(v)
	if !ok {
		r.defaulted("userEntries")
		return
	}

	if arr, ok := entryList(m, "bugs", r); ok {
		seen := map[string]bool{}
		for i, elem := range arr {
			if bug, ok := reconcileBug(i, elem, seen, r); ok {
				o.UserEntries.Bugs = append(o.UserEntries.Bugs, bug)
			}
		}
	}
	if arr, ok := entryList(m, "ideas", r); ok {
		seen := map[string]bool{}
		for i, elem := range arr {
			if idea, ok := reconcileIdea(i, elem, seen, r); ok {
				o.UserEntries.Ideas = append(o.UserEntries.Ideas, idea)
			}
		}
	}
	if arr, ok := entryList(m, "decisions", r); ok {
		seen := map[string]bool{}
		for i, elem := range arr {
			if d, ok := reconcileDecision(i, elem, seen, r); ok {
				o.UserEntries.Decisions = append(o.UserEntries.Decisions, d)
			}
		}
	}
}

func entryList(m map[string]any, key string, r *Report) ([]any, bool) {
	raw := m[key]
	if raw == nil {
		return nil, false
	}
	arr, ok := asArray(raw)
	if !ok {
		r.defaulted("userEntries." + key)
		return nil, false
	}
	return arr, true
}

func reconcileBug(i int, v any, seen map[string]bool, r *Report) (overlay.Bug, bool) {
	path := fmt.Sprintf("userEntries.bugs[%d]", i)
	m, ok := asObject(v)
	if !ok {
		r.dropped(path)
		return overlay.Bug{}, false
	}
	title, ok := requiredString(m, "title")
	if !ok {
		r.dropped(path)
		return overlay.Bug{}, false
	}

	bug := overlay.Bug{
		ID:       entryID(m, fmt.Sprintf("bug-%d", i+1), seen),
		Title:    title,
		Severity: overlay.Sev2,
		Status:   overlay.StatusNew,
		Origin:   overlay.OriginLocal,
	}
	if raw := m["severity"]; raw != nil {
		if s, ok := asString(raw); ok && overlay.ValidSeverities[overlay.Severity(s)] {
			bug.Severity = overlay.Severity(s)
		} else {
			r.defaulted(path + ".severity")
		}
	}
	if raw := m["status"]; raw != nil {
		if s, ok := asString(raw); ok && overlay.ValidStatuses[overlay.BugStatus(s)] {
			bug.Status = overlay.BugStatus(s)
		} else {
			r.defaulted(path + ".status")
		}
	}
	return bug, true
}

func reconcileIdea(i int, v any, seen map[string]bool, r *Report) (overlay.Idea, bool) {
	path := fmt.Sprintf("userEntries.ideas[%d]", i)
	m, ok := asObject(v)
	if !ok {
		r.dropped(path)
		return overlay.Idea{}, false
	}
	name, ok := requiredString(m, "name")
	if !ok {
		r.dropped(path)
		return overlay.Idea{}, false
	}

	idea := overlay.Idea{
		ID:     entryID(m, fmt.Sprintf("idea-%d", i+1), seen),
		Name:   name,
		Origin: overlay.OriginLocal,
	}
	stringField(m, "area", path, &idea.Area, r)
	return idea, true
}

func reconcileDecision(i int, v any, seen map[string]bool, r *Report) (overlay.Decision, bool) {
	path := fmt.Sprintf("userEntries.decisions[%d]", i)
	m, ok := asObject(v)
	if !ok {
		r.dropped(path)
		return overlay.Decision{}, false
	}
	id, okID := requiredString(m, "id")
	text, okText := requiredString(m, "decision")
	if !okID || !okText {
		r.dropped(path)
		return overlay.Decision{}, false
	}

	d := overlay.Decision{
		ID:       uniqueID(id, seen),
		Decision: text,
		Origin:   overlay.OriginLocal,
	}
	stringField(m, "date", path, &d.Date, r)
	stringField(m, "impact", path, &d.Impact, r)
	return d, true
}

// entryID returns m["id"] when it is a usable string, else fallback, made
// unique against seen.
func entryID(m map[string]any, fallback string, seen map[string]bool) string {
	id, ok := requiredString(m, "id")
	if !ok {
		id = fallback
	}
	return uniqueID(id, seen)
}

// uniqueID returns base, or base-2, base-3, ... when base is taken, and
// marks the result as seen.
func uniqueID(base string, seen map[string]bool) string {
	id := base
	for n := 2; seen[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	seen[id] = true
	return id
}
