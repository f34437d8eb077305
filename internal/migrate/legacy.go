package migrate

import (
	"maps"
	"sort"
)

// Version 1 was written by the browser-only tracker:
//
//	{ version: 1,
//	  dayTicks:  { D1: { itemId: true } },
//	  dayNotes:  { D1: { start, end, complete } },
//	  bugs: [...], parkingLocal: [...], decisionsLocal: [...],
//	  ssotPatch: "", lastSaved: "ISO", activity: [{ time: ms, type, detail }] }
var legacyKeys = []string{"dayTicks", "dayNotes", "parkingLocal", "decisionsLocal", "ssotPatch", "lastSaved", "activity"}

// isLegacy reports whether m carries any version 1 key and no current
// schemaVersion.
func isLegacy(m map[string]any) bool {
	if _, ok := m["schemaVersion"]; ok {
		return false
	}
	for _, k := range legacyKeys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// upgradeLegacy returns a copy of m with version 1 keys aliased onto their
// current names. A current key that is already present wins over its alias.
// Values are moved, not validated; reconcile checks their shape afterwards.
func upgradeLegacy(m map[string]any, r *Report) map[string]any {
	out := maps.Clone(m)

	if _, ok := out["dayProgress"]; !ok {
		if days := legacyDays(m["dayTicks"], m["dayNotes"], r); days != nil {
			out["dayProgress"] = days
		}
	}

	if _, ok := out["userEntries"]; !ok {
		entries := map[string]any{}
		for current, legacy := range map[string]string{
			"bugs":      "bugs",
			"ideas":     "parkingLocal",
			"decisions": "decisionsLocal",
		} {
			if v, ok := m[legacy]; ok {
				entries[current] = v
			}
		}
		if len(entries) > 0 {
			out["userEntries"] = entries
		}
	}

	alias(out, m, "documentPatch", "ssotPatch")
	alias(out, m, "lastSavedAt", "lastSaved")

	if _, ok := out["activityLog"]; !ok {
		if v, ok := m["activity"]; ok {
			out["activityLog"] = legacyActivity(v)
		}
	}
	return out
}

func alias(out, m map[string]any, current, legacy string) {
	if _, ok := out[current]; ok {
		return
	}
	if v, ok := m[legacy]; ok {
		out[current] = v
	}
}

// legacyDays merges dayTicks and dayNotes into dayProgress records.
// Returns nil when neither is present.
func legacyDays(ticksRaw, notesRaw any, r *Report) map[string]any {
	if ticksRaw == nil && notesRaw == nil {
		return nil
	}
	ticks, ok := asObject(ticksRaw)
	if !ok && ticksRaw != nil {
		r.defaulted("dayTicks")
	}
	notes, ok := asObject(notesRaw)
	if !ok && notesRaw != nil {
		r.defaulted("dayNotes")
	}

	days := map[string]any{}
	record := func(day string) map[string]any {
		if rec, ok := days[day].(map[string]any); ok {
			return rec
		}
		rec := map[string]any{}
		days[day] = rec
		return rec
	}

	for day, v := range ticks {
		rec := record(day)
		set, ok := asObject(v)
		if !ok {
			// Pass the value through so reconcile reports it against the day.
			rec["tickedItemIds"] = v
			continue
		}
		ids := make([]any, 0, len(set))
		keys := make([]string, 0, len(set))
		for id, on := range set {
			if b, _ := asBool(on); b {
				keys = append(keys, id)
			}
		}
		sort.Strings(keys)
		for _, id := range keys {
			ids = append(ids, id)
		}
		rec["tickedItemIds"] = ids
	}

	for day, v := range notes {
		rec := record(day)
		n, ok := asObject(v)
		if !ok {
			r.defaulted("dayNotes." + day)
			continue
		}
		for current, legacy := range map[string]string{
			"startNote": "start",
			"endNote":   "end",
			"complete":  "complete",
			"intention": "intention",
		} {
			if val, ok := n[legacy]; ok {
				rec[current] = val
			}
		}
	}
	return days
}

// legacyActivity renames {time, type, detail} entries to
// {timestamp, kind, detail}. Non-object elements are passed through and
// dropped by reconcile.
func legacyActivity(v any) any {
	arr, ok := asArray(v)
	if !ok {
		return v
	}
	out := make([]any, len(arr))
	for i, elem := range arr {
		m, ok := asObject(elem)
		if !ok {
			out[i] = elem
			continue
		}
		out[i] = map[string]any{
			"timestamp": m["time"],
			"kind":      m["type"],
			"detail":    m["detail"],
		}
	}
	return out
}
