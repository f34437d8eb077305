package migrate

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hq/internal/codec"
	"github.com/roach88/hq/internal/overlay"
)

func parse(t *testing.T, text string) codec.RawPayload {
	t.Helper()
	raw, err := codec.Parse([]byte(text))
	require.NoError(t, err)
	return raw
}

func populatedOverlay() *overlay.Overlay {
	o := overlay.Default()
	o.Settings = overlay.Settings{ReducedMotion: true, Theme: overlay.ThemeLight}
	o.DayProgress["D1"] = overlay.DayProgress{TickedItemIDs: []string{"a", "b", "c"}, Complete: true}
	o.DayProgress["D7"] = overlay.DayProgress{TickedItemIDs: []string{"x"}, StartNote: "s", EndNote: "e", Intention: "i"}
	o.UserEntries.Bugs = []overlay.Bug{
		{ID: "0190f0e2-aaaa-7000-8000-000000000001", Title: "Bug", Severity: overlay.Sev3, Status: overlay.StatusInProgress, Origin: overlay.OriginLocal},
	}
	o.UserEntries.Ideas = []overlay.Idea{{ID: "i-1", Name: "Idea", Area: "", Origin: overlay.OriginLocal}}
	o.UserEntries.Decisions = []overlay.Decision{{ID: "DEC-9", Date: "2026-01-02", Decision: "Go", Impact: "All", Origin: overlay.OriginLocal}}
	o.DocumentPatch = "<p>patched & <script>x</script></p>"
	o.ActivityLog = []overlay.Activity{
		{Timestamp: time.Date(2026, 3, 4, 5, 6, 7, 890000000, time.UTC), Kind: "tick", Detail: "D1:a=true"},
	}
	o.NotifiedMilestones = []int{25, 50}
	saved := time.Date(2026, 3, 4, 5, 6, 8, 0, time.UTC)
	o.LastSavedAt = &saved
	return o
}

func assertShape(t *testing.T, o *overlay.Overlay) {
	t.Helper()
	require.NotNil(t, o)
	assert.Equal(t, overlay.CurrentVersion, o.SchemaVersion)
	require.Len(t, o.DayProgress, len(overlay.DayIDs()))
	for _, d := range overlay.DayIDs() {
		dp, ok := o.DayProgress[d]
		require.True(t, ok, "missing day %s", d)
		assert.NotNil(t, dp.TickedItemIDs)
	}
	assert.LessOrEqual(t, len(o.ActivityLog), overlay.ActivityCap)
	assert.NotNil(t, o.UserEntries.Bugs)
	assert.NotNil(t, o.UserEntries.Ideas)
	assert.NotNil(t, o.UserEntries.Decisions)
}

func TestReconcile_Nil(t *testing.T) {
	assert.Equal(t, overlay.Default(), Reconcile(nil))
}

func TestReconcile_RoundTrip(t *testing.T) {
	for name, o := range map[string]*overlay.Overlay{
		"default":   overlay.Default(),
		"populated": populatedOverlay(),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := codec.Serialize(o)
			require.NoError(t, err)

			got, report := ReconcileWithReport(parse(t, string(data)))
			assert.Equal(t, o, got)
			assert.True(t, report.Clean(), "report: %+v", report)
			assert.Equal(t, overlay.CurrentVersion, report.SourceVersion)
			assert.False(t, report.Legacy)
		})
	}
}

func TestReconcile_ForeignShapesNeverFail(t *testing.T) {
	payloads := []string{
		`null`,
		`42`,
		`"overlay"`,
		`[{"schemaVersion": 2}]`,
		`{}`,
		`{"schemaVersion": 99}`,
		`{"schemaVersion": "two"}`,
		`{"dayProgress": []}`,
		`{"dayProgress": {"D1": 5, "D2": [], "D99": {}, "": null}}`,
		`{"dayProgress": {"D1": {"tickedItemIds": [1, 2], "complete": "yes", "startNote": {}}}}`,
		`{"settings": "dark", "userEntries": 7, "activityLog": {}, "notifiedMilestones": "25"}`,
		`{"userEntries": {"bugs": [null, 1, "x", {"title": 5}], "ideas": {}, "decisions": [[]]}}`,
		`{"activityLog": [{"timestamp": "yesterday", "kind": "tick"}, {"timestamp": 12, "kind": ""}]}`,
		`{"lastSavedAt": 1.5, "documentPatch": ["<p>"]}`,
		`{"notifiedMilestones": [25, 250, -1]}`,
		`{"notifiedMilestones": [1e400]}`,
		`{"dayTicks": "bad", "dayNotes": [1]}`,
		`{"dayTicks": {"D1": {"a": true}, "D11": {"b": true}}, "activity": 3}`,
	}
	for _, p := range payloads {
		t.Run(p, func(t *testing.T) {
			var o *overlay.Overlay
			require.NotPanics(t, func() { o = Reconcile(parse(t, p)) })
			assertShape(t, o)
		})
	}
}

func TestReconcile_NonObjectReportsRoot(t *testing.T) {
	o, report := ReconcileWithReport([]any{"x"})
	assert.Equal(t, overlay.Default(), o)
	assert.Equal(t, []string{"$"}, report.Defaulted)
}

func TestReconcile_PreviousVersionWithCorruptDay(t *testing.T) {
	days := map[string]any{}
	for i, d := range overlay.DayIDs() {
		days[d] = map[string]any{
			"tickedItemIds": []any{fmt.Sprintf("%s-item", d)},
			"startNote":     fmt.Sprintf("start %d", i+1),
			"endNote":       fmt.Sprintf("end %d", i+1),
			"complete":      i%2 == 0,
		}
	}
	days["D3"].(map[string]any)["tickedItemIds"] = "not-an-array"

	payload := map[string]any{"schemaVersion": 1, "dayProgress": days}
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	o, report := ReconcileWithReport(parse(t, string(data)))
	assertShape(t, o)

	d3 := o.DayProgress["D3"]
	assert.Empty(t, d3.TickedItemIDs)
	assert.Equal(t, "start 3", d3.StartNote)
	assert.Equal(t, "end 3", d3.EndNote)
	assert.True(t, d3.Complete)
	assert.Equal(t, "", d3.Intention)

	for i, d := range overlay.DayIDs() {
		if d == "D3" {
			continue
		}
		dp := o.DayProgress[d]
		assert.Equal(t, []string{d + "-item"}, dp.TickedItemIDs, d)
		assert.Equal(t, fmt.Sprintf("start %d", i+1), dp.StartNote, d)
		assert.Equal(t, i%2 == 0, dp.Complete, d)
	}

	assert.Equal(t, 1, report.SourceVersion)
	assert.Equal(t, []string{"dayProgress.D3.tickedItemIds"}, report.Defaulted)
}

func TestReconcile_MissingSchemaVersion(t *testing.T) {
	o, report := ReconcileWithReport(parse(t, `{"dayProgress": {"D2": {"tickedItemIds": ["b", "a", "b"]}}}`))
	assertShape(t, o)
	assert.Equal(t, overlay.CurrentVersion, o.SchemaVersion)
	assert.Equal(t, 0, report.SourceVersion)
	assert.Equal(t, []string{"a", "b"}, o.DayProgress["D2"].TickedItemIDs, "ticks normalized to a sorted set")
}

func TestReconcile_FutureVersionKeepsMatchingFields(t *testing.T) {
	o := Reconcile(parse(t, `{
		"schemaVersion": 7,
		"settings": {"theme": "dark", "fontSize": "huge"},
		"dayProgress": {"D1": {"complete": true, "mood": "great"}},
		"newTopLevel": {"x": 1}
	}`))
	assert.Equal(t, overlay.CurrentVersion, o.SchemaVersion)
	assert.Equal(t, overlay.ThemeDark, o.Settings.Theme)
	assert.True(t, o.DayProgress["D1"].Complete)
}

func TestReconcile_UnknownDaysDropped(t *testing.T) {
	o, report := ReconcileWithReport(parse(t, `{"dayProgress": {"D11": {"complete": true}, "D0": {}, "D4": {"complete": true}}}`))
	assertShape(t, o)
	assert.True(t, o.DayProgress["D4"].Complete)
	_, has := o.DayProgress["D11"]
	assert.False(t, has)
	assert.Equal(t, []string{"dayProgress.D0", "dayProgress.D11"}, report.Dropped)
}

func TestReconcile_SettingsIndependent(t *testing.T) {
	o, report := ReconcileWithReport(parse(t, `{"settings": {"highContrast": "yes", "reducedMotion": true, "theme": "neon"}}`))
	assert.False(t, o.Settings.HighContrast)
	assert.True(t, o.Settings.ReducedMotion)
	assert.Equal(t, overlay.ThemeSystem, o.Settings.Theme)
	assert.ElementsMatch(t, []string{"settings.highContrast", "settings.theme"}, report.Defaulted)
}

func TestReconcile_Entries(t *testing.T) {
	o, report := ReconcileWithReport(parse(t, `{"userEntries": {
		"bugs": [
			{"id": "b1", "title": "ok", "severity": "Sev1", "status": "Done", "origin": "base"},
			{"title": "no id", "severity": "Sev9"},
			{"id": "b1", "title": "duplicate id", "status": 3},
			{"id": "b2", "title": ""},
			"garbage"
		],
		"ideas": [{"name": "idea", "area": 4}, {"area": "nameless"}],
		"decisions": [
			{"id": "DEC-1", "decision": "d1", "date": "2026-01-01"},
			{"id": "DEC-1", "decision": "d1 again"},
			{"id": "DEC-2"}
		]
	}}`))

	bugs := o.UserEntries.Bugs
	require.Len(t, bugs, 3)
	assert.Equal(t, overlay.Bug{ID: "b1", Title: "ok", Severity: overlay.Sev1, Status: overlay.StatusDone, Origin: overlay.OriginLocal}, bugs[0])
	assert.Equal(t, overlay.Bug{ID: "bug-2", Title: "no id", Severity: overlay.Sev2, Status: overlay.StatusNew, Origin: overlay.OriginLocal}, bugs[1])
	assert.Equal(t, "b1-2", bugs[2].ID)
	assert.Equal(t, overlay.StatusNew, bugs[2].Status)

	require.Len(t, o.UserEntries.Ideas, 1)
	assert.Equal(t, overlay.Idea{ID: "idea-1", Name: "idea", Origin: overlay.OriginLocal}, o.UserEntries.Ideas[0])

	require.Len(t, o.UserEntries.Decisions, 2)
	assert.Equal(t, "DEC-1", o.UserEntries.Decisions[0].ID)
	assert.Equal(t, "DEC-1-2", o.UserEntries.Decisions[1].ID)

	assert.ElementsMatch(t, []string{
		"userEntries.bugs[3]", "userEntries.bugs[4]",
		"userEntries.ideas[1]",
		"userEntries.decisions[2]",
	}, report.Dropped)
	assert.ElementsMatch(t, []string{
		"userEntries.bugs[1].severity",
		"userEntries.bugs[2].status",
		"userEntries.ideas[0].area",
	}, report.Defaulted)
}

func TestReconcile_ActivityCapOnLoad(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := make([]any, 0, overlay.ActivityCap+20)
	for i := 0; i < overlay.ActivityCap+20; i++ {
		entries = append(entries, map[string]any{
			"timestamp": base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
			"kind":      "tick",
			"detail":    fmt.Sprint(i),
		})
	}
	data, err := json.Marshal(map[string]any{"activityLog": entries})
	require.NoError(t, err)

	o, report := ReconcileWithReport(parse(t, string(data)))
	require.Len(t, o.ActivityLog, overlay.ActivityCap)
	assert.Equal(t, "20", o.ActivityLog[0].Detail)
	assert.Equal(t, fmt.Sprint(overlay.ActivityCap+19), o.ActivityLog[overlay.ActivityCap-1].Detail)
	require.Len(t, report.Dropped, 1)
	assert.Contains(t, report.Dropped[0], "20 oldest")
}

func TestReconcile_Milestones(t *testing.T) {
	o := Reconcile(parse(t, `{"notifiedMilestones": [75, 25, 25]}`))
	assert.Equal(t, []int{25, 75}, o.NotifiedMilestones)

	o, report := ReconcileWithReport(parse(t, `{"notifiedMilestones": [25, 101]}`))
	assert.Empty(t, o.NotifiedMilestones)
	assert.Equal(t, []string{"notifiedMilestones"}, report.Defaulted)
}

func TestReconcile_NullsAreAbsent(t *testing.T) {
	o, report := ReconcileWithReport(parse(t, `{"settings": null, "lastSavedAt": null, "documentPatch": null,
		"dayProgress": {"D1": {"startNote": null, "tickedItemIds": null}}}`))
	assertShape(t, o)
	assert.Nil(t, o.LastSavedAt)
	assert.True(t, report.Clean())
}

func TestReconcile_LegacyBrowserShape(t *testing.T) {
	legacy := `{
		"version": 1,
		"dayTicks": {"D1": {"d1-a": true, "d1-b": false, "d1-c": true}, "D3": {"x": true}},
		"dayNotes": {
			"D1": {"start": "morning", "end": "evening", "complete": true},
			"D2": {"start": "", "end": "", "complete": false},
			"D12": {"start": "lost", "end": "", "complete": true}
		},
		"bugs": [{"title": "Crash", "status": "In progress", "severity": "Sev1", "local": true}],
		"parkingLocal": [{"name": "Offline mode", "area": "sync"}],
		"decisionsLocal": [{"id": "DEC-7", "date": "2025-12-01", "decision": "Keep it local", "impact": "none"}],
		"ssotPatch": "<h2>Patched</h2>",
		"lastSaved": "2025-12-02T10:00:00.000Z",
		"activity": [{"time": 1764669600000, "type": "tick", "detail": "D1:d1-a=true"}]
	}`

	o, report := ReconcileWithReport(parse(t, legacy))
	assertShape(t, o)
	assert.True(t, report.Legacy)
	assert.Equal(t, 1, report.SourceVersion)

	d1 := o.DayProgress["D1"]
	assert.Equal(t, []string{"d1-a", "d1-c"}, d1.TickedItemIDs)
	assert.Equal(t, "morning", d1.StartNote)
	assert.Equal(t, "evening", d1.EndNote)
	assert.True(t, d1.Complete)
	assert.Equal(t, []string{"x"}, o.DayProgress["D3"].TickedItemIDs)

	require.Len(t, o.UserEntries.Bugs, 1)
	assert.Equal(t, overlay.Bug{ID: "bug-1", Title: "Crash", Severity: overlay.Sev1, Status: overlay.StatusInProgress, Origin: overlay.OriginLocal}, o.UserEntries.Bugs[0])
	require.Len(t, o.UserEntries.Ideas, 1)
	assert.Equal(t, "Offline mode", o.UserEntries.Ideas[0].Name)
	require.Len(t, o.UserEntries.Decisions, 1)
	assert.Equal(t, "DEC-7", o.UserEntries.Decisions[0].ID)

	assert.Equal(t, "<h2>Patched</h2>", o.DocumentPatch)
	require.NotNil(t, o.LastSavedAt)
	assert.Equal(t, time.Date(2025, 12, 2, 10, 0, 0, 0, time.UTC), *o.LastSavedAt)

	require.Len(t, o.ActivityLog, 1)
	assert.Equal(t, "tick", o.ActivityLog[0].Kind)
	assert.Equal(t, time.UnixMilli(1764669600000).UTC(), o.ActivityLog[0].Timestamp)

	assert.Equal(t, []string{"dayProgress.D12"}, report.Dropped)
}

func TestReconcile_CurrentKeysWinOverLegacy(t *testing.T) {
	o := Reconcile(parse(t, `{"documentPatch": "current", "ssotPatch": "legacy", "dayTicks": {"D1": {"a": true}}}`))
	assert.Equal(t, "current", o.DocumentPatch)
	assert.Equal(t, []string{"a"}, o.DayProgress["D1"].TickedItemIDs)
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	raw := parse(t, `{"dayTicks": {"D1": {"a": true}}, "ssotPatch": "x"}`)
	before, err := json.Marshal(raw)
	require.NoError(t, err)

	Reconcile(raw)

	after, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.False(t, strings.Contains(string(after), "dayProgress"))
}
