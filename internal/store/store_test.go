package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hq/internal/codec"
	"github.com/roach88/hq/internal/overlay"
	"github.com/roach88/hq/internal/slot"
	"github.com/roach88/hq/internal/testutil"
)

// checklist is a map-backed progress.Checklist.
type checklist map[string][]string

func (c checklist) ItemIDs(day string) []string { return c[day] }

// oneItemPerDay gives every day a single item "<day>-x", so each tick moves
// overall completion by 10 points.
func oneItemPerDay() checklist {
	c := checklist{}
	for _, d := range overlay.DayIDs() {
		c[d] = []string{d + "-x"}
	}
	return c
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, sl slot.Slot, opts ...Option) *Store {
	t.Helper()
	base := []Option{
		WithClock(testutil.NewStepClock(time.Time{}, time.Second)),
		WithLogger(discardLogger()),
		WithIDGenerator(testutil.NewCountingIDs("e")),
	}
	return New(sl, append(base, opts...)...)
}

func TestLoad_EmptySlotYieldsDefaults(t *testing.T) {
	s := newTestStore(t, slot.NewMemory())

	o := s.Load(context.Background())
	assert.Equal(t, overlay.Default(), o)
	assert.Same(t, o, s.Overlay())
}

func TestLoad_CorruptPayloadYieldsDefaults(t *testing.T) {
	m := slot.NewMemory()
	m.Set(overlay.StorageKey, `{"schemaVersion": 2, "settings": `)
	s := newTestStore(t, m)

	assert.Equal(t, overlay.Default(), s.Load(context.Background()))

	// The corrupt value stays until the next save.
	v, _ := m.Get(overlay.StorageKey)
	assert.Equal(t, `{"schemaVersion": 2, "settings": `, v)
}

func TestLoad_StorageFailureYieldsDefaults(t *testing.T) {
	m := slot.NewMemory()
	m.Set(overlay.StorageKey, `{"schemaVersion": 2}`)
	m.FailReads(errors.New("permission denied"))
	s := newTestStore(t, m)

	assert.Equal(t, overlay.Default(), s.Load(context.Background()))
}

func TestLoad_NonObjectPayloadYieldsDefaults(t *testing.T) {
	m := slot.NewMemory()
	m.Set(overlay.StorageKey, `[1, 2, 3]`)
	s := newTestStore(t, m)

	assert.Equal(t, overlay.Default(), s.Load(context.Background()))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := slot.NewMemory()
	s := newTestStore(t, m)
	s.Load(ctx)

	_, err := s.Tick(ctx, "D2", "d2-a", true)
	require.NoError(t, err)
	require.NoError(t, s.SetNote(ctx, "D2", NoteStart, "focus"))
	_, err = s.AddBug(ctx, "Crash on save", overlay.Sev1)
	require.NoError(t, err)
	require.NoError(t, s.SetSetting(ctx, SettingTheme, "dark"))

	reloaded := newTestStore(t, m).Load(ctx)
	assert.Equal(t, s.Overlay(), reloaded)
}

func TestSave_StampsLastSavedAt(t *testing.T) {
	ctx := context.Background()
	clock := testutil.NewStepClock(time.Time{}, time.Second)
	s := newTestStore(t, slot.NewMemory(), WithClock(clock))
	s.Load(ctx)

	want := clock.Peek()
	require.NoError(t, s.Save(ctx))

	require.NotNil(t, s.Overlay().LastSavedAt)
	assert.Equal(t, want, *s.Overlay().LastSavedAt)
}

func TestSave_FailureKeepsLastSavedAt(t *testing.T) {
	ctx := context.Background()
	m := slot.NewMemory()
	s := newTestStore(t, m)
	s.Load(ctx)

	require.NoError(t, s.Save(ctx))
	saved := *s.Overlay().LastSavedAt

	m.FailWrites(errors.New("disk full"))
	err := s.Save(ctx)
	require.Error(t, err)

	var se *slot.StorageUnavailableError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, saved, *s.Overlay().LastSavedAt)
}

func TestSave_FailureOnFreshOverlayLeavesNil(t *testing.T) {
	ctx := context.Background()
	m := slot.NewMemory()
	m.FailWrites(errors.New("quota exceeded"))
	s := newTestStore(t, m)
	s.Load(ctx)

	require.Error(t, s.Save(ctx))
	assert.Nil(t, s.Overlay().LastSavedAt)
}

func TestExport_IsPure(t *testing.T) {
	ctx := context.Background()
	m := slot.NewMemory()
	s := newTestStore(t, m)
	s.Load(ctx)
	require.NoError(t, s.SetComplete(ctx, "D1", true))

	before := s.Overlay().Clone()
	writes := m.Writes()

	data, err := s.Export()
	require.NoError(t, err)

	assert.Equal(t, before, s.Overlay())
	assert.Equal(t, writes, m.Writes())

	raw, err := codec.Parse(data)
	require.NoError(t, err)
	assert.NotNil(t, raw)
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, slot.NewMemory())

	path, err := s.ExportToFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "project-hq-progress-2026-10-17-09-00-00.json"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := s.Export()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExportToFile_MissingDir(t *testing.T) {
	s := newTestStore(t, slot.NewMemory())

	_, err := s.ExportToFile(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestImport_ExportedFileRoundTrips(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t, slot.NewMemory())
	src.Load(ctx)
	_, err := src.Tick(ctx, "D4", "d4-b", true)
	require.NoError(t, err)
	_, err = src.AddIdea(ctx, "Offline mode", "sync")
	require.NoError(t, err)
	data, err := src.Export()
	require.NoError(t, err)

	dst := newTestStore(t, slot.NewMemory())
	dst.Load(ctx)
	require.NoError(t, dst.Import(ctx, data))

	got := dst.Overlay()
	assert.Equal(t, []string{"d4-b"}, got.Day("D4").TickedItemIDs)
	assert.Equal(t, src.Overlay().UserEntries, got.UserEntries)

	last := got.ActivityLog[len(got.ActivityLog)-1]
	assert.Equal(t, "import", last.Kind)
}

func TestImport_InvalidFileChangesNothing(t *testing.T) {
	ctx := context.Background()
	m := slot.NewMemory()
	s := newTestStore(t, m)
	s.Load(ctx)
	require.NoError(t, s.SetComplete(ctx, "D1", true))

	before := s.Overlay()
	snapshot := before.Clone()
	stored, _ := m.Get(overlay.StorageKey)

	err := s.Import(ctx, []byte(`{"dayProgress": `))
	require.Error(t, err)
	assert.True(t, IsImportError(err))
	assert.True(t, codec.IsDecodeError(err))

	assert.Same(t, before, s.Overlay())
	assert.Equal(t, snapshot, s.Overlay())
	after, _ := m.Get(overlay.StorageKey)
	assert.Equal(t, stored, after)
}

func TestImport_EmptyFile(t *testing.T) {
	s := newTestStore(t, slot.NewMemory())

	err := s.Import(context.Background(), nil)
	assert.True(t, IsImportError(err))
}

func TestImport_LegacyExport(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, slot.NewMemory())
	s.Load(ctx)

	legacy := `{
		"version": 1,
		"dayTicks": {"D2": {"d2-a": true, "d2-b": false}},
		"dayNotes": {"D2": {"start": "morning", "end": "", "complete": true}},
		"bugs": [{"title": "Crash", "severity": "Sev3", "status": "Done"}],
		"parkingLocal": [{"name": "Dark mode", "area": "ui"}],
		"decisionsLocal": [{"id": "DEC-4", "date": "2025-11-30", "decision": "SQLite", "impact": "low"}],
		"ssotPatch": "<p>Patched</p>",
		"activity": []
	}`
	require.NoError(t, s.Import(ctx, []byte(legacy)))

	o := s.Overlay()
	assert.Equal(t, overlay.CurrentVersion, o.SchemaVersion)
	assert.Equal(t, []string{"d2-a"}, o.Day("D2").TickedItemIDs)
	assert.Equal(t, "morning", o.Day("D2").StartNote)
	assert.True(t, o.Day("D2").Complete)
	require.Len(t, o.UserEntries.Bugs, 1)
	assert.Equal(t, overlay.StatusDone, o.UserEntries.Bugs[0].Status)
	require.Len(t, o.UserEntries.Ideas, 1)
	require.Len(t, o.UserEntries.Decisions, 1)
	assert.Equal(t, "<p>Patched</p>", o.DocumentPatch)
}

func TestImport_SaveFailureRestoresPrevious(t *testing.T) {
	ctx := context.Background()
	m := slot.NewMemory()
	s := newTestStore(t, m)
	s.Load(ctx)
	require.NoError(t, s.SetComplete(ctx, "D1", true))
	before := s.Overlay()

	m.FailWrites(errors.New("disk full"))
	err := s.Import(ctx, []byte(`{"schemaVersion": 2}`))
	require.Error(t, err)
	assert.False(t, IsImportError(err))
	assert.True(t, slot.IsUnavailable(err))
	assert.Same(t, before, s.Overlay())
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	m := slot.NewMemory()
	s := newTestStore(t, m)
	s.Load(ctx)
	_, err := s.AddBug(ctx, "Crash", "")
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	o := s.Overlay()
	assert.Empty(t, o.UserEntries.Bugs)
	require.Len(t, o.ActivityLog, 1)
	assert.Equal(t, "reset", o.ActivityLog[0].Kind)

	reloaded := newTestStore(t, m).Load(ctx)
	assert.Empty(t, reloaded.UserEntries.Bugs)
}

func TestLoad_PreviousVersionFromSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := slot.OpenSQLite(filepath.Join(t.TempDir(), "hq.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Write(ctx, overlay.StorageKey, `{
		"version": 1,
		"dayTicks": {"D3": {"d3-a": true}},
		"dayNotes": {"D3": "not an object"}
	}`))

	o := newTestStore(t, db).Load(ctx)
	assert.Equal(t, []string{"d3-a"}, o.Day("D3").TickedItemIDs)
	assert.Equal(t, "", o.Day("D3").StartNote)
	assert.False(t, o.Day("D3").Complete)
}

func TestDocumentation_AlwaysSanitized(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, slot.NewMemory())
	s.Load(ctx)

	assert.Equal(t, "<p>Base</p>", s.Documentation(`<p onclick="x()">Base</p><script>evil()</script>`))

	require.NoError(t, s.SetDocumentPatch(ctx, `<h2>Local</h2><script>evil()</script>`))
	assert.Equal(t, `<h2>Local</h2><script>evil()</script>`, s.Overlay().DocumentPatch, "stored raw")
	assert.Equal(t, "<h2>Local</h2>", s.Documentation("<p>Base</p>"))

	require.NoError(t, s.ClearDocumentPatch(ctx))
	assert.Equal(t, "<p>Base</p>", s.Documentation("<p>Base</p>"))
}

func TestReplace_CopiesOverlay(t *testing.T) {
	m := slot.NewMemory()
	s := newTestStore(t, m)

	o := overlay.Default()
	o.Settings.Theme = overlay.ThemeDark
	require.NoError(t, s.Replace(context.Background(), o))

	o.Settings.Theme = overlay.ThemeLight
	o.DayProgress["D1"] = overlay.DayProgress{TickedItemIDs: []string{"x"}}

	assert.Equal(t, overlay.ThemeDark, s.Overlay().Settings.Theme)
	assert.Empty(t, s.Overlay().Day("D1").TickedItemIDs)
	assert.NotNil(t, s.Overlay().LastSavedAt)
	assert.Nil(t, o.LastSavedAt, "stamp goes on the store's copy")
}
