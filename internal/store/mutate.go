package store

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/hq/internal/overlay"
	"github.com/roach88/hq/internal/progress"
)

// NoteField selects one of a day's free-text fields.
type NoteField string

const (
	NoteStart     NoteField = "start"
	NoteEnd       NoteField = "end"
	NoteIntention NoteField = "intention"
)

// Setting keys accepted by SetSetting.
const (
	SettingHighContrast  = "highContrast"
	SettingReducedMotion = "reducedMotion"
	SettingTheme         = "theme"
)

// cleanText trims and NFC-normalizes user-entered text.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func (s *Store) day(day string) (overlay.DayProgress, error) {
	if !overlay.IsDay(day) {
		return overlay.DayProgress{}, unknownDay(day)
	}
	return s.current.Day(day), nil
}

// Tick marks item on day as done (on) or not done. It returns the overall
// completion milestones crossed for the first time by this change; each
// is also recorded in notifiedMilestones so it is never returned again.
//
// If the save fails the change stays in memory and the error is returned
// alongside the crossed milestones.
func (s *Store) Tick(ctx context.Context, day, item string, on bool) ([]int, error) {
	dp, err := s.day(day)
	if err != nil {
		return nil, err
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, invalid("empty checklist item")
	}
	if s.checklist != nil && !slices.Contains(s.checklist.ItemIDs(day), item) {
		return nil, invalid("%s has no checklist item %q", day, item)
	}

	i, found := slices.BinarySearch(dp.TickedItemIDs, item)
	if found == on {
		return nil, nil
	}

	var before float64
	if s.checklist != nil {
		before = progress.OverallCompletionPercent(s.current, s.checklist)
	}

	ticks := slices.Clone(dp.TickedItemIDs)
	if on {
		ticks = slices.Insert(ticks, i, item)
	} else {
		ticks = slices.Delete(ticks, i, i+1)
	}
	dp.TickedItemIDs = ticks
	s.current.DayProgress[day] = dp
	s.record("tick", fmt.Sprintf("%s:%s=%t", day, item, on))

	var crossed []int
	if s.checklist != nil {
		after := progress.OverallCompletionPercent(s.current, s.checklist)
		crossed = progress.MilestonesCrossed(s.milestones, before, after, s.current.NotifiedMilestones)
		for _, m := range crossed {
			s.current.NotifiedMilestones = append(s.current.NotifiedMilestones, m)
			s.record("milestone", fmt.Sprintf("%d%%", m))
		}
		slices.Sort(s.current.NotifiedMilestones)
	}

	return crossed, s.Save(ctx)
}

// SetNote replaces one of day's note fields. Notes are stored verbatim
// apart from Unicode normalization.
func (s *Store) SetNote(ctx context.Context, day string, field NoteField, text string) error {
	dp, err := s.day(day)
	if err != nil {
		return err
	}
	text = norm.NFC.String(text)
	switch field {
	case NoteStart:
		dp.StartNote = text
	case NoteEnd:
		dp.EndNote = text
	case NoteIntention:
		dp.Intention = text
	default:
		return invalid("note field %q", field)
	}
	s.current.DayProgress[day] = dp
	s.record("note", fmt.Sprintf("%s:%s", day, field))
	return s.Save(ctx)
}

// SetComplete marks day as complete or reopens it.
func (s *Store) SetComplete(ctx context.Context, day string, on bool) error {
	dp, err := s.day(day)
	if err != nil {
		return err
	}
	dp.Complete = on
	s.current.DayProgress[day] = dp
	s.record("day-complete", fmt.Sprintf("%s=%t", day, on))
	return s.Save(ctx)
}

// AddBug logs a new bug with status New. An empty severity means Sev2.
func (s *Store) AddBug(ctx context.Context, title string, severity overlay.Severity) (overlay.Bug, error) {
	title = cleanText(title)
	if title == "" {
		return overlay.Bug{}, invalid("bug title is required")
	}
	if severity == "" {
		severity = overlay.Sev2
	}
	if !overlay.ValidSeverities[severity] {
		return overlay.Bug{}, invalid("severity %q", severity)
	}

	b := overlay.Bug{
		ID:       s.ids.Generate(),
		Title:    title,
		Severity: severity,
		Status:   overlay.StatusNew,
		Origin:   overlay.OriginLocal,
	}
	s.current.UserEntries.Bugs = append(s.current.UserEntries.Bugs, b)
	s.record("bug-add", title)
	return b, s.Save(ctx)
}

// SetBugStatus changes the status of the bug with id.
func (s *Store) SetBugStatus(ctx context.Context, id string, status overlay.BugStatus) error {
	if !overlay.ValidStatuses[status] {
		return invalid("status %q", status)
	}
	bugs := s.current.UserEntries.Bugs
	i := slices.IndexFunc(bugs, func(b overlay.Bug) bool { return b.ID == id })
	if i < 0 {
		return notFound("bug", id)
	}
	bugs[i].Status = status
	s.record("bug-status", fmt.Sprintf("%s:%s", id, status))
	return s.Save(ctx)
}

// DeleteBug removes the bug with id.
func (s *Store) DeleteBug(ctx context.Context, id string) error {
	bugs := s.current.UserEntries.Bugs
	i := slices.IndexFunc(bugs, func(b overlay.Bug) bool { return b.ID == id })
	if i < 0 {
		return notFound("bug", id)
	}
	s.current.UserEntries.Bugs = slices.Delete(bugs, i, i+1)
	s.record("bug-del", id)
	return s.Save(ctx)
}

// AddIdea parks a new idea.
func (s *Store) AddIdea(ctx context.Context, name, area string) (overlay.Idea, error) {
	name = cleanText(name)
	if name == "" {
		return overlay.Idea{}, invalid("idea name is required")
	}
	idea := overlay.Idea{
		ID:     s.ids.Generate(),
		Name:   name,
		Area:   cleanText(area),
		Origin: overlay.OriginLocal,
	}
	s.current.UserEntries.Ideas = append(s.current.UserEntries.Ideas, idea)
	s.record("idea-add", name)
	return idea, s.Save(ctx)
}

// DeleteIdea removes the idea with id.
func (s *Store) DeleteIdea(ctx context.Context, id string) error {
	ideas := s.current.UserEntries.Ideas
	i := slices.IndexFunc(ideas, func(x overlay.Idea) bool { return x.ID == id })
	if i < 0 {
		return notFound("idea", id)
	}
	s.current.UserEntries.Ideas = slices.Delete(ideas, i, i+1)
	s.record("idea-del", id)
	return s.Save(ctx)
}

// AddDecision appends d to the decision log. The author picks the id,
// which must be unique. An empty date means today.
func (s *Store) AddDecision(ctx context.Context, d overlay.Decision) (overlay.Decision, error) {
	d.ID = cleanText(d.ID)
	d.Decision = cleanText(d.Decision)
	d.Impact = cleanText(d.Impact)
	d.Date = strings.TrimSpace(d.Date)
	if d.ID == "" {
		return overlay.Decision{}, invalid("decision id is required")
	}
	if d.Decision == "" {
		return overlay.Decision{}, invalid("decision text is required")
	}
	decisions := s.current.UserEntries.Decisions
	if slices.ContainsFunc(decisions, func(x overlay.Decision) bool { return x.ID == d.ID }) {
		return overlay.Decision{}, invalid("decision %q already exists", d.ID)
	}
	if d.Date == "" {
		d.Date = s.now().Format("2006-01-02")
	}
	d.Origin = overlay.OriginLocal

	s.current.UserEntries.Decisions = append(decisions, d)
	s.record("decision-add", d.ID)
	return d, s.Save(ctx)
}

// DeleteDecision removes the decision with id.
func (s *Store) DeleteDecision(ctx context.Context, id string) error {
	decisions := s.current.UserEntries.Decisions
	i := slices.IndexFunc(decisions, func(x overlay.Decision) bool { return x.ID == id })
	if i < 0 {
		return notFound("decision", id)
	}
	s.current.UserEntries.Decisions = slices.Delete(decisions, i, i+1)
	s.record("decision-del", id)
	return s.Save(ctx)
}

// SetDocumentPatch stores raw as the local documentation override.
// It is kept as written and sanitized only when rendered. Blank markup
// clears the override.
func (s *Store) SetDocumentPatch(ctx context.Context, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return s.ClearDocumentPatch(ctx)
	}
	s.current.DocumentPatch = raw
	s.record("doc-save", fmt.Sprintf("%d chars", utf8.RuneCountInString(raw)))
	return s.Save(ctx)
}

// ClearDocumentPatch drops the documentation override.
func (s *Store) ClearDocumentPatch(ctx context.Context) error {
	s.current.DocumentPatch = ""
	s.record("doc-clear", "")
	return s.Save(ctx)
}

// SetSetting changes one presentation setting. Boolean settings accept
// the forms strconv.ParseBool does; theme must be a known theme.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	settings := s.current.Settings
	switch key {
	case SettingHighContrast, SettingReducedMotion:
		on, err := strconv.ParseBool(value)
		if err != nil {
			return invalid("%s must be true or false, got %q", key, value)
		}
		if key == SettingHighContrast {
			settings.HighContrast = on
		} else {
			settings.ReducedMotion = on
		}
	case SettingTheme:
		theme := overlay.Theme(value)
		if !overlay.ValidThemes[theme] {
			return invalid("theme %q", value)
		}
		settings.Theme = theme
	default:
		return invalid("unknown setting %q", key)
	}
	s.current.Settings = settings
	s.record("settings", key+"="+value)
	return s.Save(ctx)
}
