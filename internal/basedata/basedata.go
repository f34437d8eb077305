// Package basedata loads the read-only base dataset: day checklists,
// prompts, sprints, tasks, seed entries and the documentation page.
//
// Each collection is a file named after it with a .json, .yaml or .yml
// extension. Files are decoded with YAML (JSON is valid YAML) and validated
// against an embedded CUE schema before they are mapped to Go types. Only
// day_checklists is required; a missing optional collection is empty.
package basedata

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/hq/internal/overlay"
)

//go:embed schema.cue
var schemaSource []byte

// Collection names, which are also the file base names.
const (
	CollectionPrompts       = "prompts"
	CollectionSprints       = "sprints"
	CollectionTasks         = "tasks"
	CollectionDayChecklists = "day_checklists"
	CollectionBugs          = "bugs"
	CollectionParking       = "parking"
	CollectionDecisions     = "decisions"
)

// DocumentationFile is the base documentation page inside the dataset dir.
const DocumentationFile = "ssot.html"

var extensions = []string{".json", ".yaml", ".yml"}

// Prompt holds the suggested start and end prompts for a day.
type Prompt struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Sprint describes one day of the plan.
type Sprint struct {
	Day   string `json:"day"`
	Title string `json:"title,omitempty"`
	Goal  string `json:"goal,omitempty"`
}

// Task is a guidance card. Progress is tracked by checklists, not tasks.
type Task struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Day      string `json:"day,omitempty"`
	Priority string `json:"priority,omitempty"`
	Status   string `json:"status"`
	Percent  int    `json:"percent,omitempty"`
}

// TaskStatuses are the task board columns in display order.
var TaskStatuses = []string{"Not started", "In progress", "Blocked", "Done"}

// TaskColumn is one task board column.
type TaskColumn struct {
	Status string
	Tasks  []Task
}

// ChecklistItem is one tickable item of a day.
type ChecklistItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Desc  string `json:"desc,omitempty"`
}

// DayChecklist lists a day's items in display order.
type DayChecklist struct {
	Day   string          `json:"day"`
	Items []ChecklistItem `json:"items"`
}

// Dataset is the loaded base dataset.
type Dataset struct {
	Prompts       []Prompt
	Sprints       []Sprint
	Tasks         []Task
	DayChecklists []DayChecklist
	Bugs          []overlay.Bug
	Parking       []overlay.Idea
	Decisions     []overlay.Decision

	// Documentation is the base documentation markup, unsanitized.
	Documentation string

	items map[string][]string
}

// Load reads the dataset in dir.
func Load(dir string) (*Dataset, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: dir, Message: "dataset directory not accessible", Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: dir, Message: "not a directory"}
	}

	l := &loader{dir: dir, ctx: cuecontext.New()}
	l.schema = l.ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := l.schema.Err(); err != nil {
		return nil, fmt.Errorf("compile dataset schema: %w", err)
	}

	ds := &Dataset{}
	if err := l.collection(CollectionDayChecklists, true, &ds.DayChecklists); err != nil {
		return nil, err
	}
	optional := []struct {
		name string
		dst  any
	}{
		{CollectionPrompts, &ds.Prompts},
		{CollectionSprints, &ds.Sprints},
		{CollectionTasks, &ds.Tasks},
		{CollectionBugs, &ds.Bugs},
		{CollectionParking, &ds.Parking},
		{CollectionDecisions, &ds.Decisions},
	}
	for _, c := range optional {
		if err := l.collection(c.name, false, c.dst); err != nil {
			return nil, err
		}
	}

	doc, err := os.ReadFile(filepath.Join(dir, DocumentationFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, &LoadError{Code: ErrCodeRead, Path: filepath.Join(dir, DocumentationFile), Message: "read documentation", Err: err}
	default:
		ds.Documentation = string(doc)
	}

	if err := ds.index(); err != nil {
		return nil, err
	}
	ds.seed()
	return ds, nil
}

type loader struct {
	dir    string
	ctx    *cue.Context
	schema cue.Value
}

// collection finds, decodes, validates and maps one collection into dst.
func (l *loader) collection(name string, required bool, dst any) error {
	path, err := l.find(name)
	if err != nil {
		return err
	}
	if path == "" {
		if required {
			return &LoadError{Code: ErrCodeNotFound, Collection: name, Path: l.dir, Message: "required collection is missing"}
		}
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Code: ErrCodeRead, Collection: name, Path: path, Message: "read collection", Err: err}
	}

	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return &LoadError{Code: ErrCodeParse, Collection: name, Path: path, Message: err.Error(), Err: err}
	}
	if data == nil {
		// An empty file is an empty collection.
		data = []any{}
	}

	v := l.ctx.Encode(data)
	if err := v.Err(); err != nil {
		return &LoadError{Code: ErrCodeParse, Collection: name, Path: path, Message: err.Error(), Err: err}
	}

	def := l.schema.LookupPath(cue.MakePath(cue.Def(name)))
	v = def.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeSchema, Collection: name, Path: path, Message: err.Error(), Err: err}
	}
	if err := v.Decode(dst); err != nil {
		return &LoadError{Code: ErrCodeSchema, Collection: name, Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

// find returns the collection's file, or "" when there is none.
// Two files for one collection is an error.
func (l *loader) find(name string) (string, error) {
	var found []string
	for _, ext := range extensions {
		p := filepath.Join(l.dir, name+ext)
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		return "", &LoadError{Code: ErrCodeDuplicate, Collection: name, Path: l.dir, Message: fmt.Sprintf("ambiguous collection files %v", found)}
	}
}

// index builds the per-day item lookup and rejects duplicate days and
// duplicate item ids within a day.
func (d *Dataset) index() error {
	d.items = make(map[string][]string, len(d.DayChecklists))
	for _, dc := range d.DayChecklists {
		if _, ok := d.items[dc.Day]; ok {
			return &LoadError{Code: ErrCodeDuplicate, Collection: CollectionDayChecklists, Message: fmt.Sprintf("day %s listed twice", dc.Day)}
		}
		ids := make([]string, 0, len(dc.Items))
		for _, it := range dc.Items {
			if slices.Contains(ids, it.ID) {
				return &LoadError{Code: ErrCodeDuplicate, Collection: CollectionDayChecklists, Message: fmt.Sprintf("%s: item %q listed twice", dc.Day, it.ID)}
			}
			ids = append(ids, it.ID)
		}
		d.items[dc.Day] = ids
	}
	return nil
}

// seed fills defaults on seed entries and marks them as base.
func (d *Dataset) seed() {
	for i := range d.Bugs {
		b := &d.Bugs[i]
		if b.ID == "" {
			b.ID = fmt.Sprintf("base-bug-%d", i+1)
		}
		if b.Severity == "" {
			b.Severity = overlay.Sev2
		}
		if b.Status == "" {
			b.Status = overlay.StatusNew
		}
		b.Origin = overlay.OriginBase
	}
	for i := range d.Parking {
		p := &d.Parking[i]
		if p.ID == "" {
			p.ID = fmt.Sprintf("base-idea-%d", i+1)
		}
		p.Origin = overlay.OriginBase
	}
	for i := range d.Decisions {
		d.Decisions[i].Origin = overlay.OriginBase
	}
}

// ItemIDs returns the checklist item ids of day in display order.
func (d *Dataset) ItemIDs(day string) []string {
	return slices.Clone(d.items[day])
}

// Checklist returns the checklist of day, or nil.
func (d *Dataset) Checklist(day string) []ChecklistItem {
	for _, dc := range d.DayChecklists {
		if dc.Day == day {
			return dc.Items
		}
	}
	return nil
}

// Prompt returns the prompts for day.
func (d *Dataset) Prompt(day string) (Prompt, bool) {
	for _, p := range d.Prompts {
		if p.Day == day {
			return p, true
		}
	}
	return Prompt{}, false
}

// Sprint returns the sprint planned for day.
func (d *Dataset) Sprint(day string) (Sprint, bool) {
	for _, sp := range d.Sprints {
		if sp.Day == day {
			return sp, true
		}
	}
	return Sprint{}, false
}

// TaskBoard groups the tasks by status, one column per TaskStatuses entry
// even when empty. Tasks keep their file order within a column.
func (d *Dataset) TaskBoard() []TaskColumn {
	board := make([]TaskColumn, len(TaskStatuses))
	for i, st := range TaskStatuses {
		board[i] = TaskColumn{Status: st, Tasks: []Task{}}
		for _, t := range d.Tasks {
			if t.Status == st {
				board[i].Tasks = append(board[i].Tasks, t)
			}
		}
	}
	return board
}

// Days returns the days that have a checklist, in registry order.
func (d *Dataset) Days() []string {
	var days []string
	for _, day := range overlay.DayIDs() {
		if _, ok := d.items[day]; ok {
			days = append(days, day)
		}
	}
	return days
}
