package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/hq/internal/codec"
	"github.com/roach88/hq/internal/migrate"
	"github.com/roach88/hq/internal/overlay"
	"github.com/roach88/hq/internal/progress"
	"github.com/roach88/hq/internal/slot"
)

// Clock supplies wall time for lastSavedAt, activity timestamps and export
// filenames.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Store holds the current overlay and persists it to a slot.
// It is not safe for concurrent use; a process has one writer.
type Store struct {
	slot       slot.Slot
	key        string
	clock      Clock
	ids        IDGenerator
	logger     *slog.Logger
	checklist  progress.Checklist
	milestones []int

	current *overlay.Overlay
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock. Default: the system clock.
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithChecklist sets the base checklist used to validate ticks and to
// detect milestones. Without one, any item id can be ticked and no
// milestones fire.
func WithChecklist(c progress.Checklist) Option {
	return func(s *Store) {
		s.checklist = c
	}
}

// WithMilestones overrides progress.DefaultMilestones.
func WithMilestones(thresholds ...int) Option {
	return func(s *Store) {
		s.milestones = thresholds
	}
}

// WithIDGenerator sets the generator for new bug and idea ids.
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		s.ids = g
	}
}

// WithKey overrides the slot key. Default: overlay.StorageKey.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// New returns a store over sl holding a default overlay. Call Load to read
// the persisted one.
func New(sl slot.Slot, opts ...Option) *Store {
	s := &Store{
		slot:       sl,
		key:        overlay.StorageKey,
		clock:      systemClock{},
		ids:        UUIDv7Generator{},
		logger:     slog.Default(),
		milestones: progress.DefaultMilestones,
		current:    overlay.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Overlay returns the current overlay. Callers must not modify it; use the
// mutation methods.
func (s *Store) Overlay() *overlay.Overlay {
	return s.current
}

// Load reads the slot and makes its reconciled content current.
// A missing slot, a storage failure or an undecodable payload yields the
// default overlay; Load never fails.
func (s *Store) Load(ctx context.Context) *overlay.Overlay {
	text, err := s.slot.Read(ctx, s.key)
	switch {
	case errors.Is(err, slot.ErrNotFound):
		s.logger.Debug("no saved overlay, starting from defaults", "key", s.key)
		s.current = overlay.Default()
		return s.current
	case err != nil:
		s.logger.Warn("overlay unreadable, starting from defaults", "key", s.key, "error", err)
		s.current = overlay.Default()
		return s.current
	}

	raw, err := codec.Parse([]byte(text))
	if err != nil {
		s.logger.Warn("saved overlay is corrupt, starting from defaults", "key", s.key, "error", err)
		s.current = overlay.Default()
		return s.current
	}

	o, report := migrate.ReconcileWithReport(raw)
	s.logReport("loaded overlay", report)
	s.current = o
	return s.current
}

func (s *Store) logReport(msg string, r migrate.Report) {
	attrs := []any{
		"from_version", r.SourceVersion,
		"to_version", overlay.CurrentVersion,
	}
	if r.Legacy {
		attrs = append(attrs, "legacy", true)
	}
	if !r.Clean() {
		attrs = append(attrs, "defaulted", r.Defaulted, "dropped", r.Dropped)
		s.logger.Warn(msg+" with losses", attrs...)
		return
	}
	if r.SourceVersion != overlay.CurrentVersion {
		s.logger.Info(msg+" from older version", attrs...)
		return
	}
	s.logger.Debug(msg, attrs...)
}

// Save stamps lastSavedAt and writes the serialized overlay to the slot.
// On failure lastSavedAt keeps its previous value and the error wraps a
// *slot.StorageUnavailableError.
func (s *Store) Save(ctx context.Context) error {
	prev := s.current.LastSavedAt
	now := s.clock.Now().UTC()
	s.current.LastSavedAt = &now

	data, err := codec.Serialize(s.current)
	if err != nil {
		s.current.LastSavedAt = prev
		return fmt.Errorf("save overlay: %w", err)
	}

	if err := s.slot.Write(ctx, s.key, string(data)); err != nil {
		s.current.LastSavedAt = prev
		s.logger.Error("save failed", "key", s.key, "error", err)
		return fmt.Errorf("save overlay: %w", err)
	}

	s.logger.Debug("overlay saved", "key", s.key, "bytes", len(data))
	return nil
}

// Export returns the serialized current overlay. It does not save or
// change anything.
func (s *Store) Export() ([]byte, error) {
	return codec.Serialize(s.current)
}

// ExportToFile writes the serialized overlay into dir under a timestamped
// name and returns the file's path.
func (s *Store) ExportToFile(dir string) (string, error) {
	data, err := s.Export()
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	path := filepath.Join(dir, codec.ExportFilename(s.clock.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	s.logger.Info("overlay exported", "path", path)
	return path, nil
}

// Import replaces the overlay with the content of an exported file.
// Undecodable content returns *ImportError and changes nothing. Content
// that decodes is reconciled, so files from older versions and other
// shapes are accepted.
func (s *Store) Import(ctx context.Context, content []byte) error {
	raw, err := codec.Parse(content)
	if err != nil {
		return &ImportError{Err: err}
	}

	o, report := migrate.ReconcileWithReport(raw)
	s.logReport("imported overlay", report)
	o.AppendActivity(overlay.Activity{
		Timestamp: s.now(),
		Kind:      "import",
		Detail:    fmt.Sprintf("%d bytes", len(content)),
	})
	return s.Replace(ctx, o)
}

// Reset replaces the overlay with defaults and saves.
func (s *Store) Reset(ctx context.Context) error {
	o := overlay.Default()
	o.AppendActivity(overlay.Activity{Timestamp: s.now(), Kind: "reset"})
	return s.Replace(ctx, o)
}

// Replace makes a copy of o current and saves it. If the save fails the
// previous overlay is restored.
func (s *Store) Replace(ctx context.Context, o *overlay.Overlay) error {
	prev := s.current
	s.current = o.Clone()
	if err := s.Save(ctx); err != nil {
		s.current = prev
		return err
	}
	return nil
}

func (s *Store) now() time.Time {
	return s.clock.Now().UTC()
}

func (s *Store) record(kind, detail string) {
	s.current.AppendActivity(overlay.Activity{
		Timestamp: s.now(),
		Kind:      kind,
		Detail:    detail,
	})
}
