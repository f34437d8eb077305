package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/hq/internal/basedata"
	"github.com/roach88/hq/internal/slot"
	"github.com/roach88/hq/internal/store"
)

// session is one command's view of the overlay: the opened slot, the
// loaded store and, when available, the base dataset.
type session struct {
	ctx   context.Context
	slot  slot.Slot
	store *store.Store
	base  *basedata.Dataset
	out   *OutputFormatter
}

// openSession opens the slot, loads the base dataset and the overlay.
// When requireBase is false a base dataset that fails to load is logged
// and the session runs without one.
func openSession(cmd *cobra.Command, opts *RootOptions, requireBase bool) (*session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	base, err := basedata.Load(opts.BaseDir)
	if err != nil {
		if requireBase {
			return nil, WrapExitError(ExitCommandError, "failed to load base dataset", err)
		}
		slog.Debug("running without base dataset", "dir", opts.BaseDir, "error", err)
		base = nil
	}

	slog.Debug("opening slot", "backend", opts.Backend, "path", opts.Database)
	sl, err := slot.Open(opts.Backend, opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to open storage", err)
	}

	storeOpts := []store.Option{store.WithLogger(slog.Default())}
	if base != nil {
		storeOpts = append(storeOpts, store.WithChecklist(base))
	}
	if opts.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(opts.Clock))
	}
	if opts.IDs != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(opts.IDs))
	}
	st := store.New(sl, storeOpts...)
	st.Load(ctx)

	return &session{
		ctx:   ctx,
		slot:  sl,
		store: st,
		base:  base,
		out: &OutputFormatter{
			Format:  opts.Format,
			Writer:  cmd.OutOrStdout(),
			Verbose: opts.Verbose,
			Lang:    opts.langTag,
		},
	}, nil
}

// Close releases the slot.
func (s *session) Close() {
	if err := s.slot.Close(); err != nil {
		slog.Error("error closing storage", "error", err)
	}
}

// baseDocumentation returns the base documentation page, or "" without a
// base dataset.
func (s *session) baseDocumentation() string {
	if s.base == nil {
		return ""
	}
	return s.base.Documentation
}
