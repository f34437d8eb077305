package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/roach88/hq/internal/basedata"
	"github.com/roach88/hq/internal/codec"
	"github.com/roach88/hq/internal/overlay"
	"github.com/roach88/hq/internal/slot"
	"github.com/roach88/hq/internal/store"
	"github.com/roach88/hq/internal/testutil"
)

// Output cases.
const (
	CaseSuccess            = "Success"
	CaseUnknownDay         = "UnknownDay"
	CaseNotFound           = "NotFound"
	CaseInvalidValue       = "InvalidValue"
	CaseImportInvalid      = "ImportInvalid"
	CaseStorageUnavailable = "StorageUnavailable"
	CaseError              = "Error"
)

var validCases = map[string]bool{
	CaseSuccess:            true,
	CaseUnknownDay:         true,
	CaseNotFound:           true,
	CaseInvalidValue:       true,
	CaseImportInvalid:      true,
	CaseStorageUnavailable: true,
	CaseError:              true,
}

// errDiskFull is the fault injected by fail_writes.
var errDiskFull = errors.New("disk full")

// Harness owns the store under test and the slot beneath it.
type Harness struct {
	slot  *slot.Memory
	store *store.Store
	opts  []store.Option
	seq   int64
}

// Run executes a scenario and returns the result.
//
// Each scenario runs over a fresh in-memory slot with a step clock
// starting at testutil.DefaultEpoch and counting ids, so runs are
// reproducible.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	h := &Harness{
		slot: slot.NewMemory(),
		opts: []store.Option{
			store.WithClock(testutil.NewStepClock(time.Time{}, time.Second)),
			store.WithIDGenerator(testutil.NewCountingIDs("id")),
			store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		},
	}

	if scenario.Base != "" {
		base, err := basedata.Load(scenario.Base)
		if err != nil {
			return nil, fmt.Errorf("failed to load base dataset: %w", err)
		}
		h.opts = append(h.opts, store.WithChecklist(base))
	}
	if len(scenario.Milestones) > 0 {
		h.opts = append(h.opts, store.WithMilestones(scenario.Milestones...))
	}

	if scenario.Stored != "" {
		raw, err := os.ReadFile(scenario.Stored)
		if err != nil {
			return nil, fmt.Errorf("failed to read stored payload: %w", err)
		}
		h.slot.Set(overlay.StorageKey, string(raw))
	}

	h.store = store.New(h.slot, h.opts...)
	h.store.Load(ctx)

	result := NewResult()
	for i, step := range scenario.Flow {
		h.executeStep(ctx, i, step, result)
	}

	state, err := stateOf(h.store.Overlay())
	if err != nil {
		return nil, err
	}
	result.State = state

	for _, msg := range EvaluateAssertions(result, h.store.Overlay(), scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// executeStep invokes one action and checks its expect clause.
func (h *Harness) executeStep(ctx context.Context, i int, step FlowStep, result *Result) {
	h.seq++
	result.AddInvocationTrace(step.Invoke, step.Args, h.seq)

	out, err := actions[step.Invoke](ctx, h, step.Args)
	outputCase := classify(err)
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	h.seq++
	result.AddCompletionTrace(outputCase, out, errMsg, h.seq)

	want := CaseSuccess
	if step.Expect != nil {
		want = step.Expect.Case
	}
	if outputCase != want {
		result.AddError(fmt.Sprintf("flow[%d] %s: expected case %s, got %s (%s)", i, step.Invoke, want, outputCase, errMsg))
		return
	}
	if step.Expect == nil {
		return
	}
	for key, expected := range step.Expect.Result {
		actual, ok := out[key]
		if !ok {
			result.AddError(fmt.Sprintf("flow[%d] %s: result has no field %q", i, step.Invoke, key))
			continue
		}
		if !valuesEqual(expected, actual) {
			result.AddError(fmt.Sprintf("flow[%d] %s: result %q = %v, expected %v", i, step.Invoke, key, actual, expected))
		}
	}
}

// classify maps an operation error to its output case.
func classify(err error) string {
	switch {
	case err == nil:
		return CaseSuccess
	case errors.Is(err, store.ErrUnknownDay):
		return CaseUnknownDay
	case errors.Is(err, store.ErrEntryNotFound):
		return CaseNotFound
	case errors.Is(err, store.ErrInvalidValue):
		return CaseInvalidValue
	case store.IsImportError(err):
		return CaseImportInvalid
	case slot.IsUnavailable(err):
		return CaseStorageUnavailable
	default:
		return CaseError
	}
}

// stateOf serializes o the way the store persists it and decodes the
// result into generic JSON values.
func stateOf(o *overlay.Overlay) (map[string]any, error) {
	data, err := codec.Serialize(o)
	if err != nil {
		return nil, err
	}
	var state map[string]any
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode final state: %w", err)
	}
	return state, nil
}
