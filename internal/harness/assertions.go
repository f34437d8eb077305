package harness

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/roach88/hq/internal/overlay"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent // invocations, for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, event := range e.Trace {
			if event.Type == "invocation" {
				fmt.Fprintf(&buf, "  [%d] %s %v\n", i+1, event.Action, event.Args)
			}
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages in order.
func EvaluateAssertions(result *Result, o *overlay.Overlay, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertActivityContains:
			err = assertActivityContains(o.ActivityLog, a)
		case AssertActivityCount:
			err = assertActivityCount(o.ActivityLog, a)
		case AssertActivityOrder:
			err = assertActivityOrder(o.ActivityLog, a)
		case AssertFinalState:
			err = assertFinalState(result.State, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// assertTraceContains checks that an invocation of the action with
// matching args (subset) is in the trace.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, event := range trace {
		if event.Type == "invocation" && event.Action == a.Action && matchArgs(event.Args, a.Args) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("action %s with args %v", a.Action, a.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceCount checks that the action was invoked exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Type == "invocation" && event.Action == a.Action {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

func activityMatches(entry overlay.Activity, a Assertion) bool {
	return entry.Kind == a.Kind && (a.Detail == "" || entry.Detail == a.Detail)
}

func describeActivity(log []overlay.Activity) string {
	parts := make([]string, len(log))
	for i, entry := range log {
		parts[i] = entry.Kind + "(" + entry.Detail + ")"
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func assertActivityContains(log []overlay.Activity, a Assertion) error {
	for _, entry := range log {
		if activityMatches(entry, a) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertActivityContains,
		Expected: fmt.Sprintf("activity %s %q", a.Kind, a.Detail),
		Actual:   describeActivity(log),
	}
}

func assertActivityCount(log []overlay.Activity, a Assertion) error {
	count := 0
	for _, entry := range log {
		if activityMatches(entry, a) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertActivityCount,
			Expected: fmt.Sprintf("%d %s entries", a.Count, a.Kind),
			Actual:   fmt.Sprintf("%d in %s", count, describeActivity(log)),
		}
	}
	return nil
}

// assertActivityOrder checks that the kinds appear in the log in order.
// Other entries may come between them.
func assertActivityOrder(log []overlay.Activity, a Assertion) error {
	next := 0
	for _, entry := range log {
		if next < len(a.Kinds) && entry.Kind == a.Kinds[next] {
			next++
		}
	}
	if next < len(a.Kinds) {
		return &AssertionError{
			Type:     AssertActivityOrder,
			Expected: fmt.Sprintf("kinds in order: %v", a.Kinds),
			Actual:   fmt.Sprintf("%s missing after position %d in %s", a.Kinds[next], next, describeActivity(log)),
		}
	}
	return nil
}

// assertFinalState checks the value at a dotted path of the final overlay.
func assertFinalState(state map[string]any, a Assertion) error {
	actual, ok := lookup(state, a.Path)
	if !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s = %v", a.Path, a.Equals),
			Actual:   "path not present",
		}
	}
	if !valuesEqual(a.Equals, actual) {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s = %v", a.Path, a.Equals),
			Actual:   fmt.Sprintf("%s = %v", a.Path, actual),
		}
	}
	return nil
}

// lookup walks path through decoded JSON values.
func lookup(v any, path string) (any, bool) {
	cur := v
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// matchArgs reports whether every expected arg is present in actual with
// an equal value.
func matchArgs(actual, expected map[string]any) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok || !valuesEqual(want, got) {
			return false
		}
	}
	return true
}

// valuesEqual compares two values after a JSON round trip, so YAML ints,
// Go ints and JSON float64s of the same number are equal.
func valuesEqual(expected, actual any) bool {
	return reflect.DeepEqual(normalize(expected), normalize(actual))
}

func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}
