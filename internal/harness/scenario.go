package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted run of the overlay store.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Base is the base dataset directory. Without one, ticks are not
	// checked against a checklist and no milestones fire.
	Base string `yaml:"base,omitempty"`

	// Stored is a file whose content is placed in the slot before the
	// store loads, as if left by an earlier version.
	Stored string `yaml:"stored,omitempty"`

	// Milestones overrides the overall completion thresholds.
	Milestones []int `yaml:"milestones,omitempty"`

	// Flow is the sequence of operations to invoke.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the trace, the activity log and the final overlay.
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep invokes one store operation.
type FlowStep struct {
	// Invoke is the action name, e.g. "tick" or "bug.add".
	Invoke string `yaml:"invoke"`

	// Args holds the action arguments.
	Args map[string]any `yaml:"args"`

	// Expect specifies the expected completion. If nil, Success is expected.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected completion of a step.
type ExpectClause struct {
	// Case is the expected output case, e.g. "Success" or "InvalidValue".
	Case string `yaml:"case"`

	// Result is matched as a subset of the step's result fields.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Action and Args select invocations (trace_contains, trace_count).
	Action string         `yaml:"action,omitempty"`
	Args   map[string]any `yaml:"args,omitempty"`

	// Kind and Detail select activity entries (activity_contains,
	// activity_count). An empty Detail matches any detail.
	Kind   string `yaml:"kind,omitempty"`
	Detail string `yaml:"detail,omitempty"`

	// Kinds is the expected order of activity kinds (activity_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Count is the expected number of matches (trace_count, activity_count).
	Count int `yaml:"count,omitempty"`

	// Path is a dotted path into the serialized overlay and Equals its
	// expected value (final_state). Array elements are addressed by index.
	Path   string `yaml:"path,omitempty"`
	Equals any    `yaml:"equals,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains    = "trace_contains"
	AssertTraceCount       = "trace_count"
	AssertActivityContains = "activity_contains"
	AssertActivityCount    = "activity_count"
	AssertActivityOrder    = "activity_order"
	AssertFinalState       = "final_state"
)

var assertionTypes = map[string]bool{
	AssertTraceContains:    true,
	AssertTraceCount:       true,
	AssertActivityContains: true,
	AssertActivityCount:    true,
	AssertActivityOrder:    true,
	AssertFinalState:       true,
}

// LoadScenario reads and parses a scenario YAML file. Base and Stored
// paths are resolved relative to the file. Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	dir := filepath.Dir(path)
	for _, p := range []*string{&scenario.Base, &scenario.Stored} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Stored != "" {
		if _, err := os.Stat(s.Stored); err != nil {
			return fmt.Errorf("stored file: %w", err)
		}
	}

	for i, step := range s.Flow {
		if step.Invoke == "" {
			return fmt.Errorf("flow[%d]: invoke is required", i)
		}
		if _, ok := actions[step.Invoke]; !ok {
			return fmt.Errorf("flow[%d]: unknown action %q", i, step.Invoke)
		}
		if step.Expect != nil && !validCases[step.Expect.Case] {
			return fmt.Errorf("flow[%d]: unknown case %q", i, step.Expect.Case)
		}
	}

	for i, a := range s.Assertions {
		if !assertionTypes[a.Type] {
			return fmt.Errorf("assertions[%d]: unknown type %q", i, a.Type)
		}
		if a.Type == AssertFinalState && a.Path == "" {
			return fmt.Errorf("assertions[%d]: final_state requires path", i)
		}
	}

	return nil
}
