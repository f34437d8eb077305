package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ResolvesPaths(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "legacy_upgrade.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "legacy_upgrade", s.Name)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "legacy_v1.json"), s.Stored)
	assert.Equal(t, filepath.Join("..", "..", "data"), s.Base)
	require.Len(t, s.Flow, 1)
	assert.Equal(t, "tick", s.Flow[0].Invoke)
	assert.Equal(t, "d1-ci", s.Flow[0].Args["item"])
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"unknown_field.yaml", "failed to parse YAML"},
		{"unknown_action.yaml", `unknown action "teleport"`},
		{"missing_stored.yaml", "stored file"},
		{"does_not_exist.yaml", "failed to read scenario file"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := LoadScenario(filepath.Join("testdata", "invalid", tt.file))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateScenario(t *testing.T) {
	valid := func() *Scenario {
		return &Scenario{
			Name:        "ok",
			Description: "ok",
			Flow:        []FlowStep{{Invoke: "reset"}},
			Assertions:  []Assertion{{Type: AssertActivityCount, Kind: "reset", Count: 1}},
		}
	}
	require.NoError(t, validateScenario(valid()))

	tests := []struct {
		name   string
		modify func(*Scenario)
		want   string
	}{
		{"no name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"no description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no flow", func(s *Scenario) { s.Flow = nil }, "flow list is required"},
		{"no assertions", func(s *Scenario) { s.Assertions = nil }, "assertions list is required"},
		{"empty invoke", func(s *Scenario) { s.Flow[0].Invoke = "" }, "flow[0]: invoke is required"},
		{"bad case", func(s *Scenario) { s.Flow[0].Expect = &ExpectClause{Case: "Boom"} }, `unknown case "Boom"`},
		{"bad type", func(s *Scenario) { s.Assertions[0].Type = "trace_order" }, `unknown type "trace_order"`},
		{"final state without path", func(s *Scenario) { s.Assertions[0] = Assertion{Type: AssertFinalState} }, "requires path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.modify(s)
			err := validateScenario(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
