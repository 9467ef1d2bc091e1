// Copyright © 2026 The pyclewn authors

package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mistobaan/pyclewn/tracer"
)

const scriptJSON = `{
  "units": [
    {"id": "main", "file": "main.py", "first_line": 1},
    {"id": "add", "file": "main.py", "first_line": 10}
  ],
  "breakpoints": [
    {"id": 1, "file": "main.py", "first_line": 10, "line": 12}
  ],
  "events": [
    {"event": "call", "frame": "f0", "unit": "main", "line": 1},
    {"event": "line", "frame": "f0", "line": 3},
    {"event": "call", "frame": "f1", "unit": "add", "line": 10},
    {"event": "line", "frame": "f1", "line": 11},
    {"event": "line", "frame": "f1", "line": 12},
    {"event": "return", "frame": "f1", "line": 12, "arg": "3"},
    {"event": "line", "frame": "f0", "line": 4},
    {"event": "return", "frame": "f0", "line": 4, "arg": "None"}
  ],
  "actions": ["next", "continue"]
}`

func TestLoad(t *testing.T) {
	s, err := Load([]byte(scriptJSON))
	require.NoError(t, err)

	require.Len(t, s.Units, 2)
	assert.Equal(t, "main.py", s.Units["add"].File)
	assert.Equal(t, 10, s.Units["add"].First)

	require.Len(t, s.Breakpoints, 1)
	assert.Equal(t, 1, s.Breakpoints[0].ID)
	assert.Equal(t, 12, s.Breakpoints[0].Line)

	require.Len(t, s.Steps, 8)
	assert.Equal(t, tracer.EventCall, s.Steps[0].Event)
	assert.Equal(t, "f0", s.Steps[0].Frame)
	assert.Equal(t, "3", s.Steps[5].Arg)

	assert.Equal(t, []string{"next", "continue"}, s.Actions)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{"units": [`},
		{"unit without id", `{"units": [{"file": "a.py"}]}`},
		{"breakpoint without line", `{"breakpoints": [{"file": "a.py"}]}`},
		{"unknown event kind", `{"events": [{"event": "jump", "frame": "f0"}]}`},
		{"event without frame", `{"events": [{"event": "line"}]}`},
		{"call into unknown unit", `{"events": [{"event": "call", "frame": "f0", "unit": "nope"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.json))
			require.Error(t, err)
		})
	}
}

func TestScript_BuildIndex(t *testing.T) {
	s, err := Load([]byte(scriptJSON))
	require.NoError(t, err)

	lines := tracer.NewLineCache()
	index := s.BuildIndex(lines)

	moduleBPs, err := index.Module("main.py")
	require.NoError(t, err)
	require.NotNil(t, moduleBPs)
	set, ok := moduleBPs[10][12]
	require.True(t, ok)
	assert.Equal(t, []int{1}, BreakpointIDs(set))

	assert.True(t, lines.Contains(10), "the unit first line is registered")
	assert.True(t, lines.Contains(12), "the breakpoint line is registered")
	assert.False(t, lines.Contains(11))

	missing, err := index.Module("other.py")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFrame_CallerOfBottomIsNil(t *testing.T) {
	unit := &Unit{ID: "main", File: "main.py", First: 1}
	bottom := NewFrame("f0", unit, nil, 1)
	assert.Nil(t, bottom.Caller())

	child := NewFrame("f1", unit, bottom, 2)
	assert.Equal(t, tracer.Frame(bottom), child.Caller())
}
