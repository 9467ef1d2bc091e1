// Copyright © 2026 The pyclewn authors

package tracer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopLine_Match(t *testing.T) {
	tests := []struct {
		name string
		l    StopLine
		line int
		want bool
	}{
		{"unconstrained matches any line", LineUnconstrained(), 5, true},
		{"unconstrained matches line zero", LineUnconstrained(), 0, true},
		{"unconstrained rejects negative lines", LineUnconstrained(), -1, false},
		{"always matches", LineAlways(), 5, true},
		{"always matches negative lines", LineAlways(), -1, true},
		{"at-least below threshold", LineAtLeast(10), 9, false},
		{"at-least at threshold", LineAtLeast(10), 10, true},
		{"at-least above threshold", LineAtLeast(10), 11, true},
		{"never", LineNever(), 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.l.match(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStopLine_ZeroValueIsUnconstrained(t *testing.T) {
	var l StopLine
	assert.True(t, l.IsUnconstrained())
	assert.Equal(t, LineUnconstrained(), l)
	assert.False(t, LineAlways().IsUnconstrained())
	assert.False(t, LineAtLeast(1).IsUnconstrained())
	assert.False(t, LineNever().IsUnconstrained())
}

func TestStopLine_CorruptModeFailsLoudly(t *testing.T) {
	l := StopLine{mode: 97}
	_, err := l.match(5)
	require.Error(t, err)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, l, decodeErr.Value)
}

func TestStopLine_String(t *testing.T) {
	assert.Equal(t, "unconstrained", LineUnconstrained().String())
	assert.Equal(t, "always", LineAlways().String())
	assert.Equal(t, "at-least(12)", LineAtLeast(12).String())
	assert.Equal(t, "never", LineNever().String())
}
