// Copyright © 2026 The pyclewn authors

package dapevents

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/google/go-dap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_Stopped(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	require.NoError(t, sink.Stopped("breakpoint", []int{3}))
	require.NoError(t, sink.Stopped("step", nil))

	r := bufio.NewReader(&buf)
	msg, err := dap.ReadProtocolMessage(r)
	require.NoError(t, err)
	evt, ok := msg.(*dap.StoppedEvent)
	require.True(t, ok, "expected StoppedEvent, got %T", msg)
	assert.Equal(t, 1, evt.Seq)
	assert.Equal(t, "breakpoint", evt.Body.Reason)
	assert.Equal(t, traceeThreadID, evt.Body.ThreadId)
	assert.True(t, evt.Body.AllThreadsStopped)
	assert.Equal(t, []int{3}, evt.Body.HitBreakpointIds)

	msg, err = dap.ReadProtocolMessage(r)
	require.NoError(t, err)
	evt, ok = msg.(*dap.StoppedEvent)
	require.True(t, ok, "expected StoppedEvent, got %T", msg)
	assert.Equal(t, 2, evt.Seq, "sequence numbers are monotonic")
	assert.Equal(t, "step", evt.Body.Reason)
	assert.Empty(t, evt.Body.HitBreakpointIds)
}

func TestSink_TerminatedAndOutput(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	require.NoError(t, sink.Output("tracing started\n"))
	require.NoError(t, sink.Continued())
	require.NoError(t, sink.Terminated())

	r := bufio.NewReader(&buf)
	msg, err := dap.ReadProtocolMessage(r)
	require.NoError(t, err)
	out, ok := msg.(*dap.OutputEvent)
	require.True(t, ok, "expected OutputEvent, got %T", msg)
	assert.Equal(t, "console", out.Body.Category)
	assert.Equal(t, "tracing started\n", out.Body.Output)

	msg, err = dap.ReadProtocolMessage(r)
	require.NoError(t, err)
	cont, ok := msg.(*dap.ContinuedEvent)
	require.True(t, ok, "expected ContinuedEvent, got %T", msg)
	assert.True(t, cont.Body.AllThreadsContinued)

	msg, err = dap.ReadProtocolMessage(r)
	require.NoError(t, err)
	_, ok = msg.(*dap.TerminatedEvent)
	require.True(t, ok, "expected TerminatedEvent, got %T", msg)
}
