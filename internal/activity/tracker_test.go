package activity

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_EmptyTracker(t *testing.T) {
	tr := NewTracker("task-1", "sess-1")
	s := tr.Summary()

	assert.Equal(t, "task-1", s.TaskID)
	assert.Equal(t, "sess-1", s.SessionID)
	assert.Equal(t, DefaultAgent, s.CurrentAgent)
	assert.Zero(t, s.ActivityCount)
	assert.Zero(t, s.ToolCallCount)
	assert.Zero(t, s.TransferCount)

	// An empty log is vacuously successful, never a division by zero.
	assert.Equal(t, 1.0, s.ActivityRate)
	assert.Equal(t, 1.0, s.ToolSuccessRate)
}

func TestSummary_Rates(t *testing.T) {
	tr := NewTracker("task-1", "sess-1")
	tr.RecordActivity("researcher", "search", "look up prior art", true)
	tr.RecordActivity("researcher", "search", "second pass", true)
	tr.RecordActivity("researcher", "summarize", "condense findings", false)
	tr.RecordToolCall("web_search", nil, "3 hits", true, 120*time.Millisecond)
	tr.RecordToolCall("web_search", nil, "timeout", false, 2*time.Second)

	s := tr.Summary()
	assert.Equal(t, 3, s.ActivityCount)
	assert.Equal(t, 2, s.ToolCallCount)
	assert.InDelta(t, 2.0/3.0, s.ActivityRate, 1e-9)
	assert.InDelta(t, 0.5, s.ToolSuccessRate, 1e-9)
	assert.Equal(t, []string{"researcher"}, s.Agents)
	assert.Equal(t, []string{"web_search"}, s.Tools)
}

func TestSummary_CurrentAgentFollowsTransfers(t *testing.T) {
	tr := NewTracker("task-1", "sess-1")
	assert.Equal(t, DefaultAgent, tr.Summary().CurrentAgent)

	tr.RecordTransfer(DefaultAgent, "researcher", "needs domain context", 0.9)
	assert.Equal(t, "researcher", tr.Summary().CurrentAgent)

	tr.RecordTransfer("researcher", "writer", "draft the answer", 0.8)
	s := tr.Summary()
	assert.Equal(t, "writer", s.CurrentAgent)
	assert.Equal(t, 2, s.TransferCount)
}

func TestSummary_AgentsIncludeTransferParticipants(t *testing.T) {
	tr := NewTracker("task-1", "sess-1")
	tr.RecordTransfer(DefaultAgent, "researcher", "needs domain context", 0.9)

	s := tr.Summary()
	assert.Equal(t, []string{"coordinator", "researcher"}, s.Agents)
	assert.Equal(t, "researcher", s.CurrentAgent)
}

func TestSummary_AgentsSorted(t *testing.T) {
	tr := NewTracker("task-1", "sess-1")
	tr.RecordActivity("zeta", "a", "", true)
	tr.RecordActivity("alpha", "b", "", true)

	assert.Equal(t, []string{"alpha", "zeta"}, tr.Summary().Agents)
}

func TestRenderTrace(t *testing.T) {
	tr := NewTracker("task-1", "sess-1")
	tr.RecordTransfer(DefaultAgent, "researcher", "kickoff", 1.0)
	tr.RecordToolCall("grep", nil, "", true, time.Millisecond)
	tr.RecordToolCall("grep", nil, "", false, time.Millisecond)
	for i := 0; i < 8; i++ {
		tr.RecordActivity("researcher", "step", fmt.Sprintf("step-%d", i), true)
	}

	out := tr.RenderTrace()
	assert.Contains(t, out, "session task-1_sess-1")
	assert.Contains(t, out, "coordinator -> researcher")
	assert.Contains(t, out, "grep: 1/2 ok")

	// Only the trailing window of activities is shown.
	assert.Contains(t, out, "step-7")
	assert.Contains(t, out, "step-3")
	assert.NotContains(t, out, "step-2")
	assert.Equal(t, 1, strings.Count(out, "recent activity"))
}

func TestExport_CopiesLogs(t *testing.T) {
	tr := NewTracker("task-1", "sess-1")
	tr.RecordActivity("researcher", "search", "", true)

	ex := tr.Export()
	require.Len(t, ex.Activities, 1)

	// Mutating the export must not leak back into the tracker.
	ex.Activities[0].Agent = "tampered"
	assert.Equal(t, "researcher", tr.Export().Activities[0].Agent)

	tr.RecordActivity("researcher", "again", "", true)
	assert.Len(t, ex.Activities, 1, "export is a snapshot")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, "task-1_sess-1", Key("task-1", "sess-1"))

	_, ok := r.Lookup("task-1", "sess-1")
	assert.False(t, ok)

	tr := r.Get("task-1", "sess-1")
	require.NotNil(t, tr)
	assert.Same(t, tr, r.Get("task-1", "sess-1"), "Get is idempotent per key")

	other := r.Get("task-1", "sess-2")
	assert.NotSame(t, tr, other, "sessions are isolated")
	assert.Equal(t, 2, r.Len())

	got, ok := r.Lookup("task-1", "sess-1")
	assert.True(t, ok)
	assert.Same(t, tr, got)

	r.Remove("task-1", "sess-1")
	_, ok = r.Lookup("task-1", "sess-1")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestTracker_ConcurrentRecording(t *testing.T) {
	tr := NewTracker("task-1", "sess-1")
	done := make(chan struct{})

	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				tr.RecordActivity("agent", "act", "", true)
				tr.RecordToolCall("tool", nil, "", true, 0)
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	s := tr.Summary()
	assert.Equal(t, 200, s.ActivityCount)
	assert.Equal(t, 200, s.ToolCallCount)
}
