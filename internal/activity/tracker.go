// Package activity records what happened during one task execution
// session: agent actions, tool invocations and agent-to-agent handoffs.
// Logs are append-only; prior entries are never rewritten.
package activity

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultAgent is reported as the current agent before any transfer occurs.
const DefaultAgent = "coordinator"

// recentWindow is how many trailing activities RenderTrace shows.
const recentWindow = 5

// Activity is one recorded agent action.
type Activity struct {
	Agent       string    `json:"agent"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
	Success     bool      `json:"success"`
	Timestamp   time.Time `json:"timestamp"`
}

// ToolCall is one recorded tool invocation.
type ToolCall struct {
	Tool       string            `json:"tool"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Result     string            `json:"result,omitempty"`
	Success    bool              `json:"success"`
	Duration   time.Duration     `json:"duration"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Transfer is one recorded agent-to-agent handoff.
type Transfer struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	Reason     string    `json:"reason,omitempty"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// Summary aggregates a tracker's logs.
type Summary struct {
	TaskID          string   `json:"task_id"`
	SessionID       string   `json:"session_id"`
	CurrentAgent    string   `json:"current_agent"`
	ActivityCount   int      `json:"activity_count"`
	ToolCallCount   int      `json:"tool_call_count"`
	TransferCount   int      `json:"transfer_count"`
	Agents          []string `json:"agents"`
	Tools           []string `json:"tools"`
	ActivityRate    float64  `json:"activity_success_rate"`
	ToolSuccessRate float64  `json:"tool_success_rate"`
}

// Export is the full structured dump of one session.
type Export struct {
	Summary    Summary    `json:"summary"`
	Activities []Activity `json:"activities"`
	ToolCalls  []ToolCall `json:"tool_calls"`
	Transfers  []Transfer `json:"transfers"`
}

// Tracker records one (task, session) execution trail.
type Tracker struct {
	mu         sync.RWMutex
	taskID     string
	sessionID  string
	activities []Activity
	toolCalls  []ToolCall
	transfers  []Transfer
}

// NewTracker creates an empty tracker for a task session.
func NewTracker(taskID, sessionID string) *Tracker {
	return &Tracker{taskID: taskID, sessionID: sessionID}
}

// RecordActivity appends an agent action.
func (t *Tracker) RecordActivity(agent, action, description string, success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activities = append(t.activities, Activity{
		Agent:       agent,
		Action:      action,
		Description: description,
		Success:     success,
		Timestamp:   time.Now(),
	})
}

// RecordToolCall appends a tool invocation.
func (t *Tracker) RecordToolCall(tool string, params map[string]string, result string, success bool, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.toolCalls = append(t.toolCalls, ToolCall{
		Tool:       tool,
		Parameters: params,
		Result:     result,
		Success:    success,
		Duration:   duration,
		Timestamp:  time.Now(),
	})
}

// RecordTransfer appends an agent handoff.
func (t *Tracker) RecordTransfer(from, to, reason string, confidence float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transfers = append(t.transfers, Transfer{
		From:       from,
		To:         to,
		Reason:     reason,
		Confidence: confidence,
		Timestamp:  time.Now(),
	})
}

// successRate is successes/total; an empty log counts as vacuously
// successful so callers never divide by zero.
func successRate(successes, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(successes) / float64(total)
}

// Summary aggregates counts, the current agent (last transfer destination,
// or DefaultAgent), distinct agents and tools, and per-category success
// rates.
func (t *Tracker) Summary() Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	current := DefaultAgent
	if n := len(t.transfers); n > 0 {
		current = t.transfers[n-1].To
	}

	agents := make(map[string]bool)
	okActs := 0
	for _, a := range t.activities {
		agents[a.Agent] = true
		if a.Success {
			okActs++
		}
	}
	for _, tr := range t.transfers {
		agents[tr.From] = true
		agents[tr.To] = true
	}

	tools := make(map[string]bool)
	okTools := 0
	for _, c := range t.toolCalls {
		tools[c.Tool] = true
		if c.Success {
			okTools++
		}
	}

	return Summary{
		TaskID:          t.taskID,
		SessionID:       t.sessionID,
		CurrentAgent:    current,
		ActivityCount:   len(t.activities),
		ToolCallCount:   len(t.toolCalls),
		TransferCount:   len(t.transfers),
		Agents:          sortedKeys(agents),
		Tools:           sortedKeys(tools),
		ActivityRate:    successRate(okActs, len(t.activities)),
		ToolSuccessRate: successRate(okTools, len(t.toolCalls)),
	}
}

// RenderTrace produces a human-readable rendering of the session:
// transfers in order, per-tool success tallies, and the most recent
// activities.
func (t *Tracker) RenderTrace() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "session %s_%s\n", t.taskID, t.sessionID)

	if len(t.transfers) > 0 {
		b.WriteString("transfers:\n")
		for _, tr := range t.transfers {
			fmt.Fprintf(&b, "  %s -> %s (%.2f) %s\n", tr.From, tr.To, tr.Confidence, tr.Reason)
		}
	}

	if len(t.toolCalls) > 0 {
		type tally struct{ ok, total int }
		tallies := make(map[string]*tally)
		order := make([]string, 0)
		for _, c := range t.toolCalls {
			tl, seen := tallies[c.Tool]
			if !seen {
				tl = &tally{}
				tallies[c.Tool] = tl
				order = append(order, c.Tool)
			}
			tl.total++
			if c.Success {
				tl.ok++
			}
		}
		b.WriteString("tools:\n")
		for _, name := range order {
			tl := tallies[name]
			fmt.Fprintf(&b, "  %s: %d/%d ok\n", name, tl.ok, tl.total)
		}
	}

	if len(t.activities) > 0 {
		start := len(t.activities) - recentWindow
		if start < 0 {
			start = 0
		}
		fmt.Fprintf(&b, "recent activity (last %d):\n", len(t.activities)-start)
		for _, a := range t.activities[start:] {
			mark := "ok"
			if !a.Success {
				mark = "failed"
			}
			fmt.Fprintf(&b, "  [%s] %s %s: %s\n", mark, a.Agent, a.Action, a.Description)
		}
	}

	return b.String()
}

// Export returns the summary plus full copies of all three logs.
func (t *Tracker) Export() Export {
	summary := t.Summary()

	t.mu.RLock()
	defer t.mu.RUnlock()

	return Export{
		Summary:    summary,
		Activities: append([]Activity(nil), t.activities...),
		ToolCalls:  append([]ToolCall(nil), t.toolCalls...),
		Transfers:  append([]Transfer(nil), t.transfers...),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
