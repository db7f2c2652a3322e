package task

import (
	"time"

	"github.com/planforge/planforge/internal/plan"
)

// Task is the top-level session object. Its State tracks the processing
// phase of the session and is deliberately decoupled from the plan graph's
// per-node statuses; Status is the coarse governing status used for
// cancellation.
type Task struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Context   string            `json:"context,omitempty"`
	State     State             `json:"state"`
	Status    plan.Status       `json:"status"`
	Plan      *plan.NetworkPlan `json:"plan,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Event is emitted on task lifecycle changes.
type Event struct {
	Type      string    `json:"type"` // "created", "transitioned", "plan_attached", "node_status", "cancelled"
	TaskID    string    `json:"task_id"`
	From      State     `json:"from,omitempty"`
	To        State     `json:"to,omitempty"`
	NodeID    string    `json:"node_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateRequest is the request to open a new task session.
type CreateRequest struct {
	Title   string `json:"title"`
	Context string `json:"context,omitempty"`
}
