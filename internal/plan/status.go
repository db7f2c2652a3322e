package plan

import (
	"time"

	"github.com/planforge/planforge/internal/fault"
)

// applyStatus moves a node to next, enforcing the status domain, terminal
// immutability and write-once timestamps: started_at on entering
// in_progress, completed_at on entering a terminal status. Self-assignment
// is a no-op.
func applyStatus(cur *Status, started, completed **time.Time, next Status) error {
	if !next.Valid() {
		return fault.Validationf("unknown status %s", next)
	}
	if *cur == next {
		return nil
	}
	if !cur.CanTransitionTo(next) {
		return fault.InvalidTransition(string(*cur), string(next))
	}

	now := time.Now()
	if next == StatusInProgress && *started == nil {
		*started = &now
	}
	if next.IsTerminal() && *completed == nil {
		*completed = &now
	}
	*cur = next
	return nil
}

// ApplyStatus updates the subtask's status under the shared lifecycle rules.
func (s *Subtask) ApplyStatus(next Status) error {
	return applyStatus(&s.Status, &s.StartedAt, &s.CompletedAt, next)
}

// ApplyStatus updates the task's status under the shared lifecycle rules.
func (t *ExecutableTask) ApplyStatus(next Status) error {
	return applyStatus(&t.Status, &t.StartedAt, &t.CompletedAt, next)
}

// ApplyStatus updates the work's status under the shared lifecycle rules.
func (w *Work) ApplyStatus(next Status) error {
	return applyStatus(&w.Status, &w.StartedAt, &w.CompletedAt, next)
}

// ApplyStatus updates the stage's status under the shared lifecycle rules.
func (st *Stage) ApplyStatus(next Status) error {
	return applyStatus(&st.Status, &st.StartedAt, &st.CompletedAt, next)
}

// Normalize defaults every empty node status to pending. Plans arriving
// from YAML may omit status fields entirely.
func (p *NetworkPlan) Normalize() {
	for _, st := range p.Stages {
		if st.Status == "" {
			st.Status = StatusPending
		}
		for _, w := range st.Works {
			if w.Status == "" {
				w.Status = StatusPending
			}
			for _, t := range w.Tasks {
				if t.Status == "" {
					t.Status = StatusPending
				}
				for _, sub := range t.Subtasks {
					if sub.Status == "" {
						sub.Status = StatusPending
					}
				}
			}
		}
	}
}

// CancelAll recursively cancels every non-terminal node in the plan.
// Completed and failed nodes are left untouched: cancellation cannot
// un-complete work. Returns the IDs of the nodes that were cancelled.
func (p *NetworkPlan) CancelAll() []string {
	var cancelled []string
	mark := func(id string, err error) {
		if err == nil {
			cancelled = append(cancelled, id)
		}
	}

	for _, st := range p.Stages {
		for _, w := range st.Works {
			for _, t := range w.Tasks {
				for _, sub := range t.Subtasks {
					if !sub.Status.IsTerminal() {
						mark(sub.ID, sub.ApplyStatus(StatusCancelled))
					}
				}
				if !t.Status.IsTerminal() {
					mark(t.ID, t.ApplyStatus(StatusCancelled))
				}
			}
			if !w.Status.IsTerminal() {
				mark(w.ID, w.ApplyStatus(StatusCancelled))
			}
		}
		if !st.Status.IsTerminal() {
			mark(st.ID, st.ApplyStatus(StatusCancelled))
		}
	}
	return cancelled
}
