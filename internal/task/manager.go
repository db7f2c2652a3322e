package task

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planforge/planforge/internal/event"
	"github.com/planforge/planforge/internal/fault"
	"github.com/planforge/planforge/internal/plan"
)

// EventHandler is called for task lifecycle events.
type EventHandler func(Event)

// Manager owns task sessions and serializes every mutation per task: each
// task has its own lock, held only for the in-memory update. Callers must
// finish any external (agent) call before invoking a mutating method so the
// lock never covers agent latency.
type Manager struct {
	mu         sync.RWMutex
	tasks      map[string]*Task
	locks      map[string]*sync.Mutex
	dispatcher *event.Dispatcher[Event]
}

// NewManager creates a task manager. handler may be nil when no observer
// is interested in lifecycle events.
func NewManager(handler EventHandler) *Manager {
	m := &Manager{
		tasks: make(map[string]*Task),
		locks: make(map[string]*sync.Mutex),
	}
	if handler != nil {
		m.dispatcher = event.NewDispatcher(func(e Event) { handler(e) }, 2, 64)
		m.dispatcher.Start()
	}
	return m
}

// Close shuts down the manager's event dispatcher, draining queued events.
func (m *Manager) Close() {
	if m.dispatcher != nil {
		m.dispatcher.Stop()
	}
}

// Create opens a new task session in state new.
func (m *Manager) Create(req CreateRequest) (*Task, error) {
	if req.Title == "" {
		return nil, fault.Validationf("title is required")
	}

	now := time.Now()
	t := &Task{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Context:   req.Context,
		State:     StateNew,
		Status:    plan.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.tasks[t.ID] = t
	m.locks[t.ID] = &sync.Mutex{}
	m.mu.Unlock()

	m.emit(Event{Type: "created", TaskID: t.ID, To: t.State, Timestamp: now})
	return t, nil
}

// Get returns a task by ID.
func (m *Manager) Get(id string) (*Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, fault.NotFound("task", id)
	}
	return t, nil
}

// List returns all known tasks.
func (m *Manager) List() []*Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out
}

// lockFor returns the task and its mutation lock.
func (m *Manager) lockFor(id string) (*Task, *sync.Mutex, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[id]
	if !ok {
		return nil, nil, fault.NotFound("task", id)
	}
	return t, m.locks[id], nil
}

// Transition requests a state change. Self-transitions succeed without
// mutating anything; a rejected transition leaves the task untouched and
// returns a validation error naming both states.
func (m *Manager) Transition(id string, requested State) (State, error) {
	t, lock, err := m.lockFor(id)
	if err != nil {
		return "", err
	}

	lock.Lock()
	defer lock.Unlock()

	if t.State == requested {
		return t.State, nil
	}

	next, err := NextState(t.State, requested)
	if err != nil {
		return t.State, err
	}

	from := t.State
	t.State = next
	t.UpdatedAt = time.Now()

	m.emit(Event{Type: "transitioned", TaskID: t.ID, From: from, To: next, Timestamp: t.UpdatedAt})
	return next, nil
}

// AttachPlan installs a validated network plan produced from spec. A task
// holds at most one plan; attaching replaces the previous one, which is
// destructive and therefore rejected once the session is past decomposition.
func (m *Manager) AttachPlan(id string, spec plan.PlanSpec) (*plan.NetworkPlan, error) {
	t, lock, err := m.lockFor(id)
	if err != nil {
		return nil, err
	}

	p, err := plan.BuildPlan(id, spec)
	if err != nil {
		return nil, err
	}

	lock.Lock()
	defer lock.Unlock()

	if t.Plan != nil && t.State != StateDecomposition {
		return nil, fault.Validationf("task %s already has a plan and is past decomposition", id)
	}

	t.Plan = p
	t.UpdatedAt = time.Now()

	m.emit(Event{Type: "plan_attached", TaskID: t.ID, NodeID: p.ID, Timestamp: t.UpdatedAt})
	return p, nil
}

// UpdateNodeStatus reports executor progress on a single plan node. The
// node's lifecycle rules apply: terminal statuses are immutable and
// timestamps are written exactly once.
func (m *Manager) UpdateNodeStatus(id, nodeID string, status plan.Status) error {
	t, lock, err := m.lockFor(id)
	if err != nil {
		return err
	}

	lock.Lock()
	defer lock.Unlock()

	if t.Plan == nil {
		return fault.Validationf("task %s has no plan", id)
	}

	node := findNode(t.Plan, nodeID)
	if node == nil {
		return fault.NotFound("node", nodeID)
	}
	if err := node.ApplyStatus(status); err != nil {
		return err
	}

	t.UpdatedAt = time.Now()
	m.emit(Event{Type: "node_status", TaskID: t.ID, NodeID: nodeID, Message: string(status), Timestamp: t.UpdatedAt})
	return nil
}

// Cancel sets the task's governing status to cancelled and recursively
// cancels every non-terminal plan node. Completed and failed nodes stay as
// they are.
func (m *Manager) Cancel(id, reason string) error {
	t, lock, err := m.lockFor(id)
	if err != nil {
		return err
	}

	lock.Lock()
	defer lock.Unlock()

	if t.Status == plan.StatusCancelled {
		return nil
	}

	t.Status = plan.StatusCancelled
	t.UpdatedAt = time.Now()
	if t.Plan != nil {
		t.Plan.CancelAll()
	}

	m.emit(Event{Type: "cancelled", TaskID: t.ID, Message: reason, Timestamp: t.UpdatedAt})
	return nil
}

// statusNode is any plan node an executor can report progress on.
type statusNode interface {
	ApplyStatus(plan.Status) error
}

func findNode(p *plan.NetworkPlan, nodeID string) statusNode {
	if st := p.Stage(nodeID); st != nil {
		return st
	}
	if w := p.Work(nodeID); w != nil {
		return w
	}
	if t := p.Task(nodeID); t != nil {
		return t
	}
	for _, st := range p.Stages {
		for _, w := range st.Works {
			for _, et := range w.Tasks {
				for _, sub := range et.Subtasks {
					if sub.ID == nodeID {
						return sub
					}
				}
			}
		}
	}
	return nil
}

func (m *Manager) emit(e Event) {
	if m.dispatcher != nil {
		m.dispatcher.Dispatch(e)
	}
}
