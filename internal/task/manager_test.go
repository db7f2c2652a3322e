package task

import (
	"sync"
	"testing"
	"time"

	"github.com/planforge/planforge/internal/fault"
	"github.com/planforge/planforge/internal/plan"
)

func newTestPlanSpec() plan.PlanSpec {
	return plan.PlanSpec{
		Stages: []plan.StageSpec{{
			Name: "stage-1",
			Works: []plan.WorkSpec{{
				Name: "work-1",
				Tasks: []plan.TaskSpec{{
					Name: "task-1",
					Subtasks: []plan.SubtaskSpec{
						{Name: "s1"},
						{Name: "s2"},
					},
				}},
			}},
		}},
	}
}

func TestManager_Create(t *testing.T) {
	events := make([]Event, 0)
	var mu sync.Mutex

	mgr := NewManager(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})
	defer mgr.Close()

	task, err := mgr.Create(CreateRequest{Title: "Research question", Context: "background"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if task.ID == "" {
		t.Error("Create() task.ID is empty")
	}
	if task.State != StateNew {
		t.Errorf("Create() state = %s, want new", task.State)
	}
	if task.Status != plan.StatusPending {
		t.Errorf("Create() status = %s, want pending", task.Status)
	}

	mgr.Close() // drains queued events; idempotent with the deferred call
	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 || events[0].Type != "created" {
		t.Errorf("expected one created event, got %v", events)
	}
}

func TestManager_Create_RequiresTitle(t *testing.T) {
	mgr := NewManager(nil)
	if _, err := mgr.Create(CreateRequest{}); err == nil {
		t.Error("Create() should require a title")
	}
}

func TestManager_Get_NotFound(t *testing.T) {
	mgr := NewManager(nil)
	_, err := mgr.Get("missing")
	if err == nil {
		t.Fatal("Get() should fail for unknown task")
	}
	if !fault.IsCategory(err, fault.CategoryNotFound) {
		t.Errorf("Get() error category = %v, want not_found", fault.CategoryOf(err))
	}
}

func TestManager_Transition(t *testing.T) {
	mgr := NewManager(nil)
	task, _ := mgr.Create(CreateRequest{Title: "T"})

	before := task.UpdatedAt
	time.Sleep(time.Millisecond)

	state, err := mgr.Transition(task.ID, StateContextGathering)
	if err != nil {
		t.Fatalf("Transition() error = %v", err)
	}
	if state != StateContextGathering {
		t.Errorf("Transition() state = %s, want context_gathering", state)
	}
	if !task.UpdatedAt.After(before) {
		t.Error("Transition() should bump updated_at")
	}
}

func TestManager_Transition_SelfIsIdempotent(t *testing.T) {
	mgr := NewManager(nil)
	task, _ := mgr.Create(CreateRequest{Title: "T"})
	_, _ = mgr.Transition(task.ID, StateContextGathering)

	stamp := task.UpdatedAt
	state, err := mgr.Transition(task.ID, StateContextGathering)
	if err != nil {
		t.Fatalf("self transition error = %v", err)
	}
	if state != StateContextGathering {
		t.Errorf("state = %s", state)
	}
	if !task.UpdatedAt.Equal(stamp) {
		t.Error("self transition must not mutate the task")
	}
}

func TestManager_Transition_Rejected(t *testing.T) {
	mgr := NewManager(nil)
	task, _ := mgr.Create(CreateRequest{Title: "T"})

	_, err := mgr.Transition(task.ID, StateAnalysis)
	if err == nil {
		t.Fatal("skipping phases should fail")
	}
	if !fault.IsCategory(err, fault.CategoryValidation) {
		t.Errorf("error category = %v, want validation", fault.CategoryOf(err))
	}
	if task.State != StateNew {
		t.Errorf("rejected transition mutated state to %s", task.State)
	}
}

func TestManager_AttachPlan(t *testing.T) {
	mgr := NewManager(nil)
	task, _ := mgr.Create(CreateRequest{Title: "T"})

	p, err := mgr.AttachPlan(task.ID, newTestPlanSpec())
	if err != nil {
		t.Fatalf("AttachPlan() error = %v", err)
	}
	if p.TaskID != task.ID {
		t.Errorf("plan task_id = %s, want %s", p.TaskID, task.ID)
	}
	if task.Plan == nil {
		t.Fatal("plan not attached")
	}

	// Replacing the plan outside decomposition is destructive and rejected.
	if _, err := mgr.AttachPlan(task.ID, newTestPlanSpec()); err == nil {
		t.Error("re-attaching a plan outside decomposition should fail")
	}
}

func TestManager_UpdateNodeStatus(t *testing.T) {
	mgr := NewManager(nil)
	task, _ := mgr.Create(CreateRequest{Title: "T"})
	p, _ := mgr.AttachPlan(task.ID, newTestPlanSpec())

	sub := p.Stages[0].Works[0].Tasks[0].Subtasks[0]
	if err := mgr.UpdateNodeStatus(task.ID, sub.ID, plan.StatusInProgress); err != nil {
		t.Fatalf("UpdateNodeStatus() error = %v", err)
	}
	if sub.Status != plan.StatusInProgress {
		t.Errorf("status = %s, want in_progress", sub.Status)
	}
	if sub.StartedAt == nil {
		t.Error("started_at not set")
	}

	if err := mgr.UpdateNodeStatus(task.ID, "ghost", plan.StatusCompleted); err == nil {
		t.Error("unknown node should fail")
	} else if !fault.IsCategory(err, fault.CategoryNotFound) {
		t.Errorf("error category = %v, want not_found", fault.CategoryOf(err))
	}
}

func TestManager_UpdateNodeStatus_RejectsUnknownStatus(t *testing.T) {
	mgr := NewManager(nil)
	task, _ := mgr.Create(CreateRequest{Title: "T"})
	p, _ := mgr.AttachPlan(task.ID, newTestPlanSpec())

	sub := p.Stages[0].Works[0].Tasks[0].Subtasks[0]
	err := mgr.UpdateNodeStatus(task.ID, sub.ID, plan.Status("paused"))
	if err == nil {
		t.Fatal("a status outside the shared domain must be rejected")
	}
	if !fault.IsCategory(err, fault.CategoryValidation) {
		t.Errorf("error category = %v, want validation", fault.CategoryOf(err))
	}
	if sub.Status != plan.StatusPending {
		t.Errorf("node status mutated to %q", sub.Status)
	}
}

func TestManager_Cancel(t *testing.T) {
	mgr := NewManager(nil)
	task, _ := mgr.Create(CreateRequest{Title: "T"})
	p, _ := mgr.AttachPlan(task.ID, newTestPlanSpec())

	subs := p.Stages[0].Works[0].Tasks[0].Subtasks
	s1, s2 := subs[0], subs[1]
	_ = mgr.UpdateNodeStatus(task.ID, s1.ID, plan.StatusInProgress)
	_ = mgr.UpdateNodeStatus(task.ID, s1.ID, plan.StatusCompleted)
	_ = mgr.UpdateNodeStatus(task.ID, s2.ID, plan.StatusInProgress)

	if err := mgr.Cancel(task.ID, "operator abort"); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	if task.Status != plan.StatusCancelled {
		t.Errorf("task status = %s, want cancelled", task.Status)
	}
	if s1.Status != plan.StatusCompleted {
		t.Errorf("completed subtask was altered: %s", s1.Status)
	}
	if s2.Status != plan.StatusCancelled {
		t.Errorf("in-progress subtask = %s, want cancelled", s2.Status)
	}

	// Cancelling twice is safe.
	if err := mgr.Cancel(task.ID, "again"); err != nil {
		t.Errorf("second Cancel() error = %v", err)
	}
}

func TestManager_List(t *testing.T) {
	mgr := NewManager(nil)
	_, _ = mgr.Create(CreateRequest{Title: "A"})
	_, _ = mgr.Create(CreateRequest{Title: "B"})

	if got := len(mgr.List()); got != 2 {
		t.Errorf("List() len = %d, want 2", got)
	}
}
