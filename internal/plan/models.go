// Package plan defines the hierarchical decomposition graph:
// Stage -> Work -> ExecutableTask -> Subtask, plus the NetworkPlan that
// ties stages together.
package plan

import "time"

// Status represents the execution state shared by every plan node.
type Status string

const (
	StatusPending    Status = "pending"
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// IsTerminal reports whether the status is final. Terminal statuses are
// immutable: a node never leaves completed, failed or cancelled.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Valid reports whether s is one of the six shared statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusWaiting, StatusInProgress, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a node may move from s to next. Both
// sides must be in the status domain. Self-assignment is always allowed
// so callers can retry safely. InProgress never moves back to
// pending/waiting; pending and waiting flip freely between each other
// (the resolver re-marks blocked nodes).
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if s == StatusInProgress && (next == StatusPending || next == StatusWaiting) {
		return false
	}
	return true
}

// ExecutorType identifies what kind of executor a subtask is assigned to.
type ExecutorType string

const (
	ExecutorAgent ExecutorType = "agent"
	ExecutorRobot ExecutorType = "robot"
	ExecutorHuman ExecutorType = "human"
)

// Artifact is a typed, named reference to a produced or consumed deliverable.
type Artifact struct {
	Type string `json:"type" yaml:"type"` // "file", "data", "report", "url"
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Subtask is the atomic leaf of the decomposition tree. Subtasks declare no
// dependencies; they run in sequence_order within their parent task.
type Subtask struct {
	ID                 string       `json:"id" yaml:"id"`
	TaskID             string       `json:"task_id" yaml:"task_id"`
	WorkID             string       `json:"work_id" yaml:"work_id"`
	StageID            string       `json:"stage_id" yaml:"stage_id"`
	Name               string       `json:"name" yaml:"name"`
	Description        string       `json:"description,omitempty" yaml:"description,omitempty"`
	SequenceOrder      int          `json:"sequence_order" yaml:"sequence_order"`
	Executor           ExecutorType `json:"executor" yaml:"executor"`
	Status             Status       `json:"status" yaml:"status"`
	Result             string       `json:"result,omitempty" yaml:"result,omitempty"`
	Error              string       `json:"error,omitempty" yaml:"error,omitempty"`
	RequiredInputs     []Artifact   `json:"required_inputs,omitempty" yaml:"required_inputs,omitempty"`
	GeneratedArtifacts []Artifact   `json:"generated_artifacts,omitempty" yaml:"generated_artifacts,omitempty"`
	StartedAt          *time.Time   `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	CompletedAt        *time.Time   `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// ExecutableTask is an ordered container of subtasks. Dependencies reference
// sibling tasks inside the same work package.
type ExecutableTask struct {
	ID                 string     `json:"id" yaml:"id"`
	WorkID             string     `json:"work_id" yaml:"work_id"`
	StageID            string     `json:"stage_id" yaml:"stage_id"`
	Name               string     `json:"name" yaml:"name"`
	Description        string     `json:"description,omitempty" yaml:"description,omitempty"`
	SequenceOrder      int        `json:"sequence_order" yaml:"sequence_order"`
	Dependencies       []string   `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Status             Status     `json:"status" yaml:"status"`
	Subtasks           []*Subtask `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
	RequiredInputs     []Artifact `json:"required_inputs,omitempty" yaml:"required_inputs,omitempty"`
	GeneratedArtifacts []Artifact `json:"generated_artifacts,omitempty" yaml:"generated_artifacts,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Work is an ordered container of executable tasks within a stage.
// Dependencies reference sibling works inside the same stage.
type Work struct {
	ID            string            `json:"id" yaml:"id"`
	StageID       string            `json:"stage_id" yaml:"stage_id"`
	Name          string            `json:"name" yaml:"name"`
	Description   string            `json:"description,omitempty" yaml:"description,omitempty"`
	SequenceOrder int               `json:"sequence_order" yaml:"sequence_order"`
	Dependencies  []string          `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Status        Status            `json:"status" yaml:"status"`
	Tasks         []*ExecutableTask `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	StartedAt     *time.Time        `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Stage is a milestone container of work packages. Stages declare no
// dependencies; they are linked by Connections, which are a sequencing hint
// and never gate execution.
type Stage struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status     `json:"status" yaml:"status"`
	Works       []*Work    `json:"works,omitempty" yaml:"works,omitempty"`
	Results     []string   `json:"results,omitempty" yaml:"results,omitempty"`
	Checkpoints []string   `json:"checkpoints,omitempty" yaml:"checkpoints,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Connection is an undirected adjacency between two stages.
type Connection struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// NetworkPlan is the whole-project graph: stages plus inter-stage connections.
type NetworkPlan struct {
	ID          string       `json:"id" yaml:"id"`
	TaskID      string       `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Stages      []*Stage     `json:"stages" yaml:"stages"`
	Connections []Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created_at"`
}

// Node is the read-side view the resolver needs from any schedulable child.
type Node interface {
	NodeID() string
	NodeDeps() []string
	NodeSeq() int
	NodeStatus() Status
}

// StatusNode is a Node whose status the resolver may update (waiting marks).
type StatusNode interface {
	Node
	setStatus(Status)
}

func (w *Work) NodeID() string     { return w.ID }
func (w *Work) NodeDeps() []string { return w.Dependencies }
func (w *Work) NodeSeq() int       { return w.SequenceOrder }
func (w *Work) NodeStatus() Status { return w.Status }
func (w *Work) setStatus(s Status) { w.Status = s }

func (t *ExecutableTask) NodeID() string     { return t.ID }
func (t *ExecutableTask) NodeDeps() []string { return t.Dependencies }
func (t *ExecutableTask) NodeSeq() int       { return t.SequenceOrder }
func (t *ExecutableTask) NodeStatus() Status { return t.Status }
func (t *ExecutableTask) setStatus(s Status) { t.Status = s }

func (s *Subtask) NodeID() string      { return s.ID }
func (s *Subtask) NodeDeps() []string  { return nil }
func (s *Subtask) NodeSeq() int        { return s.SequenceOrder }
func (s *Subtask) NodeStatus() Status  { return s.Status }
func (s *Subtask) setStatus(st Status) { s.Status = st }

// Stage lookup by ID. Returns nil when absent.
func (p *NetworkPlan) Stage(id string) *Stage {
	for _, st := range p.Stages {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// Work lookup by ID across all stages. Returns nil when absent.
func (p *NetworkPlan) Work(id string) *Work {
	for _, st := range p.Stages {
		for _, w := range st.Works {
			if w.ID == id {
				return w
			}
		}
	}
	return nil
}

// Task lookup by ID across all works. Returns nil when absent.
func (p *NetworkPlan) Task(id string) *ExecutableTask {
	for _, st := range p.Stages {
		for _, w := range st.Works {
			for _, t := range w.Tasks {
				if t.ID == id {
					return t
				}
			}
		}
	}
	return nil
}
