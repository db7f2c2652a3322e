package plan

import (
	"time"

	"github.com/google/uuid"

	"github.com/planforge/planforge/internal/fault"
)

// SubtaskSpec describes a candidate subtask. Sequence order is taken from
// the position in the spec list.
type SubtaskSpec struct {
	Name           string       `json:"name" yaml:"name"`
	Description    string       `json:"description,omitempty" yaml:"description,omitempty"`
	Executor       ExecutorType `json:"executor,omitempty" yaml:"executor,omitempty"`
	RequiredInputs []Artifact   `json:"required_inputs,omitempty" yaml:"required_inputs,omitempty"`
}

// TaskSpec describes a candidate executable task. DependsOn names sibling
// specs in the same list; names are resolved to generated IDs.
type TaskSpec struct {
	Name           string        `json:"name" yaml:"name"`
	Description    string        `json:"description,omitempty" yaml:"description,omitempty"`
	DependsOn      []string      `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Subtasks       []SubtaskSpec `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
	RequiredInputs []Artifact    `json:"required_inputs,omitempty" yaml:"required_inputs,omitempty"`
}

// WorkSpec describes a candidate work package.
type WorkSpec struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	DependsOn   []string   `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Tasks       []TaskSpec `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// StageSpec describes a candidate stage.
type StageSpec struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Works       []WorkSpec `json:"works,omitempty" yaml:"works,omitempty"`
	Checkpoints []string   `json:"checkpoints,omitempty" yaml:"checkpoints,omitempty"`
}

// ConnectionSpec links two stages by name.
type ConnectionSpec struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// PlanSpec is the full candidate plan handed over by a planning process.
type PlanSpec struct {
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	Stages      []StageSpec      `json:"stages" yaml:"stages"`
	Connections []ConnectionSpec `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// resolveDeps maps sibling names to generated IDs, rejecting duplicates
// and unknown references.
func resolveDeps(kind string, names []string, ids map[string]string, self string) ([]string, error) {
	deps := make([]string, 0, len(names))
	for _, name := range names {
		if name == self {
			return nil, fault.Validationf("%s %s depends on itself", kind, self)
		}
		id, ok := ids[name]
		if !ok {
			return nil, fault.Validationf("%s %s depends on unknown sibling %s", kind, self, name)
		}
		deps = append(deps, id)
	}
	return deps, nil
}

// BuildSubtasks materializes a sibling list of subtasks.
func BuildSubtasks(taskID, workID, stageID string, specs []SubtaskSpec) ([]*Subtask, error) {
	subs := make([]*Subtask, len(specs))
	for i, sp := range specs {
		if sp.Name == "" {
			return nil, fault.Validationf("subtask %d: name is required", i+1)
		}
		executor := sp.Executor
		if executor == "" {
			executor = ExecutorAgent
		}
		switch executor {
		case ExecutorAgent, ExecutorRobot, ExecutorHuman:
		default:
			return nil, fault.Validationf("subtask %s: unknown executor %q", sp.Name, executor)
		}
		subs[i] = &Subtask{
			ID:             uuid.New().String(),
			TaskID:         taskID,
			WorkID:         workID,
			StageID:        stageID,
			Name:           sp.Name,
			Description:    sp.Description,
			SequenceOrder:  i,
			Executor:       executor,
			Status:         StatusPending,
			RequiredInputs: sp.RequiredInputs,
		}
	}
	return subs, nil
}

// BuildTasks materializes a sibling list of executable tasks, resolving
// depends_on names and validating the resulting dependency graph.
func BuildTasks(workID, stageID string, specs []TaskSpec) ([]*ExecutableTask, error) {
	ids := make(map[string]string, len(specs))
	for i, sp := range specs {
		if sp.Name == "" {
			return nil, fault.Validationf("task %d: name is required", i+1)
		}
		if _, dup := ids[sp.Name]; dup {
			return nil, fault.Validationf("duplicate task name %s", sp.Name)
		}
		ids[sp.Name] = uuid.New().String()
	}

	tasks := make([]*ExecutableTask, len(specs))
	for i, sp := range specs {
		deps, err := resolveDeps("task", sp.DependsOn, ids, sp.Name)
		if err != nil {
			return nil, err
		}
		id := ids[sp.Name]
		subs, err := BuildSubtasks(id, workID, stageID, sp.Subtasks)
		if err != nil {
			return nil, err
		}
		tasks[i] = &ExecutableTask{
			ID:             id,
			WorkID:         workID,
			StageID:        stageID,
			Name:           sp.Name,
			Description:    sp.Description,
			SequenceOrder:  i,
			Dependencies:   deps,
			Status:         StatusPending,
			Subtasks:       subs,
			RequiredInputs: sp.RequiredInputs,
		}
	}

	if err := Validate(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// BuildWorks materializes a sibling list of work packages.
func BuildWorks(stageID string, specs []WorkSpec) ([]*Work, error) {
	ids := make(map[string]string, len(specs))
	for i, sp := range specs {
		if sp.Name == "" {
			return nil, fault.Validationf("work %d: name is required", i+1)
		}
		if _, dup := ids[sp.Name]; dup {
			return nil, fault.Validationf("duplicate work name %s", sp.Name)
		}
		ids[sp.Name] = uuid.New().String()
	}

	works := make([]*Work, len(specs))
	for i, sp := range specs {
		deps, err := resolveDeps("work", sp.DependsOn, ids, sp.Name)
		if err != nil {
			return nil, err
		}
		id := ids[sp.Name]
		tasks, err := BuildTasks(id, stageID, sp.Tasks)
		if err != nil {
			return nil, err
		}
		works[i] = &Work{
			ID:            id,
			StageID:       stageID,
			Name:          sp.Name,
			Description:   sp.Description,
			SequenceOrder: i,
			Dependencies:  deps,
			Status:        StatusPending,
			Tasks:         tasks,
		}
	}

	if err := Validate(works); err != nil {
		return nil, err
	}
	return works, nil
}

// BuildPlan materializes a complete network plan from a candidate spec.
func BuildPlan(taskID string, spec PlanSpec) (*NetworkPlan, error) {
	if len(spec.Stages) == 0 {
		return nil, fault.Validationf("plan requires at least one stage")
	}

	stageIDs := make(map[string]string, len(spec.Stages))
	stages := make([]*Stage, len(spec.Stages))
	for i, sp := range spec.Stages {
		if sp.Name == "" {
			return nil, fault.Validationf("stage %d: name is required", i+1)
		}
		if _, dup := stageIDs[sp.Name]; dup {
			return nil, fault.Validationf("duplicate stage name %s", sp.Name)
		}
		id := uuid.New().String()
		stageIDs[sp.Name] = id

		works, err := BuildWorks(id, sp.Works)
		if err != nil {
			return nil, err
		}
		stages[i] = &Stage{
			ID:          id,
			Name:        sp.Name,
			Description: sp.Description,
			Status:      StatusPending,
			Works:       works,
			Checkpoints: sp.Checkpoints,
		}
	}

	conns := make([]Connection, len(spec.Connections))
	for i, c := range spec.Connections {
		from, ok := stageIDs[c.From]
		if !ok {
			return nil, fault.Validationf("connection %d references unknown stage %s", i+1, c.From)
		}
		to, ok := stageIDs[c.To]
		if !ok {
			return nil, fault.Validationf("connection %d references unknown stage %s", i+1, c.To)
		}
		conns[i] = Connection{From: from, To: to}
	}

	return &NetworkPlan{
		ID:          uuid.New().String(),
		TaskID:      taskID,
		Name:        spec.Name,
		Stages:      stages,
		Connections: conns,
		CreatedAt:   time.Now(),
	}, nil
}

// ReplaceTasks discards a work's entire task list and rebuilds it from
// specs. This is the only way tasks are removed; it is destructive and must
// not be retried blindly.
func (w *Work) ReplaceTasks(specs []TaskSpec) error {
	tasks, err := BuildTasks(w.ID, w.StageID, specs)
	if err != nil {
		return err
	}
	w.Tasks = tasks
	return nil
}

// ValidatePlan checks the whole tree: per-container dependency graphs,
// sequence_order uniqueness among siblings, back-reference consistency,
// globally unique node IDs, and connection endpoints.
func ValidatePlan(p *NetworkPlan) error {
	if p == nil {
		return fault.Validationf("plan is nil")
	}

	seen := make(map[string]bool)
	unique := func(kind, id string) error {
		if id == "" {
			return fault.Validationf("%s has empty id", kind)
		}
		if seen[id] {
			return fault.Validationf("duplicate node id %s", id)
		}
		seen[id] = true
		return nil
	}
	checkStatus := func(kind, id string, s Status) error {
		if !s.Valid() {
			return fault.Validationf("%s %s has unknown status %q", kind, id, s)
		}
		return nil
	}

	for _, st := range p.Stages {
		if err := unique("stage", st.ID); err != nil {
			return err
		}
		if err := checkStatus("stage", st.ID, st.Status); err != nil {
			return err
		}
		if err := checkSequences(st.Works); err != nil {
			return err
		}
		if err := Validate(st.Works); err != nil {
			return err
		}
		for _, w := range st.Works {
			if err := unique("work", w.ID); err != nil {
				return err
			}
			if err := checkStatus("work", w.ID, w.Status); err != nil {
				return err
			}
			if w.StageID != st.ID {
				return fault.Validationf("work %s has stage_id %s, owned by stage %s", w.ID, w.StageID, st.ID)
			}
			if err := checkSequences(w.Tasks); err != nil {
				return err
			}
			if err := Validate(w.Tasks); err != nil {
				return err
			}
			for _, t := range w.Tasks {
				if err := unique("task", t.ID); err != nil {
					return err
				}
				if err := checkStatus("task", t.ID, t.Status); err != nil {
					return err
				}
				if t.WorkID != w.ID {
					return fault.Validationf("task %s has work_id %s, owned by work %s", t.ID, t.WorkID, w.ID)
				}
				if err := checkSequences(t.Subtasks); err != nil {
					return err
				}
				for _, sub := range t.Subtasks {
					if err := unique("subtask", sub.ID); err != nil {
						return err
					}
					if err := checkStatus("subtask", sub.ID, sub.Status); err != nil {
						return err
					}
					if sub.TaskID != t.ID {
						return fault.Validationf("subtask %s has task_id %s, owned by task %s", sub.ID, sub.TaskID, t.ID)
					}
				}
			}
		}
	}

	for i, c := range p.Connections {
		if p.Stage(c.From) == nil {
			return fault.Validationf("connection %d references unknown stage %s", i+1, c.From)
		}
		if p.Stage(c.To) == nil {
			return fault.Validationf("connection %d references unknown stage %s", i+1, c.To)
		}
	}
	return nil
}

func checkSequences[T Node](children []T) error {
	seen := make(map[int]string, len(children))
	for _, c := range children {
		seq := c.NodeSeq()
		if seq < 0 {
			return fault.Validationf("node %s has negative sequence_order", c.NodeID())
		}
		if prev, dup := seen[seq]; dup {
			return fault.Validationf("nodes %s and %s share sequence_order %d", prev, c.NodeID(), seq)
		}
		seen[seq] = c.NodeID()
	}
	return nil
}
