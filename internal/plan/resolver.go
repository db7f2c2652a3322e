package plan

import (
	"sort"

	"github.com/planforge/planforge/internal/fault"
)

// Validate checks that a container's child list is schedulable: every
// dependency references a sibling in the same list, no child depends on
// itself, and the dependency relation is acyclic. Cycle detection is a DFS
// with visiting/visited marks; hitting a visiting node is a back-edge.
// All failures are validation-class and name the offending node.
func Validate[T Node](children []T) error {
	byID := make(map[string]T, len(children))
	for _, c := range children {
		byID[c.NodeID()] = c
	}

	for _, c := range children {
		for _, dep := range c.NodeDeps() {
			if dep == c.NodeID() {
				return fault.Validationf("node %s depends on itself", c.NodeID())
			}
			if _, ok := byID[dep]; !ok {
				return fault.Validationf("node %s depends on unknown sibling %s", c.NodeID(), dep)
			}
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	marks := make(map[string]int, len(children))

	var visit func(id string) error
	visit = func(id string) error {
		switch marks[id] {
		case visited:
			return nil
		case visiting:
			return fault.Validationf("dependency cycle detected at node %s", id)
		}
		marks[id] = visiting
		for _, dep := range byID[id].NodeDeps() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		marks[id] = visited
		return nil
	}

	for _, c := range sortedBySeq(children) {
		if err := visit(c.NodeID()); err != nil {
			return err
		}
	}
	return nil
}

// TopologicalOrder returns a deterministic linear execution order of child
// IDs consistent with every dependency edge. Children are considered in
// ascending sequence_order and emitted once all their dependencies have been
// emitted; deferred children are re-checked after each emission. If a full
// pass emits nothing while children remain, the list is unresolvable
// (cycle or dangling reference) and a validation error is returned.
func TopologicalOrder[T Node](children []T) ([]string, error) {
	pending := sortedBySeq(children)
	emitted := make(map[string]bool, len(children))
	order := make([]string, 0, len(children))

	for len(pending) > 0 {
		progressed := false
		remaining := pending[:0]
		for _, c := range pending {
			ready := true
			for _, dep := range c.NodeDeps() {
				if !emitted[dep] {
					ready = false
					break
				}
			}
			if ready {
				emitted[c.NodeID()] = true
				order = append(order, c.NodeID())
				progressed = true
			} else {
				remaining = append(remaining, c)
			}
		}
		if !progressed {
			return nil, fault.Validationf("unresolvable dependencies for node %s", remaining[0].NodeID())
		}
		pending = remaining
	}
	return order, nil
}

// ReadySet returns the IDs of children eligible to start: status pending or
// waiting, with every dependency completed. Blocked children still marked
// pending are re-marked waiting so that waiting always means "blocked on an
// unmet dependency". The result is ordered by ascending sequence_order.
func ReadySet[T StatusNode](children []T) []string {
	byID := make(map[string]T, len(children))
	for _, c := range children {
		byID[c.NodeID()] = c
	}

	ready := make([]string, 0)
	for _, c := range sortedBySeq(children) {
		st := c.NodeStatus()
		if st != StatusPending && st != StatusWaiting {
			continue
		}
		blocked := false
		for _, dep := range c.NodeDeps() {
			d, ok := byID[dep]
			if !ok || d.NodeStatus() != StatusCompleted {
				blocked = true
				break
			}
		}
		if blocked {
			if st == StatusPending {
				c.setStatus(StatusWaiting)
			}
			continue
		}
		ready = append(ready, c.NodeID())
	}
	return ready
}

// Aggregate computes a container's status from its children. It is always
// derived on demand, never stored, so parents cannot drift out of sync:
// completed iff all children completed, failed if any child failed, else
// in_progress if any child is in progress, else pending. An empty child
// list aggregates to pending.
func Aggregate[T Node](children []T) Status {
	if len(children) == 0 {
		return StatusPending
	}

	allCompleted := true
	anyInProgress := false
	for _, c := range children {
		switch c.NodeStatus() {
		case StatusFailed:
			return StatusFailed
		case StatusCompleted:
		case StatusInProgress:
			allCompleted = false
			anyInProgress = true
		default:
			allCompleted = false
		}
	}

	if allCompleted {
		return StatusCompleted
	}
	if anyInProgress {
		return StatusInProgress
	}
	return StatusPending
}

// Progress returns the completion percentage of a container's children.
func Progress[T Node](children []T) int {
	if len(children) == 0 {
		return 0
	}
	done := 0
	for _, c := range children {
		if c.NodeStatus() == StatusCompleted {
			done++
		}
	}
	return (done * 100) / len(children)
}

func sortedBySeq[T Node](children []T) []T {
	out := make([]T, len(children))
	copy(out, children)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NodeSeq() < out[j].NodeSeq()
	})
	return out
}
