// Package task drives the top-level session object through its processing
// lifecycle, independent of the plan graph's execution progress.
package task

import "github.com/planforge/planforge/internal/fault"

// State is the processing phase of a task session. The chain is linear from
// intake to completion, with one branch point at decomposition.
type State string

const (
	StateNew                   State = "new"
	StateContextGathering      State = "context_gathering"
	StateContextGathered       State = "context_gathered"
	StateTaskFormation         State = "task_formation"
	StateAnalysis              State = "analysis"
	StateTypify                State = "typify"
	StateClarifying            State = "clarifying"
	StateClarificationComplete State = "clarification_complete"
	StateApproachFormation     State = "approach_formation"
	StateMethodSelection       State = "method_selection"
	StateDecomposition         State = "decomposition"
	StateMethodApplication     State = "method_application"
	StateSolutionDevelopment   State = "solution_development"
	StateEvaluation            State = "evaluation"
	StateIntegration           State = "integration"
	StateOutputGeneration      State = "output_generation"
	StateCompleted             State = "completed"
)

// transitions is the adjacency table of permitted next states. Decomposition
// may proceed forward or fall back to re-run method selection or approach
// formation; completed has no successors.
var transitions = map[State][]State{
	StateNew:                   {StateContextGathering},
	StateContextGathering:      {StateContextGathered},
	StateContextGathered:       {StateTaskFormation},
	StateTaskFormation:         {StateAnalysis},
	StateAnalysis:              {StateTypify},
	StateTypify:                {StateClarifying},
	StateClarifying:            {StateClarificationComplete},
	StateClarificationComplete: {StateApproachFormation},
	StateApproachFormation:     {StateMethodSelection},
	StateMethodSelection:       {StateDecomposition},
	StateDecomposition:         {StateMethodApplication, StateMethodSelection, StateApproachFormation},
	StateMethodApplication:     {StateSolutionDevelopment},
	StateSolutionDevelopment:   {StateEvaluation},
	StateEvaluation:            {StateIntegration},
	StateIntegration:           {StateOutputGeneration},
	StateOutputGeneration:      {StateCompleted},
	StateCompleted:             {},
}

// States lists every state in lifecycle order.
func States() []State {
	return []State{
		StateNew, StateContextGathering, StateContextGathered, StateTaskFormation,
		StateAnalysis, StateTypify, StateClarifying, StateClarificationComplete,
		StateApproachFormation, StateMethodSelection, StateDecomposition,
		StateMethodApplication, StateSolutionDevelopment, StateEvaluation,
		StateIntegration, StateOutputGeneration, StateCompleted,
	}
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether requested is reachable from s in one step.
// Self-transitions are always permitted so callers can retry safely.
func CanTransition(current, requested State) bool {
	if current == requested {
		return current.Valid()
	}
	for _, next := range transitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}

// NextState validates a requested transition, returning the state to adopt
// or a validation error naming both states.
func NextState(current, requested State) (State, error) {
	if !current.Valid() {
		return current, fault.Validationf("unknown state %s", current)
	}
	if !requested.Valid() {
		return current, fault.Validationf("unknown state %s", requested)
	}
	if !CanTransition(current, requested) {
		return current, fault.InvalidTransition(string(current), string(requested))
	}
	return requested, nil
}
