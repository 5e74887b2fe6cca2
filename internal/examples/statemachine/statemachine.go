// Package statemachine drives a small trading-session state machine through its
// transitions and shows the error returned for a trigger the table does not allow.
package statemachine

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/rxtech-lab/argo-examples/internal/fsm"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

type State int

const (
	StateInitialized State = iota
	StateReady
	StateActive
	StatePaused
	StateStopped
)

var stateNames = map[State]string{
	StateInitialized: "INITIALIZED",
	StateReady:       "READY",
	StateActive:      "ACTIVE",
	StatePaused:      "PAUSED",
	StateStopped:     "STOPPED",
}

func (s State) String() string { return stateNames[s] }

type Trigger int

const (
	TriggerStart Trigger = iota
	TriggerPause
	TriggerResume
	TriggerStop
)

var triggerNames = map[Trigger]string{
	TriggerStart:  "START",
	TriggerPause:  "PAUSE",
	TriggerResume: "RESUME",
	TriggerStop:   "STOP",
}

func (t Trigger) String() string { return triggerNames[t] }

// Table lists the allowed session transitions.
var Table = fsm.Table[State, Trigger]{
	{State: StateReady, Trigger: TriggerStart}:   StateActive,
	{State: StateActive, Trigger: TriggerPause}:  StatePaused,
	{State: StateActive, Trigger: TriggerStop}:   StateStopped,
	{State: StatePaused, Trigger: TriggerResume}: StateActive,
	{State: StatePaused, Trigger: TriggerStop}:   StateStopped,
}

// NewSessionMachine returns a machine in the READY state.
func NewSessionMachine() (*fsm.StateMachine[State, Trigger], error) {
	return fsm.New(Table, StateReady,
		fsm.WithStateParser[State, Trigger](State.String),
		fsm.WithTriggerParser[State, Trigger](Trigger.String),
	)
}

type Result struct {
	// States are the states visited, starting with the initial one.
	States []State
	// InvalidTrigger is the error of the RESUME sent after STOP.
	InvalidTrigger error
}

// Run starts, pauses, resumes and stops the session, then tries to resume it.
func Run(_ context.Context, opts exampleutil.Options) (*Result, error) {
	w := opts.Writer()

	machine, err := NewSessionMachine()
	if err != nil {
		return nil, err
	}

	result := &Result{States: []State{machine.State()}}
	fmt.Fprintf(w, "Initial state: %s\n", machine.StateString())

	for _, trigger := range []Trigger{TriggerStart, TriggerPause, TriggerResume, TriggerStop} {
		if err := machine.Trigger(trigger); err != nil {
			return nil, err
		}

		result.States = append(result.States, machine.State())
		fmt.Fprintf(w, "%s -> %s\n", trigger, machine.StateString())
	}

	err = machine.Trigger(TriggerResume)
	if !errors.IsInvalidStateTrigger(err) {
		return nil, errors.Newf(errors.ErrCodeUnknown, "expected an invalid state trigger error, got %v", err)
	}

	result.InvalidTrigger = err
	fmt.Fprintf(w, "Error: %v\n", err)

	return result, nil
}
