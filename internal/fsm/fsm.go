// Package fsm implements a small trigger-table finite state machine.
//
// A machine is described by a table mapping (state, trigger) pairs to the
// next state. Triggers that are not in the table for the current state are
// rejected with an *errors.InvalidStateTriggerError and leave the state
// unchanged.
package fsm

import (
	"fmt"

	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

// Transition is a key of the trigger table.
type Transition[S comparable, T comparable] struct {
	State   S
	Trigger T
}

// Table maps a (state, trigger) pair to the next state.
type Table[S comparable, T comparable] map[Transition[S, T]]S

// Option configures a StateMachine.
type Option[S comparable, T comparable] func(*StateMachine[S, T])

// WithStateParser sets the function used to render states in errors and StateString.
func WithStateParser[S comparable, T comparable](parser func(S) string) Option[S, T] {
	return func(m *StateMachine[S, T]) {
		m.stateParser = parser
	}
}

// WithTriggerParser sets the function used to render triggers in errors.
func WithTriggerParser[S comparable, T comparable](parser func(T) string) Option[S, T] {
	return func(m *StateMachine[S, T]) {
		m.triggerParser = parser
	}
}

// StateMachine is not safe for concurrent use.
type StateMachine[S comparable, T comparable] struct {
	table         Table[S, T]
	state         S
	stateParser   func(S) string
	triggerParser func(T) string
}

// New creates a state machine from a trigger table and an initial state.
func New[S comparable, T comparable](table Table[S, T], initial S, opts ...Option[S, T]) (*StateMachine[S, T], error) {
	if table == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "state machine trigger table cannot be nil")
	}

	m := &StateMachine[S, T]{
		table:         table,
		state:         initial,
		stateParser:   func(s S) string { return fmt.Sprint(s) },
		triggerParser: func(t T) string { return fmt.Sprint(t) },
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// MustNew is New for package-level tables known to be valid.
func MustNew[S comparable, T comparable](table Table[S, T], initial S, opts ...Option[S, T]) *StateMachine[S, T] {
	m, err := New(table, initial, opts...)
	if err != nil {
		panic(err)
	}

	return m
}

// State returns the current state.
func (m *StateMachine[S, T]) State() S {
	return m.state
}

// StateString returns the current state rendered by the state parser.
func (m *StateMachine[S, T]) StateString() string {
	return m.stateParser(m.state)
}

// CanTrigger reports whether the trigger is valid for the current state.
func (m *StateMachine[S, T]) CanTrigger(trigger T) bool {
	_, ok := m.table[Transition[S, T]{State: m.state, Trigger: trigger}]

	return ok
}

// Trigger applies the trigger and moves to the next state.
func (m *StateMachine[S, T]) Trigger(trigger T) error {
	next, ok := m.table[Transition[S, T]{State: m.state, Trigger: trigger}]
	if !ok {
		return errors.NewInvalidStateTriggerError(m.stateParser(m.state), m.triggerParser(trigger))
	}

	m.state = next

	return nil
}
