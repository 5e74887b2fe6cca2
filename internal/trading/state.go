package trading

import "github.com/rxtech-lab/argo-examples/internal/fsm"

// ComponentState is the lifecycle state of an actor or strategy.
type ComponentState string

// ComponentTrigger moves a component between lifecycle states.
type ComponentTrigger string

const (
	ComponentStatePreInitialized ComponentState = "PRE_INITIALIZED"
	ComponentStateReady          ComponentState = "READY"
	ComponentStateRunning        ComponentState = "RUNNING"
	ComponentStateStopped        ComponentState = "STOPPED"
	ComponentStateDisposed       ComponentState = "DISPOSED"
	ComponentStateFaulted        ComponentState = "FAULTED"
)

const (
	ComponentTriggerInitialize ComponentTrigger = "INITIALIZE"
	ComponentTriggerStart      ComponentTrigger = "START"
	ComponentTriggerStop       ComponentTrigger = "STOP"
	ComponentTriggerResume     ComponentTrigger = "RESUME"
	ComponentTriggerReset      ComponentTrigger = "RESET"
	ComponentTriggerDispose    ComponentTrigger = "DISPOSE"
	ComponentTriggerFault      ComponentTrigger = "FAULT"
)

var componentTable = fsm.Table[ComponentState, ComponentTrigger]{
	{State: ComponentStatePreInitialized, Trigger: ComponentTriggerInitialize}: ComponentStateReady,
	{State: ComponentStateReady, Trigger: ComponentTriggerStart}:               ComponentStateRunning,
	{State: ComponentStateReady, Trigger: ComponentTriggerReset}:               ComponentStateReady,
	{State: ComponentStateReady, Trigger: ComponentTriggerDispose}:             ComponentStateDisposed,
	{State: ComponentStateReady, Trigger: ComponentTriggerFault}:               ComponentStateFaulted,
	{State: ComponentStateRunning, Trigger: ComponentTriggerStop}:              ComponentStateStopped,
	{State: ComponentStateRunning, Trigger: ComponentTriggerFault}:             ComponentStateFaulted,
	{State: ComponentStateStopped, Trigger: ComponentTriggerResume}:            ComponentStateRunning,
	{State: ComponentStateStopped, Trigger: ComponentTriggerReset}:             ComponentStateReady,
	{State: ComponentStateStopped, Trigger: ComponentTriggerDispose}:           ComponentStateDisposed,
	{State: ComponentStateStopped, Trigger: ComponentTriggerFault}:             ComponentStateFaulted,
	{State: ComponentStateFaulted, Trigger: ComponentTriggerDispose}:           ComponentStateDisposed,
}

func newComponentStateMachine() *fsm.StateMachine[ComponentState, ComponentTrigger] {
	return fsm.MustNew(componentTable, ComponentStatePreInitialized)
}
