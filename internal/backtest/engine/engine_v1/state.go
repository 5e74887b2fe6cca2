package engine

import "github.com/rxtech-lab/argo-examples/internal/fsm"

// EngineState is the lifecycle state of a backtest engine.
type EngineState string

type EngineTrigger string

const (
	EngineStateIdle     EngineState = "IDLE"
	EngineStateRunning  EngineState = "RUNNING"
	EngineStateDisposed EngineState = "DISPOSED"
)

const (
	EngineTriggerRun     EngineTrigger = "RUN"
	EngineTriggerFinish  EngineTrigger = "FINISH"
	EngineTriggerDispose EngineTrigger = "DISPOSE"
)

var engineTable = fsm.Table[EngineState, EngineTrigger]{
	{State: EngineStateIdle, Trigger: EngineTriggerRun}:       EngineStateRunning,
	{State: EngineStateIdle, Trigger: EngineTriggerDispose}:   EngineStateDisposed,
	{State: EngineStateRunning, Trigger: EngineTriggerFinish}: EngineStateIdle,
}

func newEngineStateMachine() *fsm.StateMachine[EngineState, EngineTrigger] {
	return fsm.MustNew(engineTable, EngineStateIdle)
}
