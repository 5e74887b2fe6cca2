package trading

import "github.com/rxtech-lab/argo-examples/internal/types"

// Components implement any of these interfaces to receive the matching callbacks.
// Data callbacks are only delivered while the component is RUNNING. A returned error
// faults the component and stops the run.

type StartHandler interface {
	OnStart() error
}

type StopHandler interface {
	OnStop() error
}

type ResumeHandler interface {
	OnResume() error
}

type ResetHandler interface {
	OnReset() error
}

type DisposeHandler interface {
	OnDispose() error
}

type BarHandler interface {
	OnBar(bar types.Bar) error
}

type DataHandler interface {
	OnData(data types.Data) error
}

type SignalHandler interface {
	OnSignal(signal types.Signal) error
}

type OrderFilledHandler interface {
	OnOrderFilled(fill types.OrderFilled) error
}

type OrderRejectedHandler interface {
	OnOrderRejected(order *types.Order) error
}

type OrderCanceledHandler interface {
	OnOrderCanceled(order *types.Order) error
}

type PositionOpenedHandler interface {
	OnPositionOpened(position *types.Position) error
}

type PositionChangedHandler interface {
	OnPositionChanged(position *types.Position) error
}

type PositionClosedHandler interface {
	OnPositionClosed(position *types.Position) error
}

// Component is anything embedding an Actor.
type Component interface {
	Base() *Actor
}

// StrategyComponent is anything embedding a Strategy.
type StrategyComponent interface {
	Component
	StrategyBase() *Strategy
}
