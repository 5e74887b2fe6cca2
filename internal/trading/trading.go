package trading

import "github.com/rxtech-lab/argo-examples/internal/types"

// TradingSystem routes order commands from strategies to the simulated venues.
type TradingSystem interface {
	// SubmitOrder submits a single order
	SubmitOrder(order *types.Order) error
	// SubmitOrderList submits the orders of a bracket together
	SubmitOrderList(list *types.OrderList) error
	// CancelOrder cancels an open order
	CancelOrder(id types.ClientOrderID) error
}

// DataEngine serves bar subscriptions, starting internal aggregation for composite bar types.
type DataEngine interface {
	SubscribeBars(barType types.BarType) error
}
