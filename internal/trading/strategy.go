package trading

import (
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"go.uber.org/zap"
)

// Strategy is an actor that can trade. Embed *Strategy in your strategy type.
type Strategy struct {
	*Actor
	strategyID types.StrategyID
	factory    *OrderFactory
}

// NewStrategy creates a strategy with the id, e.g. "EMACross-001". The part after the
// last dash is used as the order id tag.
func NewStrategy(id string) *Strategy {
	return &Strategy{Actor: NewActor(id), strategyID: types.StrategyID(id)}
}

// StrategyBase implements StrategyComponent.
func (s *Strategy) StrategyBase() *Strategy {
	return s
}

// StrategyID returns the strategy id.
func (s *Strategy) StrategyID() types.StrategyID {
	return s.strategyID
}

// Register wires the strategy to the engine services and creates its order factory.
func (s *Strategy) Register(kernel Kernel, self any) error {
	if kernel.Trading == nil {
		return errors.Newf(errors.ErrCodeComponentConfigError, "strategy %s requires a trading system", s.strategyID)
	}

	if err := s.Actor.Register(kernel, self); err != nil {
		return err
	}

	s.factory = NewOrderFactory(kernel.TraderID, s.strategyID, kernel.Clock)

	return nil
}

// OrderFactory returns the factory bound to this strategy.
func (s *Strategy) OrderFactory() *OrderFactory {
	return s.factory
}

func (s *Strategy) tradingSystem() (TradingSystem, error) {
	if s.kernel.Trading == nil {
		return nil, errors.Newf(errors.ErrCodeComponentNotRegistered, "strategy %s is not registered", s.strategyID)
	}

	return s.kernel.Trading, nil
}

// SubmitOrder submits an order built by this strategy's factory.
func (s *Strategy) SubmitOrder(order *types.Order) error {
	ts, err := s.tradingSystem()
	if err != nil {
		return err
	}

	if order.StrategyID != s.strategyID {
		return errors.Newf(errors.ErrCodeInvalidOrder, "order %s belongs to strategy %s", order.ClientOrderID, order.StrategyID)
	}

	s.log.Debug("Submitting order",
		zap.String("client_order_id", string(order.ClientOrderID)),
		zap.String("side", string(order.Side)),
		zap.String("type", string(order.Type)),
		zap.String("quantity", order.Quantity.String()),
	)

	return ts.SubmitOrder(order)
}

// SubmitOrderList submits the orders of a bracket.
func (s *Strategy) SubmitOrderList(list *types.OrderList) error {
	ts, err := s.tradingSystem()
	if err != nil {
		return err
	}

	s.log.Debug("Submitting order list",
		zap.String("order_list_id", string(list.ID)),
		zap.Int("orders", len(list.Orders)),
	)

	return ts.SubmitOrderList(list)
}

// CancelOrder cancels an open order.
func (s *Strategy) CancelOrder(order *types.Order) error {
	ts, err := s.tradingSystem()
	if err != nil {
		return err
	}

	if !order.IsOpen() {
		return nil
	}

	return ts.CancelOrder(order.ClientOrderID)
}

// CancelAllOrders cancels the strategy's open orders for the instrument.
func (s *Strategy) CancelAllOrders(instrumentID types.InstrumentID) error {
	for _, order := range s.Cache().OrdersOpenForInstrument(instrumentID) {
		if order.StrategyID != s.strategyID {
			continue
		}

		if err := s.CancelOrder(order); err != nil {
			return err
		}
	}

	return nil
}

// ClosePosition submits a reduce-only market order flattening the position.
func (s *Strategy) ClosePosition(position *types.Position, tags ...string) error {
	if position == nil || position.IsClosed() {
		return nil
	}

	if position.StrategyID != s.strategyID {
		return errors.Newf(errors.ErrCodeInvalidOrder, "position %s belongs to strategy %s", position.ID, position.StrategyID)
	}

	side := types.OrderSideSell
	if position.IsShort() {
		side = types.OrderSideBuy
	}

	opts := []OrderOption{WithReduceOnly()}
	if len(tags) > 0 {
		opts = append(opts, WithTags(tags...))
	}

	return s.SubmitOrder(s.factory.Market(position.InstrumentID, side, position.Quantity(), opts...))
}

// CloseAllPositions closes the strategy's open positions for the instrument.
func (s *Strategy) CloseAllPositions(instrumentID types.InstrumentID) error {
	for _, position := range s.Cache().PositionsOpenForInstrument(instrumentID) {
		if position.StrategyID != s.strategyID {
			continue
		}

		if err := s.ClosePosition(position); err != nil {
			return err
		}
	}

	return nil
}
