package trading_test

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/trading"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func (suite *ActorTestSuite) TestOrderFactoryIDs() {
	s := suite.registered()
	factory := s.OrderFactory()

	order := factory.Market(testBarType.InstrumentID, types.OrderSideBuy, decimal.NewFromInt(1))
	suite.Equal(types.ClientOrderID("O-20240115-103000-001-001-1"), order.ClientOrderID)
	suite.Equal(types.TraderID("TESTER-001"), order.TraderID)
	suite.Equal(types.StrategyID("Counting-001"), order.StrategyID)
	suite.Equal(types.OrderStatusInitialized, order.Status())
	suite.Equal(types.TimeInForceGTC, order.TimeInForce)

	limit := factory.Limit(testBarType.InstrumentID, types.OrderSideSell, decimal.NewFromInt(2),
		decimal.RequireFromString("1.10050"), trading.WithPostOnly(), trading.WithTimeInForce(types.TimeInForceDAY))
	suite.Equal(types.ClientOrderID("O-20240115-103000-001-001-2"), limit.ClientOrderID)
	suite.True(limit.PostOnly)
	suite.Equal(types.TimeInForceDAY, limit.TimeInForce)
	suite.Equal("1.1005", limit.Price.Unwrap().String())
	suite.Equal(2, factory.Count())
}

func (suite *ActorTestSuite) TestBracket() {
	s := suite.registered()

	list, err := s.OrderFactory().Bracket(trading.BracketParams{
		InstrumentID:    testBarType.InstrumentID,
		Side:            types.OrderSideBuy,
		Quantity:        decimal.NewFromInt(1),
		EntryType:       types.OrderTypeLimit,
		EntryPrice:      optional.Some(decimal.RequireFromString("1.10000")),
		TakeProfitPrice: decimal.RequireFromString("1.10100"),
		StopLossTrigger: decimal.RequireFromString("1.09900"),
	})
	suite.Require().NoError(err)
	suite.Require().Len(list.Orders, 3)

	entry, tp, sl := list.Orders[0], list.Orders[1], list.Orders[2]
	suite.Equal(entry, list.First())
	suite.Equal(types.ContingencyOTO, entry.Contingency)
	suite.Equal([]types.ClientOrderID{tp.ClientOrderID, sl.ClientOrderID}, entry.LinkedOrderIDs)
	suite.True(entry.HasTag(trading.TagEntry))

	suite.Equal(types.OrderTypeLimit, tp.Type)
	suite.Equal(types.OrderSideSell, tp.Side)
	suite.True(tp.ReduceOnly)
	suite.Equal(types.ContingencyOCO, tp.Contingency)
	suite.Equal(entry.ClientOrderID, tp.ParentOrderID)
	suite.Equal([]types.ClientOrderID{sl.ClientOrderID}, tp.LinkedOrderIDs)

	suite.Equal(types.OrderTypeStopMarket, sl.Type)
	suite.Equal("1.099", sl.TriggerPrice.Unwrap().String())
	suite.Equal([]types.ClientOrderID{tp.ClientOrderID}, sl.LinkedOrderIDs)

	for _, o := range list.Orders {
		suite.Equal(list.ID, o.OrderListID)
	}

	_, err = s.OrderFactory().Bracket(trading.BracketParams{
		InstrumentID:    testBarType.InstrumentID,
		Side:            types.OrderSideBuy,
		Quantity:        decimal.NewFromInt(1),
		TakeProfitPrice: decimal.RequireFromString("1.09900"),
		StopLossTrigger: decimal.RequireFromString("1.10100"),
	})
	suite.Error(err)

	_, err = s.OrderFactory().Bracket(trading.BracketParams{
		InstrumentID:    testBarType.InstrumentID,
		Side:            types.OrderSideSell,
		Quantity:        decimal.NewFromInt(1),
		EntryType:       types.OrderTypeLimit,
		TakeProfitPrice: decimal.RequireFromString("1.09900"),
		StopLossTrigger: decimal.RequireFromString("1.10100"),
	})
	suite.Error(err)
}

func (suite *ActorTestSuite) TestSubmitAndCancel() {
	s := suite.registered()
	order := s.OrderFactory().Market(testBarType.InstrumentID, types.OrderSideBuy, decimal.NewFromInt(1))

	suite.trading.EXPECT().SubmitOrder(order).Return(nil).Times(1)
	suite.NoError(s.SubmitOrder(order))

	other := trading.NewStrategy("Other-002")
	suite.Require().NoError(other.Register(suite.kernel, nil))
	foreign := other.OrderFactory().Market(testBarType.InstrumentID, types.OrderSideBuy, decimal.NewFromInt(1))
	suite.Error(s.SubmitOrder(foreign))

	// orders that are not open are not sent to the venue
	suite.NoError(s.CancelOrder(order))

	suite.Require().NoError(order.Submit(time.Time{}))
	suite.kernel.Cache.AddOrder(order)
	suite.kernel.Cache.AddOrder(foreign)
	suite.Require().NoError(foreign.Submit(time.Time{}))

	suite.trading.EXPECT().CancelOrder(order.ClientOrderID).Return(nil).Times(1)
	suite.NoError(s.CancelAllOrders(testBarType.InstrumentID))
}

func (suite *ActorTestSuite) TestClosePosition() {
	s := suite.registered()
	instrumentID := testBarType.InstrumentID

	short := &types.Position{
		ID:           types.NewPositionID(instrumentID, s.StrategyID()),
		InstrumentID: instrumentID,
		StrategyID:   s.StrategyID(),
		Side:         types.PositionSideShort,
		SignedQty:    decimal.NewFromInt(-3),
	}
	suite.kernel.Cache.AddPosition(short)

	var submitted *types.Order

	suite.trading.EXPECT().SubmitOrder(gomock.Any()).DoAndReturn(func(o *types.Order) error {
		submitted = o
		return nil
	}).Times(1)

	suite.NoError(s.CloseAllPositions(instrumentID))
	suite.Require().NotNil(submitted)
	suite.Equal(types.OrderSideBuy, submitted.Side)
	suite.Equal(types.OrderTypeMarket, submitted.Type)
	suite.True(submitted.ReduceOnly)
	suite.Equal("3", submitted.Quantity.String())

	flat := &types.Position{ID: "x", InstrumentID: instrumentID, StrategyID: s.StrategyID()}
	suite.NoError(s.ClosePosition(flat))
}
