package indicator_test

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-examples/internal/indicator"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RegistryTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
}

func (suite *RegistryTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *RegistryTestSuite) bar(barType types.BarType) types.Bar {
	return types.Bar{
		BarType: barType,
		Open:    decimal.NewFromInt(1),
		High:    decimal.NewFromInt(1),
		Low:     decimal.NewFromInt(1),
		Close:   decimal.NewFromInt(1),
		Volume:  decimal.NewFromInt(1),
		TsEvent: time.Date(2024, 1, 15, 0, 1, 0, 0, time.UTC),
	}
}

func (suite *RegistryTestSuite) TestHandleBarRoutesByBarType() {
	oneMinute := types.MustParseBarType("6E.SIM-1-MINUTE-LAST-EXTERNAL")
	fiveMinute := types.MustParseBarType("6E.SIM-5-MINUTE-LAST-INTERNAL")

	registered := mocks.NewMockIndicator(suite.ctrl)
	other := mocks.NewMockIndicator(suite.ctrl)

	registry := indicator.NewRegistry()
	suite.Require().NoError(registry.RegisterForBars(oneMinute, registered))
	suite.Require().NoError(registry.RegisterForBars(fiveMinute, other))

	bar := suite.bar(oneMinute)
	registered.EXPECT().HandleBar(bar).Times(1)
	other.EXPECT().HandleBar(gomock.Any()).Times(0)

	registry.HandleBar(bar)

	suite.Len(registry.ForBarType(oneMinute), 1)
	suite.Len(registry.Indicators(), 2)
}

func (suite *RegistryTestSuite) TestDuplicateRegistration() {
	barType := types.MustParseBarType("6E.SIM-1-MINUTE-LAST-EXTERNAL")
	ema, err := indicator.NewExponentialMovingAverage(10)
	suite.Require().NoError(err)

	registry := indicator.NewRegistry()
	suite.NoError(registry.RegisterForBars(barType, ema))
	suite.Error(registry.RegisterForBars(barType, ema))
	suite.Error(registry.RegisterForBars(barType, nil))
}

func (suite *RegistryTestSuite) TestInitialized() {
	registry := indicator.NewRegistry()
	suite.False(registry.Initialized())

	barType := types.MustParseBarType("6E.SIM-1-MINUTE-LAST-EXTERNAL")
	ready := mocks.NewMockIndicator(suite.ctrl)
	warming := mocks.NewMockIndicator(suite.ctrl)
	suite.Require().NoError(registry.RegisterForBars(barType, ready))
	suite.Require().NoError(registry.RegisterForBars(barType, warming))

	ready.EXPECT().Initialized().Return(true).AnyTimes()
	warming.EXPECT().Initialized().Return(false).Times(1)
	warming.EXPECT().Initialized().Return(true).Times(1)

	suite.False(registry.Initialized())
	suite.True(registry.Initialized())
}

func (suite *RegistryTestSuite) TestReset() {
	barType := types.MustParseBarType("6E.SIM-1-MINUTE-LAST-EXTERNAL")
	mock := mocks.NewMockIndicator(suite.ctrl)

	registry := indicator.NewRegistry()
	suite.Require().NoError(registry.RegisterForBars(barType, mock))

	mock.EXPECT().Reset().Times(1)
	registry.Reset()
	suite.Len(registry.Indicators(), 1)
}
