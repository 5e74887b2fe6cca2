package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AccountTestSuite struct {
	suite.Suite
}

func TestAccountSuite(t *testing.T) {
	suite.Run(t, new(AccountTestSuite))
}

func (suite *AccountTestSuite) TestBalances() {
	ts := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	account, err := NewMarginAccount("SIM-001", USD, decimal.NewFromInt(1), []Money{NewMoney(1_000_000, USD)}, ts)
	suite.Require().NoError(err)
	suite.Len(account.Events(), 1)

	id := NewInstrumentID("6E", "SIM")
	account.UpdateMargins(id, NewMoney(3500, USD), NewMoney(3000, USD), ts)

	suite.Equal("1000000", account.BalanceTotal(USD).Amount.String())
	suite.Equal("6500", account.BalanceLocked(USD).Amount.String())
	suite.Equal("993500", account.BalanceFree(USD).Amount.String())
	suite.Equal("3500", account.MarginsInit()[id].Amount.String())
	suite.Equal("3000", account.MarginsMaint()[id].Amount.String())

	account.ApplyPnL(NewMoney(-2.5, USD), ts)
	suite.Equal("999997.5", account.BalanceTotal(USD).Amount.String())
	suite.Len(account.Events(), 3)

	state := account.LastEvent()
	suite.Equal(AccountTypeMargin, state.AccountType)
	suite.Len(state.Margins, 1)
	suite.Equal("6500", state.Balances[0].Locked.Amount.String())

	account.UpdateMargins(id, ZeroMoney(USD), ZeroMoney(USD), ts)
	suite.True(account.BalanceLocked(USD).IsZero())
}

func (suite *AccountTestSuite) TestInvalidStartingBalances() {
	_, err := NewMarginAccount("SIM-001", USD, decimal.Zero, nil, time.Time{})
	suite.Error(err)

	_, err = NewMarginAccount("SIM-001", USD, decimal.Zero, []Money{NewMoney(-1, USD)}, time.Time{})
	suite.Error(err)
}
