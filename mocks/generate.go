package mocks

//go:generate mockgen -destination=./mock_trading.go -package=mocks github.com/rxtech-lab/argo-examples/internal/trading TradingSystem
//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/argo-examples/internal/indicator Indicator
//go:generate mockgen -destination=./mock_fee_model.go -package=mocks github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/commission_fee FeeModel
