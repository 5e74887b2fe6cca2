package engine

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
)

// FillRow is one line of fills.csv.
type FillRow struct {
	ClientOrderID string    `csv:"client_order_id"`
	VenueOrderID  string    `csv:"venue_order_id"`
	TradeID       string    `csv:"trade_id"`
	InstrumentID  string    `csv:"instrument_id"`
	StrategyID    string    `csv:"strategy_id"`
	PositionID    string    `csv:"position_id"`
	Side          string    `csv:"side"`
	Type          string    `csv:"type"`
	Quantity      string    `csv:"quantity"`
	Price         string    `csv:"price"`
	Commission    string    `csv:"commission"`
	Liquidity     string    `csv:"liquidity"`
	Timestamp     time.Time `csv:"ts_event"`
}

// PositionRow is one line of positions.csv.
type PositionRow struct {
	PositionID   string    `csv:"position_id"`
	InstrumentID string    `csv:"instrument_id"`
	StrategyID   string    `csv:"strategy_id"`
	EntrySide    string    `csv:"entry"`
	Side         string    `csv:"side"`
	PeakQty      string    `csv:"peak_qty"`
	AvgPxOpen    string    `csv:"avg_px_open"`
	AvgPxClose   string    `csv:"avg_px_close"`
	RealizedPnL  string    `csv:"realized_pnl"`
	Commissions  string    `csv:"commissions"`
	Currency     string    `csv:"currency"`
	TsOpened     time.Time `csv:"ts_opened"`
	TsClosed     time.Time `csv:"ts_closed"`
	DurationSecs float64   `csv:"duration_seconds"`
}

// Result implements engine.Engine.
func (e *BacktestEngineV1) Result() types.BacktestStatistics {
	positions := e.cache.Positions()
	closed := e.cache.PositionsClosed()

	result := types.BacktestStatistics{
		RunID:         e.runID,
		TraderID:      e.config.TraderID,
		Start:         e.firstTs,
		End:           e.lastTs,
		BarsProcessed: e.iteration,
		Orders:        len(e.cache.Orders()),
		PnL:           make(map[types.Currency]types.PnLStatistics),
		Commissions:   make(map[types.Currency]float64),
		Balances:      make(map[types.AccountID][]types.AccountBalance),
		Positions: types.PositionStatistics{
			Total: len(positions),
		},
		ElapsedSeconds: e.elapsed.Seconds(),
	}

	for _, order := range e.cache.Orders() {
		if order.Status() == types.OrderStatusFilled {
			result.Fills++
		}
	}

	pnls := make(map[types.Currency][]float64)

	var holding []float64

	for _, position := range closed {
		pnl := position.RealizedPnL.Amount.InexactFloat64()
		pnls[position.Currency] = append(pnls[position.Currency], pnl)
		holding = append(holding, position.Duration().Seconds())

		switch {
		case pnl > 0:
			result.Positions.Winners++
		case pnl < 0:
			result.Positions.Losers++
		}
	}

	if len(closed) > 0 {
		result.Positions.WinRate = float64(result.Positions.Winners) / float64(len(closed))
		result.Positions.AvgHoldingSeconds, _ = stats.Mean(holding)
	}

	for ccy, values := range pnls {
		result.PnL[ccy] = pnlStatistics(values)
	}

	commissions := make(map[types.Currency]decimal.Decimal)
	for _, position := range positions {
		commissions[position.Currency] = commissions[position.Currency].Add(position.Commissions.Amount)
	}

	for ccy, amount := range commissions {
		result.Commissions[ccy] = amount.InexactFloat64()
	}

	for _, venue := range e.venues {
		account := e.exchanges[venue].Account()
		for _, ccy := range account.Currencies() {
			result.Balances[account.ID] = append(result.Balances[account.ID], account.Balance(ccy))
		}
	}

	return result
}

func pnlStatistics(values []float64) types.PnLStatistics {
	var out types.PnLStatistics

	data := stats.Float64Data(values)

	out.Total, _ = data.Sum()
	out.Mean, _ = data.Mean()
	out.StdDev, _ = data.StandardDeviation()
	out.Min, _ = data.Min()
	out.Max, _ = data.Max()

	return out
}

// WriteResults implements engine.Engine.
func (e *BacktestEngineV1) WriteResults(folder string) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeResultsWriteFailed, err, "failed to create results folder %s", folder)
	}

	if err := types.WriteStatistics(filepath.Join(folder, "stats.yaml"), e.Result()); err != nil {
		return errors.Wrap(errors.ErrCodeResultsWriteFailed, "failed to write stats", err)
	}

	if err := writeCSV(filepath.Join(folder, "fills.csv"), e.fillRows()); err != nil {
		return err
	}

	return writeCSV(filepath.Join(folder, "positions.csv"), e.positionRows())
}

func writeCSV[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeResultsWriteFailed, err, "failed to create %s", path)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return errors.Wrapf(errors.ErrCodeResultsWriteFailed, err, "failed to write %s", path)
	}

	return nil
}

func (e *BacktestEngineV1) fillRows() []FillRow {
	rows := []FillRow{}

	for _, position := range e.cache.Positions() {
		for _, fill := range position.Events {
			rows = append(rows, FillRow{
				ClientOrderID: string(fill.ClientOrderID),
				VenueOrderID:  string(fill.VenueOrderID),
				TradeID:       string(fill.TradeID),
				InstrumentID:  fill.InstrumentID.String(),
				StrategyID:    string(fill.StrategyID),
				PositionID:    string(fill.PositionID),
				Side:          string(fill.OrderSide),
				Type:          string(fill.OrderType),
				Quantity:      fill.LastQty.String(),
				Price:         fill.LastPx.String(),
				Commission:    fill.Commission.String(),
				Liquidity:     string(fill.LiquiditySide),
				Timestamp:     fill.TsEvent,
			})
		}
	}

	return rows
}

func (e *BacktestEngineV1) positionRows() []PositionRow {
	rows := []PositionRow{}

	for _, position := range e.cache.Positions() {
		rows = append(rows, PositionRow{
			PositionID:   string(position.ID),
			InstrumentID: position.InstrumentID.String(),
			StrategyID:   string(position.StrategyID),
			EntrySide:    string(position.EntrySide),
			Side:         string(position.Side),
			PeakQty:      position.PeakQty.String(),
			AvgPxOpen:    position.AvgPxOpen.String(),
			AvgPxClose:   position.AvgPxClose.String(),
			RealizedPnL:  position.RealizedPnL.Amount.String(),
			Commissions:  position.Commissions.Amount.String(),
			Currency:     string(position.Currency),
			TsOpened:     position.TsOpened,
			TsClosed:     position.TsClosed,
			DurationSecs: position.Duration().Seconds(),
		})
	}

	return rows
}
