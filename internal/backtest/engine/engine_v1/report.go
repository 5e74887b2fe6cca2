package engine

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
)

func reportHeader(title string) string {
	line := strings.Repeat("-", 50)

	return fmt.Sprintf("%s\n %s\n%s\n", line, title, line)
}

func renderTable(display *strings.Builder, header []string, rows [][]string) {
	table := tablewriter.NewWriter(display)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(rows)
	table.Render()
}

// AccountReport lists every account state of the venue.
func (e *BacktestEngineV1) AccountReport(venue types.Venue) (string, error) {
	account := e.portfolio.Account(venue)
	if account.IsNone() {
		return "", errors.Newf(errors.ErrCodeVenueNotFound, "no account for venue %s", venue)
	}

	display := &strings.Builder{}
	display.WriteString(reportHeader(fmt.Sprintf("Account report for venue: %s", venue)))

	var rows [][]string

	for _, state := range account.Unwrap().Events() {
		for _, balance := range state.Balances {
			rows = append(rows, []string{
				state.TsEvent.Format(time.RFC3339),
				balance.Total.Amount.StringFixed(balance.Total.Currency.Precision()),
				balance.Locked.Amount.StringFixed(balance.Locked.Currency.Precision()),
				balance.Free.Amount.StringFixed(balance.Free.Currency.Precision()),
				string(balance.Total.Currency),
			})
		}
	}

	renderTable(display, []string{"ts_event", "total", "locked", "free", "currency"}, rows)

	return display.String(), nil
}

// OrderFillsReport lists every filled order.
func (e *BacktestEngineV1) OrderFillsReport() string {
	display := &strings.Builder{}
	display.WriteString(reportHeader("Order fills report"))

	var rows [][]string

	for _, order := range e.cache.OrdersClosed() {
		if order.Status() != types.OrderStatusFilled {
			continue
		}

		rows = append(rows, []string{
			string(order.ClientOrderID),
			order.InstrumentID.String(),
			string(order.StrategyID),
			string(order.Side),
			string(order.Type),
			order.FilledQty.String(),
			order.AvgPx.String(),
			strings.Join(order.Tags, ","),
			order.TsLast.Format(time.RFC3339),
		})
	}

	renderTable(display, []string{"client_order_id", "instrument_id", "strategy_id", "side", "type", "filled_qty", "avg_px", "tags", "ts_last"}, rows)

	return display.String()
}

// PositionsReport lists closed positions followed by open ones.
func (e *BacktestEngineV1) PositionsReport() string {
	display := &strings.Builder{}
	display.WriteString(reportHeader("Positions report"))

	var rows [][]string

	for _, position := range e.cache.Positions() {
		closed := ""
		if position.IsClosed() {
			closed = position.TsClosed.Format(time.RFC3339)
		}

		rows = append(rows, []string{
			string(position.ID),
			string(position.EntrySide),
			string(position.Side),
			position.PeakQty.String(),
			position.AvgPxOpen.String(),
			position.AvgPxClose.String(),
			position.RealizedPnL.String(),
			position.Commissions.String(),
			position.TsOpened.Format(time.RFC3339),
			closed,
		})
	}

	renderTable(display, []string{"position_id", "entry", "side", "peak_qty", "avg_px_open", "avg_px_close", "realized_pnl", "commissions", "ts_opened", "ts_closed"}, rows)

	return display.String()
}

// PrintReports writes the account report of every venue, the fills report and the
// positions report.
func (e *BacktestEngineV1) PrintReports(w io.Writer) error {
	for _, venue := range e.venues {
		report, err := e.AccountReport(venue)
		if err != nil {
			return err
		}

		if _, err := io.WriteString(w, report); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, e.OrderFillsReport()); err != nil {
		return err
	}

	_, err := io.WriteString(w, e.PositionsReport())

	return err
}
