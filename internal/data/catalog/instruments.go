package catalog

import (
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var instrumentColumns = []string{
	"id", "raw_symbol", "asset_class", "instrument_class", "base_currency", "quote_currency",
	"price_precision", "price_increment", "size_precision", "size_increment", "multiplier", "lot_size",
	"underlying", "exchange", "activation", "expiration", "margin_init", "margin_maint",
	"maker_fee", "taker_fee", "ts_event", "ts_init",
}

const instrumentSchema = `id VARCHAR, raw_symbol VARCHAR, asset_class VARCHAR, instrument_class VARCHAR,
	base_currency VARCHAR, quote_currency VARCHAR, price_precision INTEGER, price_increment VARCHAR,
	size_precision INTEGER, size_increment VARCHAR, multiplier VARCHAR, lot_size VARCHAR,
	underlying VARCHAR, exchange VARCHAR, activation BIGINT, expiration BIGINT, margin_init VARCHAR,
	margin_maint VARCHAR, maker_fee VARCHAR, taker_fee VARCHAR, ts_event BIGINT, ts_init BIGINT`

// WriteInstruments writes every instrument to its own part file, replacing earlier writes.
func (c *ParquetDataCatalog) WriteInstruments(instruments ...*types.Instrument) error {
	for _, inst := range instruments {
		if err := inst.Validate(); err != nil {
			return errors.Wrapf(errors.ErrCodeCatalogWrite, err, "cannot write instrument %s", inst.ID)
		}

		row := []any{
			inst.ID.String(), inst.RawSymbol, string(inst.AssetClass), string(inst.InstrumentClass),
			string(inst.BaseCurrency), string(inst.QuoteCurrency), inst.PricePrecision, inst.PriceIncrement.String(),
			inst.SizePrecision, inst.SizeIncrement.String(), inst.Multiplier.String(), inst.LotSize.String(),
			inst.Underlying, inst.Exchange, toNanos(inst.Activation), toNanos(inst.Expiration), inst.MarginInit.String(),
			inst.MarginMaint.String(), inst.MakerFee.String(), inst.TakerFee.String(), toNanos(inst.TsEvent), toNanos(inst.TsInit),
		}

		path := filepath.Join(c.root, dataDir, strings.ToLower(string(inst.InstrumentClass)), pathSegment(inst.ID.String()), "part-0.parquet")
		if err := c.copyToParquet("instruments_tmp", instrumentSchema, instrumentColumns, [][]any{row}, path); err != nil {
			return errors.Wrapf(errors.ErrCodeCatalogWrite, err, "failed to write instrument %s", inst.ID)
		}

		c.debug("Wrote instrument", zap.String("instrument_id", inst.ID.String()), zap.String("path", path))
	}

	return nil
}

// Instruments reads instruments, optionally filtered by instrument id.
func (c *ParquetDataCatalog) Instruments(ids ...string) ([]*types.Instrument, error) {
	all, err := globFiles(filepath.Join(c.root, dataDir, "*", "*", "part-0.parquet"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, "failed to list instrument files", err)
	}

	files := make([]string, 0, len(all))
	for _, f := range all {
		if filepath.Base(filepath.Dir(filepath.Dir(f))) != barDir {
			files = append(files, f)
		}
	}

	if len(files) == 0 {
		return []*types.Instrument{}, nil
	}

	sel := c.sq.Select(instrumentColumns...).From(readParquet(files)).OrderBy("id")
	if len(ids) > 0 {
		sel = sel.Where(squirrel.Eq{"id": ids})
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, "failed to query instruments", err)
	}
	defer rows.Close()

	out := make([]*types.Instrument, 0)

	for rows.Next() {
		var (
			id, rawSymbol, assetClass, instrumentClass, baseCcy, quoteCcy string
			pricePrecision, sizePrecision                                 int32
			priceIncrement, sizeIncrement, multiplier, lotSize            string
			underlying, exchange                                          string
			activation, expiration, tsEvent, tsInit                       int64
			marginInit, marginMaint, makerFee, takerFee                   string
		)

		if err := rows.Scan(&id, &rawSymbol, &assetClass, &instrumentClass, &baseCcy, &quoteCcy,
			&pricePrecision, &priceIncrement, &sizePrecision, &sizeIncrement, &multiplier, &lotSize,
			&underlying, &exchange, &activation, &expiration, &marginInit, &marginMaint,
			&makerFee, &takerFee, &tsEvent, &tsInit); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCatalogRead, "failed to scan instrument", err)
		}

		instrumentID, err := types.ParseInstrumentID(id)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCatalogRead, "invalid instrument id in catalog", err)
		}

		inst := &types.Instrument{
			ID:              instrumentID,
			RawSymbol:       rawSymbol,
			AssetClass:      types.AssetClass(assetClass),
			InstrumentClass: types.InstrumentClass(instrumentClass),
			BaseCurrency:    types.Currency(baseCcy),
			QuoteCurrency:   types.Currency(quoteCcy),
			PricePrecision:  pricePrecision,
			SizePrecision:   sizePrecision,
			Underlying:      underlying,
			Exchange:        exchange,
			Activation:      fromNanos(activation),
			Expiration:      fromNanos(expiration),
			TsEvent:         fromNanos(tsEvent),
			TsInit:          fromNanos(tsInit),
		}

		decimals := []struct {
			dst *decimal.Decimal
			src string
		}{
			{&inst.PriceIncrement, priceIncrement}, {&inst.SizeIncrement, sizeIncrement},
			{&inst.Multiplier, multiplier}, {&inst.LotSize, lotSize},
			{&inst.MarginInit, marginInit}, {&inst.MarginMaint, marginMaint},
			{&inst.MakerFee, makerFee}, {&inst.TakerFee, takerFee},
		}

		for _, d := range decimals {
			if *d.dst, err = decimal.NewFromString(d.src); err != nil {
				return nil, errors.Wrapf(errors.ErrCodeCatalogRead, err, "invalid decimal %q for instrument %s", d.src, id)
			}
		}

		out = append(out, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, "failed to read instruments", err)
	}

	return out, nil
}

// Instrument reads a single instrument by id.
func (c *ParquetDataCatalog) Instrument(id string) (*types.Instrument, error) {
	found, err := c.Instruments(id)
	if err != nil {
		return nil, err
	}

	if len(found) == 0 {
		return nil, errors.Newf(errors.ErrCodeUnknownInstrument, "instrument %s not found in catalog", id)
	}

	return found[0], nil
}
