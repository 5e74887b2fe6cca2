package catalog

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var barColumns = []string{"bar_type", "open", "high", "low", "close", "volume", "ts_event", "ts_init"}

const barSchema = `bar_type VARCHAR, open VARCHAR, high VARCHAR, low VARCHAR, close VARCHAR,
	volume VARCHAR, ts_event BIGINT, ts_init BIGINT`

// WriteBars writes bars grouped by bar type, one parquet file per bar type and call.
func (c *ParquetDataCatalog) WriteBars(bars []types.Bar) error {
	groups := make(map[string][]types.Bar)
	order := make([]string, 0)

	for _, b := range bars {
		key := b.BarType.String()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}

		groups[key] = append(groups[key], b)
	}

	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool { return group[i].TsInit.Before(group[j].TsInit) })

		rows := make([][]any, 0, len(group))
		for _, b := range group {
			rows = append(rows, []any{key, b.Open.String(), b.High.String(), b.Low.String(), b.Close.String(),
				b.Volume.String(), toNanos(b.TsEvent), toNanos(b.TsInit)})
		}

		first, last := toNanos(group[0].TsInit), toNanos(group[len(group)-1].TsInit)
		path := filepath.Join(c.root, dataDir, barDir, pathSegment(key), fmt.Sprintf("%d-%d.parquet", first, last))

		if err := c.copyToParquet("bars_tmp", barSchema, barColumns, rows, path); err != nil {
			return errors.Wrapf(errors.ErrCodeCatalogWrite, err, "failed to write bars for %s", key)
		}

		c.debug("Wrote bars", zap.String("bar_type", key), zap.Int("count", len(group)), zap.String("path", path))
	}

	return nil
}

// BarTypes lists the bar types stored in the catalog.
func (c *ParquetDataCatalog) BarTypes() ([]string, error) {
	files, err := globFiles(filepath.Join(c.root, dataDir, barDir, "*", "*.parquet"))
	if err != nil || len(files) == 0 {
		return []string{}, err
	}

	query, args, err := c.sq.Select("DISTINCT bar_type").From(readParquet(files)).OrderBy("bar_type").ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, "failed to query bar types", err)
	}
	defer rows.Close()

	out := make([]string, 0)

	for rows.Next() {
		var barType string
		if err := rows.Scan(&barType); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCatalogRead, "failed to scan bar type", err)
		}

		out = append(out, barType)
	}

	return out, rows.Err()
}

func (c *ParquetDataCatalog) barFiles(barTypes []string) ([]string, error) {
	var files []string

	for _, bt := range barTypes {
		matches, err := globFiles(filepath.Join(c.root, dataDir, barDir, pathSegment(bt), "*.parquet"))
		if err != nil {
			return nil, err
		}

		files = append(files, matches...)
	}

	return files, nil
}

// Bars reads the bars of the given bar types ordered by ts_init. Empty barTypes reads all.
func (c *ParquetDataCatalog) Bars(barTypes []string, start, end optional.Option[time.Time]) ([]types.Bar, error) {
	if len(barTypes) == 0 {
		all, err := c.BarTypes()
		if err != nil {
			return nil, err
		}

		barTypes = all
	}

	files, err := c.barFiles(barTypes)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, "failed to list bar files", err)
	}

	if len(files) == 0 {
		return []types.Bar{}, nil
	}

	where := timeRange(start, end)
	where = append(where, squirrel.Eq{"bar_type": barTypes})

	query, args, err := c.sq.Select(barColumns...).
		From(readParquet(files)).
		Where(where).
		OrderBy("ts_init", "bar_type").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, "failed to query bars", err)
	}
	defer rows.Close()

	parsed := make(map[string]types.BarType)
	bars := make([]types.Bar, 0)

	for rows.Next() {
		var (
			barType, open, high, low, closePx, volume string
			tsEvent, tsInit                           int64
		)

		if err := rows.Scan(&barType, &open, &high, &low, &closePx, &volume, &tsEvent, &tsInit); err != nil {
			return nil, errors.Wrap(errors.ErrCodeCatalogRead, "failed to scan bar", err)
		}

		bt, ok := parsed[barType]
		if !ok {
			bt, err = types.ParseBarType(barType)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeCatalogRead, "invalid bar type in catalog", err)
			}

			parsed[barType] = bt
		}

		bar := types.Bar{BarType: bt, TsEvent: fromNanos(tsEvent), TsInit: fromNanos(tsInit)}
		for _, f := range []struct {
			dst *decimal.Decimal
			src string
		}{{&bar.Open, open}, {&bar.High, high}, {&bar.Low, low}, {&bar.Close, closePx}, {&bar.Volume, volume}} {
			if *f.dst, err = decimal.NewFromString(f.src); err != nil {
				return nil, errors.Wrapf(errors.ErrCodeCatalogRead, err, "invalid decimal %q in catalog", f.src)
			}
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, "failed to read bars", err)
	}

	c.debug("Read bars", zap.Strings("bar_types", barTypes), zap.Int("count", len(bars)))

	return bars, nil
}

// Count returns the number of stored bars of a bar type.
func (c *ParquetDataCatalog) Count(barType string) (int, error) {
	files, err := c.barFiles([]string{barType})
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeCatalogRead, "failed to list bar files", err)
	}

	if len(files) == 0 {
		return 0, nil
	}

	query, args, err := c.sq.Select("COUNT(*)").From(readParquet(files)).Where(squirrel.Eq{"bar_type": barType}).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	var count int
	if err := c.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeCatalogRead, "failed to count bars", err)
	}

	return count, nil
}
