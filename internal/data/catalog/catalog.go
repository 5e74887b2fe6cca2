// Package catalog persists instruments and bars as parquet files through DuckDB.
//
// Layout below the catalog root:
//
//	catalog.yaml
//	data/bar/<bar_type>/<first_ts_init>-<last_ts_init>.parquet
//	data/<instrument_class>/<instrument_id>/part-0.parquet
//
// Prices and quantities are stored as strings so they round trip without loss,
// timestamps as int64 nanoseconds since the unix epoch.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/logger"
	"github.com/rxtech-lab/argo-examples/internal/version"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	manifestFile = "catalog.yaml"
	dataDir      = "data"
	barDir       = "bar"
	insertBatch  = 500
)

// Manifest describes a catalog directory.
type Manifest struct {
	Version   string    `yaml:"version"`
	CreatedAt time.Time `yaml:"created_at"`
	CreatedBy string    `yaml:"created_by"`
}

// ParquetDataCatalog reads and writes a catalog directory.
type ParquetDataCatalog struct {
	root     string
	manifest Manifest
	db       *sql.DB
	sq       squirrel.StatementBuilderType
	log      *logger.Logger
}

// NewParquetDataCatalog opens the catalog at root, creating the directory and manifest when
// missing. Catalogs written with an incompatible schema version are rejected.
func NewParquetDataCatalog(root string, log *logger.Logger) (*ParquetDataCatalog, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if err := os.MkdirAll(filepath.Join(root, dataDir), 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeCatalogWrite, err, "failed to create catalog directory %s", root)
	}

	manifest, err := loadOrCreateManifest(root)
	if err != nil {
		return nil, err
	}

	if err := version.CheckCatalogCompatibility(version.CatalogSchemaVersion, manifest.Version); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeCatalogIncompat, err, "catalog %s is not compatible", root)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCatalogRead, "failed to open DuckDB connection", err)
	}

	return &ParquetDataCatalog{
		root:     root,
		manifest: manifest,
		db:       db,
		sq:       squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		log:      log.Named("ParquetDataCatalog"),
	}, nil
}

func loadOrCreateManifest(root string) (Manifest, error) {
	path := filepath.Join(root, manifestFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		manifest := Manifest{Version: version.CatalogSchemaVersion, CreatedAt: time.Now().UTC(), CreatedBy: version.GetVersion()}

		out, err := yaml.Marshal(manifest)
		if err != nil {
			return Manifest{}, errors.Wrap(errors.ErrCodeCatalogWrite, "failed to marshal catalog manifest", err)
		}

		if err := os.WriteFile(path, out, 0644); err != nil {
			return Manifest{}, errors.Wrap(errors.ErrCodeCatalogWrite, "failed to write catalog manifest", err)
		}

		return manifest, nil
	}

	if err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeCatalogRead, "failed to read catalog manifest", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeCatalogRead, "failed to parse catalog manifest", err)
	}

	return manifest, nil
}

// Root returns the catalog directory.
func (c *ParquetDataCatalog) Root() string {
	return c.root
}

// Manifest returns the catalog manifest.
func (c *ParquetDataCatalog) Manifest() Manifest {
	return c.manifest
}

// Close releases the DuckDB connection.
func (c *ParquetDataCatalog) Close() error {
	if c.db == nil {
		return nil
	}

	err := c.db.Close()
	c.db = nil

	return err
}

// pathSegment makes an identifier usable as a directory name. Currency pair symbols contain '/'.
func pathSegment(id string) string {
	return strings.ReplaceAll(id, "/", "_")
}

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixNano()
}

func fromNanos(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}

	return time.Unix(0, ns).UTC()
}

func quote(path string) string {
	return "'" + strings.ReplaceAll(path, "'", "''") + "'"
}

func readParquet(files []string) string {
	quoted := make([]string, len(files))
	for i, f := range files {
		quoted[i] = quote(f)
	}

	return fmt.Sprintf("read_parquet([%s])", strings.Join(quoted, ", "))
}

// copyToParquet creates a temporary table, fills it with rows and exports it to path.
func (c *ParquetDataCatalog) copyToParquet(table, schema string, columns []string, rows [][]any, path string) error {
	if _, err := c.db.Exec(fmt.Sprintf("CREATE OR REPLACE TEMP TABLE %s (%s)", table, schema)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	defer c.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)) //nolint:errcheck

	for start := 0; start < len(rows); start += insertBatch {
		end := min(start+insertBatch, len(rows))
		insert := c.sq.Insert(table).Columns(columns...)

		for _, r := range rows[start:end] {
			insert = insert.Values(r...)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert query: %w", err)
		}

		if _, err := c.db.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to insert rows: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := c.db.Exec(fmt.Sprintf("COPY %s TO %s (FORMAT PARQUET)", table, quote(path))); err != nil {
		return fmt.Errorf("failed to export to parquet: %w", err)
	}

	return nil
}

func globFiles(pattern string) ([]string, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	return files, nil
}

func timeRange(start, end optional.Option[time.Time]) squirrel.And {
	where := squirrel.And{}
	if start.IsSome() {
		where = append(where, squirrel.GtOrEq{"ts_init": toNanos(start.Unwrap())})
	}

	if end.IsSome() {
		where = append(where, squirrel.LtOrEq{"ts_init": toNanos(end.Unwrap())})
	}

	return where
}

func (c *ParquetDataCatalog) debug(msg string, fields ...zap.Field) {
	c.log.Debug(msg, append(fields, zap.String("root", c.root))...)
}
