package engine

import (
	"encoding/json"
	"os"
	"path"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/cache"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-examples/internal/logger"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultTraderID types.TraderID = "BACKTEST_TRADER-001"

// FillModelConfig controls the probabilistic parts of order matching.
type FillModelConfig struct {
	// ProbFillOnLimit is the chance a limit order fills when the price only touches it.
	ProbFillOnLimit float64 `yaml:"prob_fill_on_limit" json:"prob_fill_on_limit" validate:"gte=0,lte=1" jsonschema:"title=Probability Fill On Limit,minimum=0,maximum=1"`
	// ProbFillOnStop is the chance a stop order triggers when the price only touches it.
	ProbFillOnStop float64 `yaml:"prob_fill_on_stop" json:"prob_fill_on_stop" validate:"gte=0,lte=1" jsonschema:"title=Probability Fill On Stop,minimum=0,maximum=1"`
	// ProbSlippage is the chance a taker fill slips one tick against the order.
	ProbSlippage float64 `yaml:"prob_slippage" json:"prob_slippage" validate:"gte=0,lte=1" jsonschema:"title=Probability Slippage,minimum=0,maximum=1"`
	RandomSeed   int64   `yaml:"random_seed" json:"random_seed" jsonschema:"title=Random Seed"`
}

// VenueConfig describes a simulated venue and its account.
type VenueConfig struct {
	Name        types.Venue       `yaml:"name" json:"name" validate:"required" jsonschema:"title=Name,description=Venue name such as SIM"`
	OmsType     types.OmsType     `yaml:"oms_type" json:"oms_type" validate:"required,oneof=NETTING" jsonschema:"title=OMS Type,enum=NETTING"`
	AccountType types.AccountType `yaml:"account_type" json:"account_type" validate:"required,oneof=MARGIN" jsonschema:"title=Account Type,enum=MARGIN"`
	// BaseCurrency is the account base currency.
	BaseCurrency     types.Currency `yaml:"base_currency" json:"base_currency" validate:"required,len=3" jsonschema:"title=Base Currency"`
	StartingBalances []types.Money  `yaml:"starting_balances" json:"starting_balances" validate:"required,min=1" jsonschema:"title=Starting Balances,description=Balances such as 1_000_000 USD"`
	DefaultLeverage  float64        `yaml:"default_leverage" json:"default_leverage" validate:"gte=0" jsonschema:"title=Default Leverage,minimum=0"`
	FeeModel         commission_fee.Config `yaml:"fee_model" json:"fee_model"`
	FillModel        FillModelConfig       `yaml:"fill_model" json:"fill_model"`
	// BarAdaptiveHighLowOrdering walks O-L-H-C when the low is closer to the open than the high.
	BarAdaptiveHighLowOrdering bool `yaml:"bar_adaptive_high_low_ordering" json:"bar_adaptive_high_low_ordering" jsonschema:"title=Bar Adaptive High Low Ordering"`
}

type BacktestEngineV1Config struct {
	TraderID types.TraderID `yaml:"trader_id" json:"trader_id" validate:"required" jsonschema:"title=Trader ID,description=Identifier of the trader running the strategies"`
	Logging  logger.Config  `yaml:"logging" json:"logging"`
	Cache    cache.Config   `yaml:"cache" json:"cache"`
	// StartTime and EndTime bound the replayed bars. None replays everything.
	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime   optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
	Venues    []VenueConfig              `yaml:"venues" json:"venues" validate:"dive" jsonschema:"title=Venues"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		TraderID  types.TraderID `yaml:"trader_id"`
		Logging   logger.Config  `yaml:"logging"`
		Cache     cache.Config   `yaml:"cache"`
		StartTime *time.Time     `yaml:"start_time"`
		EndTime   *time.Time     `yaml:"end_time"`
		Venues    []VenueConfig  `yaml:"venues"`
	}

	config := Config{
		TraderID: c.TraderID,
		Logging:  c.Logging,
		Cache:    c.Cache,
		Venues:   c.Venues,
	}
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.TraderID = config.TraderID
	c.Logging = config.Logging
	c.Cache = config.Cache
	c.Venues = config.Venues
	c.StartTime = optional.None[time.Time]()
	c.EndTime = optional.None[time.Time]()

	if config.StartTime != nil {
		c.StartTime = optional.Some(config.StartTime.UTC())
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(config.EndTime.UTC())
	}

	return nil
}

// MarshalYAML writes the optional run window as plain timestamps, omitted when None.
func (c BacktestEngineV1Config) MarshalYAML() (interface{}, error) {
	type Config struct {
		TraderID  types.TraderID `yaml:"trader_id"`
		Logging   logger.Config  `yaml:"logging"`
		Cache     cache.Config   `yaml:"cache"`
		StartTime *time.Time     `yaml:"start_time,omitempty"`
		EndTime   *time.Time     `yaml:"end_time,omitempty"`
		Venues    []VenueConfig  `yaml:"venues"`
	}

	config := Config{
		TraderID: c.TraderID,
		Logging:  c.Logging,
		Cache:    c.Cache,
		Venues:   c.Venues,
	}

	if c.StartTime.IsSome() {
		start := c.StartTime.Unwrap()
		config.StartTime = &start
	}

	if c.EndTime.IsSome() {
		end := c.EndTime.Unwrap()
		config.EndTime = &end
	}

	return config, nil
}

// Validate checks the config with its validator tags and the run window order.
func (c *BacktestEngineV1Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest engine config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "end_time must not be before start_time")
	}

	for _, v := range c.Venues {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// UnmarshalYAML decodes a venue, using the default fill model when fill_model is omitted.
// A venue built in code keeps the fill model it was given, so a zero FillModelConfig
// always matches deterministically.
func (v *VenueConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain VenueConfig

	decoded := plain{FillModel: DefaultFillModelConfig()}
	if err := value.Decode(&decoded); err != nil {
		return err
	}

	*v = VenueConfig(decoded)

	return nil
}

// Validate checks the venue config.
func (v VenueConfig) Validate() error {
	if err := validator.New().Struct(v); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid venue config %s", v.Name)
	}

	if err := validator.New().Struct(v.FeeModel); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid fee model for venue %s", v.Name)
	}

	for _, b := range v.StartingBalances {
		if b.Amount.IsNegative() {
			return errors.Newf(errors.ErrCodeInvalidConfiguration, "starting balance %s of venue %s is negative", b, v.Name)
		}
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		// logger, cache and commission_fee all name their type Config
		Namer: func(t reflect.Type) string {
			if t.PkgPath() == "" {
				return t.Name()
			}

			return path.Base(t.PkgPath()) + "." + t.Name()
		},
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if t == reflect.TypeOf(types.Money{}) {
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^-?[0-9_]+(\.[0-9]+)? [A-Z]{3}$`,
				}
			}

			if strings.Contains(t.String(), "commission_fee.Type") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllFeeModels,
				}
			}

			return nil
		},
	}

	// Generate schema from BacktestEngineV1Config struct
	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// ParseConfig parses and validates a YAML engine config. Missing fields take their defaults.
func ParseConfig(data []byte) (BacktestEngineV1Config, error) {
	config := EmptyConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse backtest engine config", err)
	}

	if config.TraderID == "" {
		config.TraderID = DefaultTraderID
	}

	for i := range config.Venues {
		config.Venues[i].applyDefaults()
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// LoadConfig reads a YAML engine config from a file.
func LoadConfig(path string) (BacktestEngineV1Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EmptyConfig(), errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return ParseConfig(data)
}

// DefaultFillModelConfig returns the fill probabilities used when a venue sets none.
func DefaultFillModelConfig() FillModelConfig {
	return FillModelConfig{
		ProbFillOnLimit: 0.2,
		ProbFillOnStop:  0.2,
		ProbSlippage:    0.8,
		RandomSeed:      42,
	}
}

// DefaultVenueConfig returns a NETTING / MARGIN venue funded with 1,000,000 USD.
func DefaultVenueConfig(name types.Venue) VenueConfig {
	return VenueConfig{
		Name:             name,
		OmsType:          types.OmsTypeNetting,
		AccountType:      types.AccountTypeMargin,
		BaseCurrency:     types.USD,
		StartingBalances: []types.Money{types.NewMoney(1_000_000, types.USD)},
		DefaultLeverage:  1,
		FeeModel:         commission_fee.DefaultConfig(),
		FillModel:        DefaultFillModelConfig(),
	}
}

func (v *VenueConfig) applyDefaults() {
	if v.OmsType == "" {
		v.OmsType = types.OmsTypeNetting
	}

	if v.AccountType == "" {
		v.AccountType = types.AccountTypeMargin
	}

	if v.BaseCurrency == "" {
		v.BaseCurrency = types.USD
	}

	if v.FeeModel.Type == "" {
		v.FeeModel = commission_fee.DefaultConfig()
	}
}

// EmptyConfig returns a BacktestEngineV1Config with default values
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		TraderID:  DefaultTraderID,
		Cache:     cache.DefaultConfig(),
		StartTime: optional.None[time.Time](),
		EndTime:   optional.None[time.Time](),
	}
}

// TestConfig returns a config that replays the given window with logging disabled.
func TestConfig(startTime time.Time, endTime time.Time) BacktestEngineV1Config {
	config := EmptyConfig()
	config.Logging = logger.Config{Bypass: true}
	config.StartTime = optional.Some(startTime)
	config.EndTime = optional.Some(endTime)

	return config
}
