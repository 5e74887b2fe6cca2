package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-examples/internal/types"
	"github.com/rxtech-lab/argo-examples/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestEmptyConfig() {
	config := EmptyConfig()

	suite.Equal(DefaultTraderID, config.TraderID)
	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
	suite.Equal(10_000, config.Cache.BarCapacity)
	suite.Empty(config.Venues)
}

func (suite *ConfigTestSuite) TestTestConfig() {
	startTime := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	endTime := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	config := TestConfig(startTime, endTime)

	suite.True(config.Logging.Bypass)
	suite.Equal(startTime, config.StartTime.Unwrap())
	suite.Equal(endTime, config.EndTime.Unwrap())
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestDefaultVenueConfig() {
	venue := DefaultVenueConfig("SIM")

	suite.Equal(types.OmsTypeNetting, venue.OmsType)
	suite.Equal(types.AccountTypeMargin, venue.AccountType)
	suite.Equal("1000000.00 USD", venue.StartingBalances[0].String())
	suite.Equal(0.2, venue.FillModel.ProbFillOnLimit)
	suite.Equal(0.8, venue.FillModel.ProbSlippage)
	suite.Equal(int64(42), venue.FillModel.RandomSeed)
	suite.NoError(venue.Validate())
}

func (suite *ConfigTestSuite) TestGenerateSchema() {
	config := &BacktestEngineV1Config{}
	schema, err := config.GenerateSchema()

	suite.NoError(err)
	suite.NotNil(schema)
	suite.Equal("backtest-engine-v1-config", schema.Title)
	suite.Equal("Configuration schema for BacktestEngineV1", schema.Description)
	suite.Equal("http://json-schema.org/draft-07/schema#", schema.Version)
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := &BacktestEngineV1Config{}
	schemaJSON, err := config.GenerateSchemaJSON()

	suite.NoError(err)
	suite.NotEmpty(schemaJSON)

	var result map[string]interface{}
	err = json.Unmarshal([]byte(schemaJSON), &result)
	suite.NoError(err)

	suite.Equal("backtest-engine-v1-config", result["title"])
	suite.Contains(schemaJSON, "trader_id")
	suite.Contains(schemaJSON, "bar_adaptive_high_low_ordering")
	suite.Contains(schemaJSON, "interactive_broker")
	suite.Contains(schemaJSON, "bar_capacity")
	suite.Contains(schemaJSON, "prob_fill_on_limit")
}

func (suite *ConfigTestSuite) TestGenerateSchemaKeepsSameNamedConfigsApart() {
	config := &BacktestEngineV1Config{}
	schemaJSON, err := config.GenerateSchemaJSON()
	suite.NoError(err)

	var result struct {
		Defs map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"$defs"`
	}
	suite.NoError(json.Unmarshal([]byte(schemaJSON), &result))

	logging, ok := result.Defs["logger.Config"]
	suite.True(ok)
	suite.Contains(logging.Properties, "log_level")
	suite.NotContains(logging.Properties, "bar_capacity")

	cacheDef, ok := result.Defs["cache.Config"]
	suite.True(ok)
	suite.Contains(cacheDef.Properties, "bar_capacity")
	suite.NotContains(cacheDef.Properties, "log_level")

	fee, ok := result.Defs["commission_fee.Config"]
	suite.True(ok)
	suite.Contains(fee.Properties, "type")
	suite.Contains(string(fee.Properties["type"]), "interactive_broker")
}

func (suite *ConfigTestSuite) TestParseConfigComplete() {
	yamlData := `
trader_id: TESTER-001
logging:
  log_level: debug
  bypass_logging: true
cache:
  bar_capacity: 100000
start_time: 2024-01-15T00:00:00Z
end_time: 2024-01-16T00:00:00Z
venues:
  - name: SIM
    oms_type: NETTING
    account_type: MARGIN
    base_currency: USD
    starting_balances: ["1_000_000 USD"]
    default_leverage: 1
    fee_model:
      type: per_contract
      commission: 2.50 USD
    fill_model:
      prob_fill_on_limit: 1
      prob_fill_on_stop: 1
      prob_slippage: 0
      random_seed: 7
    bar_adaptive_high_low_ordering: true
`

	config, err := ParseConfig([]byte(yamlData))
	suite.Require().NoError(err)

	suite.Equal(types.TraderID("TESTER-001"), config.TraderID)
	suite.Equal("debug", config.Logging.Level)
	suite.Equal(100000, config.Cache.BarCapacity)
	suite.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), config.StartTime.Unwrap())
	suite.Equal(time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), config.EndTime.Unwrap())

	suite.Require().Len(config.Venues, 1)
	venue := config.Venues[0]
	suite.Equal(types.Venue("SIM"), venue.Name)
	suite.Equal("1000000.00 USD", venue.StartingBalances[0].String())
	suite.Equal(commission_fee.TypePerContract, venue.FeeModel.Type)
	suite.Equal("2.50 USD", venue.FeeModel.Commission.String())
	suite.Equal(1.0, venue.FillModel.ProbFillOnLimit)
	suite.Equal(int64(7), venue.FillModel.RandomSeed)
	suite.True(venue.BarAdaptiveHighLowOrdering)
}

func (suite *ConfigTestSuite) TestParseConfigDefaults() {
	yamlData := `
venues:
  - name: SIM
    starting_balances: ["100000 USD"]
`

	config, err := ParseConfig([]byte(yamlData))
	suite.Require().NoError(err)

	suite.Equal(DefaultTraderID, config.TraderID)
	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
	suite.Equal(types.OmsTypeNetting, config.Venues[0].OmsType)
	suite.Equal(commission_fee.TypeMakerTaker, config.Venues[0].FeeModel.Type)
	suite.Equal(DefaultFillModelConfig(), config.Venues[0].FillModel)
}

func (suite *ConfigTestSuite) TestParseConfigExplicitZeroFillModel() {
	yamlData := `
venues:
  - name: SIM
    starting_balances: ["100000 USD"]
    fill_model:
      prob_fill_on_limit: 0
      prob_fill_on_stop: 0
      prob_slippage: 0
      random_seed: 0
`

	config, err := ParseConfig([]byte(yamlData))
	suite.Require().NoError(err)
	suite.Equal(FillModelConfig{}, config.Venues[0].FillModel)
}

func (suite *ConfigTestSuite) TestUnmarshalYAMLOnlyStartTime() {
	yamlData := `
trader_id: TESTER-001
start_time: 2024-06-01T00:00:00Z
`

	var config BacktestEngineV1Config
	err := yaml.Unmarshal([]byte(yamlData), &config)

	suite.NoError(err)
	suite.True(config.StartTime.IsSome())
	suite.True(config.EndTime.IsNone())
}

func (suite *ConfigTestSuite) TestParseConfigInvalid() {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "cache: [1, 2"},
		{"hedging oms", "venues:\n  - name: SIM\n    oms_type: HEDGING\n    starting_balances: [\"1 USD\"]\n"},
		{"no balances", "venues:\n  - name: SIM\n"},
		{"bad probability", "venues:\n  - name: SIM\n    starting_balances: [\"1 USD\"]\n    fill_model:\n      prob_slippage: 2\n"},
		{"window order", "start_time: 2024-02-01T00:00:00Z\nend_time: 2024-01-01T00:00:00Z\n"},
		{"bad log level", "logging:\n  log_level: loud\n"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := ParseConfig([]byte(tc.yaml))
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration), "%v", err)
		})
	}
}

func (suite *ConfigTestSuite) TestLoadConfig() {
	path := filepath.Join(suite.T().TempDir(), "engine.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("trader_id: FILE-001\n"), 0644))

	config, err := LoadConfig(path)
	suite.Require().NoError(err)
	suite.Equal(types.TraderID("FILE-001"), config.TraderID)

	_, err = LoadConfig(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestMarshalYAMLRoundTrip() {
	config := EmptyConfig()
	config.Venues = []VenueConfig{DefaultVenueConfig("SIM")}

	out, err := yaml.Marshal(config)
	suite.Require().NoError(err)
	suite.NotContains(string(out), "start_time")

	parsed, err := ParseConfig(out)
	suite.Require().NoError(err)
	suite.Equal(config.TraderID, parsed.TraderID)
	suite.True(parsed.StartTime.IsNone())
	suite.Require().Len(parsed.Venues, 1)
	suite.Require().Len(parsed.Venues[0].StartingBalances, 1)
	suite.Equal(config.Venues[0].StartingBalances[0].String(), parsed.Venues[0].StartingBalances[0].String())

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	config.StartTime = optional.Some(start)

	out, err = yaml.Marshal(config)
	suite.Require().NoError(err)

	parsed, err = ParseConfig(out)
	suite.Require().NoError(err)
	suite.True(parsed.StartTime.Unwrap().Equal(start))
	suite.True(parsed.EndTime.IsNone())
}
