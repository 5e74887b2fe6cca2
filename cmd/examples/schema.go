package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	v1 "github.com/rxtech-lab/argo-examples/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-examples/internal/examples/exampleutil"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	schemaName       = "backtest-engine-v1-config.json"
	sampleConfigName = "backtest-engine-v1-config.yaml"
)

// schemaAction writes the config schema and, when missing, a sample config referencing it.
func schemaAction(_ context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")
	out := cmd.Root().Writer

	config := v1.EmptyConfig()
	config.Venues = []v1.VenueConfig{exampleutil.DefaultVenueConfig()}

	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	schemaPath := filepath.Join(dir, schemaName)
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	sampleConfigPath := filepath.Join(dir, sampleConfigName)
	if _, err := os.Stat(sampleConfigPath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)
		if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
			return fmt.Errorf("failed to write sample config to file: %w", err)
		}

		fmt.Fprintf(out, "Sample config successfully generated at %s\n", sampleConfigPath)
	}

	fmt.Fprintf(out, "Schema successfully generated at %s\n", schemaPath)

	return nil
}
