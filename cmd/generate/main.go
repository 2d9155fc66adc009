package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-dataprep/pkg/pipeline"
	"github.com/rxtech-lab/argo-dataprep/pkg/utils"
)

const (
	configDir        = "./config"
	schemaName       = "pipeline-config.json"
	sampleConfigName = "pipeline-config.yaml"
)

func main() {
	if err := generate(configDir); err != nil {
		log.Fatal(err)
	}
}

// generate writes the pipeline config schema into dir, plus a sample config
// referencing it when none exists yet.
func generate(dir string) error {
	config := pipeline.DefaultConfig()

	schemaPath := filepath.Join(dir, schemaName)
	sampleConfigPath := filepath.Join(dir, sampleConfigName)

	if err := validatePaths(schemaPath, sampleConfigPath); err != nil {
		return err
	}

	if err := generateSchemaFile(config, schemaPath); err != nil {
		return err
	}

	log.Printf("Schema successfully generated at %s", schemaPath)

	return generateSampleConfig(config, sampleConfigPath, schemaName)
}

func generateSchemaFile(config pipeline.Config, schemaPath string) error {
	schemaJSON, err := utils.ToIndentedJSONSchema(config)
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, schemaJSON, 0o644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateSampleConfig leaves an existing file untouched.
func generateSampleConfig(config pipeline.Config, samplePath, schemaName string) error {
	if err := validateSchemaName(schemaName); err != nil {
		return err
	}

	if _, err := os.Stat(samplePath); err == nil {
		return nil
	}

	yamlBytes, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	content := append([]byte(getSchemaReference(schemaName)), yamlBytes...)

	if err := os.MkdirAll(filepath.Dir(samplePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(samplePath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write sample config to file: %w", err)
	}

	log.Printf("Sample config successfully generated at %s", samplePath)

	return nil
}

func validatePaths(schemaPath, sampleConfigPath string) error {
	if schemaPath == "" {
		return fmt.Errorf("schema path cannot be empty")
	}

	if sampleConfigPath == "" {
		return fmt.Errorf("sample config path cannot be empty")
	}

	return nil
}

func validateSchemaName(name string) error {
	if name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}

	if !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("schema name %q must have .json extension", name)
	}

	return nil
}

// getSchemaReference is the yaml-language-server modeline pointing editors at the schema.
func getSchemaReference(schemaName string) string {
	return "# yaml-language-server: $schema=" + schemaName + "\n"
}
