/*
 * Copyright © 2025 Envitrack Systems Inc., All rights reserved.
 */

package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names read by Load.
const (
	EnvAWSAccessKey = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey = "AWS_SECRET_ACCESS_KEY"
	EnvAWSRegion    = "AWS_REGION"
	EnvTableName    = "ENTITYDATA_TABLE"
	EnvSchemaFile   = "ENTITYDATA_SCHEMA"
)

// AWS holds the credentials and region for the DynamoDB client.
type AWS struct {
	AccessKey string
	SecretKey string
	Region    string
}

// Indexes names the table's secondary indexes.
type Indexes struct {
	Status   string `yaml:"status"`
	Category string `yaml:"category"`
}

// Table describes the single table and its indexes. It is loadable from
// a YAML schema file so deployments can rename indexes without a
// rebuild.
type Table struct {
	Name    string  `yaml:"name"`
	Indexes Indexes `yaml:"indexes"`
}

// Config is the full runtime configuration.
type Config struct {
	AWS   AWS
	Table Table
}

// defaultIndexes match the deployed table definition.
var defaultIndexes = Indexes{Status: "GSI1", Category: "GSI2"}

// Load reads configuration from a .env file (when present) and the
// process environment. When ENTITYDATA_SCHEMA points at a YAML file,
// the table schema is loaded from it; the ENTITYDATA_TABLE variable
// overrides the name either way.
func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		AWS: AWS{
			AccessKey: os.Getenv(EnvAWSAccessKey),
			SecretKey: os.Getenv(EnvAWSSecretKey),
			Region:    os.Getenv(EnvAWSRegion),
		},
		Table: Table{
			Name:    os.Getenv(EnvTableName),
			Indexes: defaultIndexes,
		},
	}

	if path := os.Getenv(EnvSchemaFile); path != "" {
		table, err := LoadTableSchema(path)
		if err != nil {
			return nil, err
		}
		cfg.Table.Indexes = table.Indexes
		if cfg.Table.Name == "" {
			cfg.Table.Name = table.Name
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTableSchema parses a YAML table schema file.
func LoadTableSchema(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table schema %s: %w", path, err)
	}
	return ParseTableSchema(data)
}

// ParseTableSchema parses YAML table schema bytes. Missing index names
// fall back to the deployed defaults.
func ParseTableSchema(data []byte) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse table schema: %w", err)
	}
	if table.Indexes.Status == "" {
		table.Indexes.Status = defaultIndexes.Status
	}
	if table.Indexes.Category == "" {
		table.Indexes.Category = defaultIndexes.Category
	}
	return &table, nil
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	switch {
	case c.AWS.Region == "":
		return fmt.Errorf("missing required setting %s", EnvAWSRegion)
	case c.Table.Name == "":
		return fmt.Errorf("missing required setting %s", EnvTableName)
	}
	return nil
}
