// Package loader binds declarative YAML configuration to the flowext model
// layer. Parsing is schema-directed: recognized fields are declared up
// front and unknown fields are rejected, instead of accepting arbitrary
// keys and failing later on attribute access.
//
// Configuration example:
//
//	name: warehouse
//	tables:
//	  - name: customer_master
//	    features:
//	      - name: id
//	        dtype: integer
//	        pk: true
//	      - name: name
//	        dtype: varchar( 256 )
//	        nullable: false
//
// Every load failure carries the offending field path, e.g.
// "tables[0].features[1].dtype".
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ddeutils/flowext/pkg/flowerrors"
	"github.com/ddeutils/flowext/pkg/models"
)

type columnConfig struct {
	Name     string `yaml:"name"`
	Dtype    string `yaml:"dtype"`
	PK       *bool  `yaml:"pk"`
	Nullable *bool  `yaml:"nullable"`
	Unique   *bool  `yaml:"unique"`
	Default  any    `yaml:"default"`
}

type tableConfig struct {
	Name     string         `yaml:"name"`
	Features []columnConfig `yaml:"features"`
}

type schemaConfig struct {
	Name   string        `yaml:"name"`
	Tables []tableConfig `yaml:"tables"`
}

// LoadSchema parses a schema definition from YAML bytes.
func LoadSchema(data []byte) (*models.Schema, error) {
	var cfg schemaConfig
	if err := decodeStrict(data, &cfg); err != nil {
		return nil, err
	}
	return buildSchema(cfg)
}

// LoadSchemaFile parses a schema definition from a YAML file.
func LoadSchemaFile(path string) (*models.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeFile,
			"cannot read schema config "+path)
	}
	return LoadSchema(data)
}

// LoadTable parses a single table definition from YAML bytes.
func LoadTable(data []byte) (*models.Table, error) {
	var cfg tableConfig
	if err := decodeStrict(data, &cfg); err != nil {
		return nil, err
	}
	return buildTable(cfg, "")
}

// LoadTableFile parses a single table definition from a YAML file.
func LoadTableFile(path string) (*models.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeFile,
			"cannot read table config "+path)
	}
	return LoadTable(data)
}

// decodeStrict unmarshals YAML after environment substitution, rejecting
// unknown fields.
func decodeStrict(data []byte, out any) error {
	data = []byte(substituteEnvVars(string(data)))
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return flowerrors.Wrap(err, flowerrors.ErrorTypeConfig,
			"malformed configuration document")
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
// before the document is decoded.
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}

func buildSchema(cfg schemaConfig) (*models.Schema, error) {
	if cfg.Name == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"schema name is required").WithField("name")
	}

	tables := make([]*models.Table, 0, len(cfg.Tables))
	for i, tc := range cfg.Tables {
		table, err := buildTable(tc, fmt.Sprintf("tables[%d].", i))
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	schema, err := models.NewSchema(cfg.Name, tables)
	if err != nil {
		return nil, wrapModelErr(err, "tables")
	}
	return schema, nil
}

func buildTable(cfg tableConfig, pathPrefix string) (*models.Table, error) {
	if cfg.Name == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"table name is required").WithField(pathPrefix + "name")
	}
	if len(cfg.Features) == 0 {
		return nil, flowerrors.Newf(flowerrors.ErrorTypeConfig,
			"table %q declares no features", cfg.Name).
			WithField(pathPrefix + "features")
	}

	columns := make([]models.Column, 0, len(cfg.Features))
	for i, fc := range cfg.Features {
		path := fmt.Sprintf("%sfeatures[%d]", pathPrefix, i)
		col, err := buildColumn(fc, path)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	table, err := models.NewTable(cfg.Name, columns)
	if err != nil {
		return nil, wrapModelErr(err, pathPrefix+"features")
	}
	return table, nil
}

func buildColumn(cfg columnConfig, path string) (models.Column, error) {
	if cfg.Name == "" {
		return models.Column{}, flowerrors.New(flowerrors.ErrorTypeConfig,
			"feature name is required").WithField(path + ".name")
	}
	if cfg.Dtype == "" {
		return models.Column{}, flowerrors.Newf(flowerrors.ErrorTypeConfig,
			"feature %q has no dtype", cfg.Name).WithField(path + ".dtype")
	}

	dt, mods, err := models.ParseColumnType(cfg.Dtype)
	if err != nil {
		return models.Column{}, flowerrors.Wrap(err, flowerrors.ErrorTypeConfig,
			fmt.Sprintf("feature %q has an invalid dtype", cfg.Name)).
			WithField(path + ".dtype").
			WithDetail("value", cfg.Dtype)
	}

	col := models.Column{
		Name:       cfg.Name,
		Type:       dt,
		Nullable:   true,
		Default:    cfg.Default,
		PrimaryKey: mods.PrimaryKey,
		Unique:     mods.Unique,
	}
	if cfg.PK != nil {
		col.PrimaryKey = *cfg.PK
	}
	if cfg.Unique != nil {
		col.Unique = *cfg.Unique
	}
	if mods.NotNull {
		col.Nullable = false
	}
	if cfg.Nullable != nil {
		col.Nullable = *cfg.Nullable
	}
	// A primary key column is implicitly not null.
	if col.PrimaryKey {
		col.Nullable = false
	}

	if err := col.Validate(); err != nil {
		return models.Column{}, wrapModelErr(err, path)
	}
	return col, nil
}

// wrapModelErr attaches a field path to a model validation error when the
// model layer did not record a more precise one.
func wrapModelErr(err error, path string) error {
	if flowerrors.FieldPath(err) != "" {
		return err
	}
	var e *flowerrors.Error
	if errors.As(err, &e) {
		return e.WithField(path)
	}
	return flowerrors.Wrap(err, flowerrors.ErrorTypeValidation,
		"configuration is structurally inconsistent").WithField(path)
}
