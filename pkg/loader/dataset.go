package loader

import (
	"os"

	"github.com/ddeutils/flowext/pkg/dataset"
	"github.com/ddeutils/flowext/pkg/flowerrors"
	"github.com/ddeutils/flowext/pkg/models"
)

type datasetConfig struct {
	Object string       `yaml:"object"`
	Conn   *connConfig  `yaml:"conn"`
	Table  *tableConfig `yaml:"table"`
}

// LoadDataset parses a dataset descriptor from YAML bytes: an object name,
// an inline connection, and an optional table model.
func LoadDataset(data []byte, overrides map[string]string) (dataset.Dataset, error) {
	var cfg datasetConfig
	if err := decodeStrict(data, &cfg); err != nil {
		return dataset.Dataset{}, err
	}

	if cfg.Conn == nil {
		return dataset.Dataset{}, flowerrors.New(flowerrors.ErrorTypeConfig,
			"dataset requires a connection").WithField("conn")
	}
	c, err := buildConn(*cfg.Conn, overrides)
	if err != nil {
		return dataset.Dataset{}, err
	}

	var table *models.Table
	if cfg.Table != nil {
		table, err = buildTable(*cfg.Table, "table.")
		if err != nil {
			return dataset.Dataset{}, err
		}
	}

	object := cfg.Object
	if object == "" && table != nil {
		object = table.Name()
	}

	ds, err := dataset.New(c, object, table)
	if err != nil {
		return dataset.Dataset{}, wrapModelErr(err, "object")
	}
	return ds, nil
}

// LoadDatasetFile parses a dataset descriptor from a YAML file.
func LoadDatasetFile(path string, overrides map[string]string) (dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dataset.Dataset{}, flowerrors.Wrap(err, flowerrors.ErrorTypeFile,
			"cannot read dataset config "+path)
	}
	return LoadDataset(data, overrides)
}
