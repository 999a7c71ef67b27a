package models

import (
	"github.com/ddeutils/flowext/pkg/flowerrors"
)

// Column is a named, typed member of a table. Columns are value objects:
// Table copies them in at construction.
type Column struct {
	Name     string
	Type     DataType
	Nullable bool
	Default  any
	// PrimaryKey and Unique mark membership in the table-level constraints
	// derived at Table construction.
	PrimaryKey bool
	Unique     bool
}

// NewColumn constructs a nullable column of the given type.
func NewColumn(name string, dt DataType) (Column, error) {
	c := Column{Name: name, Type: dt, Nullable: true}
	if err := c.Validate(); err != nil {
		return Column{}, err
	}
	return c, nil
}

// Validate checks the structural consistency of the column.
func (c Column) Validate() error {
	if c.Name == "" {
		return flowerrors.New(flowerrors.ErrorTypeValidation,
			"column name must not be empty")
	}
	if c.Type == nil {
		return flowerrors.Newf(flowerrors.ErrorTypeValidation,
			"column %q has no data type", c.Name)
	}
	if c.PrimaryKey && c.Nullable {
		return flowerrors.Newf(flowerrors.ErrorTypeValidation,
			"primary key column %q must not be nullable", c.Name)
	}
	return nil
}
