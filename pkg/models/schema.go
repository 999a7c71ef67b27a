package models

import (
	"github.com/ddeutils/flowext/pkg/flowerrors"
)

// Schema is a named, ordered collection of tables. Table names must be
// unique within a schema. Immutable after construction.
type Schema struct {
	name   string
	tables []*Table
	index  map[string]int
}

// NewSchema constructs and validates a schema.
func NewSchema(name string, tables []*Table) (*Schema, error) {
	if name == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeValidation,
			"schema name must not be empty")
	}

	s := &Schema{
		name:   name,
		tables: append([]*Table(nil), tables...),
		index:  make(map[string]int, len(tables)),
	}
	for i, t := range s.tables {
		if t == nil {
			return nil, flowerrors.Newf(flowerrors.ErrorTypeValidation,
				"schema %q has a nil table at position %d", name, i)
		}
		if _, dup := s.index[t.Name()]; dup {
			return nil, flowerrors.Newf(flowerrors.ErrorTypeValidation,
				"schema %q has duplicate table %q", name, t.Name()).
				WithDetail("schema", name).
				WithDetail("table", t.Name())
		}
		s.index[t.Name()] = i
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate re-checks the schema and its tables. On an already-valid schema
// this is a no-op: it returns nil and mutates nothing.
func (s *Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.tables))
	for _, t := range s.tables {
		if _, dup := seen[t.Name()]; dup {
			return flowerrors.Newf(flowerrors.ErrorTypeValidation,
				"schema %q has duplicate table %q", s.name, t.Name()).
				WithDetail("schema", s.name).
				WithDetail("table", t.Name())
		}
		seen[t.Name()] = struct{}{}
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Tables returns the tables in declaration order.
func (s *Schema) Tables() []*Table {
	return append([]*Table(nil), s.tables...)
}

// Table looks a table up by name.
func (s *Schema) Table(name string) (*Table, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.tables[i], true
}
