package models

import (
	json "github.com/goccy/go-json"
)

// The JSON forms below are the diagnostic/interchange rendering of the
// model layer. Data types serialize as their canonical expression string so
// the output feeds back through the loader unchanged.

type columnJSON struct {
	Name     string `json:"name"`
	Dtype    string `json:"dtype"`
	Nullable bool   `json:"nullable"`
	Default  any    `json:"default,omitempty"`
	PK       bool   `json:"pk,omitempty"`
	Unique   bool   `json:"unique,omitempty"`
}

type constraintJSON struct {
	Name    string     `json:"name"`
	Kind    string     `json:"kind"`
	Columns []string   `json:"columns"`
	Ref     *Reference `json:"references,omitempty"`
}

type tableJSON struct {
	Name        string           `json:"name"`
	Features    []columnJSON     `json:"features"`
	Constraints []constraintJSON `json:"constraints,omitempty"`
}

type schemaJSON struct {
	Name   string      `json:"name"`
	Tables []tableJSON `json:"tables"`
}

// MarshalJSON implements json.Marshaler.
func (c Column) MarshalJSON() ([]byte, error) {
	return json.Marshal(columnJSON{
		Name:     c.Name,
		Dtype:    c.Type.String(),
		Nullable: c.Nullable,
		Default:  c.Default,
		PK:       c.PrimaryKey,
		Unique:   c.Unique,
	})
}

// MarshalJSON implements json.Marshaler.
func (c Constraint) MarshalJSON() ([]byte, error) {
	return json.Marshal(constraintJSON{
		Name:    c.Name(),
		Kind:    string(c.Kind),
		Columns: c.Columns,
		Ref:     c.References,
	})
}

// MarshalJSON implements json.Marshaler.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.toJSON())
}

func (t *Table) toJSON() tableJSON {
	out := tableJSON{Name: t.name}
	for _, col := range t.columns {
		out.Features = append(out.Features, columnJSON{
			Name:     col.Name,
			Dtype:    col.Type.String(),
			Nullable: col.Nullable,
			Default:  col.Default,
			PK:       col.PrimaryKey,
			Unique:   col.Unique,
		})
	}
	for _, c := range t.constraints {
		out.Constraints = append(out.Constraints, constraintJSON{
			Name:    c.Name(),
			Kind:    string(c.Kind),
			Columns: c.Columns,
			Ref:     c.References,
		})
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (s *Schema) MarshalJSON() ([]byte, error) {
	out := schemaJSON{Name: s.name}
	for _, t := range s.tables {
		out.Tables = append(out.Tables, t.toJSON())
	}
	return json.Marshal(out)
}
