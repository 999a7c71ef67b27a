package models

import (
	"github.com/ddeutils/flowext/pkg/flowerrors"
)

// Table is a named, ordered sequence of columns plus the constraints over
// them. Column order is semantically meaningful: it is preserved in DDL
// generation and constraint name derivation. Tables are immutable after
// construction; rebuild instead of mutating.
type Table struct {
	name        string
	columns     []Column
	constraints []Constraint
	index       map[string]int
}

// NewTable constructs and validates a table. Columns marked PrimaryKey or
// Unique contribute derived table-level constraints (one primary key over
// all marked columns in column order, one unique constraint per marked
// column) unless an explicit constraint of that kind is already given.
//
// Validation fails with a validation error when a column name repeats or a
// constraint references a column the table does not have.
func NewTable(name string, columns []Column, constraints ...Constraint) (*Table, error) {
	if name == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeValidation,
			"table name must not be empty")
	}

	t := &Table{
		name:        name,
		columns:     append([]Column(nil), columns...),
		constraints: append([]Constraint(nil), constraints...),
		index:       make(map[string]int, len(columns)),
	}

	for i, col := range t.columns {
		if err := col.Validate(); err != nil {
			return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeValidation,
				"table "+name+" has an invalid column").
				WithDetail("table", name).
				WithDetail("column", col.Name)
		}
		if _, dup := t.index[col.Name]; dup {
			return nil, flowerrors.Newf(flowerrors.ErrorTypeValidation,
				"table %q has duplicate column %q", name, col.Name).
				WithDetail("table", name).
				WithDetail("column", col.Name)
		}
		t.index[col.Name] = i
	}

	derived, err := t.deriveConstraints()
	if err != nil {
		return nil, err
	}
	t.constraints = append(t.constraints, derived...)

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// deriveConstraints builds constraints from column markers.
func (t *Table) deriveConstraints() ([]Constraint, error) {
	var derived []Constraint

	var pkCols []string
	for _, col := range t.columns {
		if col.PrimaryKey {
			pkCols = append(pkCols, col.Name)
		}
	}
	if len(pkCols) > 0 && !t.hasKind(PrimaryKey) {
		pk, err := NewConstraint(PrimaryKey, t.name, pkCols)
		if err != nil {
			return nil, err
		}
		derived = append(derived, pk)
	}

	for _, col := range t.columns {
		if !col.Unique {
			continue
		}
		if t.coversColumn(Unique, col.Name) {
			continue
		}
		uq, err := NewConstraint(Unique, t.name, []string{col.Name})
		if err != nil {
			return nil, err
		}
		derived = append(derived, uq)
	}

	return derived, nil
}

func (t *Table) hasKind(kind ConstraintKind) bool {
	for _, c := range t.constraints {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

func (t *Table) coversColumn(kind ConstraintKind, column string) bool {
	for _, c := range t.constraints {
		if c.Kind != kind {
			continue
		}
		for _, col := range c.Columns {
			if col == column {
				return true
			}
		}
	}
	return false
}

// Validate re-checks structural consistency. On an already-valid table this
// is a no-op: it returns nil and mutates nothing.
func (t *Table) Validate() error {
	seen := make(map[string]struct{}, len(t.columns))
	for _, col := range t.columns {
		if _, dup := seen[col.Name]; dup {
			return flowerrors.Newf(flowerrors.ErrorTypeValidation,
				"table %q has duplicate column %q", t.name, col.Name).
				WithDetail("table", t.name).
				WithDetail("column", col.Name)
		}
		seen[col.Name] = struct{}{}
	}

	for _, c := range t.constraints {
		if c.Table != t.name {
			return flowerrors.Newf(flowerrors.ErrorTypeValidation,
				"constraint %q belongs to table %q, not %q",
				c.Name(), c.Table, t.name).
				WithDetail("table", t.name).
				WithDetail("constraint", c.Name())
		}
		for _, col := range c.Columns {
			if _, ok := t.index[col]; !ok {
				return flowerrors.Newf(flowerrors.ErrorTypeValidation,
					"constraint %q references unknown column %q of table %q",
					c.Name(), col, t.name).
					WithDetail("table", t.name).
					WithDetail("column", col).
					WithDetail("constraint", c.Name())
			}
		}
	}
	return nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the columns in declaration order.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// Column looks a column up by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Constraints returns explicit and derived constraints, explicit first.
func (t *Table) Constraints() []Constraint {
	return append([]Constraint(nil), t.constraints...)
}

// PrimaryKeyConstraint returns the table's primary key, if any.
func (t *Table) PrimaryKeyConstraint() (Constraint, bool) {
	for _, c := range t.constraints {
		if c.Kind == PrimaryKey {
			return c, true
		}
	}
	return Constraint{}, false
}
