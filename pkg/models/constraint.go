package models

import (
	"strings"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

// ConstraintKind identifies the rule a constraint enforces.
type ConstraintKind string

const (
	PrimaryKey ConstraintKind = "primary_key"
	ForeignKey ConstraintKind = "foreign_key"
	Unique     ConstraintKind = "unique"
)

// suffix returns the short name suffix used in derived constraint names.
func (k ConstraintKind) suffix() string {
	switch k {
	case PrimaryKey:
		return "pk"
	case ForeignKey:
		return "fk"
	case Unique:
		return "uq"
	default:
		return ""
	}
}

// Reference names the table and columns a foreign key points at.
type Reference struct {
	Table   string
	Columns []string
}

// Constraint is a named rule over an ordered set of columns of one table.
// The derived name is `{table}_{col1}_{col2}_..._{suffix}` with columns in
// caller order. Order is never sorted; reordering the columns changes the
// name.
type Constraint struct {
	Kind    ConstraintKind
	Table   string
	Columns []string
	// References is set only for foreign keys.
	References *Reference
}

// NewConstraint constructs a constraint over the given columns of table.
// The column set must be non-empty; whether the columns exist on the table
// is checked when the owning Table is built.
func NewConstraint(kind ConstraintKind, table string, columns []string) (Constraint, error) {
	if kind.suffix() == "" {
		return Constraint{}, flowerrors.Newf(flowerrors.ErrorTypeValidation,
			"unrecognized constraint kind %q", kind)
	}
	if table == "" {
		return Constraint{}, flowerrors.New(flowerrors.ErrorTypeValidation,
			"constraint owner table must not be empty")
	}
	if len(columns) == 0 {
		return Constraint{}, flowerrors.Newf(flowerrors.ErrorTypeValidation,
			"constraint on table %q must reference at least one column", table)
	}
	for i, col := range columns {
		if col == "" {
			return Constraint{}, flowerrors.Newf(flowerrors.ErrorTypeValidation,
				"constraint on table %q has an empty column name at position %d",
				table, i)
		}
	}
	return Constraint{
		Kind:    kind,
		Table:   table,
		Columns: append([]string(nil), columns...),
	}, nil
}

// NewForeignKey constructs a foreign key constraint referencing refTable.
func NewForeignKey(table string, columns []string, ref Reference) (Constraint, error) {
	c, err := NewConstraint(ForeignKey, table, columns)
	if err != nil {
		return Constraint{}, err
	}
	if ref.Table == "" || len(ref.Columns) == 0 {
		return Constraint{}, flowerrors.Newf(flowerrors.ErrorTypeValidation,
			"foreign key on table %q must reference a table and columns", table)
	}
	c.References = &Reference{
		Table:   ref.Table,
		Columns: append([]string(nil), ref.Columns...),
	}
	return c, nil
}

// Name derives the deterministic constraint name.
func (c Constraint) Name() string {
	parts := make([]string, 0, len(c.Columns)+2)
	parts = append(parts, c.Table)
	parts = append(parts, c.Columns...)
	parts = append(parts, c.Kind.suffix())
	return strings.Join(parts, "_")
}
