package models

import (
	"fmt"
	"strings"
)

// DDL renders a CREATE TABLE statement for the table. Columns appear in
// declaration order; constraints follow as named table constraints.
func (t *Table) DDL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(t.name)
	b.WriteString(" (\n")

	lines := make([]string, 0, len(t.columns)+len(t.constraints))
	for _, col := range t.columns {
		lines = append(lines, "    "+columnClause(col))
	}
	for _, c := range t.constraints {
		lines = append(lines, "    "+constraintClause(c))
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")
	return b.String()
}

// DDL renders CREATE SCHEMA plus CREATE TABLE statements for every table,
// schema-qualified, in declaration order.
func (s *Schema) DDL() []string {
	stmts := make([]string, 0, len(s.tables)+1)
	stmts = append(stmts, "CREATE SCHEMA IF NOT EXISTS "+s.name)
	for _, t := range s.tables {
		stmt := t.DDL()
		stmts = append(stmts, strings.Replace(stmt,
			"CREATE TABLE "+t.name,
			"CREATE TABLE "+s.name+"."+t.name, 1))
	}
	return stmts
}

func columnClause(col Column) string {
	var b strings.Builder
	b.WriteString(col.Name)
	b.WriteString(" ")
	b.WriteString(col.Type.String())
	if !col.Nullable {
		b.WriteString(" NOT NULL")
	}
	if col.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(defaultLiteral(col.Default))
	}
	return b.String()
}

func constraintClause(c Constraint) string {
	cols := strings.Join(c.Columns, ", ")
	switch c.Kind {
	case PrimaryKey:
		return fmt.Sprintf("CONSTRAINT %s PRIMARY KEY (%s)", c.Name(), cols)
	case Unique:
		return fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)", c.Name(), cols)
	case ForeignKey:
		ref := ""
		if c.References != nil {
			ref = fmt.Sprintf(" REFERENCES %s (%s)",
				c.References.Table, strings.Join(c.References.Columns, ", "))
		}
		return fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s)%s", c.Name(), cols, ref)
	default:
		return ""
	}
}

func defaultLiteral(v any) string {
	switch d := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(d, "'", "''") + "'"
	case bool:
		if d {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", d)
	}
}
