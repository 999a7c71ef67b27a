package models

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

// typeExpr matches the type-expression grammar:
//
//	<base_type>(\s*\(\s*<n>(,\s*<n>)?\s*\))?
//
// The base name may contain internal spaces ("double precision",
// "character varying"). Arguments are non-negative integers.
var typeExpr = regexp.MustCompile(
	`^([a-z][a-z0-9_]*(?: [a-z][a-z0-9_]*)*)\s*(?:\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\))?$`)

// typeBuilder constructs a DataType from the parenthesized arguments of a
// type expression. An empty args slice means no parentheses were given.
type typeBuilder func(args []int) (DataType, error)

// builders maps every recognized base type name, including aliases, to its
// constructor. Canonical String() forms of all DataTypes appear here so
// parse/serialize round-trips.
var builders = map[string]typeBuilder{
	"varchar":           buildVarchar,
	"character varying": buildVarchar,
	"string":            buildVarchar,
	"text": exact0(func() DataType {
		return String{MaxLength: Unbounded}
	}),
	"char":      buildChar,
	"character": buildChar,
	"smallint":  exact0(func() DataType { return Integer{Width: Int16} }),
	"int2":      exact0(func() DataType { return Integer{Width: Int16} }),
	"integer":   exact0(func() DataType { return Integer{Width: Int32} }),
	"int":       exact0(func() DataType { return Integer{Width: Int32} }),
	"int4":      exact0(func() DataType { return Integer{Width: Int32} }),
	"bigint":    exact0(func() DataType { return Integer{Width: Int64} }),
	"int8":      exact0(func() DataType { return Integer{Width: Int64} }),
	"float":     exact0(func() DataType { return Float{} }),
	"real":      exact0(func() DataType { return Float{} }),
	"double":    exact0(func() DataType { return Float{} }),
	"double precision": exact0(func() DataType {
		return Float{}
	}),
	"numeric": buildDecimal,
	"decimal": buildDecimal,
	"boolean": exact0(func() DataType { return Boolean{} }),
	"bool":    exact0(func() DataType { return Boolean{} }),
	"date":    exact0(func() DataType { return Date{} }),
	"time":    exact0(func() DataType { return Time{} }),
	"timestamp": exact0(func() DataType {
		return Timestamp{}
	}),
	"datetime": exact0(func() DataType { return Timestamp{} }),
	"timestamptz": exact0(func() DataType {
		return Timestamp{WithTimeZone: true}
	}),
	"timestamp with time zone": exact0(func() DataType {
		return Timestamp{WithTimeZone: true}
	}),
	"json":   exact0(func() DataType { return JSON{} }),
	"binary": exact0(func() DataType { return Binary{} }),
	"bytea":  exact0(func() DataType { return Binary{} }),
}

func exact0(mk func() DataType) typeBuilder {
	return func(args []int) (DataType, error) {
		if len(args) != 0 {
			return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
				"type takes no arguments")
		}
		return mk(), nil
	}
}

func buildVarchar(args []int) (DataType, error) {
	switch len(args) {
	case 0:
		return String{MaxLength: Unbounded}, nil
	case 1:
		return NewString(args[0])
	default:
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"varchar takes at most one argument")
	}
}

func buildChar(args []int) (DataType, error) {
	if len(args) != 1 {
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"char requires exactly one argument")
	}
	return NewChar(args[0])
}

func buildDecimal(args []int) (DataType, error) {
	switch len(args) {
	case 1:
		return NewDecimal(args[0], 0)
	case 2:
		return NewDecimal(args[0], args[1])
	default:
		return nil, flowerrors.New(flowerrors.ErrorTypeConfig,
			"numeric requires precision and optional scale")
	}
}

// ParseType parses a type expression like "varchar( 100 )" or
// "numeric(10, 2)" into a DataType. Whitespace inside the expression is
// insignificant; base names are case-insensitive.
func ParseType(expr string) (DataType, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(expr)), " ")
	m := typeExpr.FindStringSubmatch(normalized)
	if m == nil {
		return nil, flowerrors.Newf(flowerrors.ErrorTypeConfig,
			"malformed type expression %q", expr)
	}

	base := strings.TrimSpace(m[1])
	var args []int
	for _, g := range m[2:] {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err != nil {
			return nil, flowerrors.Newf(flowerrors.ErrorTypeConfig,
				"malformed type argument in %q", expr)
		}
		args = append(args, n)
	}

	build, ok := builders[base]
	if !ok {
		return nil, flowerrors.Newf(flowerrors.ErrorTypeConfig,
			"unrecognized type %q", base)
	}

	dt, err := build(args)
	if err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeConfig,
			"invalid type expression "+strconv.Quote(expr))
	}
	return dt, nil
}

// ColumnMods are the column-level modifiers a dtype expression may carry
// after the type itself, e.g. "integer primary key".
type ColumnMods struct {
	PrimaryKey bool
	NotNull    bool
	Unique     bool
}

// columnModSuffixes are recognized trailing modifiers, longest first so
// "primary key" wins over a would-be "key" suffix.
var columnModSuffixes = []struct {
	text  string
	apply func(*ColumnMods)
}{
	{"primary key", func(m *ColumnMods) { m.PrimaryKey = true }},
	{"not null", func(m *ColumnMods) { m.NotNull = true }},
	{"unique", func(m *ColumnMods) { m.Unique = true }},
}

// ParseColumnType parses a dtype expression with optional trailing column
// modifiers, such as "integer primary key" or "varchar(32) not null unique".
func ParseColumnType(expr string) (DataType, ColumnMods, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(expr)), " ")

	var mods ColumnMods
	for stripped := true; stripped; {
		stripped = false
		for _, suffix := range columnModSuffixes {
			if strings.HasSuffix(normalized, " "+suffix.text) {
				suffix.apply(&mods)
				normalized = strings.TrimSpace(
					strings.TrimSuffix(normalized, suffix.text))
				stripped = true
			}
		}
	}

	dt, err := ParseType(normalized)
	if err != nil {
		return nil, ColumnMods{}, err
	}
	return dt, mods, nil
}
