package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeRoundTrip(t *testing.T) {
	// Parsing then re-serializing yields an equivalent type, up to
	// whitespace normalization.
	cases := []struct {
		expr string
		want DataType
	}{
		{"varchar( 100 )", String{MaxLength: 100}},
		{"varchar(100)", String{MaxLength: 100}},
		{"VARCHAR(100)", String{MaxLength: 100}},
		{"character varying(64)", String{MaxLength: 64}},
		{"text", String{}},
		{"varchar", String{}},
		{"char( 3 )", String{MaxLength: 3, Fixed: true}},
		{"smallint", Integer{Width: Int16}},
		{"integer", Integer{Width: Int32}},
		{"int", Integer{Width: Int32}},
		{"bigint", Integer{Width: Int64}},
		{"float", Float{}},
		{"double precision", Float{}},
		{"numeric( 10 , 2 )", Decimal{Precision: 10, Scale: 2}},
		{"decimal(5)", Decimal{Precision: 5}},
		{"boolean", Boolean{}},
		{"date", Date{}},
		{"time", Time{}},
		{"timestamp", Timestamp{}},
		{"datetime", Timestamp{}},
		{"timestamptz", Timestamp{WithTimeZone: true}},
		{"timestamp with time zone", Timestamp{WithTimeZone: true}},
		{"json", JSON{}},
		{"bytea", Binary{}},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := ParseType(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			// The canonical form parses back to the same type.
			again, err := ParseType(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestParseTypeRejectsMalformedInput(t *testing.T) {
	for _, expr := range []string{
		"",
		"varchar(",
		"varchar(10",
		"varchar(10))",
		"varchar(-5)",
		"varchar(a)",
		"mystery",
		"integer(10)",
		"boolean(1)",
		"numeric",
		"numeric(10, 2, 3)",
		"char",
		"char(0)",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseType(expr)
			require.Error(t, err)
		})
	}
}

func TestParseColumnTypeModifiers(t *testing.T) {
	dt, mods, err := ParseColumnType("integer primary key")
	require.NoError(t, err)
	assert.Equal(t, Integer{Width: Int32}, dt)
	assert.True(t, mods.PrimaryKey)
	assert.False(t, mods.NotNull)

	dt, mods, err = ParseColumnType("varchar(32) not null unique")
	require.NoError(t, err)
	assert.Equal(t, String{MaxLength: 32}, dt)
	assert.True(t, mods.NotNull)
	assert.True(t, mods.Unique)
	assert.False(t, mods.PrimaryKey)

	_, _, err = ParseColumnType("primary key")
	require.Error(t, err)
}

func TestConstructorBounds(t *testing.T) {
	_, err := NewString(-1)
	require.Error(t, err)

	_, err = NewChar(0)
	require.Error(t, err)

	_, err = NewDecimal(0, 0)
	require.Error(t, err)

	_, err = NewDecimal(10, 11)
	require.Error(t, err)

	_, err = NewDecimal(10, -1)
	require.Error(t, err)

	_, err = NewInteger(IntWidth(7))
	require.Error(t, err)

	dt, err := NewDecimal(10, 2)
	require.NoError(t, err)
	assert.Equal(t, "numeric(10, 2)", dt.String())
}

func TestCanonicalForms(t *testing.T) {
	assert.Equal(t, "text", String{}.String())
	assert.Equal(t, "varchar(256)", String{MaxLength: 256}.String())
	assert.Equal(t, "char(8)", String{MaxLength: 8, Fixed: true}.String())
	assert.Equal(t, "integer", Integer{Width: Int32}.String())
	assert.Equal(t, "timestamptz", Timestamp{WithTimeZone: true}.String())
}
