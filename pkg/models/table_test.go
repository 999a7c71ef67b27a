package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testColumns(t *testing.T) []Column {
	t.Helper()
	return []Column{
		{Name: "id", Type: Integer{Width: Int32}, PrimaryKey: true},
		{Name: "name", Type: String{MaxLength: 256}},
		{Name: "email", Type: String{MaxLength: 128}, Unique: true, Nullable: true},
	}
}

func TestNewTable(t *testing.T) {
	table, err := NewTable("customer", testColumns(t))
	require.NoError(t, err)

	assert.Equal(t, "customer", table.Name())
	require.Len(t, table.Columns(), 3)
	assert.Equal(t, "id", table.Columns()[0].Name)

	col, ok := table.Column("email")
	require.True(t, ok)
	assert.Equal(t, String{MaxLength: 128}, col.Type)

	_, ok = table.Column("missing")
	assert.False(t, ok)
}

func TestNewTableDerivesConstraints(t *testing.T) {
	table, err := NewTable("customer", testColumns(t))
	require.NoError(t, err)

	pk, ok := table.PrimaryKeyConstraint()
	require.True(t, ok)
	assert.Equal(t, "customer_id_pk", pk.Name())
	assert.Equal(t, []string{"id"}, pk.Columns)

	var uniques []string
	for _, c := range table.Constraints() {
		if c.Kind == Unique {
			uniques = append(uniques, c.Name())
		}
	}
	assert.Equal(t, []string{"customer_email_uq"}, uniques)
}

func TestNewTableKeepsExplicitPrimaryKey(t *testing.T) {
	explicit, err := NewConstraint(PrimaryKey, "customer", []string{"id", "name"})
	require.NoError(t, err)

	table, err := NewTable("customer", testColumns(t), explicit)
	require.NoError(t, err)

	pk, ok := table.PrimaryKeyConstraint()
	require.True(t, ok)
	assert.Equal(t, "customer_id_name_pk", pk.Name())
}

func TestNewTableRejectsDuplicateColumns(t *testing.T) {
	_, err := NewTable("customer", []Column{
		{Name: "id", Type: Integer{Width: Int32}},
		{Name: "id", Type: String{MaxLength: 10}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate column "id"`)
}

func TestNewTableRejectsUnknownConstraintColumns(t *testing.T) {
	bad, err := NewConstraint(Unique, "customer", []string{"ghost"})
	require.NoError(t, err)

	_, err = NewTable("customer", testColumns(t), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown column "ghost"`)
	assert.Contains(t, err.Error(), "customer")
}

func TestNewTableRejectsForeignConstraint(t *testing.T) {
	other, err := NewConstraint(Unique, "elsewhere", []string{"id"})
	require.NoError(t, err)

	_, err = NewTable("customer", testColumns(t), other)
	require.Error(t, err)
}

func TestNewTableRejectsInvalidColumn(t *testing.T) {
	_, err := NewTable("customer", []Column{{Name: "", Type: Boolean{}}})
	require.Error(t, err)

	_, err = NewTable("customer", []Column{{Name: "flag"}})
	require.Error(t, err)

	_, err = NewTable("customer", []Column{
		{Name: "id", Type: Integer{Width: Int32}, PrimaryKey: true, Nullable: true},
	})
	require.Error(t, err)
}

func TestTableValidateIdempotent(t *testing.T) {
	table, err := NewTable("customer", testColumns(t))
	require.NoError(t, err)

	before := table.Columns()
	require.NoError(t, table.Validate())
	require.NoError(t, table.Validate())
	assert.Equal(t, before, table.Columns())
}

func TestTableColumnsAreCopied(t *testing.T) {
	cols := testColumns(t)
	table, err := NewTable("customer", cols)
	require.NoError(t, err)

	cols[0].Name = "mutated"
	got, ok := table.Column("id")
	require.True(t, ok)
	assert.Equal(t, "id", got.Name)

	// Accessor results are copies too.
	view := table.Columns()
	view[0].Name = "mutated"
	assert.Equal(t, "id", table.Columns()[0].Name)
}

func TestSchemaComposition(t *testing.T) {
	customer, err := NewTable("customer", testColumns(t))
	require.NoError(t, err)
	orders, err := NewTable("orders", []Column{
		{Name: "id", Type: Integer{Width: Int64}, PrimaryKey: true},
		{Name: "customer_id", Type: Integer{Width: Int32}},
	})
	require.NoError(t, err)

	schema, err := NewSchema("warehouse", []*Table{customer, orders})
	require.NoError(t, err)

	assert.Equal(t, "warehouse", schema.Name())
	require.Len(t, schema.Tables(), 2)

	got, ok := schema.Table("orders")
	require.True(t, ok)
	assert.Equal(t, "orders", got.Name())

	_, ok = schema.Table("missing")
	assert.False(t, ok)
}

func TestSchemaRejectsDuplicateTables(t *testing.T) {
	a, err := NewTable("customer", testColumns(t))
	require.NoError(t, err)
	b, err := NewTable("customer", testColumns(t))
	require.NoError(t, err)

	_, err = NewSchema("warehouse", []*Table{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate table "customer"`)
}

func TestSchemaValidateIdempotent(t *testing.T) {
	customer, err := NewTable("customer", testColumns(t))
	require.NoError(t, err)
	schema, err := NewSchema("warehouse", []*Table{customer})
	require.NoError(t, err)

	require.NoError(t, schema.Validate())
	require.NoError(t, schema.Validate())
	assert.Len(t, schema.Tables(), 1)
}
