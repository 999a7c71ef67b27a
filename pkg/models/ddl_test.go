package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableDDL(t *testing.T) {
	table, err := NewTable("customer", []Column{
		{Name: "id", Type: Integer{Width: Int32}, PrimaryKey: true},
		{Name: "name", Type: String{MaxLength: 256}},
		{Name: "active", Type: Boolean{}, Nullable: true, Default: true},
		{Name: "note", Type: String{}, Nullable: true, Default: "n/a"},
	})
	require.NoError(t, err)

	want := `CREATE TABLE customer (
    id integer NOT NULL,
    name varchar(256) NOT NULL,
    active boolean DEFAULT TRUE,
    note text DEFAULT 'n/a',
    CONSTRAINT customer_id_pk PRIMARY KEY (id)
)`
	assert.Equal(t, want, table.DDL())
}

func TestTableDDLForeignKey(t *testing.T) {
	fk, err := NewForeignKey("orders", []string{"customer_id"},
		Reference{Table: "customer", Columns: []string{"id"}})
	require.NoError(t, err)

	table, err := NewTable("orders", []Column{
		{Name: "id", Type: Integer{Width: Int64}, PrimaryKey: true},
		{Name: "customer_id", Type: Integer{Width: Int32}},
	}, fk)
	require.NoError(t, err)

	assert.Contains(t, table.DDL(),
		"CONSTRAINT orders_customer_id_fk FOREIGN KEY (customer_id) REFERENCES customer (id)")
}

func TestSchemaDDL(t *testing.T) {
	customer, err := NewTable("customer", []Column{
		{Name: "id", Type: Integer{Width: Int32}, PrimaryKey: true},
	})
	require.NoError(t, err)

	schema, err := NewSchema("warehouse", []*Table{customer})
	require.NoError(t, err)

	stmts := schema.DDL()
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE SCHEMA IF NOT EXISTS warehouse", stmts[0])
	assert.Contains(t, stmts[1], "CREATE TABLE warehouse.customer (")
}
