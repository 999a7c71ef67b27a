package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddeutils/flowext/pkg/flowerrors"
	"github.com/ddeutils/flowext/pkg/models"
)

const warehouseConfig = `
name: "warehouse"
tables:
  - name: customer_master
    features:
      - name: id
        dtype: integer
        pk: true
      - name: name
        dtype: varchar( 256 )
        nullable: false
`

func TestLoadSchemaWarehouse(t *testing.T) {
	schema, err := LoadSchema([]byte(warehouseConfig))
	require.NoError(t, err)

	assert.Equal(t, "warehouse", schema.Name())
	require.Len(t, schema.Tables(), 1)

	table, ok := schema.Table("customer_master")
	require.True(t, ok)

	cols := table.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, models.Integer{Width: models.Int32}, cols[0].Type)
	assert.True(t, cols[0].PrimaryKey)
	assert.False(t, cols[0].Nullable)

	assert.Equal(t, "name", cols[1].Name)
	assert.Equal(t, models.String{MaxLength: 256}, cols[1].Type)
	assert.False(t, cols[1].Nullable)

	pk, ok := table.PrimaryKeyConstraint()
	require.True(t, ok)
	assert.Equal(t, "customer_master_id_pk", pk.Name())
}

func TestLoadSchemaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(warehouseConfig), 0o644))

	schema, err := LoadSchemaFile(path)
	require.NoError(t, err)
	assert.Equal(t, "warehouse", schema.Name())

	_, err = LoadSchemaFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, flowerrors.IsType(err, flowerrors.ErrorTypeFile))
}

func TestLoadTableDtypeModifiers(t *testing.T) {
	table, err := LoadTable([]byte(`
name: seller
features:
  - name: id
    dtype: integer primary key
  - name: code
    dtype: varchar(16) not null unique
`))
	require.NoError(t, err)

	id, ok := table.Column("id")
	require.True(t, ok)
	assert.True(t, id.PrimaryKey)
	assert.False(t, id.Nullable)

	code, ok := table.Column("code")
	require.True(t, ok)
	assert.True(t, code.Unique)
	assert.False(t, code.Nullable)
	assert.False(t, code.PrimaryKey)

	pk, ok := table.PrimaryKeyConstraint()
	require.True(t, ok)
	assert.Equal(t, "seller_id_pk", pk.Name())
}

func TestLoadSchemaRejectsUnknownFields(t *testing.T) {
	_, err := LoadSchema([]byte(`
name: warehouse
unexpected: value
tables: []
`))
	require.Error(t, err)
	assert.True(t, flowerrors.IsType(err, flowerrors.ErrorTypeConfig))
}

func TestLoadSchemaBadDtypeCarriesFieldPath(t *testing.T) {
	_, err := LoadSchema([]byte(`
name: warehouse
tables:
  - name: customer
    features:
      - name: id
        dtype: integer
      - name: payload
        dtype: mystery(12)
`))
	require.Error(t, err)
	assert.True(t, flowerrors.IsType(err, flowerrors.ErrorTypeConfig))
	assert.Equal(t, "tables[0].features[1].dtype", flowerrors.FieldPath(err))
}

func TestLoadSchemaDuplicateColumn(t *testing.T) {
	_, err := LoadSchema([]byte(`
name: warehouse
tables:
  - name: customer
    features:
      - name: id
        dtype: integer
      - name: id
        dtype: varchar(10)
`))
	require.Error(t, err)
	assert.True(t, flowerrors.IsType(err, flowerrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), `duplicate column "id"`)
}

func TestLoadSchemaMissingRequiredFields(t *testing.T) {
	_, err := LoadSchema([]byte("tables: []"))
	require.Error(t, err)
	assert.Equal(t, "name", flowerrors.FieldPath(err))

	_, err = LoadSchema([]byte(`
name: warehouse
tables:
  - features:
      - name: id
        dtype: integer
`))
	require.Error(t, err)
	assert.Equal(t, "tables[0].name", flowerrors.FieldPath(err))

	_, err = LoadSchema([]byte(`
name: warehouse
tables:
  - name: empty
    features: []
`))
	require.Error(t, err)
	assert.Equal(t, "tables[0].features", flowerrors.FieldPath(err))
}

func TestLoadTableEnvSubstitution(t *testing.T) {
	t.Setenv("CUSTOMER_TABLE", "customer_master")

	table, err := LoadTable([]byte(`
name: ${CUSTOMER_TABLE}
features:
  - name: id
    dtype: integer
`))
	require.NoError(t, err)
	assert.Equal(t, "customer_master", table.Name())
}
