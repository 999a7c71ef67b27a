package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset([]byte(`
object: landing/customers.csv
conn:
  type: local
  endpoint: /data
`), nil)
	require.NoError(t, err)

	assert.Equal(t, "landing/customers.csv", ds.Object)
	assert.Equal(t, "local", ds.Conn.Dialect)
	assert.Nil(t, ds.Table)
}

func TestLoadDatasetObjectDefaultsToTableName(t *testing.T) {
	ds, err := LoadDataset([]byte(`
conn:
  type: postgres
  host: db.internal
  endpoint: warehouse
table:
  name: customer_master
  features:
    - name: id
      dtype: integer
      pk: true
`), nil)
	require.NoError(t, err)

	assert.Equal(t, "customer_master", ds.Object)
	require.NotNil(t, ds.Table)
	require.Len(t, ds.Columns(), 1)
	assert.Equal(t, "id", ds.Columns()[0].Name)
}

func TestLoadDatasetRequiresConn(t *testing.T) {
	_, err := LoadDataset([]byte("object: x"), nil)
	require.Error(t, err)
	assert.True(t, flowerrors.IsType(err, flowerrors.ErrorTypeConfig))
	assert.Equal(t, "conn", flowerrors.FieldPath(err))
}

func TestLoadDatasetRequiresObject(t *testing.T) {
	_, err := LoadDataset([]byte(`
conn:
  type: local
  endpoint: /data
`), nil)
	require.Error(t, err)
	assert.Equal(t, "object", flowerrors.FieldPath(err))
}
