package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

func TestCountAndConvertTasks(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(src,
		[]byte("id,amount\n1,10\n2,20\n3,30\n"), 0o644))

	ctx := context.Background()

	result, err := Run(ctx, "duckdb@count-csv", Args{"source": src})
	require.NoError(t, err)
	assert.EqualValues(t, 3, result["records"])

	result, err = Run(ctx, "duckdb@count-csv",
		Args{"source": src, "condition": "id > 1"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result["records"])

	sink := filepath.Join(dir, "orders.parquet")
	result, err = Run(ctx, "duckdb@convert-csv-to-parquet",
		Args{"source": src, "sink": sink})
	require.NoError(t, err)
	assert.EqualValues(t, 3, result["records"])
	assert.Equal(t, sink, result["sink"])

	result, err = Run(ctx, "duckdb@count-parquet", Args{"source": sink})
	require.NoError(t, err)
	assert.EqualValues(t, 3, result["records"])
}

func TestConvertAppliesConditionAndProjection(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(src,
		[]byte("id,amount\n1,10\n2,20\n3,30\n"), 0o644))

	sink := filepath.Join(dir, "big.parquet")
	result, err := Run(context.Background(), "duckdb@convert-csv-to-parquet", Args{
		"source":     src,
		"sink":       sink,
		"condition":  "amount >= 20",
		"conversion": "id, amount * 2 AS amount",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, result["records"])

	count, err := Run(context.Background(), "duckdb@count-parquet",
		Args{"source": sink})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count["records"])
}

func TestSelectQuery(t *testing.T) {
	assert.Equal(t,
		"SELECT count(*) FROM read_csv_auto('data.csv')",
		selectQuery("count(*)", readCSV("data.csv"), ""))

	assert.Equal(t,
		"SELECT count(*) FROM read_parquet('data.parquet') WHERE id > 10",
		selectQuery("count(*)", readParquet("data.parquet"), "id > 10"))

	assert.Equal(t,
		"SELECT id, upper(name) AS name FROM read_csv_auto('in.csv')",
		selectQuery(projection("id, upper(name) AS name"), readCSV("in.csv"), ""))
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'plain.csv'", quoteLiteral("plain.csv"))
	assert.Equal(t, "'it''s.csv'", quoteLiteral("it's.csv"))
}

func TestProjectionDefaultsToStar(t *testing.T) {
	assert.Equal(t, "*", projection(""))
}

func TestCountTasksRequireSource(t *testing.T) {
	for _, ref := range []string{"duckdb@count-csv", "duckdb@count-parquet"} {
		_, err := Run(context.Background(), ref, Args{})
		require.Error(t, err, ref)
		assert.True(t, flowerrors.IsType(err, flowerrors.ErrorTypeValidation), ref)
	}
}

func TestConvertRequiresSourceAndSink(t *testing.T) {
	_, err := Run(context.Background(), "duckdb@convert-csv-to-parquet",
		Args{"source": "in.csv"})
	require.Error(t, err)
	assert.True(t, flowerrors.IsType(err, flowerrors.ErrorTypeValidation))
}

func TestConvertRejectsUnknownCompression(t *testing.T) {
	_, err := Run(context.Background(), "duckdb@convert-csv-to-parquet",
		Args{"source": "in.csv", "sink": "out.parquet", "compression": "brotli"})
	require.Error(t, err)
	assert.True(t, flowerrors.IsType(err, flowerrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "brotli")
}

func TestTaskRejectsMistypedArgument(t *testing.T) {
	_, err := Run(context.Background(), "duckdb@count-csv",
		Args{"source": "data.csv", "where": "id > 10"})
	require.Error(t, err)
	assert.True(t, flowerrors.IsType(err, flowerrors.ErrorTypeValidation))
}
