package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

func init() {
	mustRegister(Info{
		Tag:         "duckdb",
		Alias:       "count-csv",
		Description: "count records in a CSV file",
	}, countCSV)
	mustRegister(Info{
		Tag:         "duckdb",
		Alias:       "count-parquet",
		Description: "count records in a Parquet file",
	}, countParquet)
	mustRegister(Info{
		Tag:         "duckdb",
		Alias:       "convert-csv-to-parquet",
		Description: "convert a CSV file to Parquet",
	}, convertCSVToParquet)
}

func mustRegister(info Info, fn Func) {
	if err := Register(info, fn); err != nil {
		panic(err)
	}
}

// parquetCompressions are the codecs DuckDB's parquet writer accepts.
var parquetCompressions = map[string]bool{
	"uncompressed": true,
	"snappy":       true,
	"gzip":         true,
	"zstd":         true,
}

type countArgs struct {
	Source    string `mapstructure:"source"`
	Condition string `mapstructure:"condition"`
}

type convertArgs struct {
	Source      string `mapstructure:"source"`
	Sink        string `mapstructure:"sink"`
	Condition   string `mapstructure:"condition"`
	Conversion  string `mapstructure:"conversion"`
	Compression string `mapstructure:"compression"`
}

func countCSV(ctx context.Context, args Args) (Result, error) {
	var a countArgs
	if err := DecodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Source == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeValidation,
			"count-csv requires a source file")
	}

	n, err := countQuery(ctx, readCSV(a.Source), a.Condition)
	if err != nil {
		return nil, err
	}
	return Result{"records": n}, nil
}

func countParquet(ctx context.Context, args Args) (Result, error) {
	var a countArgs
	if err := DecodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Source == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeValidation,
			"count-parquet requires a source file")
	}

	n, err := countQuery(ctx, readParquet(a.Source), a.Condition)
	if err != nil {
		return nil, err
	}
	return Result{"records": n}, nil
}

func convertCSVToParquet(ctx context.Context, args Args) (Result, error) {
	var a convertArgs
	if err := DecodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Source == "" || a.Sink == "" {
		return nil, flowerrors.New(flowerrors.ErrorTypeValidation,
			"convert-csv-to-parquet requires a source and a sink file")
	}
	if a.Compression == "" {
		a.Compression = "zstd"
	}
	a.Compression = strings.ToLower(a.Compression)
	if !parquetCompressions[a.Compression] {
		return nil, flowerrors.Newf(flowerrors.ErrorTypeValidation,
			"unsupported parquet compression %q", a.Compression)
	}

	db, err := openDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	n, err := scanCount(ctx, db, selectQuery("count(*)", readCSV(a.Source), a.Condition))
	if err != nil {
		return nil, err
	}

	copyStmt := fmt.Sprintf("COPY (%s) TO %s (FORMAT PARQUET, COMPRESSION %s)",
		selectQuery(projection(a.Conversion), readCSV(a.Source), a.Condition),
		quoteLiteral(a.Sink), a.Compression)
	if _, err := db.ExecContext(ctx, copyStmt); err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeData,
			"cannot write parquet sink")
	}

	return Result{"records": n, "sink": a.Sink}, nil
}

func openDB() (*sql.DB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeInternal,
			"cannot open in-memory engine")
	}
	return db, nil
}

func countQuery(ctx context.Context, from, condition string) (int64, error) {
	db, err := openDB()
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return scanCount(ctx, db, selectQuery("count(*)", from, condition))
}

func scanCount(ctx context.Context, db *sql.DB, query string) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, flowerrors.Wrap(err, flowerrors.ErrorTypeQuery,
			"count query failed")
	}
	return n, nil
}

// selectQuery builds "SELECT <cols> FROM <from>" with an optional filter.
// Condition and conversion expressions come from pipeline configuration
// and are passed through as SQL fragments.
func selectQuery(cols, from, condition string) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(cols)
	b.WriteString(" FROM ")
	b.WriteString(from)
	if condition != "" {
		b.WriteString(" WHERE ")
		b.WriteString(condition)
	}
	return b.String()
}

func projection(conversion string) string {
	if conversion == "" {
		return "*"
	}
	return conversion
}

func readCSV(path string) string {
	return "read_csv_auto(" + quoteLiteral(path) + ")"
}

func readParquet(path string) string {
	return "read_parquet(" + quoteLiteral(path) + ")"
}

// quoteLiteral renders a string as a single-quoted SQL literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
