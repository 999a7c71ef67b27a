package models

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

// ToArrowSchema converts a table definition to an Arrow schema so columnar
// writers can consume model-described tables. Column order and nullability
// are preserved; the table name travels in the schema metadata.
func ToArrowSchema(t *Table) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(t.columns))
	for _, col := range t.columns {
		at, err := arrowType(col.Type)
		if err != nil {
			return nil, flowerrors.Wrap(err, flowerrors.ErrorTypeData,
				"cannot convert table "+t.name).
				WithDetail("table", t.name).
				WithDetail("column", col.Name)
		}
		fields = append(fields, arrow.Field{
			Name:     col.Name,
			Type:     at,
			Nullable: col.Nullable,
		})
	}

	metadata := arrow.NewMetadata([]string{"table"}, []string{t.name})
	return arrow.NewSchema(fields, &metadata), nil
}

func arrowType(dt DataType) (arrow.DataType, error) {
	switch t := dt.(type) {
	case String:
		return arrow.BinaryTypes.String, nil
	case Integer:
		switch t.Width {
		case Int16:
			return arrow.PrimitiveTypes.Int16, nil
		case Int64:
			return arrow.PrimitiveTypes.Int64, nil
		default:
			return arrow.PrimitiveTypes.Int32, nil
		}
	case Float:
		return arrow.PrimitiveTypes.Float64, nil
	case Decimal:
		return &arrow.Decimal128Type{
			Precision: int32(t.Precision),
			Scale:     int32(t.Scale),
		}, nil
	case Boolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case Date:
		return arrow.FixedWidthTypes.Date32, nil
	case Time:
		return arrow.FixedWidthTypes.Time64us, nil
	case Timestamp:
		tz := ""
		if t.WithTimeZone {
			tz = "UTC"
		}
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: tz}, nil
	case JSON:
		return arrow.BinaryTypes.String, nil
	case Binary:
		return arrow.BinaryTypes.Binary, nil
	default:
		return nil, flowerrors.Newf(flowerrors.ErrorTypeData,
			"no arrow mapping for data type %q", dt.Kind())
	}
}
