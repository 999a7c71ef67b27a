package models

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToArrowSchema(t *testing.T) {
	table, err := NewTable("events", []Column{
		{Name: "id", Type: Integer{Width: Int64}, PrimaryKey: true},
		{Name: "name", Type: String{MaxLength: 64}},
		{Name: "amount", Type: Decimal{Precision: 12, Scale: 2}, Nullable: true},
		{Name: "at", Type: Timestamp{WithTimeZone: true}, Nullable: true},
		{Name: "payload", Type: Binary{}, Nullable: true},
	})
	require.NoError(t, err)

	schema, err := ToArrowSchema(table)
	require.NoError(t, err)
	require.Len(t, schema.Fields(), 5)

	id := schema.Field(0)
	assert.Equal(t, "id", id.Name)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, id.Type)
	assert.False(t, id.Nullable)

	amount := schema.Field(2)
	dec, ok := amount.Type.(*arrow.Decimal128Type)
	require.True(t, ok)
	assert.Equal(t, int32(12), dec.Precision)
	assert.Equal(t, int32(2), dec.Scale)
	assert.True(t, amount.Nullable)

	at := schema.Field(3)
	ts, ok := at.Type.(*arrow.TimestampType)
	require.True(t, ok)
	assert.Equal(t, "UTC", ts.TimeZone)

	values, ok := schema.Metadata().GetValue("table")
	require.True(t, ok)
	assert.Equal(t, "events", values)
}
