package models

import (
	"fmt"

	"github.com/ddeutils/flowext/pkg/flowerrors"
)

// Kind identifies the semantic family of a data type.
type Kind string

const (
	KindString    Kind = "string"
	KindInteger   Kind = "integer"
	KindFloat     Kind = "float"
	KindDecimal   Kind = "decimal"
	KindBoolean   Kind = "boolean"
	KindDate      Kind = "date"
	KindTime      Kind = "time"
	KindTimestamp Kind = "timestamp"
	KindJSON      Kind = "json"
	KindBinary    Kind = "binary"
)

// Unbounded is the sentinel length for string types without a maximum.
const Unbounded = 0

// DataType describes a column's value domain and validation bounds. Each
// kind has its own concrete type carrying only the bounds legal for it.
// Implementations are immutable value objects, validated at construction.
type DataType interface {
	// Kind returns the semantic family tag.
	Kind() Kind
	// String returns the canonical serialized form, parseable by ParseType.
	String() string
}

// IntWidth selects the storage width of an integer type.
type IntWidth int

const (
	Int16 IntWidth = 16
	Int32 IntWidth = 32
	Int64 IntWidth = 64
)

// String is a variable-length character type. MaxLength of Unbounded means
// no limit; Fixed marks blank-padded char(n) semantics.
type String struct {
	MaxLength int
	Fixed     bool
}

func (String) Kind() Kind { return KindString }

func (t String) String() string {
	if t.Fixed {
		return fmt.Sprintf("char(%d)", t.MaxLength)
	}
	if t.MaxLength == Unbounded {
		return "text"
	}
	return fmt.Sprintf("varchar(%d)", t.MaxLength)
}

// NewString constructs a variable-length string type. maxLength of
// Unbounded (0) means no limit.
func NewString(maxLength int) (String, error) {
	if maxLength < 0 {
		return String{}, flowerrors.Newf(flowerrors.ErrorTypeValidation,
			"string max length must be non-negative, got %d", maxLength)
	}
	return String{MaxLength: maxLength}, nil
}

// NewChar constructs a fixed-length character type. length must be positive.
func NewChar(length int) (String, error) {
	if length <= 0 {
		return String{}, flowerrors.Newf(flowerrors.ErrorTypeValidation,
			"char length must be positive, got %d", length)
	}
	return String{MaxLength: length, Fixed: true}, nil
}

// Integer is a whole-number type with a selectable width.
type Integer struct {
	Width IntWidth
}

func (Integer) Kind() Kind { return KindInteger }

func (t Integer) String() string {
	switch t.Width {
	case Int16:
		return "smallint"
	case Int64:
		return "bigint"
	default:
		return "integer"
	}
}

// NewInteger constructs an integer type of the given width.
func NewInteger(width IntWidth) (Integer, error) {
	switch width {
	case Int16, Int32, Int64:
		return Integer{Width: width}, nil
	default:
		return Integer{}, flowerrors.Newf(flowerrors.ErrorTypeValidation,
			"unsupported integer width %d", width)
	}
}

// Float is a double-precision floating point type.
type Float struct{}

func (Float) Kind() Kind     { return KindFloat }
func (Float) String() string { return "float" }

// Decimal is an exact numeric type with precision and scale.
type Decimal struct {
	Precision int
	Scale     int
}

func (Decimal) Kind() Kind { return KindDecimal }

func (t Decimal) String() string {
	return fmt.Sprintf("numeric(%d, %d)", t.Precision, t.Scale)
}

// NewDecimal constructs a decimal type. Precision must be positive and
// scale must lie in [0, precision].
func NewDecimal(precision, scale int) (Decimal, error) {
	if precision <= 0 {
		return Decimal{}, flowerrors.Newf(flowerrors.ErrorTypeValidation,
			"decimal precision must be positive, got %d", precision)
	}
	if scale < 0 || scale > precision {
		return Decimal{}, flowerrors.Newf(flowerrors.ErrorTypeValidation,
			"decimal scale must be in [0, %d], got %d", precision, scale)
	}
	return Decimal{Precision: precision, Scale: scale}, nil
}

// Boolean is a true/false type.
type Boolean struct{}

func (Boolean) Kind() Kind     { return KindBoolean }
func (Boolean) String() string { return "boolean" }

// Date is a calendar date without time of day.
type Date struct{}

func (Date) Kind() Kind     { return KindDate }
func (Date) String() string { return "date" }

// Time is a time of day without date.
type Time struct{}

func (Time) Kind() Kind     { return KindTime }
func (Time) String() string { return "time" }

// Timestamp is a date-time type, optionally time-zone aware.
type Timestamp struct {
	WithTimeZone bool
}

func (Timestamp) Kind() Kind { return KindTimestamp }

func (t Timestamp) String() string {
	if t.WithTimeZone {
		return "timestamptz"
	}
	return "timestamp"
}

// JSON is a structured document type.
type JSON struct{}

func (JSON) Kind() Kind     { return KindJSON }
func (JSON) String() string { return "json" }

// Binary is an opaque byte-string type.
type Binary struct{}

func (Binary) Kind() Kind     { return KindBinary }
func (Binary) String() string { return "binary" }
