package schema

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// ColType is a semantic element type tag for a column. Concrete tags name an
// exact encoding; Integer and Float accept any width of their kind; Any
// accepts every observed type. Any, Integer, and Float are declaration-only:
// they never appear as an observed type.
type ColType string

// Recognized type tags, as written in schema files.
const (
	Bool      ColType = "bool"
	Int8      ColType = "int8"
	Int16     ColType = "int16"
	Int32     ColType = "int32"
	Int64     ColType = "int64"
	Uint8     ColType = "uint8"
	Uint16    ColType = "uint16"
	Uint32    ColType = "uint32"
	Uint64    ColType = "uint64"
	Float32   ColType = "float32"
	Float64   ColType = "float64"
	String    ColType = "string"
	Binary    ColType = "binary"
	Timestamp ColType = "timestamp"
	Date      ColType = "date"
	Integer   ColType = "integer"
	Float     ColType = "float"
	Any       ColType = "any"
)

// String returns the type tag as written in schema files.
func (t ColType) String() string { return string(t) }

// validColTypes is the set of recognized type tags.
var validColTypes = map[ColType]bool{
	Bool: true, Int8: true, Int16: true, Int32: true, Int64: true,
	Uint8: true, Uint16: true, Uint32: true, Uint64: true,
	Float32: true, Float64: true, String: true, Binary: true,
	Timestamp: true, Date: true, Integer: true, Float: true, Any: true,
}

// ParseColType converts a type tag as written in a schema file into a ColType.
// Returns ErrUnknownType if the tag is not recognized.
func ParseColType(s string) (ColType, error) {
	t := ColType(s)
	if !validColTypes[t] {
		return "", ErrUnknownType
	}
	return t, nil
}

// IsValidColType reports whether the given string is a recognized type tag.
func IsValidColType(s string) bool {
	return validColTypes[ColType(s)]
}

// isIntegerKind reports whether t is a concrete integer encoding of any width
// or sign.
func (t ColType) isIntegerKind() bool {
	switch t {
	case Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64:
		return true
	}
	return false
}

// isFloatKind reports whether t is a concrete floating-point encoding.
func (t ColType) isFloatKind() bool {
	return t == Float32 || t == Float64
}

// FromArrow maps an Arrow data type to its observed ColType tag.
// Large string and large binary collapse onto String and Binary: the width of
// the offset encoding is an engine detail, not a semantic difference.
// Returns false for Arrow types this layer does not type (nested, decimal,
// dictionary, and so on).
func FromArrow(dt arrow.DataType) (ColType, bool) {
	switch dt.ID() {
	case arrow.BOOL:
		return Bool, true
	case arrow.INT8:
		return Int8, true
	case arrow.INT16:
		return Int16, true
	case arrow.INT32:
		return Int32, true
	case arrow.INT64:
		return Int64, true
	case arrow.UINT8:
		return Uint8, true
	case arrow.UINT16:
		return Uint16, true
	case arrow.UINT32:
		return Uint32, true
	case arrow.UINT64:
		return Uint64, true
	case arrow.FLOAT32:
		return Float32, true
	case arrow.FLOAT64:
		return Float64, true
	case arrow.STRING, arrow.LARGE_STRING:
		return String, true
	case arrow.BINARY, arrow.LARGE_BINARY:
		return Binary, true
	case arrow.TIMESTAMP:
		return Timestamp, true
	case arrow.DATE32, arrow.DATE64:
		return Date, true
	}
	return "", false
}

// ToArrow maps a declared ColType to the Arrow data type used when this layer
// constructs storage for the column. Timestamps use microsecond precision in
// UTC; dates use day precision. Integer and Float resolve to their widest
// encoding. Returns ErrUnknownType for Any, which names no concrete encoding.
func (t ColType) ToArrow() (arrow.DataType, error) {
	switch t {
	case Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case Int64, Integer:
		return arrow.PrimitiveTypes.Int64, nil
	case Uint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case Uint16:
		return arrow.PrimitiveTypes.Uint16, nil
	case Uint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case Uint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case Float64, Float:
		return arrow.PrimitiveTypes.Float64, nil
	case String:
		return arrow.BinaryTypes.String, nil
	case Binary:
		return arrow.BinaryTypes.Binary, nil
	case Timestamp:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	case Date:
		return arrow.FixedWidthTypes.Date32, nil
	}
	return nil, ErrUnknownType
}
