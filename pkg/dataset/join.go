package dataset

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/mesh-intelligence/strictframe/pkg/schema"
)

// Join errors.
var (
	ErrJoinKey      = errors.New("join key unusable")
	ErrSharedColumn = errors.New("column present on both join sides")
)

// Joined is the marker type of a join result: its declared schema is the
// composition of L's and R's. It exists so join results are first-class
// nominal types, usable in signatures like any hand-declared marker.
// Columns panics when L and R declare a shared column with conflicting
// types; Join checks the same composition first and fails with
// SchemaConflictError, so datasets produced by Join never reach the panic.
type Joined[L, R Definition] struct{}

// Columns returns the composed declaration of L and R.
func (Joined[L, R]) Columns() []schema.Column {
	merged, err := schema.Merge(SchemaOf[L](), SchemaOf[R]())
	if err != nil {
		panic(err)
	}
	return merged.Columns()
}

// Join derives the inner equi-join of left and right on the named key
// column, typed by the composition of both schemas. The key must be
// declared on both sides and hold integer or string values; rows with null
// keys never match. Every other column name must be unique to one side.
//
// The result carries the key column once (from the left side), then left's
// remaining columns, then right's, and is validated like any constructed
// dataset. Composition conflicts surface as SchemaConflictError before any
// rows are touched.
func Join[L, R Definition](mem memory.Allocator, left *DataSet[L], right *DataSet[R], on string) (*DataSet[Joined[L, R]], error) {
	if _, err := schema.Merge(left.sch, right.sch); err != nil {
		return nil, err
	}
	if _, ok := left.sch.Lookup(on); !ok {
		return nil, fmt.Errorf("%w: %s not declared on left side", ErrJoinKey, on)
	}
	if _, ok := right.sch.Lookup(on); !ok {
		return nil, fmt.Errorf("%w: %s not declared on right side", ErrJoinKey, on)
	}
	for _, c := range right.sch.Columns() {
		if c.Name == on {
			continue
		}
		if _, ok := left.sch.Lookup(c.Name); ok {
			return nil, fmt.Errorf("%w: %s", ErrSharedColumn, c.Name)
		}
	}

	lkey, err := left.Column(on)
	if err != nil {
		return nil, err
	}
	rkey, err := right.Column(on)
	if err != nil {
		return nil, err
	}
	if !joinableKey(lkey) {
		return nil, fmt.Errorf("%w: left %s holds %s", ErrJoinKey, on, lkey.DataType())
	}
	if !joinableKey(rkey) {
		return nil, fmt.Errorf("%w: right %s holds %s", ErrJoinKey, on, rkey.DataType())
	}

	// Index right-side rows by key value, then probe with the left side.
	index := make(map[any][]int, rkey.Len())
	for i := 0; i < rkey.Len(); i++ {
		if k, ok := joinKeyAt(rkey, i); ok {
			index[k] = append(index[k], i)
		}
	}

	var lrows, rrows []int
	for i := 0; i < lkey.Len(); i++ {
		k, ok := joinKeyAt(lkey, i)
		if !ok {
			continue
		}
		for _, j := range index[k] {
			lrows = append(lrows, i)
			rrows = append(rrows, j)
		}
	}

	// Output columns: left's declared order, then right's minus the key.
	// Physical encodings come straight from the source records.
	type source struct {
		field arrow.Field
		col   arrow.Array
		rows  []int
	}
	var sources []source
	for _, name := range left.sch.Names() {
		col, _ := left.Column(name)
		sources = append(sources, source{physicalField(left.rec, name), col, lrows})
	}
	for _, name := range right.sch.Names() {
		if name == on {
			continue
		}
		col, _ := right.Column(name)
		sources = append(sources, source{physicalField(right.rec, name), col, rrows})
	}

	fields := make([]arrow.Field, len(sources))
	for i, s := range sources {
		fields[i] = s.field
	}
	rb := array.NewRecordBuilder(mem, arrow.NewSchema(fields, nil))
	defer rb.Release()

	for i, s := range sources {
		b := rb.Field(i)
		for _, row := range s.rows {
			if err := appendValue(b, s.col, row); err != nil {
				return nil, fmt.Errorf("copying column %s: %w", s.field.Name, err)
			}
		}
	}

	rec := rb.NewRecord()
	defer rec.Release()
	return New[Joined[L, R]](rec)
}

// physicalField returns the record's field for the named column.
func physicalField(rec arrow.Record, name string) arrow.Field {
	idx := rec.Schema().FieldIndices(name)[0]
	return rec.Schema().Field(idx)
}

// joinableKey reports whether the column's storage can serve as a join key.
func joinableKey(a arrow.Array) bool {
	switch a.DataType().ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.STRING, arrow.LARGE_STRING:
		return true
	}
	return false
}

// joinKeyAt extracts the key value at a row, normalized so equivalent
// encodings compare equal across sides (all signed widths to int64, all
// unsigned to uint64). Returns false for null keys.
func joinKeyAt(a arrow.Array, i int) (any, bool) {
	if a.IsNull(i) {
		return nil, false
	}
	switch v := a.(type) {
	case *array.Int8:
		return int64(v.Value(i)), true
	case *array.Int16:
		return int64(v.Value(i)), true
	case *array.Int32:
		return int64(v.Value(i)), true
	case *array.Int64:
		return v.Value(i), true
	case *array.Uint8:
		return uint64(v.Value(i)), true
	case *array.Uint16:
		return uint64(v.Value(i)), true
	case *array.Uint32:
		return uint64(v.Value(i)), true
	case *array.Uint64:
		return v.Value(i), true
	case *array.String:
		return v.Value(i), true
	case *array.LargeString:
		return v.Value(i), true
	}
	return nil, false
}

// appendValue copies one value from a source column into a builder of the
// same physical type. Nulls carry over as nulls.
func appendValue(b array.Builder, src arrow.Array, row int) error {
	if src.IsNull(row) {
		b.AppendNull()
		return nil
	}
	switch s := src.(type) {
	case *array.Boolean:
		b.(*array.BooleanBuilder).Append(s.Value(row))
	case *array.Int8:
		b.(*array.Int8Builder).Append(s.Value(row))
	case *array.Int16:
		b.(*array.Int16Builder).Append(s.Value(row))
	case *array.Int32:
		b.(*array.Int32Builder).Append(s.Value(row))
	case *array.Int64:
		b.(*array.Int64Builder).Append(s.Value(row))
	case *array.Uint8:
		b.(*array.Uint8Builder).Append(s.Value(row))
	case *array.Uint16:
		b.(*array.Uint16Builder).Append(s.Value(row))
	case *array.Uint32:
		b.(*array.Uint32Builder).Append(s.Value(row))
	case *array.Uint64:
		b.(*array.Uint64Builder).Append(s.Value(row))
	case *array.Float32:
		b.(*array.Float32Builder).Append(s.Value(row))
	case *array.Float64:
		b.(*array.Float64Builder).Append(s.Value(row))
	case *array.String:
		b.(*array.StringBuilder).Append(s.Value(row))
	case *array.LargeString:
		b.(*array.LargeStringBuilder).Append(s.Value(row))
	case *array.Binary:
		b.(*array.BinaryBuilder).Append(s.Value(row))
	case *array.Timestamp:
		b.(*array.TimestampBuilder).Append(s.Value(row))
	case *array.Date32:
		b.(*array.Date32Builder).Append(s.Value(row))
	case *array.Date64:
		b.(*array.Date64Builder).Append(s.Value(row))
	default:
		return fmt.Errorf("unsupported column storage %s", src.DataType())
	}
	return nil
}
