package dataset

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/strictframe/pkg/schema"
)

// Definition declares the schema of a dataset kind. Implementations are
// marker types: empty structs whose only purpose is to be distinct static
// types carrying a column declaration.
type Definition interface {
	Columns() []schema.Column
}

// Dataset operation errors.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrRowBounds      = errors.New("row slice out of bounds")
)

// DataSet is an Arrow record validated against the schema declared by S.
// Its column set equals S's declared set and every column's element type is
// compatible with its declaration; both are established at construction and
// never re-checked. A DataSet exposes only non-mutating accessors.
type DataSet[S Definition] struct {
	id  string
	sch schema.Schema
	rec arrow.Record
}

// SchemaOf returns the schema declared by the marker type S.
// Panics if the declaration itself is malformed (empty, duplicate column
// names, unknown types); a bad declaration is a programming error.
func SchemaOf[S Definition]() schema.Schema {
	var s S
	return schema.MustNew(s.Columns()...)
}

// declaredSchema is SchemaOf with the error surfaced, for construction paths.
func declaredSchema[S Definition]() (schema.Schema, error) {
	var s S
	sch, err := schema.New(s.Columns()...)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("schema declaration for %T: %w", s, err)
	}
	return sch, nil
}

// New validates rec against the schema declared by S and returns the typed
// dataset. On success the record is retained; release the dataset when done.
// On failure no dataset is produced and the record is untouched. The
// validation error carries the full column or type diff.
func New[S Definition](rec arrow.Record) (*DataSet[S], error) {
	return NewWith[S](rec, schema.DefaultEquivalence)
}

// NewWith is New with a caller-supplied type equivalence table.
func NewWith[S Definition](rec arrow.Record, eq schema.Equivalence) (*DataSet[S], error) {
	sch, err := declaredSchema[S]()
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateWith(sch, schema.ArrowTable(rec.Schema()), eq); err != nil {
		return nil, err
	}
	rec.Retain()
	return &DataSet[S]{
		id:  uuid.Must(uuid.NewV7()).String(),
		sch: sch,
		rec: rec,
	}, nil
}

// ID returns the handle identifier assigned at construction, a UUID v7.
// Derived datasets get fresh IDs.
func (d *DataSet[S]) ID() string { return d.id }

// Schema returns the declared schema.
func (d *DataSet[S]) Schema() schema.Schema { return d.sch }

// NumRows returns the number of rows.
func (d *DataSet[S]) NumRows() int64 { return d.rec.NumRows() }

// ColumnNames returns the declared column names in declaration order.
func (d *DataSet[S]) ColumnNames() []string { return d.sch.Names() }

// Column returns the named column's storage for read access.
// Returns ErrColumnNotFound for an undeclared name.
func (d *DataSet[S]) Column(name string) (arrow.Array, error) {
	indices := d.rec.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return d.rec.Column(indices[0]), nil
}

// Detach returns the underlying Arrow record, retained for the caller.
// The record is unchecked from here on: mutating it, or anything derived
// from it, is outside the typed surface and at the caller's risk. The
// dataset itself remains valid and independently owned. The caller must
// release the returned record.
func (d *DataSet[S]) Detach() arrow.Record {
	d.rec.Retain()
	return d.rec
}

// Release releases the dataset's hold on the underlying record.
// The dataset must not be used afterwards.
func (d *DataSet[S]) Release() { d.rec.Release() }

// String renders the dataset as its schema plus row count.
func (d *DataSet[S]) String() string {
	return fmt.Sprintf("%s (%d rows)", d.sch, d.rec.NumRows())
}

// Slice derives a dataset covering rows [i, j) without copying column data.
// The derived dataset is validated independently and gets its own ID.
// Returns ErrRowBounds when the window does not fit.
func (d *DataSet[S]) Slice(i, j int64) (*DataSet[S], error) {
	if i < 0 || j < i || j > d.rec.NumRows() {
		return nil, fmt.Errorf("%w: [%d, %d) of %d rows", ErrRowBounds, i, j, d.rec.NumRows())
	}
	sliced := d.rec.NewSlice(i, j)
	defer sliced.Release()
	return New[S](sliced)
}

// Concat derives a dataset holding a's rows followed by b's. Both operands
// carry the same declared schema by construction; columns are matched by
// name, so differing physical column order between the operands is fine.
// Concatenation of columns with differing physical encodings (for example
// int32 on one side and int64 on the other, both valid for one declaration)
// fails: the engine does not widen storage.
func Concat[S Definition](mem memory.Allocator, a, b *DataSet[S]) (*DataSet[S], error) {
	cols := make([]arrow.Array, 0, a.sch.Len())
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	for _, name := range a.sch.Names() {
		left, err := a.Column(name)
		if err != nil {
			return nil, err
		}
		right, err := b.Column(name)
		if err != nil {
			return nil, err
		}
		joined, err := array.Concatenate([]arrow.Array{left, right}, mem)
		if err != nil {
			return nil, fmt.Errorf("concatenating column %s: %w", name, err)
		}
		cols = append(cols, joined)
	}

	fields := make([]arrow.Field, len(cols))
	for i, name := range a.sch.Names() {
		idx := a.rec.Schema().FieldIndices(name)[0]
		f := a.rec.Schema().Field(idx)
		fields[i] = arrow.Field{Name: name, Type: cols[i].DataType(), Nullable: f.Nullable}
	}
	rec := array.NewRecord(arrow.NewSchema(fields, nil), cols, a.rec.NumRows()+b.rec.NumRows())
	defer rec.Release()
	return New[S](rec)
}
