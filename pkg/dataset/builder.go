package dataset

import (
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Builder returns a record builder pre-shaped to the schema declared by S,
// for constructing a dataset from raw column data. Width-agnostic
// declarations resolve to their widest encoding (Integer to int64, Float to
// float64); a declaration containing Any cannot be built and errors here.
// Release the builder when done.
func Builder[S Definition](mem memory.Allocator) (*array.RecordBuilder, error) {
	sch, err := declaredSchema[S]()
	if err != nil {
		return nil, err
	}
	arrowSchema, err := sch.ToArrow()
	if err != nil {
		return nil, err
	}
	return array.NewRecordBuilder(mem, arrowSchema), nil
}

// FromBuilder finishes the builder and validates the result as a DataSet[S].
// The builder is reset and can be reused; the returned dataset owns its own
// reference to the built record.
func FromBuilder[S Definition](rb *array.RecordBuilder) (*DataSet[S], error) {
	rec := rb.NewRecord()
	defer rec.Release()
	return New[S](rec)
}
