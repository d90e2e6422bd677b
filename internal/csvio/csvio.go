// Package csvio loads and stores CSV files as Arrow records. Reading is
// either schema-driven, parsing each column straight into its declared
// storage, or inferring, letting the engine guess column types so a file can
// be diagnosed against a declaration it does not match.
package csvio

import (
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/mesh-intelligence/strictframe/pkg/schema"
)

// Read parses CSV data into a single record shaped by the declared schema.
// The input's first line must be a header. Values that do not parse as the
// declared column type fail the read. The caller releases the record.
func Read(r io.Reader, s schema.Schema) (arrow.Record, error) {
	arrowSchema, err := s.ToArrow()
	if err != nil {
		return nil, fmt.Errorf("building arrow schema: %w", err)
	}
	reader := csv.NewReader(r, arrowSchema,
		csv.WithHeader(true),
		csv.WithChunk(-1),
		csv.WithNullReader(true, ""),
	)
	defer reader.Release()
	return oneRecord(reader, arrowSchema)
}

// ReadInferred parses CSV data into a single record, letting the engine
// infer each column's type from the data. Used to obtain observed column
// types for validation diagnostics. The caller releases the record.
func ReadInferred(r io.Reader) (arrow.Record, error) {
	reader := csv.NewInferringReader(r,
		csv.WithHeader(true),
		csv.WithChunk(-1),
		csv.WithNullReader(true, ""),
	)
	defer reader.Release()
	return oneRecord(reader, nil)
}

// oneRecord drains the reader into its single chunk. An input with a header
// and no data rows yields an empty record; when the reader cannot supply one
// (nothing was inferred) an empty record is built from the schema, if known.
func oneRecord(reader *csv.Reader, arrowSchema *arrow.Schema) (arrow.Record, error) {
	if reader.Next() {
		rec := reader.Record()
		rec.Retain()
		if err := reader.Err(); err != nil && err != io.EOF {
			rec.Release()
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		return rec, nil
	}
	if err := reader.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if arrowSchema == nil {
		return nil, fmt.Errorf("reading csv: no rows and no schema to shape an empty record")
	}
	rb := array.NewRecordBuilder(memory.DefaultAllocator, arrowSchema)
	defer rb.Release()
	return rb.NewRecord(), nil
}

// ReadFile is Read over a file path.
func ReadFile(path string, s schema.Schema) (arrow.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	rec, err := Read(f, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// ReadFileInferred is ReadInferred over a file path.
func ReadFileInferred(path string) (arrow.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	rec, err := ReadInferred(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Write stores the record as CSV with a header line.
func Write(w io.Writer, rec arrow.Record) error {
	writer := csv.NewWriter(w, rec.Schema(), csv.WithHeader(true))
	if err := writer.Write(rec); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return writer.Error()
}

// WriteFile is Write over a file path, creating or truncating it.
func WriteFile(path string, rec arrow.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, rec); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
