// Package sqliteio loads SQLite tables into Arrow records shaped by a
// declared schema, and exposes a table's declared column types for
// validation without reading any rows.
package sqliteio

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/strictframe/pkg/schema"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrNullInColumn  = errors.New("null in non-nullable column")
)

// Timestamp layouts accepted when scanning text-typed time columns, tried in
// order. SQLite has no native time type; these cover RFC 3339 and the
// datetime() function's output.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Open opens the SQLite database at path with the pure-Go driver.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return db, nil
}

// ColumnInfo describes one column as declared in the SQLite table.
type ColumnInfo struct {
	Name     string
	DeclType string         // raw SQLite declared type
	Type     schema.ColType // mapped observed type; "" when unmappable
	NotNull  bool
}

// TableColumns reads the table's declared columns from PRAGMA table_info,
// in table order. Returns ErrTableNotFound for an unknown table.
func TableColumns(db *sql.DB, table string) ([]ColumnInfo, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("reading table info for %s: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var (
			cid      int
			name     string
			declType string
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scanning table info for %s: %w", table, err)
		}
		t, _ := colTypeFromDecl(declType)
		cols = append(cols, ColumnInfo{
			Name:     name,
			DeclType: declType,
			Type:     t,
			NotNull:  notNull != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading table info for %s: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	return cols, nil
}

// colTypeFromDecl maps a SQLite declared column type onto its observed
// ColType, following SQLite's own affinity rules: INT anywhere in the
// declaration means integer storage, then CHAR/CLOB/TEXT, then BLOB, then
// REAL/FLOA/DOUB. Time declarations are recognized before affinity kicks in.
func colTypeFromDecl(decl string) (schema.ColType, bool) {
	d := strings.ToUpper(decl)
	switch {
	case strings.Contains(d, "BOOL"):
		return schema.Bool, true
	case strings.Contains(d, "DATETIME"), strings.Contains(d, "TIMESTAMP"):
		return schema.Timestamp, true
	case d == "DATE":
		return schema.Date, true
	case strings.Contains(d, "INT"):
		return schema.Int64, true
	case strings.Contains(d, "CHAR"), strings.Contains(d, "CLOB"), strings.Contains(d, "TEXT"):
		return schema.String, true
	case strings.Contains(d, "BLOB"), d == "":
		return schema.Binary, true
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"), strings.Contains(d, "DOUB"):
		return schema.Float64, true
	}
	return "", false
}

// sqliteTable adapts a table's declared columns to the validator's view.
type sqliteTable struct {
	cols []ColumnInfo
}

// Table returns a validation view of the named table's declared columns.
// Validating against it reads only PRAGMA metadata, never row data.
func Table(db *sql.DB, table string) (schema.Table, error) {
	cols, err := TableColumns(db, table)
	if err != nil {
		return nil, err
	}
	return sqliteTable{cols: cols}, nil
}

func (t sqliteTable) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

func (t sqliteTable) ColumnType(name string) (schema.ColType, bool) {
	for _, c := range t.cols {
		if c.Name == name {
			if c.Type == "" {
				return "", false
			}
			return c.Type, true
		}
	}
	return "", false
}

// LoadTable reads the named table into a single Arrow record shaped by the
// declared schema, selecting columns in declaration order. Values are
// converted to the declared storage; a value that cannot be converted, or a
// null in a non-nullable column, fails the load. The caller releases the
// record.
func LoadTable(db *sql.DB, table string, s schema.Schema) (arrow.Record, error) {
	arrowSchema, err := s.ToArrow()
	if err != nil {
		return nil, fmt.Errorf("building arrow schema: %w", err)
	}

	names := s.Names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	query := fmt.Sprintf("SELECT %s FROM %q", strings.Join(quoted, ", "), table)
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("selecting from %s: %w", table, err)
	}
	defer rows.Close()

	rb := array.NewRecordBuilder(memory.DefaultAllocator, arrowSchema)
	defer rb.Release()

	for rows.Next() {
		dests := make([]any, arrowSchema.NumFields())
		for i := 0; i < arrowSchema.NumFields(); i++ {
			dests[i] = scanDest(arrowSchema.Field(i).Type)
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("scanning row from %s: %w", table, err)
		}
		for i := 0; i < arrowSchema.NumFields(); i++ {
			f := arrowSchema.Field(i)
			if err := appendScanned(rb.Field(i), f, dests[i]); err != nil {
				return nil, fmt.Errorf("column %s: %w", f.Name, err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows from %s: %w", table, err)
	}

	return rb.NewRecord(), nil
}

// scanDest returns a scan target for the given Arrow storage type.
func scanDest(dt arrow.DataType) any {
	switch dt.ID() {
	case arrow.BOOL:
		return new(sql.NullBool)
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return new(sql.NullInt64)
	case arrow.FLOAT32, arrow.FLOAT64:
		return new(sql.NullFloat64)
	case arrow.BINARY:
		return new([]byte)
	default:
		// Strings, timestamps, and dates arrive as text.
		return new(sql.NullString)
	}
}

// appendScanned converts one scanned value into the column's builder.
func appendScanned(b array.Builder, f arrow.Field, dest any) error {
	null := func() error {
		if !f.Nullable {
			return ErrNullInColumn
		}
		b.AppendNull()
		return nil
	}

	switch d := dest.(type) {
	case *sql.NullBool:
		if !d.Valid {
			return null()
		}
		b.(*array.BooleanBuilder).Append(d.Bool)
	case *sql.NullInt64:
		if !d.Valid {
			return null()
		}
		return appendInt(b, d.Int64)
	case *sql.NullFloat64:
		if !d.Valid {
			return null()
		}
		switch fb := b.(type) {
		case *array.Float32Builder:
			fb.Append(float32(d.Float64))
		case *array.Float64Builder:
			fb.Append(d.Float64)
		}
	case *[]byte:
		if *d == nil {
			return null()
		}
		b.(*array.BinaryBuilder).Append(*d)
	case *sql.NullString:
		if !d.Valid {
			return null()
		}
		return appendText(b, d.String)
	}
	return nil
}

// appendInt routes an integer into whichever width the column declares.
// Values outside the declared width's range fail the load rather than wrap.
func appendInt(b array.Builder, v int64) error {
	outOfRange := func(width string) error {
		return fmt.Errorf("value %d out of range for %s", v, width)
	}
	switch ib := b.(type) {
	case *array.Int8Builder:
		if v < math.MinInt8 || v > math.MaxInt8 {
			return outOfRange("int8")
		}
		ib.Append(int8(v))
	case *array.Int16Builder:
		if v < math.MinInt16 || v > math.MaxInt16 {
			return outOfRange("int16")
		}
		ib.Append(int16(v))
	case *array.Int32Builder:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return outOfRange("int32")
		}
		ib.Append(int32(v))
	case *array.Int64Builder:
		ib.Append(v)
	case *array.Uint8Builder:
		if v < 0 || v > math.MaxUint8 {
			return outOfRange("uint8")
		}
		ib.Append(uint8(v))
	case *array.Uint16Builder:
		if v < 0 || v > math.MaxUint16 {
			return outOfRange("uint16")
		}
		ib.Append(uint16(v))
	case *array.Uint32Builder:
		if v < 0 || v > math.MaxUint32 {
			return outOfRange("uint32")
		}
		ib.Append(uint32(v))
	case *array.Uint64Builder:
		if v < 0 {
			return outOfRange("uint64")
		}
		ib.Append(uint64(v))
	default:
		return fmt.Errorf("integer value for %T builder", b)
	}
	return nil
}

// appendText routes a text value into a string, timestamp, or date column.
func appendText(b array.Builder, v string) error {
	switch tb := b.(type) {
	case *array.StringBuilder:
		tb.Append(v)
	case *array.TimestampBuilder:
		t, err := parseTime(v)
		if err != nil {
			return err
		}
		ts, err := arrow.TimestampFromTime(t, arrow.Microsecond)
		if err != nil {
			return err
		}
		tb.Append(ts)
	case *array.Date32Builder:
		t, err := parseTime(v)
		if err != nil {
			return err
		}
		tb.Append(arrow.Date32FromTime(t))
	default:
		return fmt.Errorf("text value for %T builder", b)
	}
	return nil
}

// parseTime tries each accepted timestamp layout in order.
func parseTime(v string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable time value %q", v)
}
