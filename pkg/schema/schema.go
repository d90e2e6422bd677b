package schema

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// Column declares one named column: its element type and whether null values
// are permitted. Nullability is a construction hint for Arrow storage; the
// validator checks element types only.
type Column struct {
	Name     string
	Type     ColType
	Nullable bool
}

// Schema is an ordered, immutable set of column declarations. The zero value
// is empty and unusable; build one with New or MustNew.
type Schema struct {
	columns []Column
	index   map[string]int
}

// New builds a Schema from the given columns, preserving order.
// Returns ErrEmptySchema when no columns are given, ErrEmptyColumnName for a
// nameless column, ErrDuplicateColumn for a repeated name, and ErrUnknownType
// for an unrecognized type tag.
func New(columns ...Column) (Schema, error) {
	if len(columns) == 0 {
		return Schema{}, ErrEmptySchema
	}
	cols := make([]Column, len(columns))
	copy(cols, columns)
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Name == "" {
			return Schema{}, ErrEmptyColumnName
		}
		if _, ok := index[c.Name]; ok {
			return Schema{}, fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name)
		}
		if !validColTypes[c.Type] {
			return Schema{}, fmt.Errorf("%w: %q for column %s", ErrUnknownType, c.Type, c.Name)
		}
		index[c.Name] = i
	}
	return Schema{columns: cols, index: index}, nil
}

// MustNew is New but panics on error. Intended for static schema declarations
// where a bad declaration is a programming error.
func MustNew(columns ...Column) Schema {
	s, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of declared columns.
func (s Schema) Len() int { return len(s.columns) }

// Columns returns a copy of the declarations in order.
func (s Schema) Columns() []Column {
	cols := make([]Column, len(s.columns))
	copy(cols, s.columns)
	return cols
}

// Names returns the declared column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the declaration for the named column.
func (s Schema) Lookup(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// String renders the schema as "{name: type, ...}" in declaration order.
func (s Schema) String() string {
	parts := make([]string, len(s.columns))
	for i, c := range s.columns {
		parts[i] = fmt.Sprintf("%s: %s", c.Name, c.Type)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ToArrow builds the Arrow schema this declaration constructs storage with.
// Returns ErrUnknownType when a column is declared Any, which names no
// concrete encoding.
func (s Schema) ToArrow() (*arrow.Schema, error) {
	fields := make([]arrow.Field, len(s.columns))
	for i, c := range s.columns {
		dt, err := c.Type.ToArrow()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		fields[i] = arrow.Field{Name: c.Name, Type: dt, Nullable: c.Nullable}
	}
	return arrow.NewSchema(fields, nil), nil
}

// FromArrowSchema derives the observed Schema of an Arrow schema, mapping
// each field's data type onto its ColType tag. Returns ErrUnknownType for a
// field whose Arrow type this layer does not type.
func FromArrowSchema(as *arrow.Schema) (Schema, error) {
	cols := make([]Column, as.NumFields())
	for i := 0; i < as.NumFields(); i++ {
		f := as.Field(i)
		t, ok := FromArrow(f.Type)
		if !ok {
			return Schema{}, fmt.Errorf("%w: %s for column %s", ErrUnknownType, f.Type, f.Name)
		}
		cols[i] = Column{Name: f.Name, Type: t, Nullable: f.Nullable}
	}
	return New(cols...)
}

// Merge composes two schemas into one: the union of their columns, left
// columns first, then right columns not already declared. A column declared
// in both with the same type is kept once, nullable when either side is
// nullable. A column declared in both with differing types fails with
// SchemaConflictError.
func Merge(a, b Schema) (Schema, error) {
	cols := a.Columns()
	for _, c := range b.columns {
		i, ok := a.index[c.Name]
		if !ok {
			cols = append(cols, c)
			continue
		}
		if a.columns[i].Type != c.Type {
			return Schema{}, &SchemaConflictError{
				Column: c.Name,
				Left:   a.columns[i].Type,
				Right:  c.Type,
			}
		}
		cols[i].Nullable = cols[i].Nullable || c.Nullable
	}
	return New(cols...)
}
