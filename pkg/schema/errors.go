package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Schema declaration errors.
var (
	ErrEmptySchema     = errors.New("schema has no columns")
	ErrEmptyColumnName = errors.New("column name must not be empty")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrUnknownType     = errors.New("unknown column type")
)

// Validation and composition errors. The typed errors below match these
// sentinels through errors.Is, so callers can branch on the kind without
// unpacking the detail.
var (
	ErrColumnMismatch = errors.New("column mismatch")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrSchemaConflict = errors.New("conflicting column definition")
)

// ColumnMismatchError reports that the table's column set differs from the
// declared set. Missing lists declared columns absent from the table in
// declaration order; Extra lists undeclared table columns in table order.
// At least one of the two is non-empty.
type ColumnMismatchError struct {
	Missing []string
	Extra   []string
}

func (e *ColumnMismatchError) Error() string {
	var b strings.Builder
	b.WriteString("column mismatch:")
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, " missing columns [%s]", strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		if len(e.Missing) > 0 {
			b.WriteString(";")
		}
		fmt.Fprintf(&b, " extra columns [%s]", strings.Join(e.Extra, ", "))
	}
	return b.String()
}

// Is reports a match against ErrColumnMismatch.
func (e *ColumnMismatchError) Is(target error) bool {
	return target == ErrColumnMismatch
}

// TypeMismatch records one column whose observed element type is incompatible
// with its declaration.
type TypeMismatch struct {
	Column   string  `json:"column"`
	Expected ColType `json:"expected"`
	Observed ColType `json:"observed"`
}

func (m TypeMismatch) String() string {
	observed := string(m.Observed)
	if observed == "" {
		observed = "unsupported"
	}
	return fmt.Sprintf("%s (expected %s, observed %s)", m.Column, m.Expected, observed)
}

// TypeMismatchError reports every column that failed the compatibility check,
// in declaration order. Validation collects all offenders before failing so a
// bad input is diagnosed in one round trip.
type TypeMismatchError struct {
	Mismatches []TypeMismatch
}

func (e *TypeMismatchError) Error() string {
	parts := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		parts[i] = m.String()
	}
	return "type mismatch: " + strings.Join(parts, "; ")
}

// Is reports a match against ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// SchemaConflictError reports that two composed schemas declare the same
// column with differing types. Left is the declaration from the first schema,
// Right from the second.
type SchemaConflictError struct {
	Column string
	Left   ColType
	Right  ColType
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("conflicting column definition: %s declared as both %s and %s",
		e.Column, e.Left, e.Right)
}

// Is reports a match against ErrSchemaConflict.
func (e *SchemaConflictError) Is(target error) bool {
	return target == ErrSchemaConflict
}
