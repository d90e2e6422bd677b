package schema

// Table is the read-only view the validator needs from a tabular object:
// the ordered set of column names and each column's observed element type.
// Arrow records, SQLite tables, and anything else columnar can adapt to it.
type Table interface {
	// ColumnNames returns the table's column names in table order.
	ColumnNames() []string

	// ColumnType returns the observed element type of the named column.
	ColumnType(name string) (ColType, bool)
}

// Equivalence declares classes of concrete encodings that are accepted for
// one another during validation. Membership in a shared class is symmetric;
// types in different classes are not interchangeable.
type Equivalence [][]ColType

// DefaultEquivalence is the equivalence table used when none is supplied.
// The classes are deliberately narrow: widening within a kind and sign
// (Int32 for Int64, Uint32 for Uint64, Float32 for Float64) plus day- versus
// instant-precision time encodings. Signed and unsigned integers are never
// interchangeable, and nothing bridges integer and float kinds; declare the
// width-agnostic Integer or Float tag to accept a whole kind.
var DefaultEquivalence = Equivalence{
	{Int32, Int64},
	{Uint32, Uint64},
	{Float32, Float64},
	{Date, Timestamp},
}

// interchangeable reports whether a and b share an equivalence class.
func (e Equivalence) interchangeable(a, b ColType) bool {
	for _, class := range e {
		var hasA, hasB bool
		for _, t := range class {
			if t == a {
				hasA = true
			}
			if t == b {
				hasB = true
			}
		}
		if hasA && hasB {
			return true
		}
	}
	return false
}

// Compatible reports whether an observed element type satisfies a declared
// one under the given equivalence table: exact match, declared wildcard or
// kind tag, or shared equivalence class.
func Compatible(declared, observed ColType, eq Equivalence) bool {
	switch {
	case declared == Any:
		return true
	case declared == observed:
		return true
	case declared == Integer && observed.isIntegerKind():
		return true
	case declared == Float && observed.isFloatKind():
		return true
	}
	return eq.interchangeable(declared, observed)
}

// Validate checks the table against the declared schema using the default
// equivalence table. It is a pure scan over column metadata; nothing is
// mutated and the table's data is never read.
//
// The column set is checked first: any missing or extra columns fail with
// ColumnMismatchError listing both sets, and no type checks run. Otherwise
// every declared column's observed type is checked and all incompatible
// columns are reported together in one TypeMismatchError. Returns nil when
// the table conforms.
func Validate(s Schema, t Table) error {
	return ValidateWith(s, t, DefaultEquivalence)
}

// ValidateWith is Validate with a caller-supplied equivalence table.
func ValidateWith(s Schema, t Table, eq Equivalence) error {
	names := t.ColumnNames()
	present := make(map[string]bool, len(names))
	var extra []string
	for _, n := range names {
		present[n] = true
		if _, ok := s.index[n]; !ok {
			extra = append(extra, n)
		}
	}
	var missing []string
	for _, c := range s.columns {
		if !present[c.Name] {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		return &ColumnMismatchError{Missing: missing, Extra: extra}
	}

	var mismatches []TypeMismatch
	for _, c := range s.columns {
		observed, ok := t.ColumnType(c.Name)
		if !ok {
			// Presence was established above; a table that cannot type a
			// present column is reporting inconsistent metadata.
			mismatches = append(mismatches, TypeMismatch{Column: c.Name, Expected: c.Type})
			continue
		}
		if !Compatible(c.Type, observed, eq) {
			mismatches = append(mismatches, TypeMismatch{
				Column:   c.Name,
				Expected: c.Type,
				Observed: observed,
			})
		}
	}
	if len(mismatches) > 0 {
		return &TypeMismatchError{Mismatches: mismatches}
	}
	return nil
}
