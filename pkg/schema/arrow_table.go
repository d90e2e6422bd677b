package schema

import "github.com/apache/arrow-go/v18/arrow"

// arrowTable adapts an Arrow schema to the Table view.
type arrowTable struct {
	s *arrow.Schema
}

// ArrowTable wraps an Arrow schema so it can be validated against a declared
// Schema. Fields whose Arrow types this layer does not type report no
// observed ColType and therefore fail the type check.
func ArrowTable(s *arrow.Schema) Table {
	return arrowTable{s: s}
}

func (a arrowTable) ColumnNames() []string {
	names := make([]string, a.s.NumFields())
	for i := 0; i < a.s.NumFields(); i++ {
		names[i] = a.s.Field(i).Name
	}
	return names
}

func (a arrowTable) ColumnType(name string) (ColType, bool) {
	indices := a.s.FieldIndices(name)
	if len(indices) == 0 {
		return "", false
	}
	return FromArrow(a.s.Field(indices[0]).Type)
}
