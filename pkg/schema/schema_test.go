package schema

import (
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
		wantErr error
	}{
		{"valid two columns", []Column{{Name: "id", Type: Int64}, {Name: "name", Type: String}}, nil},
		{"empty schema", nil, ErrEmptySchema},
		{"empty column name", []Column{{Name: "", Type: Int64}}, ErrEmptyColumnName},
		{"duplicate name", []Column{{Name: "id", Type: Int64}, {Name: "id", Type: String}}, ErrDuplicateColumn},
		{"unknown type", []Column{{Name: "id", Type: "varchar"}}, ErrUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.columns...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && s.Len() != len(tt.columns) {
				t.Errorf("Len = %d, want %d", s.Len(), len(tt.columns))
			}
		})
	}
}

func TestSchemaPreservesOrder(t *testing.T) {
	s := MustNew(
		Column{Name: "c", Type: Bool},
		Column{Name: "a", Type: Int64},
		Column{Name: "b", Type: String},
	)
	want := []string{"c", "a", "b"}
	got := s.Names()
	if len(got) != len(want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSchemaLookup(t *testing.T) {
	s := MustNew(Column{Name: "id", Type: Int64, Nullable: true})

	col, ok := s.Lookup("id")
	if !ok {
		t.Fatal("Lookup(id) not found")
	}
	if col.Type != Int64 || !col.Nullable {
		t.Errorf("Lookup(id) = %+v, want Int64 nullable", col)
	}

	if _, ok := s.Lookup("missing"); ok {
		t.Error("Lookup(missing) found, want not found")
	}
}

func TestSchemaColumnsIsCopy(t *testing.T) {
	s := MustNew(Column{Name: "id", Type: Int64})
	cols := s.Columns()
	cols[0].Name = "mutated"
	if got, _ := s.Lookup("id"); got.Name != "id" {
		t.Error("mutating Columns() result changed the schema")
	}
}

func TestSchemaString(t *testing.T) {
	s := MustNew(Column{Name: "id", Type: Int64}, Column{Name: "name", Type: String})
	want := "{id: int64, name: string}"
	if got := s.String(); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestSchemaToArrow(t *testing.T) {
	s := MustNew(
		Column{Name: "id", Type: Int64},
		Column{Name: "score", Type: Float64, Nullable: true},
		Column{Name: "name", Type: String},
	)
	as, err := s.ToArrow()
	if err != nil {
		t.Fatalf("ToArrow: %v", err)
	}
	if as.NumFields() != 3 {
		t.Fatalf("NumFields = %d, want 3", as.NumFields())
	}
	if as.Field(0).Type.ID() != arrow.INT64 {
		t.Errorf("field 0 type = %s, want int64", as.Field(0).Type)
	}
	if !as.Field(1).Nullable {
		t.Error("field 1 not nullable")
	}
	if as.Field(2).Type.ID() != arrow.STRING {
		t.Errorf("field 2 type = %s, want string", as.Field(2).Type)
	}
}

func TestSchemaToArrowRejectsAny(t *testing.T) {
	s := MustNew(Column{Name: "blob", Type: Any})
	if _, err := s.ToArrow(); !errors.Is(err, ErrUnknownType) {
		t.Errorf("ToArrow error = %v, want ErrUnknownType", err)
	}
}

func TestFromArrowSchema(t *testing.T) {
	as := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "when", Type: arrow.FixedWidthTypes.Timestamp_us},
	}, nil)

	s, err := FromArrowSchema(as)
	if err != nil {
		t.Fatalf("FromArrowSchema: %v", err)
	}
	wantTypes := map[string]ColType{"id": Int64, "name": String, "when": Timestamp}
	for name, want := range wantTypes {
		col, ok := s.Lookup(name)
		if !ok {
			t.Fatalf("column %s missing", name)
		}
		if col.Type != want {
			t.Errorf("column %s type = %s, want %s", name, col.Type, want)
		}
	}
}

func TestFromArrowSchemaUnsupportedField(t *testing.T) {
	as := arrow.NewSchema([]arrow.Field{
		{Name: "tags", Type: arrow.ListOf(arrow.BinaryTypes.String)},
	}, nil)
	if _, err := FromArrowSchema(as); !errors.Is(err, ErrUnknownType) {
		t.Errorf("FromArrowSchema error = %v, want ErrUnknownType", err)
	}
}
