package sqliteio

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/mesh-intelligence/strictframe/pkg/schema"
)

// openSeeded creates a fresh database with a people table and three rows.
func openSeeded(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ddl := `CREATE TABLE people (
    id INTEGER NOT NULL,
    name TEXT NOT NULL,
    score REAL
);`
	if _, err := db.Exec(ddl); err != nil {
		t.Fatalf("create table: %v", err)
	}
	seed := `INSERT INTO people (id, name, score) VALUES
    (1, 'ann', 0.5), (2, 'bob', NULL), (3, 'cat', 0.9);`
	if _, err := db.Exec(seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

var peopleSchema = schema.MustNew(
	schema.Column{Name: "id", Type: schema.Int64},
	schema.Column{Name: "name", Type: schema.String},
	schema.Column{Name: "score", Type: schema.Float64, Nullable: true},
)

func TestTableColumns(t *testing.T) {
	db := openSeeded(t)

	cols, err := TableColumns(db, "people")
	if err != nil {
		t.Fatalf("TableColumns: %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("len = %d, want 3", len(cols))
	}
	want := []struct {
		name string
		typ  schema.ColType
	}{
		{"id", schema.Int64},
		{"name", schema.String},
		{"score", schema.Float64},
	}
	for i, w := range want {
		if cols[i].Name != w.name || cols[i].Type != w.typ {
			t.Errorf("cols[%d] = %s %s, want %s %s", i, cols[i].Name, cols[i].Type, w.name, w.typ)
		}
	}
	if !cols[0].NotNull {
		t.Error("id not marked NOT NULL")
	}
}

func TestTableColumnsUnknownTable(t *testing.T) {
	db := openSeeded(t)
	if _, err := TableColumns(db, "ghosts"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("TableColumns(ghosts) = %v, want ErrTableNotFound", err)
	}
}

func TestValidateAgainstDeclaredColumns(t *testing.T) {
	db := openSeeded(t)

	view, err := Table(db, "people")
	if err != nil {
		t.Fatalf("Table: %v", err)
	}
	if err := schema.Validate(peopleSchema, view); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}

	wrong := schema.MustNew(
		schema.Column{Name: "id", Type: schema.Int64},
		schema.Column{Name: "name", Type: schema.Bool},
		schema.Column{Name: "score", Type: schema.Float64},
	)
	if err := schema.Validate(wrong, view); !errors.Is(err, schema.ErrTypeMismatch) {
		t.Errorf("Validate wrong schema = %v, want ErrTypeMismatch", err)
	}

	partial := schema.MustNew(schema.Column{Name: "id", Type: schema.Int64})
	if err := schema.Validate(partial, view); !errors.Is(err, schema.ErrColumnMismatch) {
		t.Errorf("Validate partial schema = %v, want ErrColumnMismatch", err)
	}
}

func TestLoadTable(t *testing.T) {
	db := openSeeded(t)

	rec, err := LoadTable(db, "people", peopleSchema)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	defer rec.Release()

	if rec.NumRows() != 3 {
		t.Fatalf("NumRows = %d, want 3", rec.NumRows())
	}
	ids := rec.Column(0).(*array.Int64)
	names := rec.Column(1).(*array.String)
	scores := rec.Column(2).(*array.Float64)
	if ids.Value(0) != 1 || names.Value(0) != "ann" || scores.Value(0) != 0.5 {
		t.Errorf("row 0 = (%d, %s, %v), want (1, ann, 0.5)",
			ids.Value(0), names.Value(0), scores.Value(0))
	}
	if !scores.IsNull(1) {
		t.Error("score[1] not null, want null carried over")
	}
}

func TestLoadTableNullInNonNullableColumn(t *testing.T) {
	db := openSeeded(t)
	if _, err := db.Exec(`CREATE TABLE loose (id INTEGER, name TEXT);
INSERT INTO loose VALUES (1, NULL);`); err != nil {
		t.Fatalf("create loose: %v", err)
	}
	strict := schema.MustNew(
		schema.Column{Name: "id", Type: schema.Int64},
		schema.Column{Name: "name", Type: schema.String},
	)
	if _, err := LoadTable(db, "loose", strict); !errors.Is(err, ErrNullInColumn) {
		t.Errorf("LoadTable = %v, want ErrNullInColumn", err)
	}
}

func TestLoadTableRejectsOutOfRangeIntegers(t *testing.T) {
	db := openSeeded(t)
	if _, err := db.Exec(`CREATE TABLE readings (level INTEGER NOT NULL);
INSERT INTO readings VALUES (300);`); err != nil {
		t.Fatalf("create readings: %v", err)
	}

	tests := []struct {
		name string
		typ  schema.ColType
	}{
		{"int8 overflow", schema.Int8},
		{"uint8 overflow", schema.Uint8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := schema.MustNew(schema.Column{Name: "level", Type: tt.typ})
			_, err := LoadTable(db, "readings", s)
			if err == nil {
				t.Fatal("LoadTable accepted 300 into a one-byte column")
			}
			if !strings.Contains(err.Error(), "300") || !strings.Contains(err.Error(), "level") {
				t.Errorf("error %q does not name the column and value", err)
			}
		})
	}

	// Negative values never fit unsigned columns, at any width.
	if _, err := db.Exec(`CREATE TABLE deltas (d INTEGER NOT NULL);
INSERT INTO deltas VALUES (-1);`); err != nil {
		t.Fatalf("create deltas: %v", err)
	}
	s := schema.MustNew(schema.Column{Name: "d", Type: schema.Uint64})
	if _, err := LoadTable(db, "deltas", s); err == nil {
		t.Error("LoadTable accepted -1 into a uint64 column")
	}

	// Values inside the declared range still load.
	inRange := schema.MustNew(schema.Column{Name: "level", Type: schema.Int16})
	rec, err := LoadTable(db, "readings", inRange)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	defer rec.Release()
	if got := rec.Column(0).(*array.Int16).Value(0); got != 300 {
		t.Errorf("level = %d, want 300", got)
	}
}

func TestLoadTableTimestamps(t *testing.T) {
	db := openSeeded(t)
	if _, err := db.Exec(`CREATE TABLE events (at TIMESTAMP NOT NULL);
INSERT INTO events VALUES ('2026-01-02T15:04:05Z'), ('2026-01-03 10:00:00');`); err != nil {
		t.Fatalf("create events: %v", err)
	}
	s := schema.MustNew(schema.Column{Name: "at", Type: schema.Timestamp})

	rec, err := LoadTable(db, "events", s)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	defer rec.Release()
	if rec.NumRows() != 2 {
		t.Errorf("NumRows = %d, want 2", rec.NumRows())
	}
}

func TestColTypeFromDecl(t *testing.T) {
	tests := []struct {
		decl string
		want schema.ColType
	}{
		{"INTEGER", schema.Int64},
		{"int", schema.Int64},
		{"BIGINT", schema.Int64},
		{"TEXT", schema.String},
		{"VARCHAR(40)", schema.String},
		{"REAL", schema.Float64},
		{"DOUBLE", schema.Float64},
		{"BLOB", schema.Binary},
		{"BOOLEAN", schema.Bool},
		{"DATETIME", schema.Timestamp},
		{"TIMESTAMP", schema.Timestamp},
		{"DATE", schema.Date},
	}
	for _, tt := range tests {
		got, ok := colTypeFromDecl(tt.decl)
		if !ok || got != tt.want {
			t.Errorf("colTypeFromDecl(%q) = %s %v, want %s", tt.decl, got, ok, tt.want)
		}
	}
	if _, ok := colTypeFromDecl("NUMERIC"); ok {
		t.Error("colTypeFromDecl(NUMERIC) mapped, want unmappable")
	}
}
