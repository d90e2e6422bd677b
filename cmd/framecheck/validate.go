// Validate command: check a CSV file or SQLite table against a schema file.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/strictframe/internal/csvio"
	"github.com/mesh-intelligence/strictframe/internal/schemafile"
	"github.com/mesh-intelligence/strictframe/internal/sqliteio"
	"github.com/mesh-intelligence/strictframe/pkg/schema"
)

// Validate command flags.
var (
	flagSchemaFile string
	flagDB         string
	flagTable      string
)

var validateCmd = &cobra.Command{
	Use:   "validate [file.csv]",
	Short: "Validate a tabular input against a schema file",
	Long: `Validate checks that the input carries exactly the columns the schema
file declares, with compatible element types. The input is either a CSV file
(column types inferred from the data) or a SQLite table (declared column
types, no row data read).

Example:
  framecheck validate trips.csv --schema trips.yaml
  framecheck validate --db app.db --table trips --schema trips.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&flagSchemaFile, "schema", "", "schema file to validate against (required)")
	validateCmd.Flags().StringVar(&flagDB, "db", "", "SQLite database path")
	validateCmd.Flags().StringVar(&flagTable, "table", "", "table name within --db")
	validateCmd.MarkFlagRequired("schema")
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, fileEq, err := loadSchemaFile(flagSchemaFile)
	if err != nil {
		return err
	}
	eq := effectiveEquivalence(fileEq)

	var (
		target string
		verr   error
	)
	switch {
	case flagDB != "":
		if flagTable == "" {
			return fmt.Errorf("--db requires --table")
		}
		if len(args) != 0 {
			return fmt.Errorf("cannot combine a file argument with --db")
		}
		db, err := sqliteio.Open(flagDB)
		if err != nil {
			return sysExit(err)
		}
		defer db.Close()
		view, err := sqliteio.Table(db, flagTable)
		if err != nil {
			if errors.Is(err, sqliteio.ErrTableNotFound) {
				return fmt.Errorf("inspect table: %w", err)
			}
			return sysExit(fmt.Errorf("inspect table: %w", err))
		}
		target = fmt.Sprintf("%s:%s", flagDB, flagTable)
		verr = schema.ValidateWith(s, view, eq)
	case len(args) == 1:
		rec, err := csvio.ReadFileInferred(args[0])
		if err != nil {
			return sysExit(fmt.Errorf("read csv: %w", err))
		}
		defer rec.Release()
		target = args[0]
		verr = schema.ValidateWith(s, schema.ArrowTable(rec.Schema()), eq)
	default:
		return fmt.Errorf("give a CSV file argument or --db with --table")
	}

	if flagJSON {
		if err := printReport(s, target, verr); err != nil {
			return sysExit(err)
		}
		if verr != nil {
			return quietExit(exitUserError)
		}
		return nil
	}

	if verr != nil {
		return fmt.Errorf("%s does not conform to %s: %w", target, flagSchemaFile, verr)
	}
	fmt.Printf("%s: OK (%d columns)\n", target, s.Len())
	return nil
}

// loadSchemaFile loads a schema declaration, trying the path as given and
// then relative to the resolved schema directory.
func loadSchemaFile(path string) (schema.Schema, schema.Equivalence, error) {
	if _, err := os.Stat(path); err == nil {
		return schemafile.Load(path)
	}
	dir, err := resolveSchemaDir()
	if err != nil {
		return schema.Schema{}, nil, err
	}
	resolved := filepath.Join(dir, path)
	if _, err := os.Stat(resolved); err != nil {
		return schema.Schema{}, nil, fmt.Errorf("schema file %s not found (also tried %s)", path, resolved)
	}
	return schemafile.Load(resolved)
}

// validationReport is the --json output of a validation run.
type validationReport struct {
	ReportID   string                `json:"report_id"`
	CheckedAt  time.Time             `json:"checked_at"`
	Schema     string                `json:"schema"`
	Target     string                `json:"target"`
	Valid      bool                  `json:"valid"`
	Missing    []string              `json:"missing_columns,omitempty"`
	Extra      []string              `json:"extra_columns,omitempty"`
	Mismatches []schema.TypeMismatch `json:"type_mismatches,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// printReport renders the validation outcome as an indented JSON report.
func printReport(s schema.Schema, target string, verr error) error {
	r := validationReport{
		ReportID:  uuid.Must(uuid.NewV7()).String(),
		CheckedAt: time.Now().UTC(),
		Schema:    flagSchemaFile,
		Target:    target,
		Valid:     verr == nil,
	}
	if verr != nil {
		r.Error = verr.Error()
		var cm *schema.ColumnMismatchError
		if errors.As(verr, &cm) {
			r.Missing = cm.Missing
			r.Extra = cm.Extra
		}
		var tm *schema.TypeMismatchError
		if errors.As(verr, &tm) {
			r.Mismatches = tm.Mismatches
		}
	}
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
