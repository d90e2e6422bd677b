// Schema commands: inspect and compose schema files.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/strictframe/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect and compose schema files",
}

func init() {
	schemaCmd.AddCommand(schemaShowCmd)
	schemaCmd.AddCommand(schemaMergeCmd)
}

var schemaShowCmd = &cobra.Command{
	Use:   "show <schemafile>",
	Short: "Print the columns a schema file declares",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := loadSchemaFile(args[0])
		if err != nil {
			return err
		}
		return printSchema(s)
	},
}

var schemaMergeCmd = &cobra.Command{
	Use:   "merge <schemafile> <schemafile>",
	Short: "Compose two schema files and print the union",
	Long: `Merge composes two schema declarations into their union, as produced
for the result of a join. A column declared in both files must carry the
same type in each; otherwise the composition fails naming the conflict.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := loadSchemaFile(args[0])
		if err != nil {
			return err
		}
		b, _, err := loadSchemaFile(args[1])
		if err != nil {
			return err
		}
		merged, err := schema.Merge(a, b)
		if err != nil {
			return err
		}
		return printSchema(merged)
	},
}

// columnListing is one column in --json schema output.
type columnListing struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// printSchema renders declared columns one per line, or as JSON with --json.
func printSchema(s schema.Schema) error {
	if flagJSON {
		listing := make([]columnListing, 0, s.Len())
		for _, c := range s.Columns() {
			listing = append(listing, columnListing{Name: c.Name, Type: c.Type.String(), Nullable: c.Nullable})
		}
		out, err := json.MarshalIndent(listing, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal schema: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	for _, c := range s.Columns() {
		if c.Nullable {
			fmt.Printf("%s\t%s\tnullable\n", c.Name, c.Type)
		} else {
			fmt.Printf("%s\t%s\n", c.Name, c.Type)
		}
	}
	return nil
}
