// Package schemafile loads schema declarations from YAML files.
//
// A schema file declares columns in order, with optional nullability and an
// optional equivalence-table override:
//
//	columns:
//	  - name: id
//	    type: int64
//	  - name: name
//	    type: string
//	    nullable: true
//	equivalence:
//	  - [int32, int64]
package schemafile

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/strictframe/pkg/schema"
)

// columnSpec is one column entry as written in the file.
type columnSpec struct {
	Name     string `mapstructure:"name"`
	Type     string `mapstructure:"type"`
	Nullable bool   `mapstructure:"nullable"`
}

// fileSpec is the full schema file layout.
type fileSpec struct {
	Columns     []columnSpec `mapstructure:"columns"`
	Equivalence [][]string   `mapstructure:"equivalence"`
}

// Load reads a schema declaration from the YAML file at path. The returned
// equivalence table is nil when the file declares none; callers fall back to
// schema.DefaultEquivalence.
func Load(path string) (schema.Schema, schema.Equivalence, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return schema.Schema{}, nil, fmt.Errorf("reading schema file %s: %w", path, err)
	}

	var spec fileSpec
	if err := v.Unmarshal(&spec); err != nil {
		return schema.Schema{}, nil, fmt.Errorf("parsing schema file %s: %w", path, err)
	}

	cols := make([]schema.Column, len(spec.Columns))
	for i, c := range spec.Columns {
		t, err := schema.ParseColType(c.Type)
		if err != nil {
			return schema.Schema{}, nil, fmt.Errorf("%s: column %s: %w: %q", path, c.Name, err, c.Type)
		}
		cols[i] = schema.Column{Name: c.Name, Type: t, Nullable: c.Nullable}
	}
	s, err := schema.New(cols...)
	if err != nil {
		return schema.Schema{}, nil, fmt.Errorf("%s: %w", path, err)
	}

	var eq schema.Equivalence
	for i, class := range spec.Equivalence {
		types := make([]schema.ColType, len(class))
		for j, name := range class {
			t, err := schema.ParseColType(name)
			if err != nil {
				return schema.Schema{}, nil, fmt.Errorf("%s: equivalence class %d: %w: %q", path, i, err, name)
			}
			types[j] = t
		}
		eq = append(eq, types)
	}
	return s, eq, nil
}
