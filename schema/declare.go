package schema

import (
	"fmt"

	"github.com/Konsultn-Engineering/aql/ast"
	"github.com/Konsultn-Engineering/aql/errs"
	"github.com/Konsultn-Engineering/aql/types"
)

// Field describes one field of a declared record: its name, declared
// column type and optional default and ID generator.
type Field struct {
	Name      string
	Type      types.Type
	Default   ast.Default
	Generator IDGenerator
	// GeneratorName is looked up in the generator registry when Generator
	// is nil.
	GeneratorName string
}

// F is shorthand for a Field without default.
func F(name string, t types.Type) Field {
	return Field{Name: name, Type: t}
}

// WithDefault returns a copy of the field with a default value.
func (f Field) WithDefault(v any) Field {
	f.Default = ast.DefaultValue(v)
	return f
}

// GeneratedBy returns a copy of the field whose Auto insert cells are
// filled by g.
func (f Field) GeneratedBy(g IDGenerator) Field {
	f.Generator = g
	return f
}

// GeneratedByName is like GeneratedBy with the generator registered under
// name, "uuid" or "ulid" unless others were added.
func (f Field) GeneratedByName(name string) Field {
	f.GeneratorName = name
	return f
}

type declareConfig struct {
	naming     NamingStrategy
	indexes    []Index
	generators *GeneratorRegistry
}

type DeclareOption func(*declareConfig)

// WithNamingStrategy sets how record and field names become table and column names.
func WithNamingStrategy(strategy NamingStrategy) DeclareOption {
	return func(c *declareConfig) { c.naming = strategy }
}

// WithIndexes adds table-level indexes.
func WithIndexes(indexes ...Index) DeclareOption {
	return func(c *declareConfig) { c.indexes = append(c.indexes, indexes...) }
}

// WithGenerators resolves generator names against r instead of the default
// registry.
func WithGenerators(r *GeneratorRegistry) DeclareOption {
	return func(c *declareConfig) { c.generators = r }
}

// Declare builds a table named name whose columns are owned by it and
// whose source record type has one field per column, in order. Names are
// used verbatim unless a naming strategy is given.
func Declare(name string, fields []Field, opts ...DeclareOption) (*Table, error) {
	cfg := declareConfig{naming: VerbatimNamingStrategy(), generators: defaultGenerators}
	for _, opt := range opts {
		opt(&cfg)
	}
	return declare(cfg.naming.TableName(name), name, fields, cfg)
}

// DeclareRecord is like Declare but derives the table name from the record
// name with the default naming strategy: BlogPost becomes blog_posts and
// field CreatedAt becomes column created_at.
func DeclareRecord(record string, fields []Field, opts ...DeclareOption) (*Table, error) {
	cfg := declareConfig{naming: DefaultNamingStrategy(), generators: defaultGenerators}
	for _, opt := range opts {
		opt(&cfg)
	}
	return declare(cfg.naming.TableName(record), record, fields, cfg)
}

func declare(table, record string, fields []Field, cfg declareConfig) (*Table, error) {
	cons := make([]any, 0, len(fields)+len(cfg.indexes))
	names := make([]string, len(fields))
	defs := make([]ast.Default, len(fields))

	for i, f := range fields {
		name := cfg.naming.ColumnName(f.Name)
		opts := []ast.ColumnOption{ast.InTable(table)}
		if v, ok := f.Default.Value(); ok {
			opts = append(opts, ast.WithDefault(v))
		}
		gen := f.Generator
		if gen == nil && f.GeneratorName != "" {
			var ok bool
			if gen, ok = cfg.generators.Get(f.GeneratorName); !ok {
				return nil, fmt.Errorf("%w: field %s: unknown generator %q", errs.ErrSchema, f.Name, f.GeneratorName)
			}
		}
		if gen != nil {
			opts = append(opts, ast.WithGenerator(gen))
		}
		cons = append(cons, ast.NewColumn(name, f.Type, opts...))
		names[i] = name
		defs[i] = f.Default
	}
	for _, idx := range cfg.indexes {
		cons = append(cons, idx)
	}

	t, err := NewTable(table, cons...)
	if err != nil {
		return nil, err
	}
	t.source = newRecordType(record, names, defs)
	return t, nil
}
