package schema

import (
	"fmt"

	"github.com/Konsultn-Engineering/aql/ast"
)

// RecordType describes an immutable row shape: an ordered list of named
// fields, some with defaults. Tables bind one as their source, and queries
// synthesize them for partial selections.
type RecordType struct {
	name   string
	fields []string
	index  map[string]int
	defs   []ast.Default
}

// NewRecordType builds a record type with the given field names, none of
// which carry defaults.
func NewRecordType(name string, fields ...string) *RecordType {
	return newRecordType(name, fields, make([]ast.Default, len(fields)))
}

func newRecordType(name string, fields []string, defs []ast.Default) *RecordType {
	rt := &RecordType{
		name:   name,
		fields: fields,
		index:  make(map[string]int, len(fields)),
		defs:   defs,
	}
	for i, f := range fields {
		rt.index[f] = i
	}
	return rt
}

func (rt *RecordType) Name() string     { return rt.name }
func (rt *RecordType) Fields() []string { return rt.fields }

// New instantiates a record from positional values. Missing trailing values
// take their field defaults; a missing value without default is an error.
func (rt *RecordType) New(values ...any) (Record, error) {
	if len(values) > len(rt.fields) {
		return Record{}, fmt.Errorf("%s takes %d values, got %d", rt.name, len(rt.fields), len(values))
	}
	vals := make([]any, len(rt.fields))
	copy(vals, values)
	for i := len(values); i < len(rt.fields); i++ {
		v, ok := rt.defs[i].Value()
		if !ok {
			return Record{}, fmt.Errorf("%s: missing value for %s", rt.name, rt.fields[i])
		}
		vals[i] = v
	}
	return Record{rt: rt, values: vals}, nil
}

// Record is one row of a RecordType.
type Record struct {
	rt     *RecordType
	values []any
}

func (r Record) Type() *RecordType { return r.rt }

// Values returns the field values in declaration order.
func (r Record) Values() []any {
	out := make([]any, len(r.values))
	copy(out, r.values)
	return out
}

// Get returns the value of the named field.
func (r Record) Get(field string) (any, bool) {
	if r.rt == nil {
		return nil, false
	}
	i, ok := r.rt.index[field]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Map returns the record as a field name to value map.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for i, f := range r.rt.fields {
		m[f] = r.values[i]
	}
	return m
}

func (r Record) String() string {
	if r.rt == nil {
		return "<nil record>"
	}
	s := r.rt.name + "("
	for i, f := range r.rt.fields {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%v", f, r.values[i])
	}
	return s + ")"
}
