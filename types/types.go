// Package types models declared column types and resolves them into
// normalized ColumnType descriptors.
//
// A declared type is a root Kind optionally wrapped in modifiers:
//
//	types.Primary(types.AutoIncrement(types.Int))
//	types.Optional(types.String)
//	types.Index(types.Optional(types.String))
//
// Parse unwraps the modifiers and reports unsupported compositions.
package types

import (
	"strconv"
	"strings"
)

// Type is a declared column type: either a root Kind, the Null marker, or a
// Generic modifier wrapping further types.
type Type interface {
	String() string
	isType()
}

// Kind is a primitive, SQL-mappable root type.
type Kind int

const (
	Invalid Kind = iota
	Int
	Float
	String
	Text
	Bool
	Bytes
	Date
	Time
	DateTime
	UUID
	JSON
)

var kindNames = map[Kind]string{
	Invalid:  "invalid",
	Int:      "int",
	Float:    "float",
	String:   "str",
	Text:     "text",
	Bool:     "bool",
	Bytes:    "bytes",
	Date:     "date",
	Time:     "time",
	DateTime: "datetime",
	UUID:     "uuid",
	JSON:     "json",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

func (Kind) isType() {}

type nullType struct{}

func (nullType) String() string { return "null" }
func (nullType) isType()        {}

// Null is the "no value" member of a nullable union.
var Null Type = nullType{}

// Origin identifies the modifier a Generic applies.
type Origin int

const (
	OriginUnion Origin = iota + 1
	OriginAutoIncrement
	OriginIndex
	OriginUnique
	OriginPrimary
	OriginList
	OriginMap
)

var originNames = map[Origin]string{
	OriginUnion:         "union",
	OriginAutoIncrement: "autoincrement",
	OriginIndex:         "index",
	OriginUnique:        "unique",
	OriginPrimary:       "primary",
	OriginList:          "list",
	OriginMap:           "map",
}

func (o Origin) String() string {
	if name, ok := originNames[o]; ok {
		return name
	}
	return "origin(" + strconv.Itoa(int(o)) + ")"
}

// Generic is a modifier applied to one or more type arguments.
type Generic struct {
	Origin Origin
	Args   []Type
}

func (g Generic) String() string {
	args := make([]string, len(g.Args))
	for i, a := range g.Args {
		if a == nil {
			args[i] = "<nil>"
			continue
		}
		args[i] = a.String()
	}
	return g.Origin.String() + "[" + strings.Join(args, ", ") + "]"
}

func (Generic) isType() {}

// Union declares a type that may hold any of its members.
func Union(members ...Type) Type { return Generic{Origin: OriginUnion, Args: members} }

// Optional declares a nullable column of type t.
func Optional(t Type) Type { return Union(t, Null) }

// AutoIncrement declares a column whose value is assigned by the database.
// Only integer roots are accepted by Parse.
func AutoIncrement(t Type) Type { return Generic{Origin: OriginAutoIncrement, Args: []Type{t}} }

// Index declares a column with its own non-unique index.
func Index(t Type) Type { return Generic{Origin: OriginIndex, Args: []Type{t}} }

// Unique declares a column with a uniqueness constraint.
func Unique(t Type) Type { return Generic{Origin: OriginUnique, Args: []Type{t}} }

// Primary declares a primary key column.
func Primary(t Type) Type { return Generic{Origin: OriginPrimary, Args: []Type{t}} }

// List declares a sequence container. Containers are not column types and
// are rejected by Parse.
func List(t Type) Type { return Generic{Origin: OriginList, Args: []Type{t}} }

// Map declares a mapping container, rejected by Parse.
func Map(k, v Type) Type { return Generic{Origin: OriginMap, Args: []Type{k, v}} }
