package types

import (
	"github.com/Konsultn-Engineering/aql/errs"
)

// Constraint is the table-level constraint a column declares on itself.
type Constraint int

const (
	NoConstraint Constraint = iota
	IndexConstraint
	UniqueConstraint
	PrimaryConstraint
)

func (c Constraint) String() string {
	switch c {
	case IndexConstraint:
		return "index"
	case UniqueConstraint:
		return "unique"
	case PrimaryConstraint:
		return "primary"
	default:
		return "none"
	}
}

// Prefix is used when auto-naming indexes of this kind.
func (c Constraint) Prefix() string {
	switch c {
	case UniqueConstraint:
		return "unq"
	case PrimaryConstraint:
		return "pri"
	default:
		return "idx"
	}
}

// ColumnType is the normalized descriptor of a declared column type.
// It is comparable, so two descriptors are equal when their fields are.
type ColumnType struct {
	Root          Kind
	Nullable      bool
	AutoIncrement bool
	Constraint    Constraint
}

// Type rebuilds a declared type equivalent to the descriptor. Parsing the
// result yields the same descriptor.
func (ct ColumnType) Type() Type {
	var t Type = ct.Root
	if ct.AutoIncrement {
		t = AutoIncrement(t)
	}
	if ct.Nullable {
		t = Optional(t)
	}
	switch ct.Constraint {
	case IndexConstraint:
		t = Index(t)
	case UniqueConstraint:
		t = Unique(t)
	case PrimaryConstraint:
		t = Primary(t)
	}
	return t
}

func (ct ColumnType) String() string { return ct.Type().String() }

var constraintOrigins = map[Origin]Constraint{
	OriginIndex:   IndexConstraint,
	OriginUnique:  UniqueConstraint,
	OriginPrimary: PrimaryConstraint,
}

// Parse resolves a declared type into a ColumnType. It unwraps modifiers
// from the outside in, accumulating flags, until it reaches a root Kind.
func Parse(declared Type) (ColumnType, error) {
	var ct ColumnType
	t := declared

	for {
		g, ok := t.(Generic)
		if !ok {
			break
		}

		args := make([]Type, 0, len(g.Args))
		switch g.Origin {
		case OriginUnion:
			for _, a := range g.Args {
				if _, null := a.(nullType); null {
					ct.Nullable = true
					continue
				}
				args = append(args, a)
			}
		case OriginAutoIncrement:
			ct.AutoIncrement = true
			args = append(args, g.Args...)
		case OriginIndex, OriginUnique, OriginPrimary:
			if ct.Constraint != NoConstraint {
				return ColumnType{}, invalid(declared, "unsupported double constraint")
			}
			ct.Constraint = constraintOrigins[g.Origin]
			args = append(args, g.Args...)
		default:
			return ColumnType{}, invalid(declared, "unsupported type origin "+g.Origin.String())
		}

		if len(args) > 1 {
			return ColumnType{}, invalid(declared, "unsupported union of "+Generic{Origin: OriginUnion, Args: args}.String())
		}
		if len(args) == 0 {
			return ColumnType{}, invalid(declared, g.Origin.String()+" has no type argument")
		}
		t = args[0]
	}

	root, ok := t.(Kind)
	if !ok || root == Invalid {
		return ColumnType{}, invalid(declared, "missing root type")
	}
	ct.Root = root

	if ct.AutoIncrement && ct.Root != Int {
		return ColumnType{}, invalid(declared, "autoincrement not supported with "+ct.Root.String())
	}
	return ct, nil
}

// MustParse is like Parse but panics on error. Intended for package-level
// schema declarations.
func MustParse(declared Type) ColumnType {
	ct, err := Parse(declared)
	if err != nil {
		panic(err)
	}
	return ct
}

func invalid(t Type, reason string) error {
	name := "<nil>"
	if t != nil {
		name = t.String()
	}
	return &errs.InvalidColumnTypeError{Type: name, Reason: reason}
}
