// Package errs defines the error taxonomy shared by every aql package.
//
// Errors fall into four categories, each with a sentinel that typed errors
// match through errors.Is:
//
//   - ErrSchema: invalid table or column declarations
//   - ErrBuild: illegal query builder usage
//   - ErrRender: queries that cannot be turned into SQL for a dialect
//   - ErrConnector: engine lookup and location parsing failures
//
// None of these errors are transient; retrying will not help.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Category sentinels.
var (
	ErrSchema    = errors.New("aql: schema error")
	ErrBuild     = errors.New("aql: build error")
	ErrRender    = errors.New("aql: render error")
	ErrConnector = errors.New("aql: connector error")
)

// Specific build failures callers commonly test for.
var (
	ErrNotStarted     = errors.New("aql: query not yet started")
	ErrAlreadyStarted = errors.New("aql: query already started")
	ErrJoinConflict   = errors.New("aql: join predicate conflict")
	ErrUnsafeQuery    = errors.New("aql: unsafe query")
)

// DuplicateColumnError is returned when a table declares two columns with the same name.
type DuplicateColumnError struct {
	Table  string
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("aql: column %s already exists in %s", e.Column, e.Table)
}

func (e *DuplicateColumnError) Is(err error) bool { return err == ErrSchema }

// InvalidColumnTypeError is returned by the type resolver for unsupported
// type compositions.
type InvalidColumnTypeError struct {
	Type   string
	Reason string
}

func (e *InvalidColumnTypeError) Error() string {
	return fmt.Sprintf("aql: invalid column type %s: %s", e.Type, e.Reason)
}

func (e *InvalidColumnTypeError) Is(err error) bool { return err == ErrSchema }

// UnknownColumnError is returned when a column name is not registered on a table.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("aql: no column %s in %s", e.Column, e.Table)
}

func (e *UnknownColumnError) Is(err error) bool { return err == ErrSchema }

// NoSourceError is returned when rows are instantiated from a table without
// a bound record type.
type NoSourceError struct {
	Table string
}

func (e *NoSourceError) Error() string {
	return fmt.Sprintf("aql: no source specified for table %s", e.Table)
}

func (e *NoSourceError) Is(err error) bool { return err == ErrSchema }

// ConstraintError is returned when a table constraint list holds something
// other than columns and indexes.
type ConstraintError struct {
	Table string
	Value any
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("aql: unexpected constraint %T in %s", e.Value, e.Table)
}

func (e *ConstraintError) Is(err error) bool { return err == ErrSchema }

// BuildError reports an illegal builder call. Op names the offending method.
type BuildError struct {
	Op     string
	Msg    string
	Reason error
}

// NewBuildError returns a BuildError for the given method.
func NewBuildError(op, format string, args ...any) *BuildError {
	return &BuildError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (e *BuildError) Error() string {
	if e.Op == "" {
		return "aql: " + e.Msg
	}
	return fmt.Sprintf("aql: %s: %s", e.Op, e.Msg)
}

func (e *BuildError) Is(err error) bool {
	return err == ErrBuild || (e.Reason != nil && err == e.Reason)
}

func (e *BuildError) Unwrap() error { return e.Reason }

// UnsafeQueryError is returned when an update or delete would touch every row
// without the caller having asked for it.
type UnsafeQueryError struct {
	Action string
	Table  string
}

func (e *UnsafeQueryError) Error() string {
	return fmt.Sprintf("aql: unsafe %s on %s without where, limit or everything()", e.Action, e.Table)
}

func (e *UnsafeQueryError) Is(err error) bool {
	return err == ErrRender || err == ErrUnsafeQuery
}

// UnsupportedError is returned when a renderer meets a node or option it
// cannot express, e.g. an unknown clause kind, join style or column type.
type UnsupportedError struct {
	Kind  string
	Value any
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("aql: unsupported %s: %v", e.Kind, e.Value)
}

func (e *UnsupportedError) Is(err error) bool { return err == ErrRender }

// UnknownEngineError is returned when no dialect or connector is registered
// under a name.
type UnknownEngineError struct {
	Name  string
	Known []string
}

func (e *UnknownEngineError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("aql: engine %q not registered", e.Name)
	}
	return fmt.Sprintf("aql: engine %q not registered (have %s)", e.Name, strings.Join(e.Known, ", "))
}

func (e *UnknownEngineError) Is(err error) bool { return err == ErrConnector }

// LocationError is returned for malformed connection URIs.
type LocationError struct {
	Location string
	Reason   string
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("aql: malformed location %q: %s", e.Location, e.Reason)
}

func (e *LocationError) Is(err error) bool { return err == ErrConnector }
