package seeder

import (
	"errors"
	"fmt"
)

// Seeding failures. Execute always returns them wrapped in an *Error.
var (
	ErrNoEntities        = errors.New("no entities to seed")
	ErrInvalidCount      = errors.New("count must not be negative")
	ErrUnknownField      = errors.New("unknown field")
	ErrUnresolvableField = errors.New("no value for field")
	ErrMissingRelation   = errors.New("no instance of related entity")
	ErrDescriptor        = errors.New("cannot describe entity")
	ErrDuplicateOverride = errors.New("field overridden more than once")
	ErrUniqueExhausted   = errors.New("no unused value for unique field")
)

// Error reports which entity, and optionally field, a seeding run failed on.
type Error struct {
	Entity string
	Field  string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Entity == "":
		return fmt.Sprintf("seed: %v", e.Err)
	case e.Field == "":
		return fmt.Sprintf("seed %s: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("seed %s.%s: %v", e.Entity, e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsSeedError reports whether err came out of a seeding run.
func IsSeedError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
