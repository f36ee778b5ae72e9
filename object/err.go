package object

import (
	"errors"

	"github.com/ezrec/qom/translate"
)

var f = translate.From

var (
	// Registry errors
	ErrUnknownType            = errors.New(f("type unknown"))
	ErrDuplicateType          = errors.New(f("type duplicated"))
	ErrInvalidType            = errors.New(f("type invalid"))
	ErrConcurrentRegistration = errors.New(f("registration after resolution"))

	// Resolver errors
	ErrCyclicInheritance = errors.New(f("cyclic inheritance"))

	// Allocator errors
	ErrAbstractType   = errors.New(f("type abstract"))
	ErrAllocation     = errors.New(f("allocation failed"))
	ErrInitialization = errors.New(f("initialization failed"))
	ErrUseAfterFree   = errors.New(f("use after free"))

	// Cast errors
	ErrInvalidCast = errors.New(f("invalid cast"))
)

// ErrType attaches the type name to an error.
type ErrType struct {
	Name string
	Err  error
}

func (err *ErrType) Error() string {
	return f("type %v: %v", err.Name, err.Err)
}

func (err *ErrType) Unwrap() error {
	return err.Err
}

// ErrCast is returned when Target is not an ancestor of Type.
type ErrCast struct {
	Type   string
	Target string
}

func (err *ErrCast) Error() string {
	return f("%v is not a %v", err.Type, err.Target)
}

func (err *ErrCast) Is(target error) bool {
	return target == ErrInvalidCast
}

// ErrInit is returned when an instance initializer of Type fails.
type ErrInit struct {
	Type string
	Err  error
}

func (err *ErrInit) Error() string {
	return f("type %v: %v: %v", err.Type, ErrInitialization, err.Err)
}

func (err *ErrInit) Unwrap() []error {
	return []error{ErrInitialization, err.Err}
}
