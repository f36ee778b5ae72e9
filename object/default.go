package object

import (
	"iter"
)

// Default is the process wide registry. Types register into it from init().
var Default = NewRegistry()

// Register adds a type to the Default registry.
func Register(info *TypeInfo) error {
	return Default.Register(info)
}

// MustRegister adds a type to the Default registry, and panics on failure.
// It is meant for init() functions, where a failure is a programming error.
func MustRegister(info *TypeInfo) {
	err := Default.Register(info)
	if err != nil {
		panic(err)
	}
}

// Lookup a descriptor in the Default registry.
func Lookup(name string) (TypeInfo, error) {
	return Default.Lookup(name)
}

// Resolve a type in the Default registry.
func Resolve(name string) (*Type, error) {
	return Default.Resolve(name)
}

// New creates an instance of a type from the Default registry.
func New(name string) (*Object, error) {
	return Default.New(name)
}

// ClassByName returns the class of a type from the Default registry.
func ClassByName(name string) (*Class, error) {
	return Default.ClassByName(name)
}

// Types iterates over types of the Default registry.
func Types(implements string, includeAbstract bool) iter.Seq[*Type] {
	return Default.Types(implements, includeAbstract)
}
