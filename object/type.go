package object

import (
	"log"
	"maps"
	"slices"
	"sync"
)

// Type is a type linked to its ancestors, with the layout of its instance and
// class state computed. It is created once per name by Registry.Resolve.
type Type struct {
	registry *Registry
	info     *TypeInfo
	parent   *Type

	lineage   []*Type  // Root to self.
	ancestors []string // Root to self.

	instanceOffset int // Start of this type's instance segment.
	instanceSize   int // Cumulative instance size.
	classOffset    int // Start of this type's class segment.
	classSize      int // Cumulative class size.

	classOnce  sync.Once
	class      *Class
	classError error
}

func newType(reg *Registry, info *TypeInfo, parent *Type) (typ *Type) {
	typ = &Type{
		registry: reg,
		info:     info,
		parent:   parent,
	}

	if parent != nil {
		typ.lineage = slices.Clone(parent.lineage)
		typ.ancestors = slices.Clone(parent.ancestors)
		typ.instanceOffset = parent.instanceSize
		typ.classOffset = parent.classSize
	}

	typ.lineage = append(typ.lineage, typ)
	typ.ancestors = append(typ.ancestors, info.Name)
	typ.instanceSize = typ.instanceOffset + info.InstanceSize
	typ.classSize = typ.classOffset + info.ClassSize

	return
}

// Name of the type.
func (typ *Type) Name() string {
	return typ.info.Name
}

// String returns the name of the type.
func (typ *Type) String() string {
	return typ.info.Name
}

// Info returns a copy of the registered descriptor.
func (typ *Type) Info() TypeInfo {
	return *typ.info
}

// Parent returns the resolved parent, or nil for a root type.
func (typ *Type) Parent() *Type {
	return typ.parent
}

// IsAbstract reports whether the type can not be instantiated.
func (typ *Type) IsAbstract() bool {
	return typ.info.Abstract
}

// Depth is the number of ancestors, the type itself excluded.
func (typ *Type) Depth() int {
	return len(typ.lineage) - 1
}

// Ancestors returns the type names from the root to this type.
func (typ *Type) Ancestors() []string {
	return slices.Clone(typ.ancestors)
}

// InstanceSize is the size of an instance, ancestors included.
func (typ *Type) InstanceSize() int {
	return typ.instanceSize
}

// InstanceOffset is where this type's own instance state starts.
func (typ *Type) InstanceOffset() int {
	return typ.instanceOffset
}

// ClassSize is the size of the class state, ancestors included.
func (typ *Type) ClassSize() int {
	return typ.classSize
}

// ClassOffset is where this type's own class state starts.
func (typ *Type) ClassOffset() int {
	return typ.classOffset
}

// ancestor returns the named type from the lineage, or nil.
func (typ *Type) ancestor(name string) *Type {
	for here := typ; here != nil; here = here.parent {
		if here.info.Name == name {
			return here
		}
	}

	return nil
}

// IsA reports whether name is this type or one of its ancestors.
func (typ *Type) IsA(name string) bool {
	return typ.ancestor(name) != nil
}

// Class returns the class of the type. It is built on first use; racing
// callers wait for the one build and all see the same class.
func (typ *Type) Class() (class *Class, err error) {
	typ.classOnce.Do(func() {
		typ.class, typ.classError = typ.newClass()
	})

	return typ.class, typ.classError
}

func (typ *Type) newClass() (class *Class, err error) {
	if typ.classSize > CLASS_SIZE_LIMIT {
		err = &ErrType{Name: typ.Name(), Err: ErrAllocation}
		return
	}

	class = &Class{
		typ:     typ,
		state:   make([]byte, typ.classSize),
		methods: map[string]any{},
	}

	if typ.parent != nil {
		var parent *Class
		parent, err = typ.parent.Class()
		if err != nil {
			class = nil
			return
		}
		copy(class.state, parent.state)
		maps.Copy(class.methods, parent.methods)
	}

	if typ.registry.Verbose {
		log.Printf("object: class %v", typ.Name())
	}

	if typ.info.ClassInit != nil {
		typ.info.ClassInit(class, typ.info.ClassData)
	}

	return
}
