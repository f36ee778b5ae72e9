package object

import (
	"iter"
	"log"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ezrec/qom/internal"
)

const (
	TYPE_OBJECT = "object" // Root of the device hierarchy.

	INSTANCE_SIZE_LIMIT = 16 << 20 // Largest instance state, in bytes.
	CLASS_SIZE_LIMIT    = 1 << 20  // Largest class state, in bytes.
)

// TypeInfo describes one type. It is copied on registration and never
// changes afterwards.
type TypeInfo struct {
	Name         string // Globally unique type name.
	Parent       string // Parent type name, empty for a root type.
	InstanceSize int    // Bytes of instance state added by this type.
	ClassSize    int    // Bytes of class state added by this type.
	Abstract     bool   // Abstract types cannot be instantiated.

	InstanceInit     func(obj *Object) error // Runs root to leaf on New.
	InstancePostInit func(obj *Object)       // Runs root to leaf after every InstanceInit.
	InstanceFinalize func(obj *Object)       // Runs leaf to root on Destroy.

	ClassInit func(class *Class, data any) // Runs once, on a copy of the parent class.
	ClassData any                          // Passed to ClassInit.
}

type resolution struct {
	once sync.Once
	typ  *Type
	err  error
}

// Registry maps type names to their descriptors and caches their resolution.
//
// Registration happens during startup. The first resolution seals the
// registry, after which it is read only and Register fails.
type Registry struct {
	Verbose bool // If set, enables verbose logging.

	mutex    sync.RWMutex
	sealed   atomic.Bool
	types    map[string]*TypeInfo
	resolved sync.Map // string -> *resolution
}

// NewRegistry creates a registry holding only TYPE_OBJECT.
func NewRegistry() (reg *Registry) {
	reg = &Registry{
		types: map[string]*TypeInfo{
			TYPE_OBJECT: {
				Name:     TYPE_OBJECT,
				Abstract: true,
			},
		},
	}

	return
}

// Register adds a type. The name must be unique.
func (reg *Registry) Register(info *TypeInfo) (err error) {
	if info == nil {
		err = &ErrType{Err: ErrInvalidType}
		return
	}

	if len(info.Name) == 0 || info.InstanceSize < 0 || info.ClassSize < 0 {
		err = &ErrType{Name: info.Name, Err: ErrInvalidType}
		return
	}

	reg.mutex.Lock()
	defer reg.mutex.Unlock()

	if reg.sealed.Load() {
		err = &ErrType{Name: info.Name, Err: ErrConcurrentRegistration}
		return
	}

	_, ok := reg.types[info.Name]
	if ok {
		err = &ErrType{Name: info.Name, Err: ErrDuplicateType}
		return
	}

	ti := *info
	reg.types[ti.Name] = &ti

	if reg.Verbose {
		log.Printf("object: register %v (parent %q, instance %d, class %d)",
			ti.Name, ti.Parent, ti.InstanceSize, ti.ClassSize)
	}

	return
}

// Seal ends the registration phase.
func (reg *Registry) Seal() {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()

	if !reg.sealed.Load() && reg.Verbose {
		log.Printf("object: sealed with %d types", len(reg.types))
	}

	reg.sealed.Store(true)
}

// Sealed reports whether the registration phase is over.
func (reg *Registry) Sealed() bool {
	return reg.sealed.Load()
}

func (reg *Registry) info(name string) (ti *TypeInfo, ok bool) {
	// No writer can exist once sealed.
	if reg.sealed.Load() {
		ti, ok = reg.types[name]
		return
	}

	reg.mutex.RLock()
	defer reg.mutex.RUnlock()

	ti, ok = reg.types[name]
	return
}

// Lookup returns a copy of the descriptor registered under name.
func (reg *Registry) Lookup(name string) (info TypeInfo, err error) {
	ti, ok := reg.info(name)
	if !ok {
		err = &ErrType{Name: name, Err: ErrUnknownType}
		return
	}

	info = *ti
	return
}

// Names returns the sorted names of all registered types.
func (reg *Registry) Names() (names []string) {
	if !reg.sealed.Load() {
		reg.mutex.RLock()
		defer reg.mutex.RUnlock()
	}

	names = slices.Sorted(maps.Keys(reg.types))
	return
}

// Resolve links the named type to its ancestors. Results, failures
// included, are computed once and cached.
func (reg *Registry) Resolve(name string) (typ *Type, err error) {
	if !reg.sealed.Load() {
		reg.Seal()
	}

	value, ok := reg.resolved.Load(name)
	if !ok {
		value, _ = reg.resolved.LoadOrStore(name, &resolution{})
	}

	res := value.(*resolution)
	res.once.Do(func() {
		res.typ, res.err = reg.resolve(name)
	})

	return res.typ, res.err
}

func (reg *Registry) resolve(name string) (typ *Type, err error) {
	var chain []*TypeInfo

	seen := map[string]bool{}
	for here := name; len(here) != 0; {
		if seen[here] {
			err = &ErrType{Name: name, Err: ErrCyclicInheritance}
			return
		}
		seen[here] = true

		ti, ok := reg.info(here)
		if !ok {
			err = &ErrType{Name: here, Err: ErrUnknownType}
			if here != name {
				err = &ErrType{Name: name, Err: err}
			}
			return
		}

		chain = append(chain, ti)
		here = ti.Parent
	}

	// The chain is known to be acyclic, so resolving the parent
	// can not come back to this type.
	var parent *Type
	if len(chain) > 1 {
		parent, err = reg.Resolve(chain[1].Name)
		if err != nil {
			err = &ErrType{Name: name, Err: err}
			return
		}
	}

	typ = newType(reg, chain[0], parent)

	if reg.Verbose {
		log.Printf("object: resolve %v %v (instance %d, class %d)",
			name, typ.ancestors, typ.instanceSize, typ.classSize)
	}

	return
}

// New creates an instance of the named type.
func (reg *Registry) New(name string) (obj *Object, err error) {
	typ, err := reg.Resolve(name)
	if err != nil {
		return
	}

	return typ.New()
}

// ClassByName returns the class of the named type, building it if needed.
func (reg *Registry) ClassByName(name string) (class *Class, err error) {
	typ, err := reg.Resolve(name)
	if err != nil {
		return
	}

	return typ.Class()
}

// Types iterates over the resolvable types that are implements or derive from
// it, in name order. An empty implements selects every type.
func (reg *Registry) Types(implements string, includeAbstract bool) iter.Seq[*Type] {
	all := func(yield func(*Type) bool) {
		for _, name := range reg.Names() {
			typ, err := reg.Resolve(name)
			if err != nil {
				continue
			}
			if !yield(typ) {
				return
			}
		}
	}

	return internal.IterSeqFilter(all, func(typ *Type) bool {
		if !includeAbstract && typ.IsAbstract() {
			return false
		}
		return len(implements) == 0 || typ.IsA(implements)
	})
}
