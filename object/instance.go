package object

import (
	"log"
	"sync/atomic"
)

// Object is an instance of a registered type. Its state block holds the
// instance state of every ancestor, root first.
type Object struct {
	typ   *Type
	class *Class
	data  []byte

	state atomic.Int32
}

const (
	objectLive = iota
	objectFinalizing
	objectDestroyed
)

// View is an object seen as one of its ancestor types. It shares the
// object's state block.
type View struct {
	segment
	obj *Object
	typ *Type
}

// New creates an instance of the type.
//
// Instance initializers run root to leaf. If one fails, the finalizers of the
// types already initialized run leaf to root and the error is an *ErrInit.
func (typ *Type) New() (obj *Object, err error) {
	if typ.info.Abstract {
		err = &ErrType{Name: typ.Name(), Err: ErrAbstractType}
		return
	}

	if typ.instanceSize > INSTANCE_SIZE_LIMIT {
		err = &ErrType{Name: typ.Name(), Err: ErrAllocation}
		return
	}

	class, err := typ.Class()
	if err != nil {
		return
	}

	obj = &Object{
		typ:   typ,
		class: class,
		data:  make([]byte, typ.instanceSize),
	}

	for n, here := range typ.lineage {
		ctor := here.info.InstanceInit
		if ctor == nil {
			continue
		}

		ierr := ctor(obj)
		if ierr == nil {
			continue
		}

		if typ.registry.Verbose {
			log.Printf("object: new %v: %v init: %v", typ.Name(), here.Name(), ierr)
		}

		obj.state.Store(objectFinalizing)
		obj.finalize(typ.lineage[:n])
		obj.data = nil
		obj.state.Store(objectDestroyed)

		obj = nil
		err = &ErrInit{Type: here.Name(), Err: ierr}
		return
	}

	for _, here := range typ.lineage {
		if post := here.info.InstancePostInit; post != nil {
			post(obj)
		}
	}

	if typ.registry.Verbose {
		log.Printf("object: new %v (%d bytes)", typ.Name(), len(obj.data))
	}

	return
}

// finalize runs the finalizers of lineage, leaf to root.
func (obj *Object) finalize(lineage []*Type) {
	for n := len(lineage) - 1; n >= 0; n-- {
		if fini := lineage[n].info.InstanceFinalize; fini != nil {
			fini(obj)
		}
	}
}

// Destroy runs the finalizers leaf to root and releases the state block.
// Finalizers may still cast the object. Destroying an object twice fails
// with ErrUseAfterFree.
func (obj *Object) Destroy() (err error) {
	if !obj.state.CompareAndSwap(objectLive, objectFinalizing) {
		err = &ErrType{Name: obj.TypeName(), Err: ErrUseAfterFree}
		return
	}

	obj.finalize(obj.typ.lineage)
	obj.data = nil
	obj.state.Store(objectDestroyed)

	if obj.typ.registry.Verbose {
		log.Printf("object: destroy %v", obj.TypeName())
	}

	return
}

// Destroyed reports whether Destroy has been called.
func (obj *Object) Destroyed() bool {
	return obj.state.Load() != objectLive
}

// Type returns the dynamic type of the object.
func (obj *Object) Type() *Type {
	return obj.typ
}

// TypeName returns the name of the dynamic type of the object.
func (obj *Object) TypeName() string {
	return obj.typ.Name()
}

// Class returns the class of the dynamic type of the object.
func (obj *Object) Class() *Class {
	return obj.class
}

// IsA reports whether the object is an instance of name or of a type
// derived from it. Destroyed objects are not anything.
func (obj *Object) IsA(name string) bool {
	if obj.state.Load() == objectDestroyed {
		return false
	}

	return obj.typ.IsA(name)
}

// Cast returns the object viewed as its ancestor name. Nothing is copied.
func (obj *Object) Cast(name string) (view *View, err error) {
	if obj.state.Load() == objectDestroyed {
		err = &ErrType{Name: obj.TypeName(), Err: ErrUseAfterFree}
		return
	}

	target := obj.typ.ancestor(name)
	if target == nil {
		err = &ErrCast{Type: obj.TypeName(), Target: name}
		return
	}

	view = &View{
		segment: segment{
			block:  &obj.data,
			offset: target.instanceOffset,
			size:   target.info.InstanceSize,
			extent: target.instanceSize,
		},
		obj: obj,
		typ: target,
	}

	return
}

// Object returns the full object being viewed.
func (view *View) Object() *Object {
	return view.obj
}

// Type returns the type the object is viewed as.
func (view *View) Type() *Type {
	return view.typ
}
