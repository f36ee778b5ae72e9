package object

// Class is the state shared by every instance of one type: class fields laid
// out base first like instances are, and a table of virtual operations.
//
// Both are filled in by class initializers and are read only afterwards.
type Class struct {
	typ     *Type
	state   []byte
	methods map[string]any
}

// ClassView is a class seen as one of its ancestor classes.
type ClassView struct {
	segment
	class *Class
	typ   *Type
}

// Type of the class.
func (class *Class) Type() *Type {
	return class.typ
}

// Name of the class' type.
func (class *Class) Name() string {
	return class.typ.Name()
}

// IsA reports whether the class' type is name or derives from it.
func (class *Class) IsA(name string) bool {
	return class.typ.IsA(name)
}

// Cast returns the class as the class of its ancestor name.
func (class *Class) Cast(name string) (view *ClassView, err error) {
	target := class.typ.ancestor(name)
	if target == nil {
		err = &ErrCast{Type: class.Name(), Target: name}
		return
	}

	view = &ClassView{
		segment: segment{
			block:  &class.state,
			offset: target.classOffset,
			size:   target.info.ClassSize,
			extent: target.classSize,
		},
		class: class,
		typ:   target,
	}

	return
}

// SetMethod installs a virtual operation. Only call it from a ClassInit.
func (class *Class) SetMethod(name string, fn any) {
	class.methods[name] = fn
}

// Method returns a virtual operation, inherited or overridden.
func (class *Class) Method(name string) (fn any, ok bool) {
	fn, ok = class.methods[name]
	return
}

// Virtual returns the virtual operation name with its concrete signature.
func Virtual[F any](class *Class, name string) (fn F, ok bool) {
	method, ok := class.Method(name)
	if !ok {
		return
	}

	fn, ok = method.(F)
	return
}

// Class returns the full class being viewed.
func (view *ClassView) Class() *Class {
	return view.class
}

// Type returns the type the class is viewed as.
func (view *ClassView) Type() *Type {
	return view.typ
}
