package object

// Declared holds the checked accessors of one declared type: an instance
// view constructor and a class view constructor.
type Declared[I any, C any] struct {
	Name     string
	Instance func(view *View) I
	Class    func(view *ClassView) C
}

// Declare creates the accessors for the type name.
func Declare[I any, C any](name string, instance func(*View) I, class func(*ClassView) C) Declared[I, C] {
	return Declared[I, C]{
		Name:     name,
		Instance: instance,
		Class:    class,
	}
}

// Cast checks that obj is a decl.Name and returns its typed view.
func (decl Declared[I, C]) Cast(obj *Object) (inst I, err error) {
	view, err := obj.Cast(decl.Name)
	if err != nil {
		return
	}

	inst = decl.Instance(view)
	return
}

// ClassCast checks that class is a decl.Name class and returns its typed view.
func (decl Declared[I, C]) ClassCast(class *Class) (cv C, err error) {
	view, err := class.Cast(decl.Name)
	if err != nil {
		return
	}

	cv = decl.Class(view)
	return
}

// GetClass returns the typed class view of obj's dynamic class.
func (decl Declared[I, C]) GetClass(obj *Object) (cv C, err error) {
	return decl.ClassCast(obj.Class())
}
