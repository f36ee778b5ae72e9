// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package device declares TYPE_DEVICE, the abstract base of every emulated
// device, and its realize/unrealize life cycle.
package device

import (
	"github.com/ezrec/qom/object"
)

const (
	TYPE_DEVICE = "device"

	// Instance state.
	DEVICE_REALIZED      = 0 // uint32, 1 when realized.
	DEVICE_INSTANCE_SIZE = 4

	// Class state.
	DEVICE_CLASS_USER_CREATABLE = 0 // uint8, 1 if the user may create it.
	DEVICE_CLASS_SIZE           = 4

	// Virtual operations.
	METHOD_REALIZE   = "realize"   // func(*object.Object) error
	METHOD_UNREALIZE = "unrealize" // func(*object.Object)
)

// Device is an object seen as a TYPE_DEVICE.
type Device struct {
	*object.View
}

// Class is a class seen as a TYPE_DEVICE class.
type Class struct {
	*object.ClassView
}

// Declared is the checked cast to TYPE_DEVICE.
var Declared = object.Declare(TYPE_DEVICE,
	func(view *object.View) *Device { return &Device{view} },
	func(view *object.ClassView) *Class { return &Class{view} },
)

var deviceInfo = object.TypeInfo{
	Name:             TYPE_DEVICE,
	Parent:           object.TYPE_OBJECT,
	InstanceSize:     DEVICE_INSTANCE_SIZE,
	ClassSize:        DEVICE_CLASS_SIZE,
	Abstract:         true,
	InstanceFinalize: deviceFinalize,
	ClassInit:        deviceClassInit,
}

func init() {
	object.MustRegister(&deviceInfo)
}

// RegisterTypes registers TYPE_DEVICE with reg.
func RegisterTypes(reg *object.Registry) error {
	return reg.Register(&deviceInfo)
}

func deviceClassInit(class *object.Class, data any) {
	dc, _ := Declared.ClassCast(class)
	dc.SetUserCreatable(true)

	class.SetMethod(METHOD_REALIZE, func(obj *object.Object) error { return nil })
	class.SetMethod(METHOD_UNREALIZE, func(obj *object.Object) {})
}

func deviceFinalize(obj *object.Object) {
	dev, err := Declared.Cast(obj)
	if err != nil || !dev.Realized() {
		return
	}

	_ = Unrealize(obj)
}

// Realized reports whether the device has been realized.
func (dev *Device) Realized() bool {
	return dev.Uint32(DEVICE_REALIZED) != 0
}

func (dev *Device) setRealized(realized bool) {
	var value uint32
	if realized {
		value = 1
	}
	dev.SetUint32(DEVICE_REALIZED, value)
}

// UserCreatable reports whether the device may be created by the user.
func (dc *Class) UserCreatable() bool {
	return dc.Uint8(DEVICE_CLASS_USER_CREATABLE) != 0
}

// SetUserCreatable is for class initializers.
func (dc *Class) SetUserCreatable(creatable bool) {
	var value uint8
	if creatable {
		value = 1
	}
	dc.SetUint8(DEVICE_CLASS_USER_CREATABLE, value)
}

// Realize calls the class' realize operation, and marks the device realized
// if it succeeds.
func Realize(obj *object.Object) (err error) {
	dev, err := Declared.Cast(obj)
	if err != nil {
		return
	}

	if dev.Realized() {
		err = &object.ErrType{Name: obj.TypeName(), Err: ErrRealized}
		return
	}

	realize, ok := object.Virtual[func(*object.Object) error](obj.Class(), METHOD_REALIZE)
	if ok {
		err = realize(obj)
		if err != nil {
			return
		}
	}

	dev.setRealized(true)
	return
}

// Unrealize calls the class' unrealize operation.
func Unrealize(obj *object.Object) (err error) {
	dev, err := Declared.Cast(obj)
	if err != nil {
		return
	}

	if !dev.Realized() {
		err = &object.ErrType{Name: obj.TypeName(), Err: ErrNotRealized}
		return
	}

	unrealize, ok := object.Virtual[func(*object.Object)](obj.Class(), METHOD_UNREALIZE)
	if ok {
		unrealize(obj)
	}

	dev.setRealized(false)
	return
}
