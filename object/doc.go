// Package object implements the runtime type system used to declare CPU models
// and other emulated devices.
//
// Types are registered by name with a parent type name, the size of their
// per-instance state and the size of their per-type class state. Resolving a
// type links its ancestor chain and lays out both states base first, so the
// leading bytes of every instance are the instance of its parent. An instance
// can therefore be viewed as any of its ancestors by offset alone, and Cast
// checks the ancestor chain before handing out such a view.
//
// Class objects are built once per type. Each starts as a copy of its parent's
// class, and the type's class initializer then overrides what it needs, which
// is how virtual operations are inherited and replaced.
package object
