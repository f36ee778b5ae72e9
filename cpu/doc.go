// Package cpu declares TYPE_CPU, the abstract base type of every CPU model.
//
// A CPU model is a type derived from a CPU family type, itself derived from
// TYPE_CPU, whose name follows the "<model>-<family>" convention. The CPU
// class carries the virtual operations (reset, has_work, dump_state,
// class_by_name) that families and models override in their class
// initializers.
package cpu
