package cpu

import (
	"fmt"
	"io"
	"iter"
	"log"
	"strings"

	"github.com/ezrec/qom/device"
	"github.com/ezrec/qom/object"
)

const (
	TYPE_CPU = "cpu"

	// Instance state.
	CPU_INDEX         = 0  // uint32, index of the CPU in its machine.
	CPU_HALTED        = 4  // uint32, 1 when halted.
	CPU_INTERRUPT     = 8  // uint32, pending interrupt request mask.
	CPU_PC            = 16 // uint64, program counter.
	CPU_INSTANCE_SIZE = 24

	// Class state.
	CPU_CLASS_GDB_NUM_CORE_REGS = 0 // uint32
	CPU_CLASS_SIZE              = 4

	// Virtual operations.
	METHOD_RESET         = "reset"         // func(*CPU)
	METHOD_HAS_WORK      = "has_work"      // func(*CPU) bool
	METHOD_DUMP_STATE    = "dump_state"    // func(*CPU, io.Writer)
	METHOD_CLASS_BY_NAME = "class_by_name" // func(*object.Registry, string) (*object.Class, error)
)

// Interrupt request bits.
const (
	CPU_INTERRUPT_HARD = uint32(0x0002) // External hardware interrupt.
	CPU_INTERRUPT_NMI  = uint32(0x0200) // Non-maskable interrupt.
)

// CPU is an object seen as a TYPE_CPU.
type CPU struct {
	*object.View
}

// Class is a class seen as a TYPE_CPU class.
type Class struct {
	*object.ClassView
}

// Declared is the checked cast to TYPE_CPU.
var Declared = object.Declare(TYPE_CPU,
	func(view *object.View) *CPU { return &CPU{view} },
	func(view *object.ClassView) *Class { return &Class{view} },
)

// Of returns obj as a CPU.
func Of(obj *object.Object) (*CPU, error) {
	return Declared.Cast(obj)
}

// ClassOf returns the CPU class of obj.
func ClassOf(obj *object.Object) (*Class, error) {
	return Declared.GetClass(obj)
}

var cpuInfo = object.TypeInfo{
	Name:         TYPE_CPU,
	Parent:       device.TYPE_DEVICE,
	InstanceSize: CPU_INSTANCE_SIZE,
	ClassSize:    CPU_CLASS_SIZE,
	Abstract:     true,
	ClassInit:    cpuClassInit,
}

func init() {
	object.MustRegister(&cpuInfo)
}

// RegisterTypes registers TYPE_CPU with reg.
func RegisterTypes(reg *object.Registry) error {
	return reg.Register(&cpuInfo)
}

func cpuClassInit(class *object.Class, data any) {
	cc, _ := Declared.ClassCast(class)
	cc.SetGdbNumCoreRegs(0)

	// CPUs are created by the machine, never by the user.
	dc, _ := device.Declared.ClassCast(class)
	dc.SetUserCreatable(false)

	realize, _ := object.Virtual[func(*object.Object) error](class, device.METHOD_REALIZE)
	class.SetMethod(device.METHOD_REALIZE, func(obj *object.Object) (err error) {
		err = realize(obj)
		if err != nil {
			return
		}
		cpu, err := Of(obj)
		if err != nil {
			return
		}
		cpu.Reset()
		return
	})

	class.SetMethod(METHOD_RESET, func(cpu *CPU) {
		cpu.SetHalted(false)
		cpu.SetUint32(CPU_INTERRUPT, 0)
		cpu.SetPC(0)
	})
	class.SetMethod(METHOD_HAS_WORK, func(cpu *CPU) bool {
		return false
	})
	class.SetMethod(METHOD_DUMP_STATE, func(cpu *CPU, w io.Writer) {
		fmt.Fprintf(w, "%6s: %v\n", "cpu", cpu.Index())
		fmt.Fprintf(w, "%6s: %v\n", "halted", cpu.Halted())
		fmt.Fprintf(w, "%6s: %08X\n", "pc", cpu.PC())
	})
	class.SetMethod(METHOD_CLASS_BY_NAME, classByName)
}

// classByName looks the model up as a full type name.
func classByName(reg *object.Registry, model string) (class *object.Class, err error) {
	class, err = reg.ClassByName(model)
	if err != nil {
		err = &ErrModel{Family: TYPE_CPU, Model: model, Err: ErrModelUnknown}
		return
	}

	err = CheckModel(class, TYPE_CPU, model)
	if err != nil {
		class = nil
	}

	return
}

// CheckModel verifies that class is an instantiable member of family.
func CheckModel(class *object.Class, family string, model string) (err error) {
	if !class.IsA(family) || !class.IsA(TYPE_CPU) {
		err = &ErrModel{Family: family, Model: model, Err: ErrModelUnknown}
		return
	}

	if class.Type().IsAbstract() {
		err = &ErrModel{Family: family, Model: model, Err: ErrModelAbstract}
		return
	}

	return
}

// TypeName returns the type name of model in a CPU family.
func TypeName(model string, family string) string {
	return model + "-" + family
}

// ModelName strips the family suffix from a CPU type name.
func ModelName(typename string, family string) string {
	return strings.TrimSuffix(typename, "-"+family)
}

// ClassByName resolves a model name to a CPU class using the family class'
// class_by_name operation.
func ClassByName(reg *object.Registry, family string, model string) (class *object.Class, err error) {
	fc, err := reg.ClassByName(family)
	if err != nil {
		return
	}

	if !fc.IsA(TYPE_CPU) {
		err = &object.ErrType{Name: family, Err: ErrNotCPU}
		return
	}

	lookup, ok := object.Virtual[func(*object.Registry, string) (*object.Class, error)](fc, METHOD_CLASS_BY_NAME)
	if !ok {
		lookup = classByName
	}

	return lookup(reg, model)
}

// Models iterates over the instantiable types of a CPU family, by name.
func Models(reg *object.Registry, family string) iter.Seq[*object.Type] {
	return reg.Types(family, false)
}

// Create instantiates and realizes a CPU of the named type.
func Create(reg *object.Registry, typename string, index uint32) (cpu *CPU, err error) {
	obj, err := reg.New(typename)
	if err != nil {
		return
	}

	cpu, err = Of(obj)
	if err != nil {
		_ = obj.Destroy()
		return
	}

	cpu.SetUint32(CPU_INDEX, index)

	err = device.Realize(obj)
	if err != nil {
		_ = obj.Destroy()
		cpu = nil
		return
	}

	if reg.Verbose {
		log.Printf("cpu: create %v #%d", typename, index)
	}

	return
}

// Destroy destroys the CPU object.
func (cpu *CPU) Destroy() error {
	return cpu.Object().Destroy()
}

// Class returns the CPU class of the CPU.
func (cpu *CPU) Class() *Class {
	cc, _ := ClassOf(cpu.Object())
	return cc
}

// Index of the CPU in its machine.
func (cpu *CPU) Index() uint32 {
	return cpu.Uint32(CPU_INDEX)
}

// Halted reports whether the CPU is halted.
func (cpu *CPU) Halted() bool {
	return cpu.Uint32(CPU_HALTED) != 0
}

// SetHalted sets the halted state.
func (cpu *CPU) SetHalted(halted bool) {
	var value uint32
	if halted {
		value = 1
	}
	cpu.SetUint32(CPU_HALTED, value)
}

// Interrupt returns the pending interrupt request mask.
func (cpu *CPU) Interrupt() uint32 {
	return cpu.Uint32(CPU_INTERRUPT)
}

// RaiseInterrupt adds mask to the pending interrupt requests.
func (cpu *CPU) RaiseInterrupt(mask uint32) {
	cpu.SetUint32(CPU_INTERRUPT, cpu.Interrupt()|mask)
}

// ClearInterrupt removes mask from the pending interrupt requests.
func (cpu *CPU) ClearInterrupt(mask uint32) {
	cpu.SetUint32(CPU_INTERRUPT, cpu.Interrupt()&^mask)
}

// PC returns the program counter.
func (cpu *CPU) PC() uint64 {
	return cpu.Uint64(CPU_PC)
}

// SetPC sets the program counter.
func (cpu *CPU) SetPC(pc uint64) {
	cpu.SetUint64(CPU_PC, pc)
}

// Reset the CPU through its class' reset operation.
func (cpu *CPU) Reset() {
	reset, ok := object.Virtual[func(*CPU)](cpu.Object().Class(), METHOD_RESET)
	if ok {
		reset(cpu)
	}
}

// HasWork reports whether the CPU has something to execute.
func (cpu *CPU) HasWork() bool {
	hasWork, ok := object.Virtual[func(*CPU) bool](cpu.Object().Class(), METHOD_HAS_WORK)
	return ok && hasWork(cpu)
}

// DumpState writes the CPU state to w.
func (cpu *CPU) DumpState(w io.Writer) {
	dump, ok := object.Virtual[func(*CPU, io.Writer)](cpu.Object().Class(), METHOD_DUMP_STATE)
	if ok {
		dump(cpu, w)
	}
}

// String returns the CPU state as a string.
func (cpu *CPU) String() string {
	var text strings.Builder
	cpu.DumpState(&text)
	return text.String()
}

// GdbNumCoreRegs is the number of core registers exposed to a debugger.
func (cc *Class) GdbNumCoreRegs() int {
	return int(cc.Uint32(CPU_CLASS_GDB_NUM_CORE_REGS))
}

// SetGdbNumCoreRegs is for class initializers.
func (cc *Class) SetGdbNumCoreRegs(count int) {
	cc.SetUint32(CPU_CLASS_GDB_NUM_CORE_REGS, uint32(count))
}
