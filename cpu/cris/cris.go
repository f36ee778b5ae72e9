// Package cris declares the CRIS CPU family and its models.
//
// Only what the type system needs is modelled here: the version register
// each model reports, the register files, and the family's overrides of the
// CPU virtual operations.
package cris

import (
	"fmt"
	"io"
	"slices"

	"github.com/ezrec/qom/cpu"
	"github.com/ezrec/qom/object"
)

const (
	TYPE_CRIS_CPU        = "cris-cpu"
	CRIS_CPU_TYPE_SUFFIX = "-" + TYPE_CRIS_CPU

	CRIS_MODEL_ANY     = "any"     // Alias of CRIS_MODEL_DEFAULT.
	CRIS_MODEL_DEFAULT = "crisv32" // Model used when none is given.

	CRIS_NUM_REGS = 16

	// Instance state.
	CRIS_REGS          = 0                            // [16]uint32 general registers.
	CRIS_PREGS         = CRIS_REGS + 4*CRIS_NUM_REGS  // [16]uint32 special registers.
	CRIS_INSTANCE_SIZE = CRIS_PREGS + 4*CRIS_NUM_REGS // Bytes.

	// Class state.
	CRIS_CLASS_VR   = 0 // uint32, version register value of the model.
	CRIS_CLASS_SIZE = 4

	CRIS_GDB_NUM_CORE_REGS = 52
)

// Special registers.
const (
	PR_BZ  = 0
	PR_VR  = 1
	PR_PID = 2
	PR_SRS = 3
	PR_WZ  = 4
	PR_EXS = 5
	PR_EDA = 6
	PR_MOF = 7
	PR_DZ  = 8
	PR_EBP = 9
	PR_ERP = 10
	PR_SRP = 11
	PR_NRP = 12
	PR_CCS = 13
	PR_USP = 14
	PR_SPC = 15
)

// Model is one CRIS CPU model.
type Model struct {
	Name string // Short model name, e.g. "crisv32".
	VR   uint32 // Value of the version register.
}

// Known models.
var Models = []Model{
	{"crisv8", 8},
	{"crisv9", 9},
	{"crisv10", 10},
	{"crisv11", 11},
	{"crisv17", 17},
	{"crisv32", 32},
}

// CPU is an object seen as a TYPE_CRIS_CPU.
type CPU struct {
	*object.View
}

// Class is a class seen as a TYPE_CRIS_CPU class.
type Class struct {
	*object.ClassView
}

// Declared is the checked cast to TYPE_CRIS_CPU.
var Declared = object.Declare(TYPE_CRIS_CPU,
	func(view *object.View) *CPU { return &CPU{view} },
	func(view *object.ClassView) *Class { return &Class{view} },
)

// Of returns obj as a CRIS CPU.
func Of(obj *object.Object) (*CPU, error) {
	return Declared.Cast(obj)
}

// ClassOf returns the CRIS CPU class of obj.
func ClassOf(obj *object.Object) (*Class, error) {
	return Declared.GetClass(obj)
}

// TypeName returns the type name of a CRIS model.
func TypeName(model string) string {
	return model + CRIS_CPU_TYPE_SUFFIX
}

func typeInfos() (infos []*object.TypeInfo) {
	infos = append(infos, &object.TypeInfo{
		Name:         TYPE_CRIS_CPU,
		Parent:       cpu.TYPE_CPU,
		InstanceSize: CRIS_INSTANCE_SIZE,
		ClassSize:    CRIS_CLASS_SIZE,
		Abstract:     true,
		InstanceInit: crisInit,
		ClassInit:    crisClassInit,
	})

	for _, model := range Models {
		infos = append(infos, &object.TypeInfo{
			Name:      TypeName(model.Name),
			Parent:    TYPE_CRIS_CPU,
			ClassInit: modelClassInit,
			ClassData: model,
		})
	}

	return
}

func init() {
	for _, info := range typeInfos() {
		object.MustRegister(info)
	}
}

// RegisterTypes registers TYPE_CRIS_CPU and every model with reg.
func RegisterTypes(reg *object.Registry) (err error) {
	for _, info := range typeInfos() {
		err = reg.Register(info)
		if err != nil {
			return
		}
	}

	return
}

func crisClassInit(class *object.Class, data any) {
	cc, _ := cpu.Declared.ClassCast(class)
	cc.SetGdbNumCoreRegs(CRIS_GDB_NUM_CORE_REGS)

	parentReset, _ := object.Virtual[func(*cpu.CPU)](class, cpu.METHOD_RESET)
	class.SetMethod(cpu.METHOD_RESET, func(c *cpu.CPU) {
		parentReset(c)

		cris, err := Of(c.Object())
		if err != nil {
			return
		}

		// The version register survives reset.
		vr := cris.PReg(PR_VR)
		clear(cris.State())
		cris.SetPReg(PR_VR, vr)
	})

	class.SetMethod(cpu.METHOD_HAS_WORK, func(c *cpu.CPU) bool {
		return c.Interrupt()&(cpu.CPU_INTERRUPT_HARD|cpu.CPU_INTERRUPT_NMI) != 0
	})

	parentDump, _ := object.Virtual[func(*cpu.CPU, io.Writer)](class, cpu.METHOD_DUMP_STATE)
	class.SetMethod(cpu.METHOD_DUMP_STATE, func(c *cpu.CPU, w io.Writer) {
		parentDump(c, w)

		cris, err := Of(c.Object())
		if err != nil {
			return
		}

		fmt.Fprintf(w, "%6s: %v\n", "vr", cris.VR())
		for n := range CRIS_NUM_REGS {
			fmt.Fprintf(w, "%6s: %08X\n", fmt.Sprintf("r%d", n), cris.Reg(n))
		}
		for n := range CRIS_NUM_REGS {
			fmt.Fprintf(w, "%6s: %08X\n", fmt.Sprintf("p%d", n), cris.PReg(n))
		}
	})

	class.SetMethod(cpu.METHOD_CLASS_BY_NAME, ClassByName)
}

func modelClassInit(class *object.Class, data any) {
	model := data.(Model)

	cc, _ := Declared.ClassCast(class)
	cc.SetUint32(CRIS_CLASS_VR, model.VR)
}

func crisInit(obj *object.Object) (err error) {
	cris, err := Of(obj)
	if err != nil {
		return
	}

	cc, err := ClassOf(obj)
	if err != nil {
		return
	}

	cris.SetPReg(PR_VR, cc.VR())
	return
}

// ClassByName resolves a short model name to its class.
func ClassByName(reg *object.Registry, model string) (class *object.Class, err error) {
	name := model
	if name == CRIS_MODEL_ANY {
		name = CRIS_MODEL_DEFAULT
	}

	class, err = reg.ClassByName(TypeName(name))
	if err != nil {
		err = &cpu.ErrModel{Family: TYPE_CRIS_CPU, Model: model, Err: cpu.ErrModelUnknown}
		return
	}

	err = cpu.CheckModel(class, TYPE_CRIS_CPU, model)
	if err != nil {
		class = nil
	}

	return
}

// ModelNames returns the sorted short names of the registered models.
func ModelNames(reg *object.Registry) (names []string) {
	for typ := range cpu.Models(reg, TYPE_CRIS_CPU) {
		names = append(names, cpu.ModelName(typ.Name(), TYPE_CRIS_CPU))
	}

	slices.Sort(names)
	return
}

// VR returns the version register.
func (cris *CPU) VR() uint32 {
	return cris.PReg(PR_VR)
}

func (cris *CPU) Reg(n int) uint32 {
	return cris.Uint32(CRIS_REGS + 4*n)
}

func (cris *CPU) SetReg(n int, value uint32) {
	cris.SetUint32(CRIS_REGS+4*n, value)
}

func (cris *CPU) PReg(n int) uint32 {
	return cris.Uint32(CRIS_PREGS + 4*n)
}

func (cris *CPU) SetPReg(n int, value uint32) {
	cris.SetUint32(CRIS_PREGS+4*n, value)
}

// VR is the version register value of the model.
func (cc *Class) VR() uint32 {
	return cc.Uint32(CRIS_CLASS_VR)
}
