package cris

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/qom/cpu"
	"github.com/ezrec/qom/device"
	"github.com/ezrec/qom/object"
)

func newRegistry(t *testing.T) (reg *object.Registry) {
	reg = object.NewRegistry()
	require.NoError(t, device.RegisterTypes(reg))
	require.NoError(t, cpu.RegisterTypes(reg))
	require.NoError(t, RegisterTypes(reg))
	return
}

func TestTypeName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("crisv32-cris-cpu", TypeName("crisv32"))
	assert.Equal(cpu.TypeName("crisv8", TYPE_CRIS_CPU), TypeName("crisv8"))
	assert.Equal("-cris-cpu", CRIS_CPU_TYPE_SUFFIX)
}

func TestRegistered(t *testing.T) {
	assert := assert.New(t)

	typ, err := object.Resolve(TypeName("crisv32"))
	require.NoError(t, err)
	assert.Equal([]string{
		object.TYPE_OBJECT,
		device.TYPE_DEVICE,
		cpu.TYPE_CPU,
		TYPE_CRIS_CPU,
		"crisv32-cris-cpu",
	}, typ.Ancestors())
	assert.Equal(device.DEVICE_INSTANCE_SIZE+cpu.CPU_INSTANCE_SIZE+CRIS_INSTANCE_SIZE, typ.InstanceSize())
	assert.Equal(device.DEVICE_CLASS_SIZE+cpu.CPU_CLASS_SIZE+CRIS_CLASS_SIZE, typ.ClassSize())

	assert.Equal([]string{
		"crisv10", "crisv11", "crisv17", "crisv32", "crisv8", "crisv9",
	}, ModelNames(object.Default))
}

func TestModels(t *testing.T) {
	assert := assert.New(t)

	reg := newRegistry(t)

	for _, model := range Models {
		c, err := cpu.Create(reg, TypeName(model.Name), 0)
		require.NoError(t, err, model.Name)

		cris, err := Of(c.Object())
		assert.NoError(err, model.Name)
		assert.Equal(model.VR, cris.VR(), model.Name)

		cc, err := ClassOf(c.Object())
		assert.NoError(err, model.Name)
		assert.Equal(model.VR, cc.VR(), model.Name)
		assert.Equal(CRIS_GDB_NUM_CORE_REGS, c.Class().GdbNumCoreRegs(), model.Name)

		assert.NoError(c.Destroy())
	}
}

func TestCPU_Reset(t *testing.T) {
	assert := assert.New(t)

	reg := newRegistry(t)

	c, err := cpu.Create(reg, TypeName("crisv10"), 0)
	require.NoError(t, err)
	cris, err := Of(c.Object())
	require.NoError(t, err)

	cris.SetReg(3, 0xdeadbeef)
	cris.SetPReg(PR_CCS, 0x100)
	c.SetPC(0x8000)
	assert.Equal(uint32(0xdeadbeef), cris.Reg(3))

	c.Reset()
	assert.Equal(uint32(0), cris.Reg(3))
	assert.Equal(uint32(0), cris.PReg(PR_CCS))
	assert.Equal(uint64(0), c.PC())
	assert.Equal(uint32(10), cris.VR())
}

func TestCPU_HasWork(t *testing.T) {
	assert := assert.New(t)

	reg := newRegistry(t)

	c, err := cpu.Create(reg, TypeName("crisv32"), 0)
	require.NoError(t, err)

	assert.False(c.HasWork())
	c.RaiseInterrupt(cpu.CPU_INTERRUPT_NMI)
	assert.True(c.HasWork())
	c.ClearInterrupt(cpu.CPU_INTERRUPT_NMI)
	c.RaiseInterrupt(0x1000)
	assert.False(c.HasWork())
	c.RaiseInterrupt(cpu.CPU_INTERRUPT_HARD)
	assert.True(c.HasWork())
}

func TestCPU_DumpState(t *testing.T) {
	assert := assert.New(t)

	reg := newRegistry(t)

	c, err := cpu.Create(reg, TypeName("crisv17"), 2)
	require.NoError(t, err)
	cris, _ := Of(c.Object())
	cris.SetReg(15, 0x12345678)

	text := c.String()
	assert.True(strings.HasPrefix(text, "   cpu: 2\n"))
	assert.Contains(text, "    vr: 17\n")
	assert.Contains(text, "   r15: 12345678\n")
	assert.Contains(text, "    p1: 00000011\n")
}

func TestClassByName(t *testing.T) {
	assert := assert.New(t)

	reg := newRegistry(t)

	table := [](struct {
		model string
		name  string
		err   error
	}){
		{"crisv32", "crisv32-cris-cpu", nil},
		{"crisv8", "crisv8-cris-cpu", nil},
		{CRIS_MODEL_ANY, "crisv32-cris-cpu", nil},
		{"crisv99", "", cpu.ErrModelUnknown},
		{"", "", cpu.ErrModelUnknown},
	}

	for _, entry := range table {
		class, err := cpu.ClassByName(reg, TYPE_CRIS_CPU, entry.model)
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.model)
			assert.Nil(class, entry.model)
			continue
		}
		assert.NoError(err, entry.model)
		assert.Equal(entry.name, class.Name(), entry.model)
	}
}

func TestClassByName_OutsideFamily(t *testing.T) {
	assert := assert.New(t)

	reg := newRegistry(t)
	// An impostor with the family suffix but another parent.
	require.NoError(t, reg.Register(&object.TypeInfo{
		Name:   TypeName("fake"),
		Parent: cpu.TYPE_CPU,
	}))

	_, err := ClassByName(reg, "fake")
	assert.ErrorIs(err, cpu.ErrModelUnknown)
}

func TestConcurrentCreate(t *testing.T) {
	assert := assert.New(t)

	reg := newRegistry(t)

	var wg sync.WaitGroup
	cpus := make([]*cpu.CPU, 16)
	errs := make([]error, len(cpus))
	for n := range cpus {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cpus[n], errs[n] = cpu.Create(reg, TypeName("crisv32"), uint32(n))
		}()
	}
	wg.Wait()

	for n, c := range cpus {
		assert.NoError(errs[n])
		assert.Equal(uint32(n), c.Index())
		assert.Same(cpus[0].Object().Class(), c.Object().Class())
		assert.NoError(c.Destroy())
	}
}
