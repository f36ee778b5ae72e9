package machine

import (
	"errors"
	"maps"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/qom/cpu"
	"github.com/ezrec/qom/cpu/cris"
	"github.com/ezrec/qom/device"
	"github.com/ezrec/qom/object"
)

func TestMachine(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(DefaultConfig())

	assert.False(m.Verbose)
	assert.Same(object.Default, m.Registry)
	assert.Empty(m.Cpus)
}

func TestMachine_Init(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		cpu  string
		smp  int
		name string
		vr   uint32
	}){
		{"crisv32", 1, "crisv32-cris-cpu", 32},
		{"crisv10", 4, "crisv10-cris-cpu", 10},
		{"any", 2, "crisv32-cris-cpu", 32},
		{"crisv8-cris-cpu", 1, "crisv8-cris-cpu", 8},
	}

	for _, entry := range table {
		cfg := DefaultConfig()
		cfg.Cpu = entry.cpu
		cfg.Smp = entry.smp

		m := NewMachine(cfg)
		err := m.Init()
		require.NoError(t, err, entry.cpu)
		assert.Len(m.Cpus, entry.smp, entry.cpu)

		for n, c := range m.Cpus {
			assert.Equal(uint32(n), c.Index(), entry.cpu)
			assert.Equal(entry.name, c.Object().TypeName(), entry.cpu)

			cc, err := cris.Of(c.Object())
			assert.NoError(err, entry.cpu)
			assert.Equal(entry.vr, cc.VR(), entry.cpu)
		}

		assert.ErrorIs(m.Init(), ErrInitialized)

		cpus := m.Cpus
		assert.NoError(m.Close())
		assert.Empty(m.Cpus)
		for _, c := range cpus {
			assert.True(c.Object().Destroyed())
		}
	}
}

func TestMachine_Init_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		cpu    string
		family string
		smp    int
		err    error
	}){
		{"crisv99", cris.TYPE_CRIS_CPU, 1, cpu.ErrModelUnknown},
		{"crisv32", cris.TYPE_CRIS_CPU, 0, ErrSmp},
		{"crisv32", cris.TYPE_CRIS_CPU, SMP_LIMIT + 1, ErrSmp},
		{"", cris.TYPE_CRIS_CPU, 1, ErrConfigValue},
		{"cris-cpu", cris.TYPE_CRIS_CPU, 1, cpu.ErrModelUnknown},
		{"crisv32", device.TYPE_DEVICE, 1, cpu.ErrNotCPU},
	}

	for _, entry := range table {
		cfg := DefaultConfig()
		cfg.Cpu = entry.cpu
		cfg.Family = entry.family
		cfg.Smp = entry.smp

		m := NewMachine(cfg)
		assert.ErrorIs(m.Init(), entry.err, entry.cpu)
		assert.Empty(m.Cpus)
	}
}

func TestMachine_Init_Unwind(t *testing.T) {
	assert := assert.New(t)

	refused := errors.New("refused")
	var finalized atomic.Int32

	reg := object.NewRegistry()
	require.NoError(t, device.RegisterTypes(reg))
	require.NoError(t, cpu.RegisterTypes(reg))
	require.NoError(t, cris.RegisterTypes(reg))
	require.NoError(t, reg.Register(&object.TypeInfo{
		Name:   cris.TypeName("flaky"),
		Parent: cris.TYPE_CRIS_CPU,
		InstanceFinalize: func(obj *object.Object) {
			finalized.Add(1)
		},
		ClassInit: func(class *object.Class, data any) {
			class.SetMethod(device.METHOD_REALIZE, func(obj *object.Object) error {
				c, _ := cpu.Of(obj)
				if c.Index() == 2 {
					return refused
				}
				return nil
			})
		},
	}))

	cfg := DefaultConfig()
	cfg.Cpu = "flaky"
	cfg.Smp = 4

	m := NewMachine(cfg)
	m.Registry = reg

	assert.ErrorIs(m.Init(), refused)
	assert.Empty(m.Cpus)
	assert.Equal(int32(4), finalized.Load())
}

func TestMachine_Reset(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.Smp = 2

	m := NewMachine(cfg)
	require.NoError(t, m.Init())
	defer m.Close()

	assert.False(m.HasWork())
	m.Cpus[1].RaiseInterrupt(cpu.CPU_INTERRUPT_HARD)
	m.Cpus[0].SetPC(0x4000)
	assert.True(m.HasWork())

	m.Reset()
	assert.False(m.HasWork())
	assert.Equal(uint64(0), m.Cpus[0].PC())
}

func TestMachine_Defines(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine(DefaultConfig())
	defines := maps.Collect(m.Defines())

	assert.Equal("cris-cpu", defines["TYPE_CRIS_CPU"])
	assert.Equal("-cris-cpu", defines["CRIS_CPU_TYPE_SUFFIX"])
	assert.Equal("crisv32-cris-cpu", defines["CRISV32_CRIS_CPU"])
	assert.Equal("crisv8-cris-cpu", defines["CRISV8_CRIS_CPU"])
	assert.NotContains(defines, "CRIS_CPU")
}
