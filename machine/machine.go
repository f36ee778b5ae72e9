// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package machine builds the CPUs of an emulated board from their type names.
package machine

import (
	"errors"
	"iter"
	"log"
	"maps"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/qom/cpu"
	"github.com/ezrec/qom/cpu/cris"
	"github.com/ezrec/qom/device"
	"github.com/ezrec/qom/internal"
	"github.com/ezrec/qom/object"
)

var _machine_defines = map[string]string{
	"TYPE_OBJECT":          object.TYPE_OBJECT,
	"TYPE_DEVICE":          device.TYPE_DEVICE,
	"TYPE_CPU":             cpu.TYPE_CPU,
	"TYPE_CRIS_CPU":        cris.TYPE_CRIS_CPU,
	"CRIS_CPU_TYPE_SUFFIX": cris.CRIS_CPU_TYPE_SUFFIX,
	"CRIS_MODEL_DEFAULT":   cris.CRIS_MODEL_DEFAULT,
}

// Machine state. Registry + configuration + CPUs.
type Machine struct {
	Verbose  bool             // If set, enables verbose logging.
	Registry *object.Registry // Registry the CPU types are taken from.
	Config   Config           // Configuration of the machine.

	Cpus []*cpu.CPU // CPUs, in index order, once initialized.
}

// NewMachine creates a machine using the Default registry.
func NewMachine(cfg Config) (m *Machine) {
	m = &Machine{
		Verbose:  cfg.Verbose,
		Registry: object.Default,
		Config:   cfg,
	}

	return
}

// Defines returns an iterator over the type name defines, and one
// define per CPU model of the configured family.
func (m *Machine) Defines() iter.Seq2[string, string] {
	models := func(yield func(string, string) bool) {
		for typ := range cpu.Models(m.Registry, m.Config.Family) {
			key := strings.ToUpper(strings.ReplaceAll(typ.Name(), "-", "_"))
			if !yield(key, typ.Name()) {
				return
			}
		}
	}

	return internal.IterSeq2Concat(maps.All(_machine_defines), models)
}

// CpuType returns the type name selected by the configuration. The cpu
// setting may be a model name of the family or a full type name.
func (m *Machine) CpuType() (typename string, err error) {
	reg := m.Registry
	family := m.Config.Family

	class, err := cpu.ClassByName(reg, family, m.Config.Cpu)
	if err == nil {
		typename = class.Name()
		return
	}

	full, ferr := reg.ClassByName(m.Config.Cpu)
	if ferr == nil && cpu.CheckModel(full, family, m.Config.Cpu) == nil {
		typename, err = full.Name(), nil
	}

	return
}

// Init creates and realizes the CPUs. They are created concurrently; if any
// fails, the ones created are destroyed.
func (m *Machine) Init() (err error) {
	if len(m.Cpus) != 0 {
		err = ErrInitialized
		return
	}

	err = m.Config.Validate()
	if err != nil {
		return
	}

	typename, err := m.CpuType()
	if err != nil {
		return
	}

	if m.Verbose {
		log.Printf("machine: %d x %v", m.Config.Smp, typename)
	}

	cpus := make([]*cpu.CPU, m.Config.Smp)

	var group errgroup.Group
	for n := range cpus {
		group.Go(func() (err error) {
			cpus[n], err = cpu.Create(m.Registry, typename, uint32(n))
			return
		})
	}

	err = group.Wait()
	if err != nil {
		for _, c := range cpus {
			if c != nil {
				_ = c.Destroy()
			}
		}
		return
	}

	m.Cpus = cpus
	return
}

// Reset all CPUs.
func (m *Machine) Reset() {
	if m.Verbose {
		log.Printf("machine: reset")
	}

	for _, c := range m.Cpus {
		c.Reset()
	}
}

// HasWork reports whether any CPU has work.
func (m *Machine) HasWork() bool {
	for _, c := range m.Cpus {
		if c.HasWork() {
			return true
		}
	}

	return false
}

// Close destroys the CPUs.
func (m *Machine) Close() (err error) {
	var errs []error
	for n := len(m.Cpus) - 1; n >= 0; n-- {
		errs = append(errs, m.Cpus[n].Destroy())
	}

	m.Cpus = nil
	err = errors.Join(errs...)
	return
}
