package machine

import (
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/qom/cpu"
	"github.com/ezrec/qom/cpu/cris"
)

const (
	SMP_LIMIT = 64 // Maximum number of CPUs in a machine.
)

// Config selects the CPUs of a machine.
type Config struct {
	Cpu     string `toml:"cpu"`     // Model name, or full CPU type name.
	Family  string `toml:"family"`  // CPU family type name.
	Smp     int    `toml:"smp"`     // Number of CPUs.
	Verbose bool   `toml:"verbose"` // Verbose logging.
}

// DefaultConfig is a single default CRIS CPU.
func DefaultConfig() Config {
	return Config{
		Cpu:    cris.CRIS_MODEL_DEFAULT,
		Family: cris.TYPE_CRIS_CPU,
		Smp:    1,
	}
}

// LoadConfig reads a .toml or .star configuration file over the defaults.
func LoadConfig(path string, defines iter.Seq2[string, string]) (cfg Config, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	switch filepath.Ext(path) {
	case ".toml":
		cfg, err = ParseToml(path, inf)
	case ".star":
		cfg, err = ParseStarlark(path, inf, defines)
	default:
		err = &ErrConfig{File: path, Err: ErrConfigFormat}
	}

	return
}

// ParseToml parses a TOML configuration over the defaults.
func ParseToml(filename string, r io.Reader) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		err = &ErrConfig{File: filename, Err: err}
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		err = &ErrConfig{File: filename, Key: undecoded[0].String(), Err: ErrConfigKey}
		return
	}

	return
}

// cpuType is the cpu_type(model, family=) Starlark builtin.
func cpuType(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var model string
	family := cris.TYPE_CRIS_CPU
	err := starlark.UnpackArgs(fn.Name(), args, kwargs, "model", &model, "family?", &family)
	if err != nil {
		return nil, err
	}

	return starlark.String(cpu.TypeName(model, family)), nil
}

// ParseStarlark runs a Starlark configuration script over the defaults. The
// script sets the globals cpu, family, smp and verbose. The defines are
// predeclared as strings, as is the cpu_type(model, family=) builtin.
func ParseStarlark(filename string, src any, defines iter.Seq2[string, string]) (cfg Config, err error) {
	cfg = DefaultConfig()

	thread := &starlark.Thread{Name: filename}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"cpu_type": starlark.NewBuiltin("cpu_type", cpuType),
	}
	if defines != nil {
		for key, value := range defines {
			pred[key] = starlark.String(value)
		}
	}

	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, pred)
	if err != nil {
		err = &ErrConfig{File: filename, Err: err}
		return
	}

	for key, value := range globals {
		var ok bool
		switch key {
		case "cpu":
			cfg.Cpu, ok = starlark.AsString(value)
		case "family":
			cfg.Family, ok = starlark.AsString(value)
		case "smp":
			var smp int
			smp, err = starlark.AsInt32(value)
			cfg.Smp, ok = smp, err == nil
			err = nil
		case "verbose":
			var b starlark.Bool
			b, ok = value.(starlark.Bool)
			cfg.Verbose = bool(b)
		default:
			// Helper globals of the script.
			continue
		}
		if !ok {
			err = &ErrConfig{File: filename, Key: key, Err: ErrConfigValue}
			return
		}
	}

	return
}

// Validate checks the values of the configuration.
func (cfg Config) Validate() (err error) {
	if cfg.Smp < 1 || cfg.Smp > SMP_LIMIT {
		err = &ErrConfig{Key: "smp", Err: ErrSmp}
		return
	}

	if len(cfg.Cpu) == 0 || len(cfg.Family) == 0 {
		err = &ErrConfig{Key: "cpu", Err: ErrConfigValue}
		return
	}

	return
}
