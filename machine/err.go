package machine

import (
	"errors"

	"github.com/ezrec/qom/translate"
)

var f = translate.From

var (
	// Config errors
	ErrConfigFormat = errors.New(f("config format unknown"))
	ErrConfigValue  = errors.New(f("config value invalid"))
	ErrConfigKey    = errors.New(f("config key unknown"))

	// Machine errors
	ErrSmp         = errors.New(f("smp count invalid"))
	ErrInitialized = errors.New(f("machine already initialized"))
)

// ErrConfig indicates the location of a configuration error.
type ErrConfig struct {
	File string
	Key  string
	Err  error
}

func (err *ErrConfig) Error() string {
	file := err.File
	if len(file) == 0 {
		file = "config"
	}
	if len(err.Key) == 0 {
		return f("%v: %v", file, err.Err)
	}
	return f("%v: %v: %v", file, err.Key, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}
