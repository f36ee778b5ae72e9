package cpu

import (
	"errors"

	"github.com/ezrec/qom/translate"
)

var f = translate.From

var (
	ErrModelUnknown  = errors.New(f("cpu model unknown"))
	ErrModelAbstract = errors.New(f("cpu model abstract"))
	ErrNotCPU        = errors.New(f("not a cpu"))
)

// ErrModel is returned when a model name does not select a CPU type.
type ErrModel struct {
	Family string
	Model  string
	Err    error
}

func (err *ErrModel) Error() string {
	return f("%v model '%v' %v", err.Family, err.Model, err.Err)
}

func (err *ErrModel) Unwrap() error {
	return err.Err
}
