package device

import (
	"errors"

	"github.com/ezrec/qom/translate"
)

var f = translate.From

var (
	ErrRealized    = errors.New(f("device already realized"))
	ErrNotRealized = errors.New(f("device not realized"))
)
