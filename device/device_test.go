package device

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/qom/object"
)

func newRegistry(t *testing.T, realizeErr error) (reg *object.Registry, calls *[]string) {
	calls = &[]string{}

	reg = object.NewRegistry()
	require.NoError(t, RegisterTypes(reg))
	require.NoError(t, reg.Register(&object.TypeInfo{
		Name:   "led",
		Parent: TYPE_DEVICE,
		ClassInit: func(class *object.Class, data any) {
			class.SetMethod(METHOD_REALIZE, func(obj *object.Object) error {
				*calls = append(*calls, "realize")
				return realizeErr
			})
			class.SetMethod(METHOD_UNREALIZE, func(obj *object.Object) {
				*calls = append(*calls, "unrealize")
			})
		},
	}))
	require.NoError(t, reg.Register(&object.TypeInfo{Name: "plain", Parent: object.TYPE_OBJECT}))

	return
}

func TestRealize(t *testing.T) {
	assert := assert.New(t)

	reg, calls := newRegistry(t, nil)

	obj, err := reg.New("led")
	require.NoError(t, err)

	dev, err := Declared.Cast(obj)
	assert.NoError(err)
	assert.False(dev.Realized())

	assert.NoError(Realize(obj))
	assert.True(dev.Realized())
	assert.ErrorIs(Realize(obj), ErrRealized)

	assert.NoError(Unrealize(obj))
	assert.False(dev.Realized())
	assert.ErrorIs(Unrealize(obj), ErrNotRealized)

	assert.Equal([]string{"realize", "unrealize"}, *calls)

	dc, err := Declared.GetClass(obj)
	assert.NoError(err)
	assert.True(dc.UserCreatable())
}

func TestRealize_Failure(t *testing.T) {
	assert := assert.New(t)

	refused := errors.New("refused")
	reg, _ := newRegistry(t, refused)

	obj, err := reg.New("led")
	require.NoError(t, err)

	assert.ErrorIs(Realize(obj), refused)

	dev, _ := Declared.Cast(obj)
	assert.False(dev.Realized())
}

func TestRealize_NotDevice(t *testing.T) {
	assert := assert.New(t)

	reg, _ := newRegistry(t, nil)

	obj, err := reg.New("plain")
	require.NoError(t, err)

	assert.ErrorIs(Realize(obj), object.ErrInvalidCast)
	assert.ErrorIs(Unrealize(obj), object.ErrInvalidCast)
}

func TestDestroy_Unrealizes(t *testing.T) {
	assert := assert.New(t)

	reg, calls := newRegistry(t, nil)

	obj, err := reg.New("led")
	require.NoError(t, err)
	assert.NoError(Realize(obj))
	assert.NoError(obj.Destroy())

	assert.Equal([]string{"realize", "unrealize"}, *calls)

	// Not realized, nothing to undo.
	*calls = nil
	obj, err = reg.New("led")
	require.NoError(t, err)
	assert.NoError(obj.Destroy())
	assert.Empty(*calls)
}
