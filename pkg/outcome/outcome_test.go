package outcome

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOK(t *testing.T) {
	o := OK(42)
	assert.True(t, o.IsOK())
	assert.False(t, o.IsFail())
	assert.NoError(t, o.Err())

	v, err := o.Value()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 42, o.MustValue())
}

func TestFail(t *testing.T) {
	cause := errors.New("boom")
	o := Fail[string](cause)
	assert.False(t, o.IsOK())
	assert.True(t, o.IsFail())
	assert.ErrorIs(t, o.Err(), cause)

	v, err := o.Value()
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, v)

	assert.PanicsWithValue(t, cause, func() { o.MustValue() })
}

func TestZeroValueIsFailure(t *testing.T) {
	var o Outcome[int]
	assert.True(t, o.IsFail())
}
