package pathway_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valaphee/flowgo/internal/domain/pathway"
	"github.com/valaphee/flowgo/internal/pkg/errors"
)

func TestDataPath_UnboundGetFails(t *testing.T) {
	r := pathway.NewRegistry(nil)
	p := r.DataPath(1)

	_, err := p.Get()
	require.Error(t, err)

	var unbound *errors.UnboundPathError
	assert.True(t, errors.As(err, &unbound))
}

func TestDataPath_DoubleBindFails(t *testing.T) {
	r := pathway.NewRegistry(nil)
	p := r.DataPath(1)

	require.NoError(t, p.Bind("test", func() (any, error) { return 1, nil }))

	err := p.Bind("test", func() (any, error) { return 2, nil })
	require.Error(t, err)

	var double *errors.DoubleBindError
	assert.True(t, errors.As(err, &double))
}

func TestDataPath_RepeatedPullOfPureProducer(t *testing.T) {
	r := pathway.NewRegistry(nil)
	p := r.DataPath(1)

	require.NoError(t, p.Bind("test", func() (any, error) { return 42, nil }))

	for i := 0; i < 3; i++ {
		v, err := p.Get()
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
}

func TestDataPath_NoMemoizationAcrossPulls(t *testing.T) {
	r := pathway.NewRegistry(nil)
	p := r.DataPath(1)

	calls := 0
	require.NoError(t, p.Bind("test", func() (any, error) {
		calls++
		return calls, nil
	}))

	first, err := p.Get()
	require.NoError(t, err)
	second, err := p.Get()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGetOfType_Mismatch(t *testing.T) {
	r := pathway.NewRegistry(nil)
	p := r.DataPath(1)

	require.NoError(t, p.Bind("test", func() (any, error) { return "not an int", nil }))

	_, err := pathway.GetOfType[int](p)
	require.Error(t, err)

	var mismatch *errors.TypeMismatchError
	assert.True(t, errors.As(err, &mismatch))
}

func TestGetOfType_Match(t *testing.T) {
	r := pathway.NewRegistry(nil)
	p := r.DataPath(1)

	require.NoError(t, p.Bind("test", func() (any, error) { return 7, nil }))

	v, err := pathway.GetOfType[int](p)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestControlPath_UnboundInvokeIsNoOp(t *testing.T) {
	r := pathway.NewRegistry(nil)
	p := r.ControlPath(1)

	err := p.Invoke(context.Background())
	assert.NoError(t, err)
}

func TestControlPath_DoubleBindFails(t *testing.T) {
	r := pathway.NewRegistry(nil)
	p := r.ControlPath(1)

	require.NoError(t, p.Declare("test", func(ctx context.Context) error { return nil }))

	err := p.Declare("test", func(ctx context.Context) error { return nil })
	require.Error(t, err)

	var double *errors.DoubleBindError
	assert.True(t, errors.As(err, &double))
}

func TestControlPath_InvokeRunsBody(t *testing.T) {
	r := pathway.NewRegistry(nil)
	p := r.ControlPath(1)

	invoked := false
	require.NoError(t, p.Declare("test", func(ctx context.Context) error {
		invoked = true
		return nil
	}))

	require.NoError(t, p.Invoke(context.Background()))
	assert.True(t, invoked)
}

func TestRegistry_SameIDYieldsSamePath(t *testing.T) {
	r := pathway.NewRegistry(nil)

	a := r.DataPath(5)
	b := r.DataPath(5)
	assert.Same(t, a, b)

	x := r.ControlPath(9)
	y := r.ControlPath(9)
	assert.Same(t, x, y)
}
