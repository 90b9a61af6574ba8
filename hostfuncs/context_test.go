package hostfuncs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ctxKey string

func TestHostContext_Values(t *testing.T) {
	parent := context.WithValue(context.Background(), ctxKey("parent"), "from-parent")
	hc := NewHostContext(parent, "arith.add")

	assert.Equal(t, "arith.add", hc.FunctionName())

	hc.SetValue(ctxKey("k"), 42)
	v, ok := hc.GetValue(ctxKey("k"))
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	v, ok = hc.GetValue(ctxKey("parent"))
	assert.True(t, ok)
	assert.Equal(t, "from-parent", v)

	_, ok = hc.GetValue(ctxKey("missing"))
	assert.False(t, ok)
}

func TestHostContextFrom(t *testing.T) {
	hc := NewHostContext(context.Background(), "a")
	assert.Same(t, hc, HostContextFrom(hc, "a"))

	other := HostContextFrom(hc, "b")
	assert.NotSame(t, hc, other)
	assert.Equal(t, "b", other.FunctionName())

	//nolint:staticcheck // a nil parent falls back to context.Background
	fromNil := NewHostContext(nil, "nil")
	assert.NoError(t, fromNil.Err())
}

func TestHostContext_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hc := NewHostContext(ctx, "x")
	cancel()
	<-hc.Done()
	assert.ErrorIs(t, hc.Err(), context.Canceled)
}
