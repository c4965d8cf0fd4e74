package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PingContext(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, mr.Addr(), c.Addr())
	require.NoError(t, c.PingContext(context.Background()))

	mr.Close()
	assert.Error(t, c.PingContext(context.Background()))
}

func TestClient_PingContext_Unreachable(t *testing.T) {
	c := New("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.Error(t, c.PingContext(ctx))
}

func TestClient_PingContext_RequiresPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("hunter2")

	bad := New(mr.Addr(), "wrong", 0)
	t.Cleanup(func() { _ = bad.Close() })
	assert.Error(t, bad.PingContext(context.Background()))

	good := New(mr.Addr(), "hunter2", 0)
	t.Cleanup(func() { _ = good.Close() })
	assert.NoError(t, good.PingContext(context.Background()))
}
