package download

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagerCancelAndReplace(t *testing.T) {
	m := NewManager()

	ctx1, done1 := m.Start(context.Background(), "https://github.com/acme/widget")
	require.Equal(t, 1, m.Active())
	require.NoError(t, ctx1.Err())

	// Starting again for the same key cancels the first job
	ctx2, done2 := m.Start(context.Background(), "https://github.com/acme/widget")
	require.Error(t, ctx1.Err())
	require.NoError(t, ctx2.Err())
	require.Equal(t, 1, m.Active())

	// The replaced job finishing must not release the new job's slot
	done1()
	require.Equal(t, 1, m.Active())
	require.NoError(t, ctx2.Err())

	done2()
	require.Equal(t, 0, m.Active())
}

func TestManagerCancel(t *testing.T) {
	m := NewManager()

	ctx, done := m.Start(context.Background(), "a")
	defer done()

	require.True(t, m.Cancel("a"))
	require.Error(t, ctx.Err())
	require.Equal(t, 0, m.Active())

	require.False(t, m.Cancel("a"))
	require.False(t, m.Cancel("never-started"))
}

func TestManagerIndependentKeys(t *testing.T) {
	m := NewManager()

	ctx1, done1 := m.Start(context.Background(), "a")
	ctx2, done2 := m.Start(context.Background(), "b")
	defer done1()
	defer done2()

	require.Equal(t, 2, m.Active())

	require.True(t, m.Cancel("a"))
	require.Error(t, ctx1.Err())
	require.NoError(t, ctx2.Err())
}

func TestManagerCancelAll(t *testing.T) {
	m := NewManager()

	ctx1, _ := m.Start(context.Background(), "a")
	ctx2, _ := m.Start(context.Background(), "b")

	m.CancelAll()
	require.Error(t, ctx1.Err())
	require.Error(t, ctx2.Err())
	require.Equal(t, 0, m.Active())
}
