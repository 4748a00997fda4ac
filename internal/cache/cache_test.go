package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListCache_SetGet(t *testing.T) {
	c := New(10)

	c.Set("images:0:10", []byte("page-1"), time.Minute)

	got, ok := c.Get("images:0:10")
	require.True(t, ok)
	require.Equal(t, []byte("page-1"), got)

	_, ok = c.Get("images:10:10")
	require.False(t, ok)
}

func TestListCache_Overwrite(t *testing.T) {
	c := New(10)

	c.Set("k", []byte("old"), time.Minute)
	c.Set("k", []byte("new"), time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, []byte("new"), got)
	require.Equal(t, 1, c.Len())
}

func TestListCache_TTLExpiry(t *testing.T) {
	c := New(10)

	c.Set("k", []byte("v"), 30*time.Millisecond)

	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	// просроченная запись удаляется лениво при чтении
	_, ok = c.Get("k")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestListCache_LRUEviction(t *testing.T) {
	c := New(2)

	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)

	// чтение "a" делает его свежим - вытесняется "b"
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", []byte("3"), time.Minute)
	require.Equal(t, 2, c.Len())

	_, ok = c.Get("b")
	require.False(t, ok)

	_, ok = c.Get("a")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
}
