package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	cases := map[string]string{
		"uploads/menu.png":          "uploads/menu.png",
		"/uploads/menu.png":         "uploads/menu.png",
		"r2://menus/uploads/a.png":  "uploads/a.png",
		"gs://bucket/x/y/menu.xlsx": "x/y/menu.xlsx",
	}
	for in, want := range cases {
		assert.Equal(t, want, ObjectKey(in), in)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.UploadBytes(ctx, "debug/a.raw.txt", []byte("hello"), "text/plain"))

	got, err := store.Fetch(ctx, "r2://bucket/debug/a.raw.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	_, err = store.Fetch(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store := LocalStore{Root: t.TempDir()}

	require.NoError(t, store.UploadBytes(ctx, "debug_langchain/abc.raw.txt", []byte("Pie $4"), "text/plain"))

	got, err := store.Fetch(ctx, "debug_langchain/abc.raw.txt")
	require.NoError(t, err)
	assert.Equal(t, "Pie $4", string(got))

	_, err = store.Fetch(ctx, "nope.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}
