package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStorage(Config{Type: "local", BasePath: dir, BaseURL: "/uploads/"})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "photos/owner/a.png", strings.NewReader("png"), "image/png"))

	data, err := os.ReadFile(filepath.Join(dir, "photos", "owner", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	exists, err := store.Exists(ctx, "photos/owner/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	url, err := store.GetURL(ctx, "photos/owner/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/photos/owner/a.png", url)

	require.NoError(t, store.Delete(ctx, "photos/owner/a.png"))
	exists, err = store.Exists(ctx, "photos/owner/a.png")
	require.NoError(t, err)
	assert.False(t, exists)

	// удаление отсутствующего файла не ошибка
	require.NoError(t, store.Delete(ctx, "photos/owner/a.png"))
}

func TestLocalStorage_StaysInsideBasePath(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "uploads")
	store, err := NewLocalStorage(Config{BasePath: dir})
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain"))

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)

	assert.ErrorIs(t, store.Save(context.Background(), "/", strings.NewReader("x"), "text/plain"), ErrInvalidPath)
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}
