package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreOnDiskLayout(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	fs, err := NewFileStore(root)
	require.NoError(t, err)

	h, err := PutString(ctx, fs, "hello world")
	require.NoError(t, err)

	hex := h.String()
	path := filepath.Join(root, hex[:2], hex[2:])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))
}

func TestFileStoreNoOrphanTempFilesVisible(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	fs, err := NewFileStore(root)
	require.NoError(t, err)

	_, err = PutString(ctx, fs, "committed")
	require.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), ".upload-", "temp file left visible after a successful Put")
	}
}

func TestFileStoreMissingBlob(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = fs.Get(ctx, NewHash([HashSize]byte{0x13}), nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewFileStoreCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "store")
	_, err := NewFileStore(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
