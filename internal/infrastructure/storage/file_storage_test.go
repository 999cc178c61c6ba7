package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalFileStorage_SaveReadDelete(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()
	fs := NewLocalFileStorage(tempDir, zap.NewNop())

	t.Run("saves into nested directories", func(t *testing.T) {
		err := fs.Save(ctx, "DOTS-1/a1_receipt.pdf", []byte("PDF content"))
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(tempDir, "DOTS-1", "a1_receipt.pdf"))
		assert.True(t, fs.Exists(ctx, "DOTS-1/a1_receipt.pdf"))
	})

	t.Run("reads saved content", func(t *testing.T) {
		content, err := fs.Read(ctx, "DOTS-1/a1_receipt.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("PDF content"), content)
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		require.NoError(t, fs.Save(ctx, "DOTS-1/a1_receipt.pdf", []byte("updated")))
		content, err := fs.Read(ctx, "DOTS-1/a1_receipt.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("updated"), content)
	})

	t.Run("delete is idempotent and removes empty folder", func(t *testing.T) {
		require.NoError(t, fs.Delete(ctx, "DOTS-1/a1_receipt.pdf"))
		require.NoError(t, fs.Delete(ctx, "DOTS-1/a1_receipt.pdf"))
		assert.False(t, fs.Exists(ctx, "DOTS-1/a1_receipt.pdf"))
		_, err := os.Stat(filepath.Join(tempDir, "DOTS-1"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("reading a missing file fails", func(t *testing.T) {
		_, err := fs.Read(ctx, "DOTS-2/missing.pdf")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLocalFileStorage_RejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	fs := NewLocalFileStorage(t.TempDir(), zap.NewNop())

	for _, p := range []string{"../outside.txt", "a/../../outside.txt", "."} {
		t.Run(p, func(t *testing.T) {
			err := fs.Save(ctx, p, []byte("x"))
			assert.ErrorIs(t, err, ErrPathEscapesBase)

			_, err = fs.Read(ctx, p)
			assert.ErrorIs(t, err, ErrPathEscapesBase)

			assert.False(t, fs.Exists(ctx, p))
		})
	}
}
