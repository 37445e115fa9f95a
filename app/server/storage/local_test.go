package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	path, err := s.Save(ctx, "resume-1.pdf", strings.NewReader("%PDF-1.4 body"), 13, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "resume-1.pdf", path)

	r, err := s.Open(ctx, path)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, r.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(content))

	require.NoError(t, s.Delete(ctx, path))
	_, err = os.Stat(filepath.Join(s.Dir(), path))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalMissingFile(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = s.Open(ctx, "nothing.pdf")
	assert.True(t, IsNotExist(err))

	err = s.Delete(ctx, "nothing.pdf")
	assert.True(t, IsNotExist(err))
}

func TestLocalRejectsEscapingNames(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(ctx, "../evil.pdf", strings.NewReader("x"), 1, "application/pdf")
	assert.Error(t, err)

	_, err = s.Open(ctx, "../../etc/passwd")
	assert.Error(t, err)
	assert.False(t, IsNotExist(err))

	assert.Error(t, s.Delete(ctx, "/etc/passwd"))
	assert.Error(t, s.Delete(ctx, filepath.Join(s.Dir(), "resume-1.pdf")))
}

func TestLocalPathsSurviveRelocation(t *testing.T) {
	ctx := context.Background()
	dirA, dirB := t.TempDir(), t.TempDir()

	a, err := NewLocal(dirA)
	require.NoError(t, err)
	path, err := a.Save(ctx, "resume-3.pdf", strings.NewReader("%PDF-1.4 body"), 13, "application/pdf")
	require.NoError(t, err)

	// 搬到新目录
	require.NoError(t, os.Rename(filepath.Join(dirA, path), filepath.Join(dirB, path)))
	b, err := NewLocal(dirB)
	require.NoError(t, err)

	r, err := b.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, b.Delete(ctx, path))
}

func TestLocalShortWriteLeavesNothing(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(ctx, "resume-2.pdf", strings.NewReader("abc"), 10, "application/pdf")
	require.Error(t, err)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
