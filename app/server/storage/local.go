package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Local struct {
	baseDir string
}

func NewLocal(baseDir string) (*Local, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	if err = os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Local{baseDir: abs}, nil
}

func (s *Local) Dir() string {
	return s.baseDir
}

// resolve 把相对于存储目录的路径转换成绝对路径，只接受落在存储目录内的路径
func (s *Local) resolve(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return "", fmt.Errorf("path %q is not relative to storage directory", path)
	}
	full := filepath.Clean(filepath.Join(s.baseDir, path))

	if !strings.HasPrefix(full, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes storage directory", path)
	}

	return full, nil
}

func (s *Local) Save(ctx context.Context, name string, content io.Reader, size int64, contentType string) (string, error) {
	if filepath.Base(name) != name {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	full, err := s.resolve(name)
	if err != nil {
		return "", err
	}

	// 先写到临时文件，再改名，保证同一目录下的原子替换
	tmp, err := os.CreateTemp(s.baseDir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, content)
	if err == nil && size >= 0 && written != size {
		err = fmt.Errorf("short write: %d of %d bytes", written, size)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err = os.Rename(tmpName, full); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	// 记录相对路径，存储目录搬迁后仍然有效
	return name, nil
}

func (s *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, nil
}

func (s *Local) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err = os.Remove(full); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
