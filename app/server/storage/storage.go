// Package storage holds the résumé artifact files. Each driver writes a file
// in a single atomic step, so a reader never observes a partially written
// artifact under its final name.
package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
)

// ErrNotExist is returned (wrapped) by Open and Delete when nothing is stored at the path.
var ErrNotExist = fs.ErrNotExist

type Storage interface {
	// Save stores the content under name and returns the path to record.
	// The path is relative to the driver's root so records survive a relocation.
	Save(ctx context.Context, name string, content io.Reader, size int64, contentType string) (string, error)

	// Open returns a reader for the file at path
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the file at path
	Delete(ctx context.Context, path string) error
}

func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}
