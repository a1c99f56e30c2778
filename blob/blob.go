// Package blob persists attachment files behind a small Store interface, backed
// by MongoDB GridFS in deployments and an afero filesystem otherwise.
package blob

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var ErrNotFound = errors.New("blob not found")

// Store persists opaque file contents and hands back a reference to them.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

// cleanName keeps the base name of an uploaded file and drops path tricks.
func cleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		return "upload"
	}
	return name
}
