package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const attachmentDir = "todo_attachments"

// FSStore keeps blobs as files under todo_attachments/<uuid>/<name>.
type FSStore struct {
	fs afero.Fs
}

func NewFSStore(fs afero.Fs) *FSStore {
	return &FSStore{fs: fs}
}

// NewDirStore roots an FSStore at dir on the local disk.
func NewDirStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return NewFSStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

func (s *FSStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	ref := path.Join(attachmentDir, uuid.NewString(), cleanName(name))
	if err := s.fs.MkdirAll(path.Dir(ref), 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	f, err := s.fs.Create(ref)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = s.fs.Remove(ref)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close blob: %w", err)
	}
	return ref, nil
}

func (s *FSStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	if !validRef(ref) {
		return nil, ErrNotFound
	}
	f, err := s.fs.Open(ref)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes the blob and its per-upload directory.
func (s *FSStore) Delete(_ context.Context, ref string) error {
	if !validRef(ref) {
		return ErrNotFound
	}
	if err := s.fs.RemoveAll(path.Dir(ref)); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func validRef(ref string) bool {
	return strings.HasPrefix(ref, attachmentDir+"/") && !strings.Contains(ref, "..")
}
