package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bucketName = "todo_attachments"

// GridFSStore keeps blobs in a GridFS bucket; references are hex ObjectIDs.
type GridFSStore struct {
	db      *mongo.Database
	timeout time.Duration
}

func NewGridFSStore(db *mongo.Database) (*GridFSStore, error) {
	s := &GridFSStore{db: db, timeout: 30 * time.Second}
	if _, err := s.bucket(); err != nil {
		return nil, err
	}
	return s, nil
}

// bucket opens a bucket per operation; read and write deadlines live on the
// bucket and must not be shared between requests.
func (s *GridFSStore) bucket() (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return b, nil
}

func (s *GridFSStore) deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(s.timeout)
}

func (s *GridFSStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	bucket, err := s.bucket()
	if err != nil {
		return "", err
	}
	if err := bucket.SetWriteDeadline(s.deadline(ctx)); err != nil {
		return "", err
	}
	id, err := bucket.UploadFromStream(cleanName(name), r)
	if err != nil {
		return "", fmt.Errorf("upload to gridfs: %w", err)
	}
	return id.Hex(), nil
}

func (s *GridFSStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, ErrNotFound
	}
	bucket, err := s.bucket()
	if err != nil {
		return nil, err
	}
	if err := bucket.SetReadDeadline(s.deadline(ctx)); err != nil {
		return nil, err
	}
	stream, err := bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open gridfs file: %w", err)
	}
	return stream, nil
}

func (s *GridFSStore) Delete(ctx context.Context, ref string) error {
	id, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return ErrNotFound
	}
	bucket, err := s.bucket()
	if err != nil {
		return err
	}
	if err := bucket.SetWriteDeadline(s.deadline(ctx)); err != nil {
		return err
	}
	if err := bucket.Delete(id); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete gridfs file: %w", err)
	}
	return nil
}
