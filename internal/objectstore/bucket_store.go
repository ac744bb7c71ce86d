package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

const downloadTokenKey = "firebaseStorageDownloadTokens"

// BucketStore keeps objects in a Cloud Storage for Firebase bucket. Each
// upload gets a download token so the returned URL works without
// credentials, the same way client SDK uploads do.
type BucketStore struct {
	bucket *storage.BucketHandle
}

func NewBucketStore(bucket *storage.BucketHandle) *BucketStore {
	if bucket == nil {
		panic("objectstore: nil bucket handle")
	}
	return &BucketStore{bucket: bucket}
}

func (s *BucketStore) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	token := uuid.NewString()
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{downloadTokenKey: token}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return DownloadURL(s.bucket.BucketName(), path, token), nil
}

func (s *BucketStore) Delete(ctx context.Context, path string) error {
	err := s.bucket.Object(path).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return err
}

func (s *BucketStore) List(ctx context.Context, prefix string) ([]string, error) {
	it := s.bucket.Objects(ctx, &storage.Query{
		Prefix:    strings.TrimSuffix(prefix, "/") + "/",
		Delimiter: "/",
	})
	var paths []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if attrs.Name == "" {
			// Synthetic entry for a deeper "directory".
			continue
		}
		paths = append(paths, attrs.Name)
	}
	return paths, nil
}

// DownloadURL builds the token-authenticated Firebase Storage URL for an object.
func DownloadURL(bucket, path, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(path), url.QueryEscape(token))
}
