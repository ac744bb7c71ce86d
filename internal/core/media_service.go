package core

import (
	"context"
	"path"
	"strings"

	"platefull-backend-go/internal/imaging"
	"platefull-backend-go/internal/objectstore"
)

// MediaOptions controls recompression before upload.
type MediaOptions struct {
	Compress bool
	MaxWidth int
	Quality  float64
}

type mediaService struct {
	store objectstore.Store
	opts  MediaOptions
}

// NewMediaService creates a MediaService over store.
func NewMediaService(store objectstore.Store, opts MediaOptions) MediaService {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = imaging.DefaultMaxWidth
	}
	if opts.Quality <= 0 {
		opts.Quality = imaging.DefaultQuality
	}
	return &mediaService{store: store, opts: opts}
}

// Upload validates file, optionally recompresses it and writes it at p.
// Invalid files never reach the store.
func (s *mediaService) Upload(ctx context.Context, file *imaging.File, p string) (string, error) {
	if err := imaging.Validate(file); err != nil {
		return "", err
	}
	if s.opts.Compress {
		file = imaging.Compress(file, s.opts.MaxWidth, s.opts.Quality)
	}
	return s.store.Put(ctx, p, file.ContentType, file.Data)
}

func (s *mediaService) UploadDonationImage(ctx context.Context, file *imaging.File, donationID string) (string, error) {
	return s.Upload(ctx, file, donationPrefix(donationID)+"/"+objectName(file))
}

func (s *mediaService) UploadProfileImage(ctx context.Context, file *imaging.File, userID string) (string, error) {
	return s.Upload(ctx, file, "profiles/"+userID+"/"+objectName(file))
}

func (s *mediaService) UploadNGOLogo(ctx context.Context, file *imaging.File, ngoID string) (string, error) {
	return s.Upload(ctx, file, "ngos/"+ngoID+"/logo/"+objectName(file))
}

func (s *mediaService) DeleteFile(ctx context.Context, p string) error {
	return s.store.Delete(ctx, p)
}

// DeleteDonationImages deletes the donation's images one by one and stops
// at the first failure.
func (s *mediaService) DeleteDonationImages(ctx context.Context, donationID string) error {
	prefix := donationPrefix(donationID)
	paths, err := s.store.List(ctx, prefix)
	if err != nil {
		return err
	}
	for i, p := range paths {
		if err := s.store.Delete(ctx, p); err != nil {
			return &BatchDeleteError{Prefix: prefix, Deleted: i, Total: len(paths), Failed: p, Err: err}
		}
	}
	return nil
}

func donationPrefix(donationID string) string {
	return "donations/" + donationID
}

// objectName keeps only the final element of the client-supplied name.
func objectName(file *imaging.File) string {
	name := path.Base(strings.ReplaceAll(file.Name, "\\", "/"))
	if name == "." || name == ".." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
