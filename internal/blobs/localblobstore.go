package blobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"
)

// LocalBlobstore keeps objects as files under Dir. It stands in for a
// bucket in tests and offline runs.
type LocalBlobstore struct {
	Dir string
}

var _ Blobstore = (*LocalBlobstore)(nil)

func (l *LocalBlobstore) path(info BlobInfo) string {
	return filepath.Join(l.Dir, filepath.FromSlash(info.Key))
}

func (l *LocalBlobstore) Upload(ctx context.Context, sourcePath string, info BlobInfo) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer src.Close()

	dest := l.path(info)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}
	n, err := writeToFile(ctx, src, dest)
	if err != nil {
		return fmt.Errorf("storing %q: %w", info.Key, err)
	}
	klog.FromContext(ctx).V(2).Info("stored object", "key", info.Key, "bytes", n)
	return nil
}

func (l *LocalBlobstore) Download(ctx context.Context, info BlobInfo, destinationPath string) error {
	src, err := os.Open(l.path(info))
	if err != nil {
		return fmt.Errorf("opening object %q: %w", info.Key, err)
	}
	defer src.Close()

	if _, err := writeToFile(ctx, src, destinationPath); err != nil {
		return fmt.Errorf("fetching %q: %w", info.Key, err)
	}
	return nil
}
