// Package blobs moves parameter files between object storage and the local
// filesystem.
package blobs

import (
	"context"
	"fmt"
	"strings"
)

type BlobReader interface {
	// If no such object exists, Download returns an error for which
	// errors.Is(err, os.ErrNotExist) is true.
	Download(ctx context.Context, info BlobInfo, destPath string) error
}

type Blobstore interface {
	BlobReader
	// Upload copies the file at sourcePath to the object named by info,
	// replacing any existing object.
	Upload(ctx context.Context, sourcePath string, info BlobInfo) error
}

type BlobInfo struct {
	Key string
}

// ParseURL splits gs://bucket/key. ok is false for any other scheme.
func ParseURL(uri string) (bucket string, info BlobInfo, ok bool, err error) {
	rest, found := strings.CutPrefix(uri, "gs://")
	if !found {
		return "", BlobInfo{}, false, nil
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", BlobInfo{}, true, fmt.Errorf("invalid object URL %q: want gs://bucket/key", uri)
	}
	return bucket, BlobInfo{Key: key}, true, nil
}
