package blobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"
)

// writeToFile copies src into destinationPath through a temp file in the
// same directory, so readers never see a partial file.
func writeToFile(ctx context.Context, src io.Reader, destinationPath string) (int64, error) {
	log := klog.FromContext(ctx)

	dir := filepath.Dir(destinationPath)
	tempFile, err := os.CreateTemp(dir, "download")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}

	shouldDeleteTempFile := true
	defer func() {
		if shouldDeleteTempFile {
			if err := os.Remove(tempFile.Name()); err != nil {
				log.Error(err, "removing temp file", "path", tempFile.Name())
			}
		}
	}()

	shouldCloseTempFile := true
	defer func() {
		if shouldCloseTempFile {
			if err := tempFile.Close(); err != nil {
				log.Error(err, "closing temp file", "path", tempFile.Name())
			}
		}
	}()

	n, err := io.Copy(tempFile, src)
	if err != nil {
		return n, fmt.Errorf("copying from source: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return n, fmt.Errorf("closing temp file: %w", err)
	}
	shouldCloseTempFile = false

	if err := os.Rename(tempFile.Name(), destinationPath); err != nil {
		return n, fmt.Errorf("renaming temp file: %w", err)
	}
	shouldDeleteTempFile = false

	return n, nil
}

// Fetch copies the object or file named by uri to a new temp file and
// returns its path. The caller removes the file.
func Fetch(ctx context.Context, uri string) (string, error) {
	bucket, info, isObject, err := ParseURL(uri)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "kview-params-*.yaml")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmp.Close()

	var r BlobReader
	if isObject {
		r = &GCSBlobstore{Bucket: bucket}
	} else {
		r = &LocalBlobstore{Dir: filepath.Dir(uri)}
		info = BlobInfo{Key: filepath.Base(uri)}
	}
	if err := r.Download(ctx, info, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// Put copies the local file at sourcePath to the object or file named by uri.
func Put(ctx context.Context, sourcePath, uri string) error {
	bucket, info, isObject, err := ParseURL(uri)
	if err != nil {
		return err
	}

	var w Blobstore
	if isObject {
		w = &GCSBlobstore{Bucket: bucket}
	} else {
		w = &LocalBlobstore{Dir: filepath.Dir(uri)}
		info = BlobInfo{Key: filepath.Base(uri)}
	}
	return w.Upload(ctx, sourcePath, info)
}
