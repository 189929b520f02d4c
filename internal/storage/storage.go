// Package storage publishes generated report artifacts to S3-compatible
// object storage. It is optional; when disabled the service keeps
// artifacts on local disk only.
package storage

import "context"

// ObjectInfo represents metadata for a remote file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal S3-compatible operations report
// publication needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	UploadFile(ctx context.Context, key, path string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}
