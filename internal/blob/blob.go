// Package blob stores packaged libraries in a filesystem directory or an
// S3-compatible bucket.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Driver identifies a blob storage backend.
type Driver string

const (
	// DriverNone disables publishing.
	DriverNone Driver = "none"
	// DriverFilesystem stores blobs below a local directory.
	DriverFilesystem Driver = "fs"
	// DriverS3 stores blobs in an S3 or MinIO bucket.
	DriverS3 Driver = "s3"
)

// ParseDriver parses a driver name. Blank means none.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case "", DriverNone:
		return DriverNone, nil
	case DriverFilesystem, DriverS3:
		return d, nil
	}
	return "", fmt.Errorf("unknown blob driver %q (want none, fs or s3)", s)
}

// PutOptions specifies optional parameters for Put.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string

	// Overwrite replaces an existing blob instead of failing.
	Overwrite bool
}

// Info describes a stored blob.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// Store is the subset of object storage the publisher needs.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

var (
	// ErrExists is returned by Put when the key is taken and Overwrite is
	// not set.
	ErrExists = errors.New("blob already exists")
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("blob not found")
)

// Config selects and configures a Store.
type Config struct {
	Driver Driver
	Prefix string

	// FSRoot is the directory used by the fs driver.
	FSRoot string

	S3 S3Config
}

// Open returns the store selected by cfg, or nil for DriverNone.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverNone:
		return nil, nil
	case DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
