// Package store gives the table and chain readers one view over local
// directories, Google Cloud Storage and S3. A Store is rooted at a location
// and names objects relative to it with forward slashes.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	retry "github.com/sethvargo/go-retry"
)

// ErrNotExist is returned, wrapped, when an object is missing.
var ErrNotExist = fs.ErrNotExist

type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	Exists(ctx context.Context, name string) (bool, error)
	// List returns the names under prefix, relative to the store root.
	List(ctx context.Context, prefix string) ([]string, error)
	// RemoveAll deletes every object under the store root.
	RemoveAll(ctx context.Context) error
	Location() string
}

// Options configure the cloud backends.
type Options struct {
	GCSCredentialsFile string
	S3Region           string
	S3Endpoint         string
	S3AccessKey        string
	S3SecretKey        string
	Retries            uint64
}

// Location is a parsed storage URL.
type Location struct {
	Scheme string // "file", "gs" or "s3"
	Bucket string
	Path   string
}

func (l Location) String() string {
	if l.Scheme == "file" {
		return l.Path
	}
	return l.Scheme + "://" + l.Bucket + "/" + l.Path
}

// Parent splits off the last path element.
func (l Location) Parent() (Location, string) {
	dir, base := path.Split(strings.TrimSuffix(l.Path, "/"))
	switch {
	case dir == "/" && l.Scheme == "file":
		l.Path = "/"
	case dir == "" && l.Scheme == "file":
		l.Path = "."
	default:
		l.Path = strings.TrimSuffix(dir, "/")
	}
	return l, base
}

func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, errors.New("empty storage location")
	}
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return Location{Scheme: "file", Path: s}, nil
	}
	switch scheme {
	case "file":
		return Location{Scheme: "file", Path: rest}, nil
	case "gs", "s3":
		bucket, p, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Location{}, fmt.Errorf("%s: missing bucket", s)
		}
		return Location{Scheme: scheme, Bucket: bucket, Path: strings.Trim(p, "/")}, nil
	}
	return Location{}, fmt.Errorf("%s: unsupported scheme %q", s, scheme)
}

// New returns the Store for location, picking the backend from its scheme.
func New(ctx context.Context, location string, opts Options) (Store, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	return newStore(ctx, loc, opts)
}

func newStore(ctx context.Context, loc Location, opts Options) (Store, error) {
	switch loc.Scheme {
	case "gs":
		return NewGCS(ctx, loc, opts)
	case "s3":
		return NewS3(ctx, loc, opts)
	}
	return NewLocal(loc.Path), nil
}

// OpenFile opens the single object named by location.
func OpenFile(ctx context.Context, location string, opts Options) (io.ReadCloser, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	parent, name := loc.Parent()
	if name == "" {
		return nil, fmt.Errorf("%s: not a file", location)
	}
	s, err := newStore(ctx, parent, opts)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, name)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// withRetry retries fn with a Fibonacci backoff. Missing objects are not
// retried.
func withRetry(ctx context.Context, n uint64, fn func(context.Context) error) error {
	if n == 0 {
		n = 5
	}
	b := retry.NewFibonacci(200 * time.Millisecond)
	return retry.Do(ctx, retry.WithMaxRetries(n, b), func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil || errors.Is(err, ErrNotExist) {
			return err
		}
		return retry.RetryableError(err)
	})
}

// CreateFile creates the single object named by location.
func CreateFile(ctx context.Context, location string, opts Options) (io.WriteCloser, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	parent, name := loc.Parent()
	if name == "" {
		return nil, fmt.Errorf("%s: not a file", location)
	}
	s, err := newStore(ctx, parent, opts)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, name)
}
