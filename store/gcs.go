package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// gcsStore keeps objects in a Google Cloud Storage bucket under a prefix.
type gcsStore struct {
	client  *storage.Client
	bucket  string
	prefix  string
	retries uint64
}

// NewGCS connects to Cloud Storage with the credentials file from opts, or
// the application default credentials when none is given.
func NewGCS(ctx context.Context, loc Location, opts Options) (Store, error) {
	var copts []option.ClientOption
	if opts.GCSCredentialsFile != "" {
		copts = append(copts, option.WithCredentialsFile(opts.GCSCredentialsFile))
	} else {
		creds, err := google.FindDefaultCredentials(ctx, storage.ScopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("finding google credentials: %w", err)
		}
		copts = append(copts, option.WithCredentials(creds))
	}
	client, err := storage.NewClient(ctx, copts...)
	if err != nil {
		return nil, err
	}
	return &gcsStore{client: client, bucket: loc.Bucket, prefix: loc.Path, retries: opts.Retries}, nil
}

func (s *gcsStore) Location() string {
	return Location{Scheme: "gs", Bucket: s.bucket, Path: s.prefix}.String()
}

func (s *gcsStore) object(name string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(join(s.prefix, name))
}

func (s *gcsStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	var r *storage.Reader
	err := withRetry(ctx, s.retries, func(ctx context.Context) error {
		var err error
		r, err = s.object(name).NewReader(ctx)
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("gs://%s/%s: %w", s.bucket, join(s.prefix, name), ErrNotExist)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *gcsStore) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	w := s.object(name).NewWriter(ctx)
	w.ChunkSize = 10 * 256 * 1024
	return w, nil
}

func (s *gcsStore) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := withRetry(ctx, s.retries, func(ctx context.Context) error {
		_, err := s.object(name).Attrs(ctx)
		switch {
		case err == nil:
			exists = true
		case errors.Is(err, storage.ErrObjectNotExist):
			exists = false
		default:
			return err
		}
		return nil
	})
	return exists, err
}

func (s *gcsStore) List(ctx context.Context, prefix string) ([]string, error) {
	root := s.prefix
	if root != "" {
		root += "/"
	}
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: root + prefix})
	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		names = append(names, strings.TrimPrefix(attrs.Name, root))
	}
	return names, nil
}

func (s *gcsStore) RemoveAll(ctx context.Context) error {
	names, err := s.List(ctx, "")
	if err != nil {
		return err
	}
	for _, name := range names {
		err := withRetry(ctx, s.retries, func(ctx context.Context) error {
			err := s.object(name).Delete(ctx)
			if errors.Is(err, storage.ErrObjectNotExist) {
				return nil
			}
			return err
		})
		if err != nil {
			return fmt.Errorf("deleting %s: %w", name, err)
		}
	}
	log.Debug().Str("location", s.Location()).Int("objects", len(names)).Msg("removed objects")
	return nil
}
