package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type s3Store struct {
	client  *s3.Client
	bucket  string
	prefix  string
	retries uint64
}

// NewS3 returns a store over an S3 bucket. Static keys in opts take
// precedence; otherwise the SDK default chain supplies credentials
// (environment, shared config files, instance roles). A custom endpoint
// selects path style addressing, as MinIO and other S3 compatible servers
// expect.
func NewS3(ctx context.Context, loc Location, opts Options) (Store, error) {
	var load []func(*config.LoadOptions) error
	if opts.S3Region != "" {
		load = append(load, config.WithRegion(opts.S3Region))
	}
	if opts.S3AccessKey != "" {
		load = append(load, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.S3AccessKey, opts.S3SecretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, load...)
	if err != nil {
		return nil, fmt.Errorf("s3://%s: loading aws config: %w", loc.Bucket, err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Store{client: client, bucket: loc.Bucket, prefix: loc.Path, retries: opts.Retries}, nil
}

func (s *s3Store) Location() string {
	return Location{Scheme: "s3", Bucket: s.bucket, Path: s.prefix}.String()
}

func (s *s3Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	var body io.ReadCloser
	err := withRetry(ctx, s.retries, func(ctx context.Context) error {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(join(s.prefix, name)),
		})
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return fmt.Errorf("s3://%s/%s: %w", s.bucket, join(s.prefix, name), ErrNotExist)
		}
		if err != nil {
			return err
		}
		body = out.Body
		return nil
	})
	return body, err
}

// s3Writer streams into a multipart upload; Close waits for it to finish.
type s3Writer struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *s3Writer) Write(p []byte) (int, error) { return w.pw.Write(p) }

func (w *s3Writer) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}

func (s *s3Store) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	pr, pw := io.Pipe()
	w := &s3Writer{pw: pw, done: make(chan error, 1)}
	uploader := manager.NewUploader(s.client)
	go func() {
		_, err := uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(join(s.prefix, name)),
			Body:   pr,
		})
		pr.CloseWithError(err)
		w.done <- err
	}()
	return w, nil
}

func (s *s3Store) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := withRetry(ctx, s.retries, func(ctx context.Context) error {
		_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(join(s.prefix, name)),
		})
		var nf *types.NotFound
		switch {
		case err == nil:
			exists = true
		case errors.As(err, &nf):
			exists = false
		default:
			return err
		}
		return nil
	})
	return exists, err
}

func (s *s3Store) List(ctx context.Context, prefix string) ([]string, error) {
	root := s.prefix
	if root != "" {
		root += "/"
	}
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(root + prefix),
	})
	var names []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			names = append(names, strings.TrimPrefix(aws.ToString(obj.Key), root))
		}
	}
	return names, nil
}

func (s *s3Store) RemoveAll(ctx context.Context) error {
	names, err := s.List(ctx, "")
	if err != nil {
		return err
	}
	for len(names) > 0 {
		n := min(len(names), 1000)
		ids := make([]types.ObjectIdentifier, n)
		for i, name := range names[:n] {
			ids[i] = types.ObjectIdentifier{Key: aws.String(join(s.prefix, name))}
		}
		err := withRetry(ctx, s.retries, func(ctx context.Context) error {
			_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(s.bucket),
				Delete: &types.Delete{Objects: ids},
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("deleting objects under %s: %w", s.Location(), err)
		}
		names = names[n:]
	}
	return nil
}
