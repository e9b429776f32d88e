package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// Storage holds snapshot objects addressed by key.
type Storage interface {
	Upload(ctx context.Context, data []byte, key string) error
	Download(ctx context.Context, key string) ([]byte, error)
	// ListObjects returns the keys starting with prefix, sorted.
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// Options selects and configures a backend.
type Options struct {
	Type     string
	Path     string // Directory for local, key prefix for s3
	S3Bucket string
	S3Region string
}

// New builds the backend named by opts.Type.
func New(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Type {
	case TypeLocal, "":
		return NewLocalStorage(opts.Path), nil
	case TypeS3:
		return NewS3Storage(ctx, opts.S3Bucket, opts.S3Region, opts.Path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", opts.Type)
	}
}

type localStorage struct {
	path string
}

func NewLocalStorage(path string) Storage {
	if path == "" {
		path = "."
	}
	return &localStorage{path: path}
}

func (l *localStorage) Upload(_ context.Context, data []byte, key string) error {
	filename := filepath.Join(l.path, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(filename), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filename, err)
	}
	return os.WriteFile(filename, data, 0640)
}

func (l *localStorage) Download(_ context.Context, key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(l.path, filepath.FromSlash(key)))
}

func (l *localStorage) ListObjects(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// s3API is the subset of *s3.Client the backend uses.
type s3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3Storage struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Storage uses the default AWS credential chain (environment, shared config, instance
// role). Keys are stored under prefix inside bucket.
func NewS3Storage(ctx context.Context, bucket, region, prefix string) (Storage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var optFns []func(*config.LoadOptions) error
	if region != "" {
		optFns = append(optFns, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newS3Storage(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func newS3Storage(client s3API, bucket, prefix string) *s3Storage {
	return &s3Storage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (s *s3Storage) objectKey(key string) string {
	switch {
	case s.prefix == "":
		return key
	case key == "":
		return s.prefix + "/"
	default:
		return path.Join(s.prefix, key)
	}
}

func (s *s3Storage) Upload(ctx context.Context, data []byte, key string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   bytes.NewReader(data),
	}
	_, err := s.client.PutObject(ctx, input)
	return err
}

func (s *s3Storage) Download(ctx context.Context, key string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	}
	output, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()

	return io.ReadAll(output.Body)
}

func (s *s3Storage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	var files []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.objectKey(prefix)),
	})

	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, obj := range output.Contents {
			if obj.Key == nil {
				continue
			}
			key := *obj.Key
			if s.prefix != "" {
				key = strings.TrimPrefix(key, s.prefix+"/")
			}
			files = append(files, key)
		}
	}

	sort.Strings(files)
	return files, nil
}
