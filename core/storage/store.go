package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store abstracts reading and writing whole documents as byte buffers.
// The commit engine's only external contract is "read bytes in, write
// mutated bytes out"; it never sees where the bytes live.
type Store interface {
	// Read returns the full contents of the document at path.
	Read(ctx context.Context, path string) ([]byte, error)
	// Write replaces the document at path with data.
	Write(ctx context.Context, path string, data []byte) error
	// EnsureWritable verifies the document can be written before any
	// mutation work starts. A file held open by another program fails here.
	EnsureWritable(ctx context.Context, path string) error
}

// NewStore creates a Store based on the configured provider.
func NewStore(cfg Config) (Store, error) {
	switch cfg.Provider {
	case ProviderLocal:
		return &localStore{root: cfg.LocalRoot}, nil
	case ProviderMinio:
		return newMinioStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// localStore serves documents from the local filesystem.
type localStore struct {
	root string
}

func (s *localStore) resolve(path string) string {
	if s.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}

func (s *localStore) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return data, nil
}

func (s *localStore) Write(_ context.Context, path string, data []byte) error {
	if err := os.WriteFile(s.resolve(path), data, 0o644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}
	return nil
}

func (s *localStore) EnsureWritable(_ context.Context, path string) error {
	f, err := os.OpenFile(s.resolve(path), os.O_WRONLY, 0)
	if err != nil {
		// A missing file is writable: Write will create it.
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return f.Close()
}

// minioStore serves documents from an S3-compatible bucket.
type minioStore struct {
	client *minio.Client
	bucket string
}

func newMinioStore(cfg Config) (*minioStore, error) {
	// Minio expects the endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Custom transport with strict timeouts
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &minioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *minioStore) Read(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", path, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return data, nil
}

func (s *minioStore) Write(ctx context.Context, path string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, path,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to store document %s: %w", path, err)
	}
	return nil
}

func (s *minioStore) EnsureWritable(ctx context.Context, _ string) error {
	// Object storage has no file locks; verify the bucket is reachable.
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.bucket)
	}
	return nil
}
