package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

const (
	// Storage types
	StorageTypeLocal = "local"
	StorageTypeS3    = "s3"
)

// ErrNotFound is returned when a key does not exist in storage.
var ErrNotFound = errors.New("file not found")

// Storage is the file storage used for templates, assets and archived documents.
type Storage interface {
	Save(ctx context.Context, key string, reader io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	JoinPath(elem ...string) string
	ValidateKey(key string) error
}

// S3Config holds the S3 storage configuration
type S3Config struct {
	Region         string
	Bucket         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// LocalConfig holds the local storage configuration
type LocalConfig struct {
	BasePath    string
	Permissions os.FileMode
	CreateDirs  bool
}

// StorageBuilder builds the configured storage
type StorageBuilder struct {
	config config.Config
	logger *logrus.Logger
}

// NewStorageBuilder creates a new storage builder
func NewStorageBuilder(cfg config.Config, logger *logrus.Logger) *StorageBuilder {
	return &StorageBuilder{
		config: cfg,
		logger: logger,
	}
}

// Build creates the storage described by the configuration
func (b *StorageBuilder) Build() (Storage, error) {
	switch b.config.Storage.Type {
	case StorageTypeS3:
		storage, err := NewS3Storage(b.buildS3Config(), b.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 storage: %w", err)
		}
		return b.wrapWithMiddleware(storage), nil

	case StorageTypeLocal:
		localConfig, err := b.buildLocalConfig()
		if err != nil {
			return nil, err
		}
		storage, err := NewLocalStorage(localConfig, b.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create local storage: %w", err)
		}
		return b.wrapWithMiddleware(storage), nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", b.config.Storage.Type)
	}
}

func (b *StorageBuilder) buildS3Config() S3Config {
	return S3Config{
		Region:         b.config.Storage.S3.Region,
		Bucket:         b.config.Storage.S3.Bucket,
		Endpoint:       b.config.Storage.S3.Endpoint,
		AccessKey:      b.config.Storage.S3.AccessKey,
		SecretKey:      b.config.Storage.S3.SecretKey,
		ForcePathStyle: true,
	}
}

func (b *StorageBuilder) buildLocalConfig() (LocalConfig, error) {
	base, err := filepath.Abs(b.config.Storage.BasePath)
	if err != nil {
		return LocalConfig{}, fmt.Errorf("failed to resolve storage basepath: %w", err)
	}
	return LocalConfig{
		BasePath:    base,
		Permissions: 0755,
		CreateDirs:  true,
	}, nil
}

// wrapWithMiddleware wraps the storage with logging and key validation
func (b *StorageBuilder) wrapWithMiddleware(storage Storage) Storage {
	if b.logger != nil {
		storage = NewLoggingMiddleware(storage, b.logger)
	}
	return NewValidationMiddleware(storage)
}

// S3Storage is the AWS S3 storage implementation
type S3Storage struct {
	client *s3.Client
	bucket string
	logger *logrus.Logger
}

// NewS3Storage creates a new S3 storage
func NewS3Storage(cfg S3Config, logger *logrus.Logger) (*S3Storage, error) {
	if err := validateS3Config(cfg); err != nil {
		return nil, fmt.Errorf("invalid S3 configuration: %w", err)
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(cfg.Region),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Storage{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Save uploads a file to S3
func (s *S3Storage) Save(ctx context.Context, key string, reader io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return fmt.Errorf("failed to save file to S3: %w", err)
	}
	return nil
}

// Get downloads a file from S3
func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get file from S3: %w", err)
	}
	return result.Body, nil
}

// Delete removes a file from S3
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// Exists checks whether a key exists in S3
func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		var noKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}

// JoinPath joins key elements
func (s *S3Storage) JoinPath(elem ...string) string {
	return path.Join(elem...)
}

// ValidateKey validates a key
func (s *S3Storage) ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("file key cannot be empty")
	}
	if len(key) > 1024 {
		return fmt.Errorf("file key is too long: %d characters (max 1024)", len(key))
	}
	return nil
}

// LocalStorage is the local file system storage implementation
type LocalStorage struct {
	basePath    string
	permissions os.FileMode
	createDirs  bool
	logger      *logrus.Logger
}

// NewLocalStorage creates a new local storage
func NewLocalStorage(cfg LocalConfig, logger *logrus.Logger) (*LocalStorage, error) {
	if err := validateLocalConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid local storage configuration: %w", err)
	}

	if cfg.CreateDirs {
		if err := os.MkdirAll(cfg.BasePath, cfg.Permissions); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}

	return &LocalStorage{
		basePath:    cfg.BasePath,
		permissions: cfg.Permissions,
		createDirs:  cfg.CreateDirs,
		logger:      logger,
	}, nil
}

// Save writes a file locally
func (l *LocalStorage) Save(ctx context.Context, key string, reader io.Reader) error {
	fullPath := l.getFullPath(key)

	if l.createDirs {
		if err := os.MkdirAll(filepath.Dir(fullPath), l.permissions); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Get opens a local file
func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(l.getFullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a local file
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(l.getFullPath(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks whether a regular file exists under the key
func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	info, err := os.Stat(l.getFullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return !info.IsDir(), nil
}

// JoinPath joins key elements
func (l *LocalStorage) JoinPath(elem ...string) string {
	return filepath.ToSlash(filepath.Join(elem...))
}

// ValidateKey validates a key
func (l *LocalStorage) ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("file key cannot be empty")
	}
	if strings.Contains(key, "..") {
		return fmt.Errorf("file key cannot contain '..'")
	}
	return nil
}

func (l *LocalStorage) getFullPath(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}

func validateS3Config(cfg S3Config) error {
	if cfg.Region == "" {
		return fmt.Errorf("S3 region cannot be empty")
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("S3 bucket cannot be empty")
	}
	if cfg.AccessKey == "" {
		return fmt.Errorf("access key cannot be empty")
	}
	if cfg.SecretKey == "" {
		return fmt.Errorf("secret key cannot be empty")
	}
	return nil
}

func validateLocalConfig(cfg LocalConfig) error {
	if cfg.BasePath == "" {
		return fmt.Errorf("base path cannot be empty")
	}
	if !filepath.IsAbs(cfg.BasePath) {
		return fmt.Errorf("base path must be absolute")
	}
	return nil
}

// ReadAll reads a whole object into memory.
func ReadAll(ctx context.Context, s Storage, key string) ([]byte, error) {
	rc, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

// NewStorageFromConfig creates the storage from the application configuration
func NewStorageFromConfig(cfg config.Config, logger *logrus.Logger) (Storage, error) {
	return NewStorageBuilder(cfg, logger).Build()
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
