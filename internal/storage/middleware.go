package storage

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// LoggingMiddleware logs storage operations
type LoggingMiddleware struct {
	storage Storage
	logger  *logrus.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(storage Storage, logger *logrus.Logger) Storage {
	return &LoggingMiddleware{
		storage: storage,
		logger:  logger,
	}
}

func (m *LoggingMiddleware) entry(operation, key string) *logrus.Entry {
	return m.logger.WithFields(logrus.Fields{
		"operation": operation,
		"key":       key,
	})
}

// Save logs the save operation
func (m *LoggingMiddleware) Save(ctx context.Context, key string, reader io.Reader) error {
	start := time.Now()
	logger := m.entry("save", key)

	err := m.storage.Save(ctx, key, reader)

	duration := time.Since(start)
	if err != nil {
		logger.WithError(err).WithField("duration", duration).Error("Failed to save file")
	} else {
		logger.WithField("duration", duration).Info("File saved")
	}

	return err
}

// Get logs the get operation. Missing keys are expected while resolving
// template candidates, so they are logged at debug level.
func (m *LoggingMiddleware) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	start := time.Now()
	logger := m.entry("get", key)

	reader, err := m.storage.Get(ctx, key)

	duration := time.Since(start)
	switch {
	case err == nil:
		logger.WithField("duration", duration).Debug("File read")
	case isNotFound(err):
		logger.WithField("duration", duration).Debug("File not found")
	default:
		logger.WithError(err).WithField("duration", duration).Error("Failed to read file")
	}

	return reader, err
}

// Delete logs the delete operation
func (m *LoggingMiddleware) Delete(ctx context.Context, key string) error {
	start := time.Now()
	logger := m.entry("delete", key)

	err := m.storage.Delete(ctx, key)

	duration := time.Since(start)
	if err != nil {
		logger.WithError(err).WithField("duration", duration).Error("Failed to delete file")
	} else {
		logger.WithField("duration", duration).Info("File deleted")
	}

	return err
}

func (m *LoggingMiddleware) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := m.storage.Exists(ctx, key)
	if err != nil {
		m.entry("exists", key).WithError(err).Error("Failed to check file")
	}
	return ok, err
}

func (m *LoggingMiddleware) JoinPath(elem ...string) string {
	return m.storage.JoinPath(elem...)
}

func (m *LoggingMiddleware) ValidateKey(key string) error {
	return m.storage.ValidateKey(key)
}

// ValidationMiddleware rejects invalid keys before they reach the backend
type ValidationMiddleware struct {
	storage Storage
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware(storage Storage) Storage {
	return &ValidationMiddleware{storage: storage}
}

func (m *ValidationMiddleware) Save(ctx context.Context, key string, reader io.Reader) error {
	if err := m.storage.ValidateKey(key); err != nil {
		return err
	}
	return m.storage.Save(ctx, key, reader)
}

func (m *ValidationMiddleware) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := m.storage.ValidateKey(key); err != nil {
		return nil, err
	}
	return m.storage.Get(ctx, key)
}

func (m *ValidationMiddleware) Delete(ctx context.Context, key string) error {
	if err := m.storage.ValidateKey(key); err != nil {
		return err
	}
	return m.storage.Delete(ctx, key)
}

func (m *ValidationMiddleware) Exists(ctx context.Context, key string) (bool, error) {
	if err := m.storage.ValidateKey(key); err != nil {
		return false, err
	}
	return m.storage.Exists(ctx, key)
}

func (m *ValidationMiddleware) JoinPath(elem ...string) string {
	return m.storage.JoinPath(elem...)
}

func (m *ValidationMiddleware) ValidateKey(key string) error {
	return m.storage.ValidateKey(key)
}
