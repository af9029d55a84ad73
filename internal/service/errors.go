package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalid          = errors.New("invalid input")
	ErrAlreadyPublished = errors.New("ata already published")
	ErrPublishConflict  = errors.New("ata publish conflict")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

func notFound(kind string, id uint) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
}

func lookupError(kind string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(kind, id)
	}
	return fmt.Errorf("failed to get %s %d: %w", kind, id, err)
}
