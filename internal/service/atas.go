package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const publishAttempts = 5

// AtaService manages minutes and their draft to published transition.
type AtaService struct {
	*Repository[models.Ata]
	db     *gorm.DB
	logger *logrus.Logger
	now    func() time.Time

	// lastNumber reads the highest number taken in a year inside the
	// publish transaction.
	lastNumber func(tx *gorm.DB, year int) (int, error)
}

func NewAtaService(db *gorm.DB, logger *logrus.Logger) *AtaService {
	return &AtaService{
		Repository: NewRepository[models.Ata](db, "ata", "date DESC, id DESC", logger),
		db:         db,
		logger:     logger,
		now:        time.Now,
		lastNumber: maxAtaNumber,
	}
}

// Create stores a new draft. Status and numbering supplied by the caller
// are discarded.
func (s *AtaService) Create(ctx context.Context, a *models.Ata) error {
	a.Status = models.AtaDraft
	a.Number, a.Year, a.PublishedAt = nil, nil, nil
	return s.Repository.Create(ctx, a)
}

// Update edits the content of a minute, leaving its lifecycle columns alone.
func (s *AtaService) Update(ctx context.Context, id uint, a *models.Ata, omit ...string) (*models.Ata, error) {
	return s.Repository.Update(ctx, id, a, append(omit, "status", "ata_number", "ata_year", "published_at")...)
}

// Publish assigns the next number of the minute's calendar year and marks it
// published. Numbers of soft-deleted minutes are never reused.
func (s *AtaService) Publish(ctx context.Context, id uint) (*models.Ata, error) {
	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.publish(tx, id)
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) && !errors.Is(err, ErrPublishConflict) {
			break
		}
		s.logger.WithFields(logrus.Fields{
			"ata_id":  id,
			"attempt": attempt,
		}).Warn("Ata number taken concurrently, retrying")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = fmt.Errorf("%w: ata %d", ErrPublishConflict, id)
	}
	if err != nil {
		return nil, err
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"ata_id":     id,
		"ata_number": *a.Number,
		"ata_year":   *a.Year,
	}).Info("Ata published")
	return a, nil
}

func (s *AtaService) publish(tx *gorm.DB, id uint) error {
	var a models.Ata
	if err := tx.First(&a, id).Error; err != nil {
		return lookupError("ata", id, err)
	}
	if a.IsPublished() {
		return fmt.Errorf("%w: ata %d is number %d/%d", ErrAlreadyPublished, id, deref(a.Number), deref(a.Year))
	}

	year := a.Date.Year()
	last, err := s.lastNumber(tx, year)
	if err != nil {
		return fmt.Errorf("failed to read last ata number of %d: %w", year, err)
	}

	number := last + 1
	now := s.now()
	res := tx.Model(&models.Ata{}).
		Where("id = ? AND status = ?", id, models.AtaDraft).
		Updates(map[string]interface{}{
			"status":       models.AtaPublished,
			"ata_number":   number,
			"ata_year":     year,
			"published_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: ata %d", ErrPublishConflict, id)
	}
	return nil
}

// maxAtaNumber includes soft-deleted minutes so their numbers stay taken.
func maxAtaNumber(tx *gorm.DB, year int) (int, error) {
	var last sql.NullInt64
	err := tx.Unscoped().Model(&models.Ata{}).
		Select("MAX(ata_number)").
		Where("ata_year = ?", year).
		Row().Scan(&last)
	return int(last.Int64), err
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
