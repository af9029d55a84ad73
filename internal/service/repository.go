package service

import (
	"context"
	"fmt"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListParams selects a page of records.
type ListParams struct {
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	Order    string                 `json:"-"`
	Filters  map[string]interface{} `json:"-"`
}

func (p *ListParams) normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

// List is a page of records.
type List[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// Repository is the record store access for one model.
type Repository[T any] struct {
	db     *gorm.DB
	kind   string
	order  string
	logger *logrus.Logger
}

// NewRepository creates a repository listing records in defaultOrder.
func NewRepository[T any](db *gorm.DB, kind, defaultOrder string, logger *logrus.Logger) *Repository[T] {
	return &Repository[T]{db: db, kind: kind, order: defaultOrder, logger: logger}
}

func validate(item interface{}) error {
	if v, ok := item.(models.Validator); ok {
		if err := v.Validate(); err != nil {
			return invalid(err)
		}
	}
	return nil
}

func (r *Repository[T]) Create(ctx context.Context, item *T) error {
	if err := validate(item); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		r.logger.WithError(err).WithField("kind", r.kind).Error("Failed to create record")
		return fmt.Errorf("failed to create %s: %w", r.kind, err)
	}
	return nil
}

func (r *Repository[T]) Get(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, lookupError(r.kind, id, err)
	}
	return &item, nil
}

func (r *Repository[T]) List(ctx context.Context, params ListParams) (*List[T], error) {
	params.normalize()

	query := r.db.WithContext(ctx).Model(new(T))
	if len(params.Filters) > 0 {
		query = query.Where(params.Filters)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", r.kind, err)
	}

	order := params.Order
	if order == "" {
		order = r.order
	}
	if order != "" {
		query = query.Order(order)
	}

	items := []T{}
	offset := (params.Page - 1) * params.PageSize
	if err := query.Offset(offset).Limit(params.PageSize).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.kind, err)
	}

	return &List[T]{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: int((total + int64(params.PageSize) - 1) / int64(params.PageSize)),
	}, nil
}

// All returns every record matching filters, in order.
func (r *Repository[T]) All(ctx context.Context, order string, filters map[string]interface{}) ([]T, error) {
	query := r.db.WithContext(ctx).Model(new(T))
	if len(filters) > 0 {
		query = query.Where(filters)
	}
	if order != "" {
		query = query.Order(order)
	}
	items := []T{}
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.kind, err)
	}
	return items, nil
}

// Update replaces every column of record id with item, except the key, the
// creation time and the columns named in omit.
func (r *Repository[T]) Update(ctx context.Context, id uint, item *T, omit ...string) (*T, error) {
	if err := validate(item); err != nil {
		return nil, err
	}
	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	omit = append([]string{"id", "created_at", "deleted_at"}, omit...)
	err = r.db.WithContext(ctx).Model(existing).Select("*").Omit(omit...).Updates(item).Error
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{"kind": r.kind, "id": id}).Error("Failed to update record")
		return nil, fmt.Errorf("failed to update %s %d: %w", r.kind, id, err)
	}
	return r.Get(ctx, id)
}

// Delete soft-deletes record id.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s %d: %w", r.kind, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(r.kind, id)
	}
	return nil
}
