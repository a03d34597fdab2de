package repository

import (
	"context"
	"errors"
	"time"

	"anara.com/bimbelpintar/internal/model"
	"anara.com/bimbelpintar/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LiveClassRepository interface {
	Create(ctx context.Context, class *model.LiveClass) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LiveClass, error)
	FindUpcoming(ctx context.Context, limit, offset int) ([]model.LiveClass, error)
	// FindDueForReminder returns classes starting within the window that
	// have not been reminded yet.
	FindDueForReminder(ctx context.Context, window time.Duration) ([]model.LiveClass, error)
	MarkReminded(ctx context.Context, id uuid.UUID) error
}

type liveClassRepository struct {
	db *gorm.DB
}

func NewLiveClassRepository(db *gorm.DB) LiveClassRepository {
	return &liveClassRepository{db: db}
}

func (r *liveClassRepository) Create(ctx context.Context, class *model.LiveClass) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *liveClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.LiveClass{}, "id = ?", id).Error
}

func (r *liveClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LiveClass, error) {
	var class model.LiveClass
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&class).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &class, nil
}

func (r *liveClassRepository) FindUpcoming(ctx context.Context, limit, offset int) ([]model.LiveClass, error) {
	var classes []model.LiveClass
	err := r.db.WithContext(ctx).
		Where("starts_at > ?", time.Now()).
		Order("starts_at ASC").
		Limit(limit).Offset(offset).
		Find(&classes).Error
	return classes, err
}

func (r *liveClassRepository) FindDueForReminder(ctx context.Context, window time.Duration) ([]model.LiveClass, error) {
	var classes []model.LiveClass
	now := time.Now()
	err := r.db.WithContext(ctx).
		Where("reminded = ? AND starts_at > ? AND starts_at <= ?", false, now, now.Add(window)).
		Find(&classes).Error
	return classes, err
}

func (r *liveClassRepository) MarkReminded(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.LiveClass{}).
		Where("id = ?", id).
		UpdateColumn("reminded", true).Error
}
