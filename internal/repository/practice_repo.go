package repository

import (
	"context"

	"anara.com/bimbelpintar/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PracticeTestRepository interface {
	Create(ctx context.Context, test *model.PracticeTest) error
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PracticeTest, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type practiceTestRepository struct {
	db *gorm.DB
}

func NewPracticeTestRepository(db *gorm.DB) PracticeTestRepository {
	return &practiceTestRepository{db: db}
}

func (r *practiceTestRepository) Create(ctx context.Context, test *model.PracticeTest) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *practiceTestRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PracticeTest, error) {
	var tests []model.PracticeTest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&tests).Error
	return tests, err
}

func (r *practiceTestRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PracticeTest{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
