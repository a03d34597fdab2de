package repository

import (
	"context"
	"errors"

	"anara.com/bimbelpintar/internal/model"
	"anara.com/bimbelpintar/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	FindBySlug(ctx context.Context, slug string) (*model.Course, error)
	FindAll(ctx context.Context, subject, level string, limit, offset int) ([]model.Course, error)
	AddVideo(ctx context.Context, video *model.Video) error
	FindVideoByID(ctx context.Context, id uuid.UUID) (*model.Video, error)
	CreateEbook(ctx context.Context, ebook *model.Ebook) error
	DeleteEbook(ctx context.Context, id uuid.UUID) error
	FindEbooks(ctx context.Context, subject string, limit, offset int) ([]model.Ebook, error)
	FindEbookByID(ctx context.Context, id uuid.UUID) (*model.Ebook, error)
	// Enroll is a conditional insert: the unique (user_id, course_id) index
	// makes re-enrollment a no-op reported as ErrAlreadyRecorded.
	Enroll(ctx context.Context, enrollment *model.Enrollment) error
	CompleteEnrollment(ctx context.Context, userID, courseID uuid.UUID) error
	FindEnrollments(ctx context.Context, userID uuid.UUID) ([]model.Enrollment, error)
	FindEnrollmentsByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Enrollment, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Course{}, "id = ?", id).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindBySlug(ctx context.Context, slug string) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).
		Preload("Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("slug = ?", slug).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindAll(ctx context.Context, subject, level string, limit, offset int) ([]model.Course, error) {
	var courses []model.Course
	query := r.db.WithContext(ctx).Model(&model.Course{})
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	if level != "" {
		query = query.Where("level = ?", level)
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&courses).Error
	return courses, err
}

func (r *courseRepository) AddVideo(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *courseRepository) FindVideoByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	var video model.Video
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *courseRepository) CreateEbook(ctx context.Context, ebook *model.Ebook) error {
	return r.db.WithContext(ctx).Create(ebook).Error
}

func (r *courseRepository) DeleteEbook(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Ebook{}, "id = ?", id).Error
}

func (r *courseRepository) FindEbooks(ctx context.Context, subject string, limit, offset int) ([]model.Ebook, error) {
	var ebooks []model.Ebook
	query := r.db.WithContext(ctx).Model(&model.Ebook{})
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ebooks).Error
	return ebooks, err
}

func (r *courseRepository) FindEbookByID(ctx context.Context, id uuid.UUID) (*model.Ebook, error) {
	var ebook model.Ebook
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ebook).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return &ebook, nil
}

func (r *courseRepository) Enroll(ctx context.Context, enrollment *model.Enrollment) error {
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.ErrAlreadyRecorded
		}
		return err
	}
	return nil
}

func (r *courseRepository) CompleteEnrollment(ctx context.Context, userID, courseID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND completed_at IS NULL", userID, courseID).
		UpdateColumn("completed_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *courseRepository) FindEnrollmentsByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *courseRepository) FindEnrollments(ctx context.Context, userID uuid.UUID) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}
