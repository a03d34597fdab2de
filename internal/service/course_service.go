package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/model"
	"anara.com/bimbelpintar/internal/repository"
	"anara.com/bimbelpintar/pkg/apperror"
	"anara.com/bimbelpintar/pkg/storage"
	"github.com/google/uuid"
)

// ImageFile carries an uploaded image (thumbnail, cover) into the service.
type ImageFile struct {
	Reader   io.Reader
	FileName string
}

type CourseService interface {
	CreateCourse(ctx context.Context, input dto.CreateCourseInput, thumbnail *ImageFile) (*model.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, input dto.UpdateCourseInput, thumbnail *ImageFile) (*model.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (*model.Course, error)
	ListCourses(ctx context.Context, subject, level string, limit, offset int) ([]model.Course, error)
	AddVideo(ctx context.Context, courseID uuid.UUID, input dto.CreateVideoInput) (*model.Video, error)
	CreateEbook(ctx context.Context, input dto.CreateEbookInput, cover *ImageFile) (*model.Ebook, error)
	DeleteEbook(ctx context.Context, id uuid.UUID) error
	ListEbooks(ctx context.Context, subject string, limit, offset int) ([]model.Ebook, error)
	// Enroll registers the user on a course. Free courses enroll directly;
	// paid courses are out of scope for self-service and need an admin.
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*model.Enrollment, error)
	CompleteCourse(ctx context.Context, userID, courseID uuid.UUID) error
	GetEnrollments(ctx context.Context, userID uuid.UUID) ([]model.Enrollment, error)
}

type courseService struct {
	repo          repository.CourseRepository
	searchService SearchService
	imageStorage  storage.ImageStorage
}

func NewCourseService(repo repository.CourseRepository, searchService SearchService, imageStorage storage.ImageStorage) CourseService {
	return &courseService{
		repo:          repo,
		searchService: searchService,
		imageStorage:  imageStorage,
	}
}

func (s *courseService) CreateCourse(ctx context.Context, input dto.CreateCourseInput, thumbnail *ImageFile) (*model.Course, error) {
	var thumbnailURL *string
	if thumbnail != nil && thumbnail.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, thumbnail.Reader, "course_thumbnails", thumbnail.FileName)
		if err != nil {
			return nil, err
		}
		thumbnailURL = &url
	}

	course := &model.Course{
		Title:        input.Title,
		Slug:         s.generateUniqueSlug(ctx, input.Title),
		Description:  input.Description,
		Subject:      input.Subject,
		Level:        input.Level,
		Price:        input.Price,
		IsFree:       input.IsFree,
		ThumbnailURL: thumbnailURL,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.indexCourse(course)

	return course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, id uuid.UUID, input dto.UpdateCourseInput, thumbnail *ImageFile) (*model.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}
	if input.Subject != nil {
		course.Subject = *input.Subject
	}
	if input.Level != nil {
		course.Level = *input.Level
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.IsFree != nil {
		course.IsFree = *input.IsFree
	}

	if thumbnail != nil && thumbnail.Reader != nil && s.imageStorage != nil {
		oldURL := course.ThumbnailURL
		url, err := s.imageStorage.UploadImage(ctx, thumbnail.Reader, "course_thumbnails", thumbnail.FileName)
		if err != nil {
			return nil, err
		}
		course.ThumbnailURL = &url

		if oldURL != nil {
			if err := s.imageStorage.DeleteImage(ctx, *oldURL); err != nil {
				log.Printf("Failed to delete old thumbnail %s: %v", *oldURL, err)
			}
		}
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}

	s.indexCourse(course)

	return course, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if course.ThumbnailURL != nil && s.imageStorage != nil {
		if err := s.imageStorage.DeleteImage(ctx, *course.ThumbnailURL); err != nil {
			log.Printf("Failed to delete thumbnail for course %s: %v", id, err)
		}
	}

	if s.searchService != nil {
		if err := s.searchService.DeleteCourse(id.String()); err != nil {
			log.Printf("Failed to remove course %s from search index: %v", id, err)
		}
	}

	return nil
}

func (s *courseService) GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *courseService) GetCourseBySlug(ctx context.Context, slug string) (*model.Course, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *courseService) ListCourses(ctx context.Context, subject, level string, limit, offset int) ([]model.Course, error) {
	return s.repo.FindAll(ctx, subject, level, limit, offset)
}

func (s *courseService) AddVideo(ctx context.Context, courseID uuid.UUID, input dto.CreateVideoInput) (*model.Video, error) {
	if _, err := s.repo.FindByID(ctx, courseID); err != nil {
		return nil, err
	}

	video := &model.Video{
		CourseID: courseID,
		Title:    input.Title,
		VideoURL: input.VideoURL,
		Duration: input.Duration,
		Position: input.Position,
	}

	if err := s.repo.AddVideo(ctx, video); err != nil {
		return nil, err
	}

	return video, nil
}

func (s *courseService) CreateEbook(ctx context.Context, input dto.CreateEbookInput, cover *ImageFile) (*model.Ebook, error) {
	var coverURL *string
	if cover != nil && cover.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, cover.Reader, "ebook_covers", cover.FileName)
		if err != nil {
			return nil, err
		}
		coverURL = &url
	}

	ebook := &model.Ebook{
		Title:    input.Title,
		Author:   input.Author,
		Subject:  input.Subject,
		FileURL:  input.FileURL,
		CoverURL: coverURL,
	}

	if err := s.repo.CreateEbook(ctx, ebook); err != nil {
		return nil, err
	}

	if s.searchService != nil {
		if err := s.searchService.IndexEbook(ebook); err != nil {
			log.Printf("Failed to index ebook %s: %v", ebook.ID, err)
		}
	}

	return ebook, nil
}

func (s *courseService) DeleteEbook(ctx context.Context, id uuid.UUID) error {
	ebook, err := s.repo.FindEbookByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteEbook(ctx, id); err != nil {
		return err
	}

	if ebook.CoverURL != nil && s.imageStorage != nil {
		if err := s.imageStorage.DeleteImage(ctx, *ebook.CoverURL); err != nil {
			log.Printf("Failed to delete cover for ebook %s: %v", id, err)
		}
	}

	if s.searchService != nil {
		if err := s.searchService.DeleteEbook(id.String()); err != nil {
			log.Printf("Failed to remove ebook %s from search index: %v", id, err)
		}
	}

	return nil
}

func (s *courseService) ListEbooks(ctx context.Context, subject string, limit, offset int) ([]model.Ebook, error) {
	return s.repo.FindEbooks(ctx, subject, limit, offset)
}

func (s *courseService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*model.Enrollment, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !course.IsFree {
		return nil, fmt.Errorf("%w: paid course requires manual enrollment", apperror.ErrForbidden)
	}

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.repo.Enroll(ctx, enrollment); err != nil {
		return nil, err
	}

	return enrollment, nil
}

func (s *courseService) CompleteCourse(ctx context.Context, userID, courseID uuid.UUID) error {
	return s.repo.CompleteEnrollment(ctx, userID, courseID)
}

func (s *courseService) GetEnrollments(ctx context.Context, userID uuid.UUID) ([]model.Enrollment, error) {
	return s.repo.FindEnrollments(ctx, userID)
}

func (s *courseService) indexCourse(course *model.Course) {
	if s.searchService == nil {
		return
	}
	if err := s.searchService.IndexCourse(course); err != nil {
		log.Printf("Failed to index course %s: %v", course.ID, err)
	}
}

var slugInvalidChars = regexp.MustCompile("[^a-z0-9 ]+")

func (s *courseService) generateUniqueSlug(ctx context.Context, title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.Trim(slug, "-")

	existing, _ := s.repo.FindBySlug(ctx, slug)
	if existing != nil {
		slug = fmt.Sprintf("%s-%s", slug, uuid.New().String()[:8])
	}
	return slug
}
