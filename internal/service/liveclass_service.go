package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/model"
	"anara.com/bimbelpintar/internal/repository"
	"anara.com/bimbelpintar/pkg/apperror"
	"github.com/google/uuid"
)

type LiveClassService interface {
	CreateLiveClass(ctx context.Context, input dto.CreateLiveClassInput) (*model.LiveClass, error)
	DeleteLiveClass(ctx context.Context, id uuid.UUID) error
	GetUpcoming(ctx context.Context, limit, offset int) ([]model.LiveClass, error)
	// SendReminders notifies enrolled users about classes starting within the
	// window. Runs from the scheduler.
	SendReminders(ctx context.Context, window time.Duration) error
}

type liveClassService struct {
	repo                repository.LiveClassRepository
	courseRepo          repository.CourseRepository
	userRepo            repository.UserRepository
	notificationService NotificationService
}

func NewLiveClassService(repo repository.LiveClassRepository, courseRepo repository.CourseRepository, userRepo repository.UserRepository, notificationService NotificationService) LiveClassService {
	return &liveClassService{
		repo:                repo,
		courseRepo:          courseRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *liveClassService) CreateLiveClass(ctx context.Context, input dto.CreateLiveClassInput) (*model.LiveClass, error) {
	startsAt, err := time.Parse(time.RFC3339, input.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("%w: starts_at must be RFC3339", apperror.ErrInvalidInput)
	}
	if startsAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: starts_at is in the past", apperror.ErrInvalidInput)
	}

	class := &model.LiveClass{
		Title:      input.Title,
		TutorName:  input.TutorName,
		MeetingURL: input.MeetingURL,
		StartsAt:   startsAt,
	}

	if input.CourseID != "" {
		courseID, err := uuid.Parse(input.CourseID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid course_id", apperror.ErrInvalidInput)
		}
		if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
			return nil, err
		}
		class.CourseID = &courseID
	}

	if err := s.repo.Create(ctx, class); err != nil {
		return nil, err
	}

	return class, nil
}

func (s *liveClassService) DeleteLiveClass(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *liveClassService) GetUpcoming(ctx context.Context, limit, offset int) ([]model.LiveClass, error) {
	return s.repo.FindUpcoming(ctx, limit, offset)
}

func (s *liveClassService) SendReminders(ctx context.Context, window time.Duration) error {
	classes, err := s.repo.FindDueForReminder(ctx, window)
	if err != nil {
		return err
	}

	for _, class := range classes {
		if err := s.notifyClass(ctx, &class); err != nil {
			log.Printf("Failed to send reminders for live class %s: %v", class.ID, err)
			continue
		}
		if err := s.repo.MarkReminded(ctx, class.ID); err != nil {
			log.Printf("Failed to mark live class %s as reminded: %v", class.ID, err)
		}
	}

	return nil
}

func (s *liveClassService) notifyClass(ctx context.Context, class *model.LiveClass) error {
	message := fmt.Sprintf("Kelas live \"%s\" bersama %s dimulai %s. Jangan sampai ketinggalan!",
		class.Title, class.TutorName, class.StartsAt.Format("15:04"))

	// Course-bound classes notify only enrolled users; open classes go to
	// everyone.
	if class.CourseID != nil {
		enrollments, err := s.courseRepo.FindEnrollmentsByCourse(ctx, *class.CourseID)
		if err != nil {
			return err
		}
		for _, e := range enrollments {
			s.sendReminder(ctx, e.UserID, message)
		}
		return nil
	}

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		s.sendReminder(ctx, user.ID, message)
	}
	return nil
}

func (s *liveClassService) sendReminder(ctx context.Context, userID uuid.UUID, message string) {
	notif := &model.Notification{
		UserID:  userID,
		Type:    "live_class",
		Message: message,
	}
	if err := s.notificationService.CreateNotification(ctx, notif); err != nil {
		log.Printf("Failed to send live class reminder to user %s: %v", userID, err)
	}
}
