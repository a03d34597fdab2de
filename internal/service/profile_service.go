package service

import (
	"context"

	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/model"
	"anara.com/bimbelpintar/internal/repository"
	"anara.com/bimbelpintar/pkg/apperror"
	"github.com/google/uuid"
)

type ProfileService interface {
	GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*model.User, error)
	// SetPwaInstalled marks whether the user has installed the PWA shell.
	SetPwaInstalled(ctx context.Context, userID uuid.UUID, installed bool) error
}

type profileService struct {
	repo repository.UserRepository
}

func NewProfileService(repo repository.UserRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}

	if user.Profile == nil {
		user.Profile = &model.Profile{UserID: user.ID}
	}

	if input.FullName != "" {
		user.Profile.FullName = input.FullName
	}
	if input.SchoolName != nil {
		user.Profile.SchoolName = normalizeOptional(input.SchoolName)
	}
	if input.GradeLevel != nil {
		user.Profile.GradeLevel = normalizeOptional(input.GradeLevel)
	}
	if input.Bio != nil {
		user.Profile.Bio = normalizeOptional(input.Bio)
	}

	if err := s.repo.Update(ctx, user, user.Profile); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) SetPwaInstalled(ctx context.Context, userID uuid.UUID, installed bool) error {
	return s.repo.SetPwaInstalled(ctx, userID, installed)
}
