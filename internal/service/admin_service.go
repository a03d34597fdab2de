package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/model"
	"anara.com/bimbelpintar/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService interface {
	CreateUser(ctx context.Context, input dto.CreateUserInput) (*dto.AdminUserResponse, error)
	GetAllUsers(ctx context.Context) ([]*dto.AdminUserResponse, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateUser(ctx context.Context, id string, input dto.UpdateAdminUserInput) (*dto.AdminUserResponse, error)
	// GetRedemptions lists redemption records for manual payout processing.
	GetRedemptions(ctx context.Context, limit, offset int) ([]model.RedemptionRecord, error)
}

type adminService struct {
	repo        repository.UserRepository
	rewardsRepo repository.RewardsRepository
}

func NewAdminService(repo repository.UserRepository, rewardsRepo repository.RewardsRepository) AdminService {
	return &adminService{
		repo:        repo,
		rewardsRepo: rewardsRepo,
	}
}

func (s *adminService) CreateUser(ctx context.Context, input dto.CreateUserInput) (*dto.AdminUserResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, errors.New("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, input.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s not found", input.Role)
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roleID := role.ID
	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       &roleID,
	}

	profile := &model.Profile{
		FullName: strings.TrimSpace(input.FullName),
	}

	if err := s.repo.Create(ctx, user, profile); err != nil {
		return nil, err
	}

	createdUser, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	createdUser.PasswordHash = ""

	return &dto.AdminUserResponse{
		User:    createdUser,
		Role:    &createdUser.Role,
		Profile: createdUser.Profile,
	}, nil
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]*dto.AdminUserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var response []*dto.AdminUserResponse
	for _, u := range users {
		u.PasswordHash = ""
		response = append(response, &dto.AdminUserResponse{
			User:    u,
			Role:    &u.Role,
			Profile: u.Profile,
		})
	}

	return response, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *adminService) UpdateUser(ctx context.Context, id string, input dto.UpdateAdminUserInput) (*dto.AdminUserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != "" && input.Username != user.Username {
		if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
			return nil, errors.New("username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = input.Username
	}

	if input.Email != "" && input.Email != user.Email {
		if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
			return nil, errors.New("email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = input.Email
	}

	if input.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if input.Role != "" && user.Role.Name != input.Role {
		role, err := s.repo.FindRoleByName(ctx, input.Role)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("role %s not found", input.Role)
			}
			return nil, err
		}
		user.RoleID = &role.ID
		user.Role = *role
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

	updatedUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updatedUser.PasswordHash = ""

	return &dto.AdminUserResponse{
		User:    updatedUser,
		Role:    &updatedUser.Role,
		Profile: updatedUser.Profile,
	}, nil
}

func (s *adminService) GetRedemptions(ctx context.Context, limit, offset int) ([]model.RedemptionRecord, error) {
	return s.rewardsRepo.FindRedemptions(ctx, limit, offset)
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}
