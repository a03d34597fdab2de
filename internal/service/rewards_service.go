package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/model"
	"anara.com/bimbelpintar/internal/repository"
	"anara.com/bimbelpintar/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Award schedule. These are the only amounts the ledger ever credits.
const (
	PointsWatch   = 5
	PointsLike    = 5
	PointsDislike = 5
	PointsFollow  = 10

	RedeemThreshold = 1000
	RedeemPayout    = 10.0
)

type RewardsService interface {
	// Interact awards points for watch/like/dislike at most once per
	// (user, content) pair. A repeat interaction is a normal outcome, not
	// an error: Rewarded=false, no credit.
	Interact(ctx context.Context, userID, contentID uuid.UUID, kind string) (*dto.InteractResponse, error)
	// Follow grants the one-time +10 follow bonus.
	Follow(ctx context.Context, userID uuid.UUID) (*dto.InteractResponse, error)
	Redeem(ctx context.Context, userID uuid.UUID, payoutDestination string) (*dto.RedeemResponse, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*dto.BalanceResponse, error)
	GetPointLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointLog, error)
}

type rewardsService struct {
	repo                repository.RewardsRepository
	userRepo            repository.UserRepository
	redisClient         *redis.Client
	notificationService NotificationService
}

func NewRewardsService(repo repository.RewardsRepository, userRepo repository.UserRepository, redisClient *redis.Client, notificationService NotificationService) RewardsService {
	return &rewardsService{
		repo:                repo,
		userRepo:            userRepo,
		redisClient:         redisClient,
		notificationService: notificationService,
	}
}

func pointsFor(kind string) (int, error) {
	switch kind {
	case model.InteractionWatch:
		return PointsWatch, nil
	case model.InteractionLike:
		return PointsLike, nil
	case model.InteractionDislike:
		return PointsDislike, nil
	default:
		return 0, fmt.Errorf("%w: unknown interaction kind %q", apperror.ErrInvalidInput, kind)
	}
}

func (s *rewardsService) Interact(ctx context.Context, userID, contentID uuid.UUID, kind string) (*dto.InteractResponse, error) {
	points, err := pointsFor(kind)
	if err != nil {
		return nil, err
	}

	// Redis fast path. Postgres' unique index stays the source of truth;
	// this only short-circuits the common repeat case.
	key := fmt.Sprintf("content_rewards:%s", contentID.String())
	if s.redisClient != nil {
		isMember, err := s.redisClient.SIsMember(ctx, key, userID.String()).Result()
		if err == nil && isMember {
			return s.noRewardResponse(ctx, userID)
		}
	}

	rec := &model.InteractionRecord{
		UserID:    userID,
		ContentID: contentID,
		Kind:      kind,
	}
	if err := s.repo.RecordInteractionAndCredit(ctx, rec, points); err != nil {
		if errors.Is(err, apperror.ErrAlreadyRecorded) {
			// Normal "no additional reward" outcome.
			return s.noRewardResponse(ctx, userID)
		}
		return nil, err
	}

	if s.redisClient != nil {
		if err := s.redisClient.SAdd(ctx, key, userID.String()).Err(); err != nil {
			log.Printf("Failed to cache interaction for content %s: %v", contentID, err)
		}
	}

	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.InteractResponse{
		Rewarded: true,
		Points:   points,
		Balance:  balance,
	}, nil
}

func (s *rewardsService) noRewardResponse(ctx context.Context, userID uuid.UUID) (*dto.InteractResponse, error) {
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.InteractResponse{Rewarded: false, Points: 0, Balance: balance}, nil
}

func (s *rewardsService) Follow(ctx context.Context, userID uuid.UUID) (*dto.InteractResponse, error) {
	granted, err := s.repo.GrantFollowBonus(ctx, userID, PointsFollow)
	if err != nil {
		return nil, err
	}

	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.InteractResponse{Rewarded: granted, Balance: balance}
	if granted {
		resp.Points = PointsFollow
	}
	return resp, nil
}

func (s *rewardsService) Redeem(ctx context.Context, userID uuid.UUID, payoutDestination string) (*dto.RedeemResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}

	record, err := s.repo.Redeem(ctx, user, RedeemThreshold, RedeemPayout, payoutDestination)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		notif := &model.Notification{
			UserID:  userID,
			Type:    "redeem",
			Message: fmt.Sprintf("Penukaran %d poin berhasil! Dana Rp%.0f sedang diproses ke %s.", record.PointsSpent, record.AmountPayable, payoutDestination),
		}
		if err := s.notificationService.CreateNotification(ctx, notif); err != nil {
			log.Printf("Failed to send redeem notification to user %s: %v", userID, err)
		}
	}

	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.RedeemResponse{
		PointsSpent:   record.PointsSpent,
		AmountPayable: record.AmountPayable,
		Balance:       balance,
	}, nil
}

func (s *rewardsService) GetBalance(ctx context.Context, userID uuid.UUID) (*dto.BalanceResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}

	return &dto.BalanceResponse{
		Balance:     user.PointsBalance,
		HasFollowed: user.HasFollowed,
	}, nil
}

func (s *rewardsService) GetPointLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointLog, error) {
	return s.repo.GetPointLogs(ctx, userID, limit, offset)
}
