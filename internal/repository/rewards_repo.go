package repository

import (
	"context"
	"errors"

	"anara.com/bimbelpintar/internal/model"
	"anara.com/bimbelpintar/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardsRepository interface {
	HasInteracted(ctx context.Context, userID, contentID uuid.UUID) (bool, error)
	// RecordInteractionAndCredit inserts the interaction record and applies
	// the credit in one transaction. The unique (user_id, content_id) index
	// turns a duplicate insert into ErrAlreadyRecorded, so concurrent calls
	// for the same pair credit at most once.
	RecordInteractionAndCredit(ctx context.Context, rec *model.InteractionRecord, points int) error
	// GrantFollowBonus flips has_followed and credits the bonus in one
	// transaction. Returns false without error if the flag was already set.
	GrantFollowBonus(ctx context.Context, userID uuid.UUID, points int) (bool, error)
	Credit(ctx context.Context, userID uuid.UUID, amount int, action, referenceID string) error
	Debit(ctx context.Context, userID uuid.UUID, amount int, action, referenceID string) error
	// Redeem debits exactly threshold points and writes the redemption
	// record as a single unit. Balance below threshold leaves everything
	// untouched and returns ErrInsufficientBalance.
	Redeem(ctx context.Context, user *model.User, threshold int, amountPayable float64, payoutDestination string) (*model.RedemptionRecord, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	GetPointLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointLog, error)
	FindRedemptions(ctx context.Context, limit, offset int) ([]model.RedemptionRecord, error)
}

type rewardsRepository struct {
	db *gorm.DB
}

func NewRewardsRepository(db *gorm.DB) RewardsRepository {
	return &rewardsRepository{db: db}
}

func (r *rewardsRepository) HasInteracted(ctx context.Context, userID, contentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.InteractionRecord{}).
		Where("user_id = ? AND content_id = ?", userID, contentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *rewardsRepository) RecordInteractionAndCredit(ctx context.Context, rec *model.InteractionRecord, points int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.ErrAlreadyRecorded
			}
			return err
		}

		return creditTx(tx, rec.UserID, points, rec.Kind, rec.ContentID.String())
	})
}

func (r *rewardsRepository) GrantFollowBonus(ctx context.Context, userID uuid.UUID, points int) (bool, error) {
	granted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional flip makes the bonus at-most-once; a second call
		// matches zero rows and credits nothing.
		res := tx.Model(&model.User{}).
			Where("id = ? AND has_followed = ?", userID, false).
			UpdateColumn("has_followed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		granted = true
		return creditTx(tx, userID, points, "follow", "")
	})
	return granted, err
}

func (r *rewardsRepository) Credit(ctx context.Context, userID uuid.UUID, amount int, action, referenceID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return creditTx(tx, userID, amount, action, referenceID)
	})
}

func (r *rewardsRepository) Debit(ctx context.Context, userID uuid.UUID, amount int, action, referenceID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return debitTx(tx, userID, amount, action, referenceID)
	})
}

func (r *rewardsRepository) Redeem(ctx context.Context, user *model.User, threshold int, amountPayable float64, payoutDestination string) (*model.RedemptionRecord, error) {
	record := &model.RedemptionRecord{
		UserID:            user.ID,
		UserName:          user.Username,
		UserEmail:         user.Email,
		PayoutDestination: payoutDestination,
		PointsSpent:       threshold,
		AmountPayable:     amountPayable,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := debitTx(tx, user.ID, threshold, "redeem", ""); err != nil {
			return err
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *rewardsRepository) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	var user model.User
	err := r.db.WithContext(ctx).Select("points_balance").Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperror.ErrUserNotFound
		}
		return 0, err
	}
	return user.PointsBalance, nil
}

func (r *rewardsRepository) GetPointLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PointLog, error) {
	var logs []model.PointLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	return logs, err
}

func (r *rewardsRepository) FindRedemptions(ctx context.Context, limit, offset int) ([]model.RedemptionRecord, error) {
	var records []model.RedemptionRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&records).Error
	return records, err
}

// creditTx applies an atomic increment so concurrent credits never lose
// updates, then appends the audit log row.
func creditTx(tx *gorm.DB, userID uuid.UUID, amount int, action, referenceID string) error {
	res := tx.Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("points_balance", gorm.Expr("points_balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrUserNotFound
	}

	return tx.Create(&model.PointLog{
		UserID:      userID,
		Action:      action,
		Delta:       amount,
		ReferenceID: referenceID,
	}).Error
}

// debitTx subtracts with a balance guard in the WHERE clause. Zero rows
// affected on an existing user means the balance was too low; the balance
// can never go negative.
func debitTx(tx *gorm.DB, userID uuid.UUID, amount int, action, referenceID string) error {
	res := tx.Model(&model.User{}).
		Where("id = ? AND points_balance >= ?", userID, amount).
		UpdateColumn("points_balance", gorm.Expr("points_balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperror.ErrUserNotFound
		}
		return apperror.ErrInsufficientBalance
	}

	return tx.Create(&model.PointLog{
		UserID:      userID,
		Action:      action,
		Delta:       -amount,
		ReferenceID: referenceID,
	}).Error
}
