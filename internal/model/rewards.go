package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interaction kinds that can earn points.
const (
	InteractionWatch   = "watch"
	InteractionLike    = "like"
	InteractionDislike = "dislike"
)

// InteractionRecord marks that a user already earned points for a content
// item. The unique (user_id, content_id) index is the dedup guard: a second
// insert for the same pair fails regardless of kind.
type InteractionRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_interactions_user_content,priority:1" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ContentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_interactions_user_content,priority:2" json:"content_id"`
	Kind      string    `gorm:"size:20;not null" json:"kind"` // 'watch', 'like', 'dislike'
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (i *InteractionRecord) TableName() string {
	return "interaction_records"
}

func (i *InteractionRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	return
}

// PointLog is the append-only audit trail of every balance mutation.
// Delta is signed: credits positive, debits negative.
type PointLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index:idx_point_logs_user_date,priority:1;not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	Action      string    `gorm:"size:50;not null" json:"action"` // 'watch', 'like', 'dislike', 'follow', 'redeem'
	Delta       int       `gorm:"not null" json:"delta"`
	ReferenceID string    `gorm:"size:36" json:"reference_id"`
	CreatedAt   time.Time `gorm:"index:idx_point_logs_user_date,priority:2" json:"created_at"`
}

// RedemptionRecord is written in the same transaction as the point debit.
// Immutable once created.
type RedemptionRecord struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	UserName          string    `gorm:"size:50;not null" json:"user_name"`
	UserEmail         string    `gorm:"size:100;not null" json:"user_email"`
	PayoutDestination string    `gorm:"size:100;not null" json:"payout_destination"`
	PointsSpent       int       `gorm:"not null" json:"points_spent"`
	AmountPayable     float64   `gorm:"not null" json:"amount_payable"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *RedemptionRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
