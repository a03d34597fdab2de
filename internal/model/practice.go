package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PracticeTest stores an AI-generated test. Questions is the raw JSON array
// returned by the model after validation.
type PracticeTest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Subject   string    `gorm:"size:50;not null" json:"subject"`
	Topic     string    `gorm:"size:100;not null" json:"topic"`
	Questions string    `gorm:"type:jsonb;not null" json:"questions"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *PracticeTest) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}
