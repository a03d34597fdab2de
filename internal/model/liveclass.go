package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LiveClass struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID   *uuid.UUID `gorm:"type:uuid;index" json:"course_id,omitempty"`
	Title      string     `gorm:"size:150;not null" json:"title"`
	TutorName  string     `gorm:"size:100;not null" json:"tutor_name"`
	MeetingURL string     `gorm:"type:text;not null" json:"meeting_url"`
	StartsAt   time.Time  `gorm:"not null;index" json:"starts_at"`
	Reminded   bool       `gorm:"not null;default:false" json:"-"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (l *LiveClass) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID, err = uuid.NewV7()
	}
	return
}
