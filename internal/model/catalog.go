package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string     `gorm:"size:150;not null" json:"title"`
	Slug         string     `gorm:"size:170;uniqueIndex;not null" json:"slug"`
	Description  string     `gorm:"type:text" json:"description"`
	Subject      string     `gorm:"size:50;index" json:"subject"`
	Level        string     `gorm:"size:20;index" json:"level"` // 'sd', 'smp', 'sma'
	Price        int        `gorm:"not null;default:0" json:"price"`
	IsFree       bool       `gorm:"not null;default:false" json:"is_free"`
	ThumbnailURL *string    `gorm:"type:text" json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	Videos       []Video    `gorm:"constraint:OnDelete:CASCADE" json:"videos,omitempty"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

type Video struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	VideoURL  string    `gorm:"type:text;not null" json:"video_url"`
	Duration  int       `gorm:"not null;default:0" json:"duration"` // seconds
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID, err = uuid.NewV7()
	}
	return
}

type Ebook struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Author    string    `gorm:"size:100" json:"author"`
	Subject   string    `gorm:"size:50;index" json:"subject"`
	FileURL   string    `gorm:"type:text;not null" json:"file_url"`
	CoverURL  *string   `gorm:"type:text" json:"cover_url,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (e *Ebook) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID, err = uuid.NewV7()
	}
	return
}

type Enrollment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_course,priority:1" json:"user_id"`
	User        User       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CourseID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_course,priority:2" json:"course_id"`
	Course      Course     `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID, err = uuid.NewV7()
	}
	return
}
