package dto

type CreateCourseInput struct {
	Title       string `json:"title" form:"title" binding:"required,max=150"`
	Description string `json:"description" form:"description"`
	Subject     string `json:"subject" form:"subject" binding:"required,max=50"`
	Level       string `json:"level" form:"level" binding:"required,oneof=sd smp sma"`
	Price       int    `json:"price" form:"price" binding:"min=0"`
	IsFree      bool   `json:"is_free" form:"is_free"`
}

type UpdateCourseInput struct {
	Title       *string `json:"title,omitempty" form:"title"`
	Description *string `json:"description,omitempty" form:"description"`
	Subject     *string `json:"subject,omitempty" form:"subject"`
	Level       *string `json:"level,omitempty" form:"level" binding:"omitempty,oneof=sd smp sma"`
	Price       *int    `json:"price,omitempty" form:"price"`
	IsFree      *bool   `json:"is_free,omitempty" form:"is_free"`
}

type CreateVideoInput struct {
	Title    string `json:"title" binding:"required,max=150"`
	VideoURL string `json:"video_url" binding:"required,url"`
	Duration int    `json:"duration" binding:"min=0"`
	Position int    `json:"position" binding:"min=0"`
}

type CreateEbookInput struct {
	Title   string `json:"title" form:"title" binding:"required,max=150"`
	Author  string `json:"author" form:"author" binding:"max=100"`
	Subject string `json:"subject" form:"subject" binding:"required,max=50"`
	FileURL string `json:"file_url" form:"file_url" binding:"required,url"`
}

type CreateLiveClassInput struct {
	CourseID   string `json:"course_id,omitempty"`
	Title      string `json:"title" binding:"required,max=150"`
	TutorName  string `json:"tutor_name" binding:"required,max=100"`
	MeetingURL string `json:"meeting_url" binding:"required,url"`
	StartsAt   string `json:"starts_at" binding:"required"` // RFC3339
}
