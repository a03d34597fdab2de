package dto

import "time"

// EngagementRow is one user's slice of the engagement snapshot fed into the
// ranking service. Read-only; assembled in bulk by the user repository.
type EngagementRow struct {
	UID              string     `json:"uid"`
	DisplayName      string     `json:"display_name,omitempty"`
	PointsBalance    int        `json:"points_balance"`
	CoursesCompleted int        `json:"courses_completed"`
	TestsTaken       int        `json:"tests_taken"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
}

type Pagination struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}
