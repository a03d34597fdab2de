package dto

type UpdateProfileInput struct {
	FullName   string  `json:"full_name" binding:"omitempty,max=100"`
	SchoolName *string `json:"school_name"`
	GradeLevel *string `json:"grade_level"`
	Bio        *string `json:"bio"`
}

type PwaInstalledInput struct {
	Installed *bool `json:"installed" binding:"required"`
}
