package dto

import "anara.com/bimbelpintar/internal/model"

type CreateUserInput struct {
	Username string `json:"username" form:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
	Role     string `json:"role" form:"role" binding:"required,oneof=siswa admin"`
	FullName string `json:"full_name" form:"full_name" binding:"required"`
}

type UpdateAdminUserInput struct {
	Username   string  `json:"username" form:"username"`
	Email      string  `json:"email" form:"email"`
	Password   string  `json:"password" form:"password"`
	Role       string  `json:"role" form:"role"`
	FullName   string  `json:"full_name" form:"full_name"`
	SchoolName *string `json:"school_name" form:"school_name"`
	GradeLevel *string `json:"grade_level" form:"grade_level"`
	Bio        *string `json:"bio" form:"bio"`
}

type AdminUserResponse struct {
	User    *model.User    `json:"user"`
	Role    *model.Role    `json:"role"`
	Profile *model.Profile `json:"profile"`
}
