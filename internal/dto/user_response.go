package dto

import (
	"github.com/weqtian/user_center/internal/core/domain"
)

// UserResponse is the public view of a user. It has no password or token fields.
type UserResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	DisplayID      string  `json:"display_id"`
	Email          string  `json:"email"`
	Nickname       string  `json:"nickname"`
	HeadFileURL    string  `json:"head_file_url"`
	Gender         int     `json:"gender"`
	Birthday       string  `json:"birthday"`
	RoleID         *string `json:"role_id"`
	IsActive       bool    `json:"is_active"`
	CreateTime     int64   `json:"create_time"`
	CreateBy       string  `json:"create_by"`
	LastModifyTime int64   `json:"last_modify_time"`
	LastModifyBy   string  `json:"last_modify_by"`
}

// ToUserResponse converts a domain.User to its public view.
func ToUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		UserID:         user.UserID,
		DisplayID:      user.DisplayID,
		Email:          user.Email,
		Nickname:       user.Nickname,
		HeadFileURL:    user.HeadFileURL,
		Gender:         int(user.Gender),
		Birthday:       user.Birthday,
		RoleID:         user.RoleID,
		IsActive:       user.IsActive,
		CreateTime:     user.CreatedAt.UnixMilli(),
		CreateBy:       user.CreatedBy,
		LastModifyTime: user.LastUpdatedAt.UnixMilli(),
		LastModifyBy:   user.LastUpdatedBy,
	}
}

// ToListUsersResponse converts a domain.UserPage to ListUsersResponse DTO
func ToListUsersResponse(page domain.UserPage) ListUsersResponse {
	list := make([]UserResponse, len(page.Users))
	for i, user := range page.Users {
		list[i] = ToUserResponse(user)
	}
	return ListUsersResponse{
		List:     list,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
}
