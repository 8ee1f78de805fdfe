package dto

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=254" example:"alice@example.com"`
	Password    string `json:"password" binding:"required,min=6,max=40" example:"secret123"`
	Nickname    string `json:"nickname" binding:"required,min=2,max=20" example:"alice"`
	HeadFileURL string `json:"head_file_url" binding:"required" example:"https://cdn.example.com/a.png"`
	Gender      int    `json:"gender" binding:"required,gender" example:"1"`
	Birthday    string `json:"birthday" binding:"required,birthday" example:"1990-01-31"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshTokenParams carries the refresh token of GET /auth/refresh-token.
type RefreshTokenParams struct {
	RefreshToken string `form:"refresh_token"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=10"`
	SortBy   int `form:"sort_by,default=0"`
}

// ListUsersResponse is one page of users.
type ListUsersResponse struct {
	List     []UserResponse `json:"list"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}
