package dto

import (
	"time"

	"github.com/spec-kit/homeservice/internal/domain"
)

// UserResponse is the public account shape. The password hash never leaves
// the service layer.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Role      domain.Role `json:"role"`
	AvatarURL *string     `json:"avatar_url"`
	CreatedAt time.Time   `json:"created_at"`
}

// UpdateProfileRequest payload. Absent fields keep their current value.
type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone     *string `json:"phone" validate:"omitempty,min=7,max=20"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// NewUserResponses maps a slice of domain users.
func NewUserResponses(users []domain.User) []UserResponse {
	result := make([]UserResponse, 0, len(users))
	for i := range users {
		result = append(result, NewUserResponse(&users[i]))
	}
	return result
}
