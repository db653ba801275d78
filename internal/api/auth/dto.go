package auth

import "AttendanceGolang/internal/entity"

type RegisterUserRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Name          string `json:"name" validate:"required,min=2,max=255"`
	Surname       string `json:"surname" validate:"required,min=2,max=255"`
	Password      string `json:"password" validate:"required,min=8,max=32"`
	Role          string `json:"role" validate:"required,oneof=admin teacher student"`
	StudentNumber string `json:"student_number" validate:"omitempty,min=4,max=20"`
	PhoneNumber   string `json:"phone_number" validate:"omitempty,min=10,max=13"`
}

type LoginUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=32"`
}

type LoginUserResponse struct {
	AccessToken      string  `json:"access_token"`
	Role             string  `json:"role"`
	ExpiresInMinutes float64 `json:"expires_in_minutes"`
}

type UserResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Surname       string `json:"surname"`
	Role          string `json:"role"`
	StudentNumber string `json:"student_number,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
}

func NewUserResponse(user entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Surname:       user.Surname,
		Role:          string(user.Role),
		StudentNumber: user.StudentNumber,
		PhoneNumber:   user.PhoneNumber,
	}
}
