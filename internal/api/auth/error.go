package auth

import (
	"AttendanceGolang/pkg/response"
	"net/http"
)

var (
	ErrEmailAlreadyExists     = response.NewError(http.StatusConflict, "email already exists")
	ErrInvalidEmailOrPassword = response.NewError(http.StatusBadRequest, "email or password is wrong")
	ErrUserNotFound           = response.NewError(http.StatusNotFound, "user not found")
	ErrInvalidRole            = response.NewError(http.StatusBadRequest, "invalid role")
)
