package course

import (
	"AttendanceGolang/pkg/response"
	"net/http"
)

var (
	ErrCourseNotFound      = response.NewError(http.StatusNotFound, "course not found")
	ErrCourseAlreadyExists = response.NewError(http.StatusConflict, "course code already exists")
)
