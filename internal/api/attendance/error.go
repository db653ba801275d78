package attendance

import (
	"AttendanceGolang/pkg/response"
	"net/http"
)

var (
	// ErrCourseNotFound and ErrNotOnRoster are client input errors and are
	// never retried internally.
	ErrCourseNotFound = response.NewError(http.StatusNotFound, "course not found")
	ErrNotOnRoster    = response.NewError(http.StatusBadRequest, "student not on session roster")

	// ErrSessionClosed is a state conflict: the session already completed
	// and its participant and absentee sets are frozen.
	ErrSessionClosed   = response.NewError(http.StatusConflict, "attendance session already completed")
	ErrSessionNotFound = response.NewError(http.StatusNotFound, "attendance session not found")

	ErrActiveSessionExists = response.NewError(http.StatusConflict, "teacher already has an active session")
)
