package course

import "AttendanceGolang/internal/entity"

type CreateCourseRequest struct {
	Code         string   `json:"code" validate:"required,min=2,max=20"`
	Name         string   `json:"name" validate:"required,min=2,max=255"`
	TeacherEmail string   `json:"teacher_email" validate:"required,email"`
	Students     []string `json:"students" validate:"required,min=1,dive,min=4,max=20"`
}

type UpdateCourseRequest struct {
	Name         string   `json:"name" validate:"omitempty,min=2,max=255"`
	TeacherEmail string   `json:"teacher_email" validate:"omitempty,email"`
	Students     []string `json:"students" validate:"omitempty,min=1,dive,min=4,max=20"`
}

type CourseResponse struct {
	ID           string   `json:"id"`
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	TeacherEmail string   `json:"teacher_email"`
	Students     []string `json:"students"`
	StudentCount int      `json:"student_count"`
}

func NewCourseResponse(c entity.Course) CourseResponse {
	return CourseResponse{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		TeacherEmail: c.TeacherEmail,
		Students:     c.Students,
		StudentCount: len(c.Students),
	}
}
