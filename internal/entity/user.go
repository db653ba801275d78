package entity

import "time"

type User struct {
	ID            string    `db:"id"`
	Email         string    `db:"email"`
	Name          string    `db:"name"`
	Surname       string    `db:"surname"`
	Role          UserRole  `db:"role"`
	StudentNumber string    `db:"student_number"`
	PhoneNumber   string    `db:"phone_number"`
	Password      string    `db:"password"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type UserLoginData struct {
	ID            string
	Email         string
	Name          string
	Role          UserRole
	StudentNumber string
}

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}
