package entity

import (
	"time"

	"github.com/lib/pq"
)

type Course struct {
	ID           string         `db:"id"`
	Code         string         `db:"code"`
	Name         string         `db:"name"`
	TeacherEmail string         `db:"teacher_email"`
	Students     pq.StringArray `db:"students"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}
