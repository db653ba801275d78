package entity

import (
	"time"

	"github.com/lib/pq"
)

type Student struct {
	StudentNumber string          `db:"student_number"`
	FirstName     string          `db:"first_name"`
	LastName      string          `db:"last_name"`
	PhoneNumber   string          `db:"phone_number"`
	FacePhotoURL  string          `db:"face_photo_url"`
	Encoding      pq.Float64Array `db:"encoding"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (s Student) DisplayName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// FaceRecord is the cached form of an enrolled student's face data. The
// encoding is the enrollment-time average of per-frame encodings and is
// treated as immutable for the lifetime of a cache snapshot.
type FaceRecord struct {
	StudentNumber string
	Name          string
	Encoding      []float64
}
