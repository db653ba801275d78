package attendanceRepository

import (
	"AttendanceGolang/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var db sqlx.ExtContext
	var commitFunc, rollbackFunc func() error

	db = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		db = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Sessions: &sessionRepository{q: db, log: r.log},
		Students: &studentRepository{q: db, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Sessions interface {
		CreateSession(ctx context.Context, session entity.AttendanceSession) error
		GetByID(ctx context.Context, id string) (entity.AttendanceSession, error)
		AddParticipant(ctx context.Context, sessionID, studentNumber string) error
		RemoveParticipant(ctx context.Context, sessionID, studentNumber string) error
		CompleteSession(ctx context.Context, sessionID string, absentees []string) error
		ListActiveForStudent(ctx context.Context, studentNumber string) ([]entity.AttendanceSession, error)
		GetActiveForTeacher(ctx context.Context, teacherEmail string) (entity.AttendanceSession, error)
		CourseStatsForStudent(ctx context.Context, studentNumber string) ([]entity.CourseAttendanceStats, error)
	}

	Students interface {
		ListByNumbers(ctx context.Context, studentNumbers []string) ([]entity.Student, error)
	}

	Commit   func() error
	Rollback func() error
}

type sessionRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}

type studentRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
