package courseRepository

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
		Courses:  &courseRepository{q: db, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Courses interface {
		CreateCourse(ctx context.Context, course entity.Course) error
		GetByCode(ctx context.Context, code string) (entity.Course, error)
		ListAll(ctx context.Context) ([]entity.Course, error)
		ListByTeacher(ctx context.Context, teacherEmail string) ([]entity.Course, error)
		UpdateCourse(ctx context.Context, course entity.Course) error
		DeleteCourse(ctx context.Context, code string) error
	}

	Commit   func() error
	Rollback func() error
}

type courseRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
