package recognitionRepository

import (
	"AttendanceGolang/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
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
		Faces:    &faceRepository{q: db, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Faces interface {
		ListEnrolled(ctx context.Context) ([]entity.Student, error)
		CountEnrolled(ctx context.Context) (int, error)
		GetStudent(ctx context.Context, studentNumber string) (entity.Student, error)
		UpsertEncoding(ctx context.Context, studentNumber string, encoding pq.Float64Array, photoURL string) error
		DeleteEncoding(ctx context.Context, studentNumber string) error
	}

	Commit   func() error
	Rollback func() error
}

type faceRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
