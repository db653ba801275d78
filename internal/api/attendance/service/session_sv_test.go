package attendanceService

import (
	"AttendanceGolang/internal/api/attendance"
	attendanceRepository "AttendanceGolang/internal/api/attendance/repository"
	"AttendanceGolang/internal/api/course"
	"AttendanceGolang/internal/entity"
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]entity.AttendanceSession
	students map[string]entity.Student
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]entity.AttendanceSession),
		students: make(map[string]entity.Student),
	}
}

func (f *fakeSessionStore) CreateSession(_ context.Context, session entity.AttendanceSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id string) (entity.AttendanceSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return entity.AttendanceSession{}, attendance.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) AddParticipant(_ context.Context, sessionID, studentNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionID]
	if !ok || session.Status != entity.SessionActive {
		return nil
	}
	for _, sn := range session.Participants {
		if sn == studentNumber {
			return nil
		}
	}
	session.Participants = append(session.Participants, studentNumber)
	f.sessions[sessionID] = session
	return nil
}

func (f *fakeSessionStore) RemoveParticipant(_ context.Context, sessionID, studentNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil
	}
	participants := session.Participants[:0]
	for _, sn := range session.Participants {
		if sn != studentNumber {
			participants = append(participants, sn)
		}
	}
	session.Participants = participants
	f.sessions[sessionID] = session
	return nil
}

func (f *fakeSessionStore) CompleteSession(_ context.Context, sessionID string, absentees []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[sessionID]
	if !ok {
		return attendance.ErrSessionNotFound
	}
	now := time.Now()
	session.Status = entity.SessionCompleted
	session.Absentees = absentees
	session.CompletedAt = &now
	f.sessions[sessionID] = session
	return nil
}

func (f *fakeSessionStore) ListActiveForStudent(_ context.Context, studentNumber string) ([]entity.AttendanceSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.AttendanceSession
	for _, session := range f.sessions {
		if session.Status != entity.SessionActive {
			continue
		}
		for _, sn := range session.Roster {
			if sn == studentNumber {
				out = append(out, session)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeSessionStore) GetActiveForTeacher(_ context.Context, teacherEmail string) (entity.AttendanceSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, session := range f.sessions {
		if session.Status == entity.SessionActive && session.TeacherEmail == teacherEmail {
			return session, nil
		}
	}
	return entity.AttendanceSession{}, attendance.ErrSessionNotFound
}

func (f *fakeSessionStore) CourseStatsForStudent(_ context.Context, studentNumber string) ([]entity.CourseAttendanceStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := make(map[string]*entity.CourseAttendanceStats)
	for _, session := range f.sessions {
		if session.Status != entity.SessionCompleted {
			continue
		}
		onRoster := false
		for _, sn := range session.Roster {
			if sn == studentNumber {
				onRoster = true
				break
			}
		}
		if !onRoster {
			continue
		}
		stat, ok := stats[session.CourseCode]
		if !ok {
			stat = &entity.CourseAttendanceStats{CourseCode: session.CourseCode, CourseName: session.CourseName}
			stats[session.CourseCode] = stat
		}
		stat.TotalSessions++
		for _, sn := range session.Participants {
			if sn == studentNumber {
				stat.AttendedCount++
				break
			}
		}
	}
	var out []entity.CourseAttendanceStats
	for _, stat := range stats {
		out = append(out, *stat)
	}
	return out, nil
}

func (f *fakeSessionStore) ListByNumbers(_ context.Context, studentNumbers []string) ([]entity.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Student
	for _, sn := range studentNumbers {
		if student, ok := f.students[sn]; ok {
			out = append(out, student)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	store *fakeSessionStore
}

func (f *fakeAttendanceRepo) NewClient(bool) (attendanceRepository.Client, error) {
	return attendanceRepository.Client{
		Sessions: f.store,
		Students: f.store,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeCourseService struct {
	courses map[string]course.CourseResponse
}

func (f *fakeCourseService) GetByCode(_ context.Context, code string) (course.CourseResponse, error) {
	crs, ok := f.courses[code]
	if !ok {
		return course.CourseResponse{}, course.ErrCourseNotFound
	}
	return crs, nil
}

func (f *fakeCourseService) GetRoster(ctx context.Context, code string) ([]string, error) {
	crs, err := f.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return crs.Students, nil
}

func (f *fakeCourseService) CreateCourse(context.Context, course.CreateCourseRequest) (course.CourseResponse, error) {
	return course.CourseResponse{}, nil
}

func (f *fakeCourseService) ListAll(context.Context) ([]course.CourseResponse, error) {
	return nil, nil
}

func (f *fakeCourseService) ListByTeacher(context.Context, string) ([]course.CourseResponse, error) {
	return nil, nil
}

func (f *fakeCourseService) UpdateCourse(context.Context, string, course.UpdateCourseRequest) error {
	return nil
}

func (f *fakeCourseService) DeleteCourse(context.Context, string) error {
	return nil
}

type fakeUtils struct {
	mu      sync.Mutex
	counter int
}

func (f *fakeUtils) NewULIDFromTimestamp(time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counter++
	return fmt.Sprintf("SESSION-%04d", f.counter), nil
}

func (f *fakeUtils) ValidateImageFile(*multipart.FileHeader) error { return nil }

type fakeMailer struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeMailer) SendAbsenteeReport(string, string, string, []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func (f *fakeMailer) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestService(store *fakeSessionStore, mailer *fakeMailer) AttendanceService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	courses := &fakeCourseService{courses: map[string]course.CourseResponse{
		"CS101": {
			Code:         "CS101",
			Name:         "Intro to Computer Science",
			TeacherEmail: "teacher@example.com",
			Students:     []string{"S1", "S2", "S3"},
		},
	}}

	return New(log, &fakeAttendanceRepo{store: store}, courses, &fakeUtils{}, mailer, nil)
}

func TestSessionLifecycle(t *testing.T) {
	store := newFakeSessionStore()
	mailer := &fakeMailer{}
	svc := newTestService(store, mailer)
	ctx := context.Background()

	opened, err := svc.Open(ctx, "teacher@example.com", attendance.OpenSessionRequest{CourseCode: "CS101"})
	require.NoError(t, err)
	assert.Equal(t, "active", opened.Status)
	assert.Equal(t, 3, opened.RosterSize)
	assert.Equal(t, 0, opened.ParticipantCount)

	rec, err := svc.RecordParticipation(ctx, opened.ID, "S1")
	require.NoError(t, err)
	assert.False(t, rec.AlreadyMarked)

	rec, err = svc.RecordParticipation(ctx, opened.ID, "S1")
	require.NoError(t, err)
	assert.True(t, rec.AlreadyMarked, "marking twice must be idempotent")

	rec, err = svc.RecordParticipation(ctx, opened.ID, "S2")
	require.NoError(t, err)
	assert.False(t, rec.AlreadyMarked)

	completed, err := svc.Complete(ctx, opened.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, completed.Participants)
	assert.Equal(t, []string{"S3"}, completed.Absentees)
	assert.False(t, completed.CompletedAt.IsZero())

	// Completing again returns the frozen first result.
	again, err := svc.Complete(ctx, opened.ID)
	require.NoError(t, err)
	assert.Equal(t, completed.Participants, again.Participants)
	assert.Equal(t, completed.Absentees, again.Absentees)
	assert.Equal(t, completed.CompletedAt, again.CompletedAt)

	_, err = svc.RecordParticipation(ctx, opened.ID, "S3")
	assert.ErrorIs(t, err, attendance.ErrSessionClosed)

	require.Eventually(t, func() bool { return mailer.sent() >= 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, mailer.sent(), "idempotent completion must not re-send the report")
}

func TestRecordParticipationNotOnRoster(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestService(store, &fakeMailer{})
	ctx := context.Background()

	opened, err := svc.Open(ctx, "teacher@example.com", attendance.OpenSessionRequest{CourseCode: "CS101"})
	require.NoError(t, err)

	_, err = svc.RecordParticipation(ctx, opened.ID, "S99")
	assert.ErrorIs(t, err, attendance.ErrNotOnRoster)

	// The rejected student must not leak into the absentee computation.
	completed, err := svc.Complete(ctx, opened.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2", "S3"}, completed.Absentees)
}

func TestOpenCourseNotFound(t *testing.T) {
	svc := newTestService(newFakeSessionStore(), &fakeMailer{})

	_, err := svc.Open(context.Background(), "teacher@example.com", attendance.OpenSessionRequest{CourseCode: "NOPE"})
	assert.ErrorIs(t, err, attendance.ErrCourseNotFound)
}

func TestOpenSecondActiveSessionRejected(t *testing.T) {
	svc := newTestService(newFakeSessionStore(), &fakeMailer{})
	ctx := context.Background()

	_, err := svc.Open(ctx, "teacher@example.com", attendance.OpenSessionRequest{CourseCode: "CS101"})
	require.NoError(t, err)

	_, err = svc.Open(ctx, "teacher@example.com", attendance.OpenSessionRequest{CourseCode: "CS101"})
	assert.ErrorIs(t, err, attendance.ErrActiveSessionExists)
}

func TestStatusOf(t *testing.T) {
	svc := newTestService(newFakeSessionStore(), &fakeMailer{})
	ctx := context.Background()

	opened, err := svc.Open(ctx, "teacher@example.com", attendance.OpenSessionRequest{CourseCode: "CS101"})
	require.NoError(t, err)

	marked, err := svc.StatusOf(ctx, opened.ID, "S1")
	require.NoError(t, err)
	assert.False(t, marked)

	_, err = svc.RecordParticipation(ctx, opened.ID, "S1")
	require.NoError(t, err)

	marked, err = svc.StatusOf(ctx, opened.ID, "S1")
	require.NoError(t, err)
	assert.True(t, marked)

	_, err = svc.StatusOf(ctx, opened.ID, "S99")
	assert.ErrorIs(t, err, attendance.ErrNotOnRoster)

	// Status stays queryable after completion.
	_, err = svc.Complete(ctx, opened.ID)
	require.NoError(t, err)

	marked, err = svc.StatusOf(ctx, opened.ID, "S1")
	require.NoError(t, err)
	assert.True(t, marked)
}

func TestRemoveParticipation(t *testing.T) {
	svc := newTestService(newFakeSessionStore(), &fakeMailer{})
	ctx := context.Background()

	opened, err := svc.Open(ctx, "teacher@example.com", attendance.OpenSessionRequest{CourseCode: "CS101"})
	require.NoError(t, err)

	_, err = svc.RecordParticipation(ctx, opened.ID, "S1")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveParticipation(ctx, opened.ID, "S1"))
	require.NoError(t, svc.RemoveParticipation(ctx, opened.ID, "S1"))

	completed, err := svc.Complete(ctx, opened.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2", "S3"}, completed.Absentees)
}

func TestSessionHydratesAfterRestart(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestService(store, &fakeMailer{})
	ctx := context.Background()

	opened, err := svc.Open(ctx, "teacher@example.com", attendance.OpenSessionRequest{CourseCode: "CS101"})
	require.NoError(t, err)

	_, err = svc.RecordParticipation(ctx, opened.ID, "S1")
	require.NoError(t, err)

	// A fresh service over the same store stands in for a restarted process.
	restarted := newTestService(store, &fakeMailer{})

	marked, err := restarted.StatusOf(ctx, opened.ID, "S1")
	require.NoError(t, err)
	assert.True(t, marked)

	completed, err := restarted.Complete(ctx, opened.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"S2", "S3"}, completed.Absentees)
}

func TestConcurrentOpensSingleWinner(t *testing.T) {
	svc := newTestService(newFakeSessionStore(), &fakeMailer{})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Open(ctx, "teacher@example.com", attendance.OpenSessionRequest{CourseCode: "CS101"})
		}(i)
	}
	wg.Wait()

	opened := 0
	for _, err := range errs {
		if err == nil {
			opened++
		} else {
			assert.ErrorIs(t, err, attendance.ErrActiveSessionExists)
		}
	}
	assert.Equal(t, 1, opened, "exactly one of the racing opens may win")
}

func TestRecordParticipationRacesCompletion(t *testing.T) {
	svc := newTestService(newFakeSessionStore(), &fakeMailer{})
	ctx := context.Background()

	// Either order is legal; what is not legal is a merge. The late record
	// must be rejected with the session closed, and the frozen sets must
	// partition the roster exactly.
	for i := 0; i < 50; i++ {
		opened, err := svc.Open(ctx, "teacher@example.com", attendance.OpenSessionRequest{CourseCode: "CS101"})
		require.NoError(t, err)

		_, err = svc.RecordParticipation(ctx, opened.ID, "S1")
		require.NoError(t, err)

		var wg sync.WaitGroup
		var recErr, compErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, recErr = svc.RecordParticipation(ctx, opened.ID, "S2")
		}()
		go func() {
			defer wg.Done()
			_, compErr = svc.Complete(ctx, opened.ID)
		}()
		wg.Wait()
		require.NoError(t, compErr)

		// Re-completing returns the frozen result from whichever order won.
		completed, err := svc.Complete(ctx, opened.ID)
		require.NoError(t, err)

		if recErr != nil {
			require.ErrorIs(t, recErr, attendance.ErrSessionClosed)
			assert.Equal(t, []string{"S1"}, completed.Participants)
			assert.Equal(t, []string{"S2", "S3"}, completed.Absentees, "a rejected record must not disturb the frozen absentees")
		} else {
			assert.Equal(t, []string{"S1", "S2"}, completed.Participants)
			assert.Equal(t, []string{"S3"}, completed.Absentees)
		}
	}
}

func TestConcurrentRecording(t *testing.T) {
	svc := newTestService(newFakeSessionStore(), &fakeMailer{})
	ctx := context.Background()

	opened, err := svc.Open(ctx, "teacher@example.com", attendance.OpenSessionRequest{CourseCode: "CS101"})
	require.NoError(t, err)

	attempts := []string{"S1", "S2", "S3", "S1", "S2", "S99", "S1", "S3", "S98", "S2"}

	var wg sync.WaitGroup
	for _, sn := range attempts {
		wg.Add(1)
		go func(studentNumber string) {
			defer wg.Done()
			_, _ = svc.RecordParticipation(ctx, opened.ID, studentNumber)
		}(sn)
	}
	wg.Wait()

	completed, err := svc.Complete(ctx, opened.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2", "S3"}, completed.Participants)
	assert.Empty(t, completed.Absentees)
}
