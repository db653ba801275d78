package recognitionService

import (
	"AttendanceGolang/internal/api/attendance"
	"AttendanceGolang/internal/api/recognition"
	recognitionRepository "AttendanceGolang/internal/api/recognition/repository"
	"AttendanceGolang/internal/entity"
	"sync"
	"testing"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

type fakeFaceStore struct {
	students []entity.Student
}

func (f *fakeFaceStore) ListEnrolled(context.Context) ([]entity.Student, error) {
	return f.students, nil
}

func (f *fakeFaceStore) CountEnrolled(context.Context) (int, error) {
	return len(f.students), nil
}

func (f *fakeFaceStore) GetStudent(context.Context, string) (entity.Student, error) {
	return entity.Student{}, recognition.ErrStudentNotFound
}

func (f *fakeFaceStore) UpsertEncoding(context.Context, string, pq.Float64Array, string) error {
	return nil
}

func (f *fakeFaceStore) DeleteEncoding(context.Context, string) error {
	return nil
}

type fakeFaceRepo struct {
	store *fakeFaceStore
}

func (f *fakeFaceRepo) NewClient(bool) (recognitionRepository.Client, error) {
	return recognitionRepository.Client{
		Faces:    f.store,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

type fakeAttendance struct {
	mu        sync.Mutex
	session   entity.AttendanceSession
	recorded  []string
	recordRes attendance.RecordResponse
	recordErr error
}

func (f *fakeAttendance) Snapshot(context.Context, string) (entity.AttendanceSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session := f.session
	session.Roster = append([]string(nil), f.session.Roster...)
	return session, nil
}

func (f *fakeAttendance) RecordParticipation(_ context.Context, sessionID, studentNumber string) (attendance.RecordResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, sessionID+"/"+studentNumber)
	return f.recordRes, f.recordErr
}

func (f *fakeAttendance) Open(context.Context, string, attendance.OpenSessionRequest) (attendance.SessionResponse, error) {
	return attendance.SessionResponse{}, nil
}

func (f *fakeAttendance) RemoveParticipation(context.Context, string, string) error { return nil }

func (f *fakeAttendance) Complete(context.Context, string) (attendance.CompletionResponse, error) {
	return attendance.CompletionResponse{}, nil
}

func (f *fakeAttendance) StatusOf(context.Context, string, string) (bool, error) { return false, nil }

func (f *fakeAttendance) GetReport(context.Context, string) (attendance.SessionReportResponse, error) {
	return attendance.SessionReportResponse{}, nil
}

func (f *fakeAttendance) ActiveSessionsFor(context.Context, string) ([]attendance.ActiveSessionResponse, error) {
	return nil, nil
}

func (f *fakeAttendance) ActiveSessionForTeacher(context.Context, string) (attendance.SessionResponse, error) {
	return attendance.SessionResponse{}, nil
}

func (f *fakeAttendance) TrackingFor(context.Context, string) ([]attendance.CourseTrackingResponse, error) {
	return nil, nil
}

func enrolled(studentNumber string, encoding ...float64) entity.Student {
	return entity.Student{
		StudentNumber: studentNumber,
		FirstName:     "Student " + studentNumber,
		Encoding:      pq.Float64Array(encoding),
	}
}

func activeSession(id string, roster ...string) entity.AttendanceSession {
	return entity.AttendanceSession{
		ID:     id,
		Status: entity.SessionActive,
		Roster: roster,
	}
}

func newTestRecognitionService(store *fakeFaceStore, as *fakeAttendance, enc *fakeEncoder) RecognitionService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return New(log, &fakeFaceRepo{store: store}, as, nil, enc, nil, nil)
}

func TestRunForStreamRecordsMatchedStudent(t *testing.T) {
	// A0 is enrolled with an encoding identical to the probe but is not on
	// this session's roster; including it would steal the match from S1.
	store := &fakeFaceStore{students: []entity.Student{
		enrolled("A0", 0.1, 0.2),
		enrolled("S1", 0.2, 0.2),
	}}
	as := &fakeAttendance{session: activeSession("SESS-1", "S1", "S2")}

	enc := &fakeEncoder{extract: func([]byte) ([]float64, error) {
		return []float64{0.1, 0.2}, nil
	}}
	stream := &fakeStream{read: func(int) ([]byte, error) {
		return []byte("frame"), nil
	}}

	svc := newTestRecognitionService(store, as, enc)

	res, err := svc.RunForStream(context.Background(), "SESS-1", stream)
	require.NoError(t, err)

	assert.Equal(t, string(entity.CaptureMatched), res.Outcome)
	require.NotNil(t, res.Match)
	assert.Equal(t, "S1", res.Match.StudentNumber)
	assert.False(t, res.AlreadyMarked)
	assert.Equal(t, []string{"SESS-1/S1"}, as.recorded)
	assert.True(t, stream.wasReleased())
}

func TestRunForStreamPropagatesAlreadyMarked(t *testing.T) {
	store := &fakeFaceStore{students: []entity.Student{enrolled("S1", 0.1, 0.2)}}
	as := &fakeAttendance{
		session:   activeSession("SESS-1", "S1"),
		recordRes: attendance.RecordResponse{SessionID: "SESS-1", StudentNumber: "S1", AlreadyMarked: true},
	}

	enc := &fakeEncoder{extract: func([]byte) ([]float64, error) {
		return []float64{0.1, 0.2}, nil
	}}
	stream := &fakeStream{read: func(int) ([]byte, error) {
		return []byte("frame"), nil
	}}

	svc := newTestRecognitionService(store, as, enc)

	res, err := svc.RunForStream(context.Background(), "SESS-1", stream)
	require.NoError(t, err)
	assert.Equal(t, string(entity.CaptureMatched), res.Outcome)
	assert.True(t, res.AlreadyMarked)
}

func TestRunForStreamCompletedSession(t *testing.T) {
	store := &fakeFaceStore{students: []entity.Student{enrolled("S1", 0.1, 0.2)}}

	session := activeSession("SESS-1", "S1")
	session.Status = entity.SessionCompleted
	as := &fakeAttendance{session: session}

	enc := &fakeEncoder{extract: func([]byte) ([]float64, error) {
		t.Fatal("encoder must not run against a completed session")
		return nil, nil
	}}
	stream := &fakeStream{read: func(int) ([]byte, error) {
		t.Fatal("stream must not be read against a completed session")
		return nil, nil
	}}

	svc := newTestRecognitionService(store, as, enc)

	_, err := svc.RunForStream(context.Background(), "SESS-1", stream)
	assert.ErrorIs(t, err, attendance.ErrSessionClosed)
	assert.Empty(t, as.recorded)
	assert.True(t, stream.wasReleased(), "the stream is released even when the session is already closed")
}

func TestRunForStreamNoRosterCandidates(t *testing.T) {
	// Everyone enrolled belongs to some other class.
	store := &fakeFaceStore{students: []entity.Student{
		enrolled("A0", 0.1, 0.2),
		enrolled("A1", 0.3, 0.4),
	}}
	as := &fakeAttendance{session: activeSession("SESS-1", "S1", "S2")}

	enc := &fakeEncoder{extract: func([]byte) ([]float64, error) { return nil, nil }}
	stream := &fakeStream{read: func(int) ([]byte, error) {
		t.Fatal("stream must not be read without candidates")
		return nil, nil
	}}

	svc := newTestRecognitionService(store, as, enc)

	_, err := svc.RunForStream(context.Background(), "SESS-1", stream)
	assert.ErrorIs(t, err, recognition.ErrNoCandidates)
	assert.Empty(t, as.recorded)
	assert.True(t, stream.wasReleased())
}
