package attendanceService

import (
	"AttendanceGolang/internal/api/attendance"
	"AttendanceGolang/internal/api/course"
	"AttendanceGolang/internal/entity"
	contextPkg "AttendanceGolang/pkg/context"
	"errors"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *attendanceService) Open(ctx context.Context, teacherEmail string, req attendance.OpenSessionRequest) (attendance.SessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	crs, err := s.courseService.GetByCode(ctx, req.CourseCode)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			return attendance.SessionResponse{}, attendance.ErrCourseNotFound
		}
		return attendance.SessionResponse{}, err
	}

	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return attendance.SessionResponse{}, err
	}

	s.openMu.Lock()
	defer s.openMu.Unlock()

	if _, err := repo.Sessions.GetActiveForTeacher(ctx, teacherEmail); err == nil {
		return attendance.SessionResponse{}, attendance.ErrActiveSessionExists
	} else if !errors.Is(err, attendance.ErrSessionNotFound) {
		return attendance.SessionResponse{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return attendance.SessionResponse{}, err
	}

	// The roster is frozen here. Students added to the course after this
	// point are not part of this session and cannot be marked absent by it.
	roster := make([]string, len(crs.Students))
	copy(roster, crs.Students)

	session := entity.AttendanceSession{
		ID:           id,
		CourseCode:   crs.Code,
		CourseName:   crs.Name,
		TeacherEmail: teacherEmail,
		Status:       entity.SessionActive,
		Roster:       roster,
		Participants: []string{},
		Absentees:    []string{},
		StartedAt:    time.Now(),
	}

	if err := repo.Sessions.CreateSession(ctx, session); err != nil {
		return attendance.SessionResponse{}, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = newSessionState(session)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"request_id":  requestID,
		"session_id":  session.ID,
		"course_code": session.CourseCode,
		"roster_size": len(roster),
	}).Info("Attendance session opened")

	return newSessionResponse(session), nil
}

func (s *attendanceService) RecordParticipation(ctx context.Context, sessionID, studentNumber string) (attendance.RecordResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	st, err := s.lookup(ctx, sessionID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.session.Status == entity.SessionCompleted {
		return attendance.RecordResponse{}, attendance.ErrSessionClosed
	}

	if _, onRoster := st.roster[studentNumber]; !onRoster {
		return attendance.RecordResponse{}, attendance.ErrNotOnRoster
	}

	if _, marked := st.participants[studentNumber]; marked {
		return attendance.RecordResponse{
			SessionID:     sessionID,
			StudentNumber: studentNumber,
			AlreadyMarked: true,
		}, nil
	}

	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return attendance.RecordResponse{}, err
	}

	// Persist before mutating memory so a write failure leaves the
	// in-memory set consistent with the database.
	if err := repo.Sessions.AddParticipant(ctx, sessionID, studentNumber); err != nil {
		return attendance.RecordResponse{}, err
	}

	st.participants[studentNumber] = struct{}{}
	st.session.Participants = append(st.session.Participants, studentNumber)

	s.log.WithFields(logrus.Fields{
		"request_id":     requestID,
		"session_id":     sessionID,
		"student_number": studentNumber,
	}).Info("Participation recorded")

	return attendance.RecordResponse{
		SessionID:     sessionID,
		StudentNumber: studentNumber,
		AlreadyMarked: false,
	}, nil
}

func (s *attendanceService) RemoveParticipation(ctx context.Context, sessionID, studentNumber string) error {
	requestID := contextPkg.GetRequestID(ctx)

	st, err := s.lookup(ctx, sessionID)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.session.Status == entity.SessionCompleted {
		return attendance.ErrSessionClosed
	}

	if _, marked := st.participants[studentNumber]; !marked {
		return nil
	}

	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	if err := repo.Sessions.RemoveParticipant(ctx, sessionID, studentNumber); err != nil {
		return err
	}

	delete(st.participants, studentNumber)
	for i, sn := range st.session.Participants {
		if sn == studentNumber {
			st.session.Participants = append(st.session.Participants[:i], st.session.Participants[i+1:]...)
			break
		}
	}

	return nil
}

func (s *attendanceService) Complete(ctx context.Context, sessionID string) (attendance.CompletionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	st, err := s.lookup(ctx, sessionID)
	if err != nil {
		return attendance.CompletionResponse{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	// Completing twice returns the frozen result from the first completion.
	if st.session.Status == entity.SessionCompleted {
		return newCompletionResponse(st.session), nil
	}

	absentees := make([]string, 0, len(st.session.Roster)-len(st.participants))
	for _, sn := range st.session.Roster {
		if _, marked := st.participants[sn]; !marked {
			absentees = append(absentees, sn)
		}
	}
	sort.Strings(absentees)

	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return attendance.CompletionResponse{}, err
	}

	if err := repo.Sessions.CompleteSession(ctx, sessionID, absentees); err != nil {
		return attendance.CompletionResponse{}, err
	}

	now := time.Now()
	st.session.Status = entity.SessionCompleted
	st.session.Absentees = absentees
	st.session.CompletedAt = &now

	s.log.WithFields(logrus.Fields{
		"request_id":        requestID,
		"session_id":        sessionID,
		"course_code":       st.session.CourseCode,
		"participant_count": len(st.participants),
		"absentee_count":    len(absentees),
	}).Info("Attendance session completed")

	go s.notifyCompletion(copySession(st.session))

	return newCompletionResponse(st.session), nil
}

func (s *attendanceService) StatusOf(ctx context.Context, sessionID, studentNumber string) (bool, error) {
	st, err := s.lookup(ctx, sessionID)
	if err != nil {
		return false, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, onRoster := st.roster[studentNumber]; !onRoster {
		return false, attendance.ErrNotOnRoster
	}

	_, marked := st.participants[studentNumber]
	return marked, nil
}

func (s *attendanceService) Snapshot(ctx context.Context, sessionID string) (entity.AttendanceSession, error) {
	st, err := s.lookup(ctx, sessionID)
	if err != nil {
		return entity.AttendanceSession{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	return copySession(st.session), nil
}

// lookup returns the live state for a session, hydrating it from the
// database on first access after a restart.
func (s *attendanceService) lookup(ctx context.Context, sessionID string) (*sessionState, error) {
	s.mu.Lock()
	st, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if ok {
		return st, nil
	}

	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	session, err := repo.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A concurrent lookup may have hydrated the same session. Keep the
	// first state so every caller shares one mutex.
	if st, ok := s.sessions[sessionID]; ok {
		return st, nil
	}

	st = newSessionState(session)
	s.sessions[sessionID] = st
	return st, nil
}

func newSessionState(session entity.AttendanceSession) *sessionState {
	st := &sessionState{
		session:      session,
		roster:       make(map[string]struct{}, len(session.Roster)),
		participants: make(map[string]struct{}, len(session.Participants)),
	}
	for _, sn := range session.Roster {
		st.roster[sn] = struct{}{}
	}
	for _, sn := range session.Participants {
		st.participants[sn] = struct{}{}
	}
	return st
}

func copySession(session entity.AttendanceSession) entity.AttendanceSession {
	out := session
	out.Roster = append([]string(nil), session.Roster...)
	out.Participants = append([]string(nil), session.Participants...)
	out.Absentees = append([]string(nil), session.Absentees...)
	if session.CompletedAt != nil {
		at := *session.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

func newSessionResponse(session entity.AttendanceSession) attendance.SessionResponse {
	return attendance.SessionResponse{
		ID:               session.ID,
		CourseCode:       session.CourseCode,
		CourseName:       session.CourseName,
		TeacherEmail:     session.TeacherEmail,
		Status:           string(session.Status),
		StartedAt:        session.StartedAt,
		RosterSize:       len(session.Roster),
		ParticipantCount: len(session.Participants),
	}
}

func newCompletionResponse(session entity.AttendanceSession) attendance.CompletionResponse {
	participants := append([]string(nil), session.Participants...)
	sort.Strings(participants)

	res := attendance.CompletionResponse{
		SessionID:    session.ID,
		CourseCode:   session.CourseCode,
		Participants: participants,
		Absentees:    append([]string(nil), session.Absentees...),
	}
	if session.CompletedAt != nil {
		res.CompletedAt = *session.CompletedAt
	}
	return res
}
