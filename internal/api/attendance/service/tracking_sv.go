package attendanceService

import (
	"AttendanceGolang/internal/api/attendance"
	"AttendanceGolang/internal/entity"
	contextPkg "AttendanceGolang/pkg/context"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *attendanceService) GetReport(ctx context.Context, sessionID string) (attendance.SessionReportResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	session, err := s.Snapshot(ctx, sessionID)
	if err != nil {
		return attendance.SessionReportResponse{}, err
	}

	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return attendance.SessionReportResponse{}, err
	}

	students, err := repo.Students.ListByNumbers(ctx, session.Roster)
	if err != nil {
		return attendance.SessionReportResponse{}, err
	}

	names := make(map[string]string, len(students))
	for _, student := range students {
		names[student.StudentNumber] = student.DisplayName()
	}

	present := make(map[string]struct{}, len(session.Participants))
	for _, sn := range session.Participants {
		present[sn] = struct{}{}
	}

	roster := make([]attendance.RosterEntry, 0, len(session.Roster))
	for _, sn := range session.Roster {
		_, marked := present[sn]
		roster = append(roster, attendance.RosterEntry{
			StudentNumber: sn,
			Name:          names[sn],
			Present:       marked,
		})
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].StudentNumber < roster[j].StudentNumber })

	res := attendance.SessionReportResponse{
		SessionID:  session.ID,
		CourseCode: session.CourseCode,
		CourseName: session.CourseName,
		Status:     string(session.Status),
		StartedAt:  session.StartedAt,
		Roster:     roster,
	}
	if session.Status == entity.SessionCompleted {
		res.Absentees = session.Absentees
	}

	return res, nil
}

func (s *attendanceService) ActiveSessionsFor(ctx context.Context, studentNumber string) ([]attendance.ActiveSessionResponse, error) {
	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	sessions, err := repo.Sessions.ListActiveForStudent(ctx, studentNumber)
	if err != nil {
		return nil, err
	}

	res := make([]attendance.ActiveSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		marked := false
		for _, sn := range session.Participants {
			if sn == studentNumber {
				marked = true
				break
			}
		}

		res = append(res, attendance.ActiveSessionResponse{
			SessionID:     session.ID,
			CourseCode:    session.CourseCode,
			CourseName:    session.CourseName,
			TeacherEmail:  session.TeacherEmail,
			StartedAt:     session.StartedAt,
			AlreadyMarked: marked,
		})
	}

	return res, nil
}

func (s *attendanceService) ActiveSessionForTeacher(ctx context.Context, teacherEmail string) (attendance.SessionResponse, error) {
	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	session, err := repo.Sessions.GetActiveForTeacher(ctx, teacherEmail)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	return newSessionResponse(session), nil
}

func (s *attendanceService) TrackingFor(ctx context.Context, studentNumber string) ([]attendance.CourseTrackingResponse, error) {
	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	stats, err := repo.Sessions.CourseStatsForStudent(ctx, studentNumber)
	if err != nil {
		return nil, err
	}

	res := make([]attendance.CourseTrackingResponse, 0, len(stats))
	for _, stat := range stats {
		ratio := 0
		if stat.TotalSessions > 0 {
			ratio = stat.AttendedCount * 100 / stat.TotalSessions
		}

		res = append(res, attendance.CourseTrackingResponse{
			CourseCode:      stat.CourseCode,
			CourseName:      stat.CourseName,
			TotalSessions:   stat.TotalSessions,
			AttendedCount:   stat.AttendedCount,
			MissedCount:     stat.TotalSessions - stat.AttendedCount,
			AttendanceRatio: ratio,
		})
	}

	return res, nil
}
