package attendanceService

import (
	"AttendanceGolang/internal/entity"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// notifyCompletion delivers the absentee report to the teacher and an
// absence notice to each absentee. It runs after the session record is
// already frozen, so delivery failures are logged and never unwind the
// completion itself.
func (s *attendanceService) notifyCompletion(session entity.AttendanceSession) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	sessionDate := session.StartedAt.Format("2006-01-02")

	repo, err := s.attendanceRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Failed to create repository client for completion notifications")
		return
	}

	absentees, err := repo.Students.ListByNumbers(ctx, session.Absentees)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Failed to load absentee details for completion notifications")
		return
	}

	names := make([]string, 0, len(session.Absentees))
	byNumber := make(map[string]entity.Student, len(absentees))
	for _, student := range absentees {
		byNumber[student.StudentNumber] = student
	}
	for _, sn := range session.Absentees {
		if student, ok := byNumber[sn]; ok {
			names = append(names, sn+" "+student.DisplayName())
		} else {
			names = append(names, sn)
		}
	}

	if err := s.smtp.SendAbsenteeReport(session.TeacherEmail, session.CourseName, sessionDate, names); err != nil {
		s.log.WithFields(logrus.Fields{
			"session_id":    session.ID,
			"teacher_email": session.TeacherEmail,
			"error":         err.Error(),
		}).Error("Failed to send absentee report email")
	}

	if s.whatsapp == nil || !s.whatsapp.IsConnected() {
		return
	}

	for _, student := range absentees {
		if student.PhoneNumber == "" {
			continue
		}

		if err := s.whatsapp.SendAbsenceNotice(ctx, student.PhoneNumber, student.DisplayName(), session.CourseName); err != nil {
			s.log.WithFields(logrus.Fields{
				"session_id":     session.ID,
				"student_number": student.StudentNumber,
				"error":          err.Error(),
			}).Error("Failed to send absence notice")
		}
	}
}
