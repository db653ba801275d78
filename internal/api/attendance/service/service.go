package attendanceService

import (
	"AttendanceGolang/internal/api/attendance"
	attendanceRepository "AttendanceGolang/internal/api/attendance/repository"
	courseService "AttendanceGolang/internal/api/course/service"
	"AttendanceGolang/internal/entity"
	"AttendanceGolang/pkg/smtp"
	"AttendanceGolang/pkg/utils"
	"AttendanceGolang/pkg/whatsapp"
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type AttendanceService interface {
	Open(c context.Context, teacherEmail string, req attendance.OpenSessionRequest) (attendance.SessionResponse, error)
	RecordParticipation(c context.Context, sessionID, studentNumber string) (attendance.RecordResponse, error)
	RemoveParticipation(c context.Context, sessionID, studentNumber string) error
	Complete(c context.Context, sessionID string) (attendance.CompletionResponse, error)
	StatusOf(c context.Context, sessionID, studentNumber string) (bool, error)

	// Snapshot returns a point-in-time copy of the session record. Callers
	// may inspect it freely without holding any session lock.
	Snapshot(c context.Context, sessionID string) (entity.AttendanceSession, error)

	GetReport(c context.Context, sessionID string) (attendance.SessionReportResponse, error)
	ActiveSessionsFor(c context.Context, studentNumber string) ([]attendance.ActiveSessionResponse, error)
	ActiveSessionForTeacher(c context.Context, teacherEmail string) (attendance.SessionResponse, error)
	TrackingFor(c context.Context, studentNumber string) ([]attendance.CourseTrackingResponse, error)
}

// sessionState is the in-memory side of one attendance session. All
// transitions for a session are serialized by its mutex, so a recognition
// match and a manual mark arriving together cannot corrupt the sets.
type sessionState struct {
	mu           sync.Mutex
	session      entity.AttendanceSession
	roster       map[string]struct{}
	participants map[string]struct{}
}

type attendanceService struct {
	log                  *logrus.Logger
	attendanceRepository attendanceRepository.Repository
	courseService        courseService.CourseService
	utils                utils.IUtils
	smtp                 smtp.ItfSmtp
	whatsapp             whatsapp.IWhatsappSender

	// openMu serializes session opens. The one-active-session-per-teacher
	// check and the create are not atomic in the store, so without it two
	// concurrent opens by the same teacher could both pass the check.
	openMu sync.Mutex

	mu       sync.Mutex
	sessions map[string]*sessionState
}

func New(
	log *logrus.Logger,
	repo attendanceRepository.Repository,
	cs courseService.CourseService,
	utils utils.IUtils,
	smtpClient smtp.ItfSmtp,
	whatsappSender whatsapp.IWhatsappSender,
) AttendanceService {
	return &attendanceService{
		log:                  log,
		attendanceRepository: repo,
		courseService:        cs,
		utils:                utils,
		smtp:                 smtpClient,
		whatsapp:             whatsappSender,
		sessions:             make(map[string]*sessionState),
	}
}
