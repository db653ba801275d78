package smtp

import (
	"fmt"
	smtpPkg "net/smtp"
	"os"
	"strings"
)

type ItfSmtp interface {
	SendAbsenteeReport(teacherEmail string, courseName string, sessionDate string, absentees []string) error
}

type smtp struct {
	auth smtpPkg.Auth
	mail string
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")
	auth := smtpPkg.PlainAuth("", mail, password, "smtp.gmail.com")

	return &smtp{auth: auth, mail: mail}
}

func (s *smtp) SendAbsenteeReport(teacherEmail string, courseName string, sessionDate string, absentees []string) error {
	to := []string{teacherEmail}

	body := fmt.Sprintf("Attendance for %s on %s is complete.\r\n\r\n", courseName, sessionDate)
	if len(absentees) == 0 {
		body += "Every enrolled student was present."
	} else {
		body += fmt.Sprintf("%d student(s) were absent:\r\n%s", len(absentees), strings.Join(absentees, "\r\n"))
	}

	message := []byte(fmt.Sprintf("To: %s\r\nSubject: Attendance report: %s\r\n\r\n%s",
		teacherEmail, courseName, body))

	err := smtpPkg.SendMail("smtp.gmail.com:587", s.auth, s.mail, to, message)
	if err != nil {
		return err
	}

	return nil
}
