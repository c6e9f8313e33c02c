package mailer

import (
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"
)

// AssignmentCompletedNotice is sent to whoever assigned a module once the
// assignee finishes it.
type AssignmentCompletedNotice struct {
	ToEmail     string
	PlayerName  string
	ModuleTitle string
	Total       int
	Grade       string
	CompletedAt time.Time
	ResultsURL  string
}

type IEmailService interface {
	SendAssignmentCompleted(notice AssignmentCompletedNotice) error
}

// sender is the part of gomail.Dialer the service needs.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendAssignmentCompleted(n AssignmentCompletedNotice) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", n.ToEmail)
	m.SetHeader("Subject", fmt.Sprintf("%s completed %s", n.PlayerName, n.ModuleTitle))

	m.SetBody("text/html", renderAssignmentCompleted(n))

	return s.dialer.DialAndSend(m)
}

func renderAssignmentCompleted(n AssignmentCompletedNotice) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Assignment completed</h2>
			<p><strong>%s</strong> finished <strong>%s</strong> on %s.</p>
			<p>Total score: <strong>%d</strong> (grade %s)</p>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">View results</a>
		</div>
	`, html.EscapeString(n.PlayerName), html.EscapeString(n.ModuleTitle),
		n.CompletedAt.Format("Jan 2, 2006 15:04 MST"), n.Total, html.EscapeString(n.Grade), html.EscapeString(n.ResultsURL))
}

// NoopEmailService is used when SMTP is not configured.
type NoopEmailService struct{}

func (NoopEmailService) SendAssignmentCompleted(AssignmentCompletedNotice) error { return nil }
