package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends one email. Implementations must not panic; errors are
// reported to the caller, who decides whether they matter.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through the SMTP server configured in the
// environment.
type SMTPMailer struct {
	host   string
	port   int
	user   string
	pass   string
	sender string
}

func NewSMTPMailer() *SMTPMailer {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 465
	}
	return &SMTPMailer{
		host:   os.Getenv("SMTP_HOST"),
		port:   port,
		user:   os.Getenv("SMTP_USER"),
		pass:   os.Getenv("SMTP_PASS"),
		sender: os.Getenv("SMTP_SENDER"),
	}
}

func (s *SMTPMailer) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	return d.DialAndSend(m)
}

// Notifier fires emails without blocking the request that triggered them.
// Failures are logged and never surfaced to the caller.
type Notifier struct {
	mailer     Mailer
	adminEmail string
}

func NewNotifier(mailer Mailer, adminEmail string) *Notifier {
	return &Notifier{mailer: mailer, adminEmail: adminEmail}
}

// Notify dispatches one email in the background.
func (n *Notifier) Notify(to, subject, htmlBody string) {
	if n == nil || n.mailer == nil || to == "" {
		return
	}
	go func() {
		if err := n.mailer.Send(to, subject, htmlBody); err != nil {
			log.Printf("Failed to send email %q to %s: %v", subject, to, err)
			return
		}
		log.Printf("Email %q sent to %s", subject, to)
	}()
}

// NotifyAdmin dispatches one email to the configured admin address.
func (n *Notifier) NotifyAdmin(subject, htmlBody string) {
	if n == nil {
		return
	}
	n.Notify(n.adminEmail, subject, htmlBody)
}
