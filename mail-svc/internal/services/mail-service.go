package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/sirapurapushyam/AluminiHub-sub000/pkg/events"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, from, to string, msg []byte) error
}

type MailService struct {
	sender   Sender
	from     string
	fromName string
}

func NewMailService(sender Sender, from, fromName string) *MailService {
	return &MailService{sender: sender, from: from, fromName: fromName}
}

func (s *MailService) SendCollegeApproved(ctx context.Context, ev events.CollegeApproved) error {
	subject := fmt.Sprintf("%s has been approved", ev.CollegeName)
	return s.send(ctx, ev.AdminEmail, subject, "college-approved.html", ev)
}

func (s *MailService) SendPasswordReset(ctx context.Context, ev events.PasswordReset) error {
	data := struct {
		events.PasswordReset
		ExpiresIn string
	}{ev, expiresIn(ev.ExpiresAt)}
	return s.send(ctx, ev.Email, "Reset your password", "password-reset.html", data)
}

func (s *MailService) send(ctx context.Context, to, subject, tmpl string, data any) error {
	if to == "" {
		return fmt.Errorf("%s: recipient missing", tmpl)
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.fromName, s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		body.String(),
	}, "\r\n")

	if err := s.sender.Send(ctx, s.from, to, []byte(msg)); err != nil {
		return err
	}
	zap.S().Infow("mail sent", "to", to, "template", tmpl)
	return nil
}

func expiresIn(at time.Time) string {
	d := time.Until(at).Round(time.Minute)
	if d <= 0 {
		return "shortly"
	}
	if d >= time.Hour {
		return fmt.Sprintf("%d hour(s)", int(d.Hours()))
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}

// SMTPSender sends through one SMTP server with STARTTLS and PLAIN auth.
type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
}

func (s SMTPSender) Send(ctx context.Context, from, to string, msg []byte) error {
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))

	dialer := net.Dialer{Timeout: 8 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(15 * time.Second))

	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
			return err
		}
	}
	if s.User != "" {
		if err := c.Auth(smtp.PlainAuth("", s.User, s.Password, s.Host)); err != nil {
			return err
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
