package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"tiendapos/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending reports as attachments.
type Mailer struct {
	host      string
	user      string
	password  string
	remitente string
	addr      string
}

func NewMailer(cfg *config.Config) *Mailer {
	remitente := cfg.ReportesRemitente
	if remitente == "" {
		remitente = cfg.SMTPUser
	}
	return &Mailer{
		host:      cfg.SMTPHost,
		user:      cfg.SMTPUser,
		password:  cfg.SMTPPassword,
		remitente: remitente,
		addr:      fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// EnviarAdjunto sends one e-mail with a single in-memory attachment.
func (m *Mailer) EnviarAdjunto(to, subject, body, nombreArchivo string, contenido []byte) error {
	if m.host == "" {
		return fmt.Errorf("mailer: SMTP_HOST not configured")
	}
	e := email.NewEmail()
	e.From = m.remitente
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if len(contenido) > 0 {
		if _, err := e.Attach(bytes.NewReader(contenido), nombreArchivo, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", nombreArchivo, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}

// Correo is the sending side used by the report worker.
type Correo interface {
	EnviarAdjunto(to, subject, body, nombreArchivo string, contenido []byte) error
}

// MailerProtegido sends through a circuit breaker so a down SMTP server
// fails fast instead of tying up workers.
type MailerProtegido struct {
	correo Correo
	cb     *CircuitBreaker
}

func NewMailerProtegido(correo Correo, cb *CircuitBreaker) *MailerProtegido {
	return &MailerProtegido{correo: correo, cb: cb}
}

func (m *MailerProtegido) EnviarAdjunto(to, subject, body, nombreArchivo string, contenido []byte) error {
	return m.cb.Execute(func() error {
		return m.correo.EnviarAdjunto(to, subject, body, nombreArchivo, contenido)
	})
}

// Estado reports the breaker state for the health endpoint.
func (m *MailerProtegido) Estado() CBState { return m.cb.State() }
