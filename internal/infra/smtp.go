package infra

import (
	"fmt"
	"net/smtp"

	"github.com/CzarAl/domus-backend/internal/config"

	"github.com/jordan-wright/email"
)

// Mensaje is one outgoing email with an optional file attachment.
type Mensaje struct {
	Para    string
	Asunto  string
	Cuerpo  string
	Adjunto string
}

// Mailer sends email through the configured SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Configurado reports whether an SMTP host was provided.
func (m *Mailer) Configurado() bool { return m.host != "" }

func (m *Mailer) Enviar(msg Mensaje) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{msg.Para}
	e.Subject = msg.Asunto
	e.Text = []byte(msg.Cuerpo)

	if msg.Adjunto != "" {
		if _, err := e.AttachFile(msg.Adjunto); err != nil {
			return fmt.Errorf("mailer: attach: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
