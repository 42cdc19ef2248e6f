// Package notify sends transactional email over SMTP.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strings"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("email is not configured")

// SMTPConfig describes the outgoing mail server.
type SMTPConfig struct {
	Host    string
	Port    int
	Service string
	User    string
	Pass    string
	From    string
}

type serviceHost struct {
	host string
	port int
}

// Well-known providers selectable with MAIL_SERVICE instead of MAIL_HOST.
var services = map[string]serviceHost{
	"gmail":    {"smtp.gmail.com", 587},
	"outlook":  {"smtp.office365.com", 587},
	"hotmail":  {"smtp.office365.com", 587},
	"sendgrid": {"smtp.sendgrid.net", 587},
	"mailtrap": {"smtp.mailtrap.io", 2525},
	"mailgun":  {"smtp.mailgun.org", 587},
}

// Resolve fills Host and Port from Service when Host is empty.
func (c SMTPConfig) Resolve() SMTPConfig {
	if c.Host != "" {
		return c
	}
	if svc, ok := services[strings.ToLower(c.Service)]; ok {
		c.Host = svc.host
		if c.Port == 0 {
			c.Port = svc.port
		}
	}
	return c
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier sends password reset links.
type EmailNotifier struct {
	cfg         SMTPConfig
	frontendURL string
	sender      sender
	logger      *slog.Logger
}

// NewEmailNotifier creates an EmailNotifier. Links point at frontendURL.
func NewEmailNotifier(cfg SMTPConfig, frontendURL string, logger *slog.Logger) *EmailNotifier {
	cfg = cfg.Resolve()
	return &EmailNotifier{
		cfg:         cfg,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		sender:      gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		logger:      logger,
	}
}

// SendPasswordReset mails the reset link for resetToken to the given address.
func (n *EmailNotifier) SendPasswordReset(ctx context.Context, to, resetToken string) error {
	if n.cfg.Host == "" || n.cfg.From == "" {
		return ErrNotConfigured
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := renderReset(ResetLink(n.frontendURL, resetToken))
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your Password Reset Token")
	m.SetBody("text/html", body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("reset email sent", slog.String("to", to))
	return nil
}

// ResetLink builds the frontend URL that consumes a reset token.
func ResetLink(frontendURL, resetToken string) string {
	return frontendURL + "/reset?resetToken=" + url.QueryEscape(resetToken)
}

var resetTemplate = template.Must(template.New("reset").Parse(`<div class="email" style="
    border: 1px solid black;
    padding: 20px;
    font-family: sans-serif;
    line-height: 2;
    font-size: 20px;
  ">
  <h2>Hello There!</h2>
  <p>Your Password Reset Token is here!</p>
  <p><a href="{{.Link}}">Click Here to Reset</a></p>
  <p>This link expires in one hour.</p>
</div>`))

func renderReset(link string) (string, error) {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, struct{ Link string }{link}); err != nil {
		return "", fmt.Errorf("render reset email: %w", err)
	}
	return buf.String(), nil
}
