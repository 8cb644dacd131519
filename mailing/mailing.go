// Package mailing sends transactional email through SMTP.
package mailing

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"ecommerce-sessions/config"
	"ecommerce-sessions/models"

	"github.com/wneessen/go-mail"
)

const resetSubject = "Restore your password"

var resetHTML = htmltemplate.Must(htmltemplate.New("reset-html").Parse(`<div>
<h1>Hi {{.Name}},</h1>
<p>We received a request to restore the password of your account.</p>
<p><a href="{{.Link}}">Click here to choose a new password</a>. The link expires in a short while.</p>
<p>If you did not ask for this, you can ignore this email.</p>
</div>`))

var resetText = texttemplate.Must(texttemplate.New("reset-text").Parse(`Hi {{.Name}},

We received a request to restore the password of your account.
Open this link to choose a new password: {{.Link}}

If you did not ask for this, you can ignore this email.
`))

type resetData struct {
	Name string
	Link string
}

// Service delivers emails through an SMTP relay
type Service struct {
	client *mail.Client
	from   string
}

// New creates the mailing service for the given SMTP relay
func New(cfg config.SMTPConfig) (*Service, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &Service{client: client, from: cfg.From}, nil
}

// SendResetPasswordEmail mails the reset link to the user. Delivery is not retried.
func (s *Service) SendResetPasswordEmail(ctx context.Context, user *models.User, link string) error {
	msg, err := s.resetMessage(user, link)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send reset email to %s: %w", user.Email, err)
	}
	return nil
}

func (s *Service) resetMessage(user *models.User, link string) (*mail.Msg, error) {
	html, text, err := renderReset(user, link)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", s.from, err)
	}
	if err := msg.To(user.Email); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", user.Email, err)
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)
	return msg, nil
}

func renderReset(user *models.User, link string) (string, string, error) {
	data := resetData{Name: user.FirstName, Link: link}
	if data.Name == "" {
		data.Name = user.Email
	}

	var html, text bytes.Buffer
	if err := resetHTML.Execute(&html, data); err != nil {
		return "", "", err
	}
	if err := resetText.Execute(&text, data); err != nil {
		return "", "", err
	}
	return html.String(), text.String(), nil
}
