package mailer

import (
	"context"
	"fmt"
	"time"
)

// Renderer turns a named template into HTML.
type Renderer interface {
	Render(name, subject string, data any) (string, error)
}

// Composer renders the application's emails and hands them to a Sender.
type Composer struct {
	sender           Sender
	renderer         Renderer
	appName          string
	contactRecipient string
}

// ComposerConfig configures a Composer.
type ComposerConfig struct {
	AppName          string
	ContactRecipient string
}

// NewComposer constructs a Composer.
func NewComposer(sender Sender, renderer Renderer, cfg ComposerConfig) *Composer {
	return &Composer{sender: sender, renderer: renderer, appName: cfg.AppName, contactRecipient: cfg.ContactRecipient}
}

// SendVerificationCode mails a demo-request email verification code.
func (c *Composer) SendVerificationCode(ctx context.Context, to, code string, validFor time.Duration) error {
	return c.send(ctx, to, "Email Verification", "verification_code.html", map[string]any{
		"Code":      code,
		"ExpiresIn": humanDuration(validFor),
	})
}

// SendStaffInvitation mails the invitation code a new staff member registers with.
func (c *Composer) SendStaffInvitation(ctx context.Context, to, roleName, code, link string) error {
	subject := fmt.Sprintf("Welcome to %s | Email Verification", c.appName)
	return c.send(ctx, to, subject, "staff_invitation.html", map[string]any{
		"RoleName": roleName,
		"Code":     code,
		"Link":     link,
	})
}

// SendPasswordReset mails a password reset link.
func (c *Composer) SendPasswordReset(ctx context.Context, to, name, link string, validFor time.Duration) error {
	subject := fmt.Sprintf("Forgot Password | %s Admin", c.appName)
	return c.send(ctx, to, subject, "password_reset.html", map[string]any{
		"Name":      name,
		"Link":      link,
		"ExpiresIn": humanDuration(validFor),
	})
}

// ContactNotice is the content of a contact form submission.
type ContactNotice struct {
	Name        string
	Email       string
	PhoneNumber string
	Country     string
	Message     string
	Date        time.Time
}

// SendContactNotification forwards a contact submission to the configured inbox.
func (c *Composer) SendContactNotification(ctx context.Context, notice ContactNotice) error {
	subject := fmt.Sprintf("Contact Us | %s", c.appName)
	html, err := c.renderer.Render("contact_notification.html", subject, notice)
	if err != nil {
		return err
	}
	return c.sender.Send(ctx, Message{
		To:      []string{c.contactRecipient},
		Subject: subject,
		HTML:    html,
		ReplyTo: notice.Email,
	})
}

func (c *Composer) send(ctx context.Context, to, subject, template string, data any) error {
	html, err := c.renderer.Render(template, subject, data)
	if err != nil {
		return err
	}
	return c.sender.Send(ctx, Message{To: []string{to}, Subject: subject, HTML: html})
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	default:
		return d.String()
	}
}
