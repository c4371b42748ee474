package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesislab/siteadmin/internal/view"
)

type capture struct {
	sent []Message
}

func (c *capture) Send(_ context.Context, msg Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

type fakeQueue struct {
	msgs []Message
	err  error
}

func (q *fakeQueue) EnqueueSendEmail(_ context.Context, msg Message) error {
	if q.err != nil {
		return q.err
	}
	q.msgs = append(q.msgs, msg)
	return nil
}

func newComposer(t *testing.T, sender Sender) *Composer {
	t.Helper()
	engine, err := view.NewEngine("GenesisLab")
	require.NoError(t, err)
	return NewComposer(sender, engine, ComposerConfig{AppName: "GenesisLab", ContactRecipient: "inbox@genesislab.io"})
}

func TestComposerVerificationCode(t *testing.T) {
	out := &capture{}
	c := newComposer(t, out)

	require.NoError(t, c.SendVerificationCode(context.Background(), "u@test.com", "042137", 30*time.Minute))
	require.Len(t, out.sent, 1)
	assert.Equal(t, []string{"u@test.com"}, out.sent[0].To)
	assert.Equal(t, "Email Verification", out.sent[0].Subject)
	assert.Contains(t, out.sent[0].HTML, "042137")
	assert.Contains(t, out.sent[0].HTML, "30 minutes")
}

func TestComposerContactNotification(t *testing.T) {
	out := &capture{}
	c := newComposer(t, out)

	err := c.SendContactNotification(context.Background(), ContactNotice{
		Name: "Jane Doe", Email: "jane@example.com", Message: "Call me", Date: time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, out.sent, 1)
	assert.Equal(t, []string{"inbox@genesislab.io"}, out.sent[0].To)
	assert.Equal(t, "jane@example.com", out.sent[0].ReplyTo)
	assert.Contains(t, out.sent[0].HTML, "Call me")
}

func TestComposerStaffInvitationAndReset(t *testing.T) {
	out := &capture{}
	c := newComposer(t, out)
	ctx := context.Background()

	require.NoError(t, c.SendStaffInvitation(ctx, "new@genesislab.io", "HR", "123456", "https://admin.example.com/register?code=123456"))
	require.NoError(t, c.SendPasswordReset(ctx, "a@genesislab.io", "Ann", "https://admin.example.com/reset?token=x", 15*time.Minute))
	require.Len(t, out.sent, 2)
	assert.Contains(t, out.sent[0].HTML, "HR")
	assert.Equal(t, "Forgot Password | GenesisLab Admin", out.sent[1].Subject)
}

func TestQueueSender(t *testing.T) {
	q := &fakeQueue{}
	s := NewQueueSender(q)
	require.NoError(t, s.Send(context.Background(), Message{To: []string{"a@b.com"}, Subject: "hi"}))
	assert.Len(t, q.msgs, 1)

	assert.ErrorIs(t, s.Send(context.Background(), Message{}), ErrNoRecipients)

	q.err = errors.New("redis down")
	assert.Error(t, s.Send(context.Background(), Message{To: []string{"a@b.com"}}))
}

func TestSMTPSenderBuild(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 1025, From: "no-reply@genesislab.io", FromName: "GenesisLab"})
	_, err := s.build(Message{})
	assert.ErrorIs(t, err, ErrNoRecipients)

	m, err := s.build(Message{To: []string{"a@b.com"}, Subject: "Hello", HTML: "<p>x</p>", ReplyTo: "r@b.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{"r@b.com"}, m.GetHeader("Reply-To"))
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "30 minutes", humanDuration(30*time.Minute))
	assert.Equal(t, "1 hour", humanDuration(time.Hour))
	assert.Equal(t, "24 hours", humanDuration(24*time.Hour))
}
