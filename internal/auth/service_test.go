package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesislab/siteadmin/internal/admins"
	"github.com/genesislab/siteadmin/internal/shared"
)

type stubAccounts struct {
	byEmail map[string]admins.Admin
	totp    admins.TOTP
	err     error
}

func newStubAccounts() *stubAccounts {
	return &stubAccounts{byEmail: map[string]admins.Admin{}, totp: admins.NewTOTP("test")}
}

func (s *stubAccounts) add(t *testing.T, email, password string) admins.Admin {
	t.Helper()
	hash, err := shared.HashPassword(password)
	require.NoError(t, err)
	a := admins.Admin{ID: uuid.New(), Email: email, FirstName: "Ada", RoleID: 2, PasswordHash: hash}
	s.byEmail[email] = a
	return a
}

func (s *stubAccounts) AccountByEmail(_ context.Context, email string) (admins.Admin, error) {
	if s.err != nil {
		return admins.Admin{}, s.err
	}
	a, ok := s.byEmail[email]
	if !ok {
		return admins.Admin{}, admins.ErrAdminNotFound
	}
	return a, nil
}

func (s *stubAccounts) AccountByID(_ context.Context, id uuid.UUID) (admins.Admin, error) {
	if s.err != nil {
		return admins.Admin{}, s.err
	}
	for _, a := range s.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return admins.Admin{}, admins.ErrAdminNotFound
}

func (s *stubAccounts) SetPassword(_ context.Context, id uuid.UUID, password string) error {
	for email, a := range s.byEmail {
		if a.ID == id {
			hash, err := shared.HashPassword(password)
			if err != nil {
				return err
			}
			a.PasswordHash = hash
			s.byEmail[email] = a
			return nil
		}
	}
	return admins.ErrAdminNotFound
}

func (s *stubAccounts) VerifyTwoFactorCode(a admins.Admin, code string) bool {
	return s.totp.Validate(a.TwoFactorSecret, code, time.Now())
}

func (s *stubAccounts) RedeemInvitation(_ context.Context, code string, acc admins.NewAccount) (admins.Admin, error) {
	if code != "123456" {
		return admins.Admin{}, admins.ErrStaffNotFound
	}
	a := admins.Admin{ID: uuid.New(), Email: "invited@x.com", FirstName: acc.FirstName}
	s.byEmail[a.Email] = a
	return a, nil
}

type resetOutbox struct {
	to, link string
	err      error
}

func (o *resetOutbox) SendPasswordReset(_ context.Context, to, _ string, link string, _ time.Duration) error {
	if o.err != nil {
		return o.err
	}
	o.to, o.link = to, link
	return nil
}

func newTestService(accounts Accounts, mail ResetMailer) *Service {
	return NewService(accounts, NewTokenIssuer("secret", time.Hour, 10*time.Minute), mail, "https://admin.test/", nil)
}

func TestLogin(t *testing.T) {
	accounts := newStubAccounts()
	admin := accounts.add(t, "a@x.com", "Secret#123")
	svc := newTestService(accounts, &resetOutbox{})
	ctx := context.Background()

	session, err := svc.Login(ctx, "a@x.com", "Secret#123", "")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), session.ExpiresIn)
	id, _, err := svc.tokens.Parse(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, id)

	_, err = svc.Login(ctx, "a@x.com", "wrong", "")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@x.com", "Secret#123", "")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)

	accounts.err = errors.New("db down")
	_, err = svc.Login(ctx, "a@x.com", "Secret#123", "")
	assert.False(t, shared.IsDomainError(err))
}

func TestLoginWithTwoFactor(t *testing.T) {
	accounts := newStubAccounts()
	admin := accounts.add(t, "a@x.com", "Secret#123")
	secret, err := accounts.totp.GenerateSecret(admin.Email)
	require.NoError(t, err)
	admin.TwoFA = true
	admin.TwoFactorSecret = secret
	accounts.byEmail[admin.Email] = admin
	svc := newTestService(accounts, &resetOutbox{})
	ctx := context.Background()

	_, err = svc.Login(ctx, "a@x.com", "Secret#123", "")
	assert.ErrorIs(t, err, ErrTwoFactorRequired)

	stale, err := accounts.totp.Code(secret, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = svc.Login(ctx, "a@x.com", "Secret#123", stale)
	assert.ErrorIs(t, err, admins.ErrTwoFactorCodeIncorrect)

	code, err := accounts.totp.Code(secret, time.Now())
	require.NoError(t, err)
	_, err = svc.Login(ctx, "a@x.com", "Secret#123", code)
	require.NoError(t, err)
}

func TestForgotAndResetPassword(t *testing.T) {
	accounts := newStubAccounts()
	accounts.add(t, "a@x.com", "Secret#123")
	mail := &resetOutbox{}
	svc := newTestService(accounts, mail)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ForgotPassword(ctx, "nobody@x.com"), ErrEmailNotRegistered)

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	assert.Equal(t, "a@x.com", mail.to)
	require.True(t, strings.HasPrefix(mail.link, "https://admin.test/changepassword?"))
	link, err := url.Parse(mail.link)
	require.NoError(t, err)
	token := link.Query().Get("token")
	assert.Equal(t, "a@x.com", link.Query().Get("email"))

	require.NoError(t, svc.CheckResetToken(ctx, "a@x.com", token))
	assert.ErrorIs(t, svc.CheckResetToken(ctx, "a@x.com", "nope"), ErrResetLinkExpired)
	assert.ErrorIs(t, svc.CheckResetToken(ctx, "nobody@x.com", token), ErrResetLinkExpired)

	require.NoError(t, svc.ResetPassword(ctx, "a@x.com", token, "Fresh#4567"))
	_, err = svc.Login(ctx, "a@x.com", "Fresh#4567", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword(ctx, "a@x.com", token, "Again#4567"), ErrResetLinkExpired)
}

func TestForgotPasswordMailFailure(t *testing.T) {
	accounts := newStubAccounts()
	accounts.add(t, "a@x.com", "Secret#123")
	svc := newTestService(accounts, &resetOutbox{err: errors.New("smtp down")})

	err := svc.ForgotPassword(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.False(t, shared.IsDomainError(err))
}
