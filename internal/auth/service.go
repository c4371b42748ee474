package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/admins"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Accounts is the admin account surface used by authentication.
type Accounts interface {
	AccountByEmail(ctx context.Context, email string) (admins.Admin, error)
	AccountByID(ctx context.Context, id uuid.UUID) (admins.Admin, error)
	SetPassword(ctx context.Context, id uuid.UUID, password string) error
	VerifyTwoFactorCode(account admins.Admin, code string) bool
	RedeemInvitation(ctx context.Context, code string, acc admins.NewAccount) (admins.Admin, error)
}

// ResetMailer delivers password reset links.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, name, link string, validFor time.Duration) error
}

// Service wraps authentication business rules.
type Service struct {
	accounts  Accounts
	tokens    *TokenIssuer
	mail      ResetMailer
	webAppURL string
	logger    *slog.Logger
}

// NewService constructs a new Service.
func NewService(accounts Accounts, tokens *TokenIssuer, mail ResetMailer, webAppURL string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{accounts: accounts, tokens: tokens, mail: mail, webAppURL: webAppURL, logger: logger}
}

// Login validates email/password credentials, and the TOTP code when the
// account has two-factor enabled, and issues an access token.
func (s *Service) Login(ctx context.Context, email, password, code string) (Session, error) {
	account, err := s.accounts.AccountByEmail(ctx, email)
	if errors.Is(err, admins.ErrAdminNotFound) {
		return Session{}, shared.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	ok, err := shared.CheckPassword(account.PasswordHash, password)
	if err != nil {
		s.logger.Warn("login password check", slog.String("admin_id", account.ID.String()), slog.Any("error", err))
		return Session{}, shared.ErrInvalidCredentials
	}
	if !ok {
		return Session{}, shared.ErrInvalidCredentials
	}
	if account.TwoFA {
		if strings.TrimSpace(code) == "" {
			return Session{}, ErrTwoFactorRequired
		}
		if !s.accounts.VerifyTwoFactorCode(account, code) {
			return Session{}, admins.ErrTwoFactorCodeIncorrect
		}
	}
	token, err := s.tokens.Issue(account)
	if err != nil {
		return Session{}, err
	}
	return Session{AccessToken: token, ExpiresIn: int64(s.tokens.TTL().Seconds()), Admin: account}, nil
}

// ForgotPassword mails a reset link to a registered admin.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accounts.AccountByEmail(ctx, email)
	if errors.Is(err, admins.ErrAdminNotFound) {
		return ErrEmailNotRegistered
	}
	if err != nil {
		return err
	}
	token, err := s.tokens.IssueReset(account)
	if err != nil {
		return err
	}
	q := url.Values{}
	q.Set("email", account.Email)
	q.Set("token", token)
	link := s.webAppURL + "changepassword?" + q.Encode()
	if err := s.mail.SendPasswordReset(ctx, account.Email, account.FullName(), link, s.tokens.ResetTTL()); err != nil {
		return fmt.Errorf("auth: send reset mail: %w", err)
	}
	return nil
}

// CheckResetToken reports whether token is still a live reset token for email.
func (s *Service) CheckResetToken(ctx context.Context, email, token string) error {
	_, err := s.resetAccount(ctx, email, token)
	return err
}

// ResetPassword sets a new password when token is a live reset token. The
// token is single use because the password hash is part of its key.
func (s *Service) ResetPassword(ctx context.Context, email, token, password string) error {
	account, err := s.resetAccount(ctx, email, token)
	if err != nil {
		return err
	}
	return s.accounts.SetPassword(ctx, account.ID, password)
}

func (s *Service) resetAccount(ctx context.Context, email, token string) (admins.Admin, error) {
	account, err := s.accounts.AccountByEmail(ctx, email)
	if errors.Is(err, admins.ErrAdminNotFound) {
		return admins.Admin{}, ErrResetLinkExpired
	}
	if err != nil {
		return admins.Admin{}, err
	}
	if err := s.tokens.VerifyReset(token, account); err != nil {
		return admins.Admin{}, ErrResetLinkExpired
	}
	return account, nil
}

// Register redeems a staff invitation code into an admin account.
func (s *Service) Register(ctx context.Context, code string, acc admins.NewAccount) (admins.Admin, error) {
	return s.accounts.RedeemInvitation(ctx, code, acc)
}
