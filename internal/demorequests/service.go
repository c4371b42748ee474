package demorequests

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/products"
	"github.com/genesislab/siteadmin/internal/shared"
	"github.com/genesislab/siteadmin/internal/tokenstore"
)

// ProductLookup resolves a product slug.
type ProductLookup interface {
	GetBySlug(ctx context.Context, slug string) (products.Product, error)
}

// CodeMailer delivers the verification code.
type CodeMailer interface {
	SendVerificationCode(ctx context.Context, to, code string, validFor time.Duration) error
}

// EventRecorder counts flow outcomes.
type EventRecorder interface {
	DemoEvent(step, outcome string)
}

const (
	stepIssue  = "issue_code"
	stepVerify = "verify_email"
	stepRedeem = "redeem_link"
)

// Service drives NoRequest -> CodeIssued -> EmailVerified -> LinkRedeemed for
// each (product, email) pair.
type Service struct {
	products ProductLookup
	repo     Repository
	tokens   tokenstore.Store
	mail     CodeMailer
	events   EventRecorder
	logger   *slog.Logger

	newCode  func() (string, error)
	newToken func() string
}

// Deps groups the Service collaborators.
type Deps struct {
	Products ProductLookup
	Repo     Repository
	Tokens   tokenstore.Store
	Mail     CodeMailer
	Events   EventRecorder
	Logger   *slog.Logger
}

// NewService constructs a Service.
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		products: d.Products,
		repo:     d.Repo,
		tokens:   d.Tokens,
		mail:     d.Mail,
		events:   d.Events,
		logger:   logger,
		newCode:  shared.SixDigitCode,
		newToken: uuid.NewString,
	}
}

// IssueEmailVerification creates the request if needed, stores a fresh code
// for 30 minutes, mails it and returns it. Any earlier code for the same
// pair is replaced.
func (s *Service) IssueEmailVerification(ctx context.Context, slug, email, name string) (code string, err error) {
	defer func() { s.record(stepIssue, err) }()
	email = strings.TrimSpace(email)

	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	req, err := s.findOrCreate(ctx, product.ID, email, strings.TrimSpace(name))
	if err != nil {
		return "", err
	}
	if req.EmailVerified {
		return "", ErrEmailAlreadyVerified
	}

	code, err = s.newCode()
	if err != nil {
		return "", fmt.Errorf("demorequests: generate code: %w", err)
	}
	purpose := tokenstore.PurposeOTP
	if err := s.tokens.Set(ctx, otpKey(product.ID, email), code, purpose.TTL()); err != nil {
		return "", err
	}
	if err := s.mail.SendVerificationCode(ctx, email, code, purpose.TTL()); err != nil {
		return "", err
	}
	return code, nil
}

// VerifyEmailCode checks code against the stored OTP. On success the request
// is marked verified, the OTP is consumed and a 24 hour exchange token is
// returned.
func (s *Service) VerifyEmailCode(ctx context.Context, slug, email, code string) (token string, err error) {
	defer func() { s.record(stepVerify, err) }()
	email = strings.TrimSpace(email)

	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	key := otpKey(product.ID, email)
	stored, ok, err := s.tokens.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrVerificationCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return "", ErrInvalidVerificationCode
	}

	req, err := s.repo.FindByEmailAndProduct(ctx, email, product.ID)
	if errors.Is(err, ErrRequestNotFound) {
		return "", ErrVerificationCodeExpired
	}
	if err != nil {
		return "", err
	}
	if err := s.repo.MarkEmailVerified(ctx, req.ID); err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			return "", ErrVerificationCodeExpired
		}
		return "", err
	}
	if err := s.tokens.Delete(ctx, key); err != nil {
		return "", err
	}

	token = s.newToken()
	if err := s.tokens.Set(ctx, demoTokenKey(req.ID, email), token, tokenstore.PurposeDemoToken.TTL()); err != nil {
		return "", err
	}
	return token, nil
}

// RedeemDemoLink returns the product's demo URL when bearer matches the live
// exchange token. It may be called repeatedly until the token expires.
func (s *Service) RedeemDemoLink(ctx context.Context, slug, email, bearer string) (demoURL string, err error) {
	defer func() { s.record(stepRedeem, err) }()
	email = strings.TrimSpace(email)

	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	req, err := s.repo.FindByEmailAndProduct(ctx, email, product.ID)
	if errors.Is(err, ErrRequestNotFound) {
		return "", ErrVerificationCodeExpired
	}
	if err != nil {
		return "", err
	}
	stored, ok, err := s.tokens.Get(ctx, demoTokenKey(req.ID, email))
	if err != nil {
		return "", err
	}
	if !ok || bearer == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(bearer)) != 1 {
		return "", ErrInvalidToken
	}
	return product.DemoURL, nil
}

func (s *Service) findOrCreate(ctx context.Context, productID uuid.UUID, email, name string) (Request, error) {
	req, err := s.repo.FindByEmailAndProduct(ctx, email, productID)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, ErrRequestNotFound) {
		return Request{}, err
	}
	req, err = s.repo.Create(ctx, Request{Name: name, Email: email, ProductID: productID})
	if errors.Is(err, ErrDuplicateRequest) {
		return s.repo.FindByEmailAndProduct(ctx, email, productID)
	}
	return req, err
}

func (s *Service) record(step string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, products.ErrProductNotFound):
		outcome = "product_not_found"
	case errors.Is(err, ErrEmailAlreadyVerified):
		outcome = "already_verified"
	case errors.Is(err, ErrVerificationCodeExpired):
		outcome = "code_expired"
	case errors.Is(err, ErrInvalidVerificationCode):
		outcome = "invalid_code"
	case errors.Is(err, ErrInvalidToken):
		outcome = "invalid_token"
	default:
		outcome = "error"
		s.logger.Error("demo verification", slog.String("step", step), slog.Any("error", err))
	}
	if s.events != nil {
		s.events.DemoEvent(step, outcome)
	}
}

func otpKey(productID uuid.UUID, email string) string {
	return tokenstore.Key(tokenstore.PurposeOTP, productID.String(), email)
}

func demoTokenKey(requestID uuid.UUID, email string) string {
	return tokenstore.Key(tokenstore.PurposeDemoToken, requestID.String(), email)
}
