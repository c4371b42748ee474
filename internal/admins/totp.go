package admins

import (
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod = 30
	totpDigits = otp.DigitsSix
)

// Authenticator is the TOTP primitive set used for two-factor: SHA1, six
// digits, 30 second step.
type Authenticator interface {
	GenerateSecret(account string) (string, error)
	URI(secret, account string) (string, error)
	Code(secret string, at time.Time) (string, error)
	Validate(secret, code string, at time.Time) bool
}

// TOTP implements Authenticator with pquerna/otp.
type TOTP struct {
	Issuer string
}

// NewTOTP returns a TOTP labelling URIs with issuer.
func NewTOTP(issuer string) TOTP {
	return TOTP{Issuer: issuer}
}

func (t TOTP) opts(account string, secret []byte) totp.GenerateOpts {
	return totp.GenerateOpts{
		Issuer:      t.Issuer,
		AccountName: account,
		Period:      totpPeriod,
		Digits:      totpDigits,
		Algorithm:   otp.AlgorithmSHA1,
		Secret:      secret,
	}
}

// GenerateSecret creates a fresh base32 secret.
func (t TOTP) GenerateSecret(account string) (string, error) {
	key, err := totp.Generate(t.opts(account, nil))
	if err != nil {
		return "", fmt.Errorf("admins: generate totp secret: %w", err)
	}
	return key.Secret(), nil
}

// URI builds the otpauth:// URI for an existing secret.
func (t TOTP) URI(secret, account string) (string, error) {
	raw, err := decodeSecret(secret)
	if err != nil {
		return "", err
	}
	key, err := totp.Generate(t.opts(account, raw))
	if err != nil {
		return "", fmt.Errorf("admins: totp uri: %w", err)
	}
	return key.URL(), nil
}

// Code returns the code valid at the given instant.
func (t TOTP) Code(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(NormalizeKey(secret), at, validateOpts())
}

// Validate checks code against secret allowing one step of clock skew.
func (t TOTP) Validate(secret, code string, at time.Time) bool {
	if secret == "" || code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(strings.TrimSpace(code), NormalizeKey(secret), at, validateOpts())
	return err == nil && ok
}

func validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      1,
		Digits:    totpDigits,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// NormalizeKey strips whitespace and upper-cases a base32 secret.
func NormalizeKey(secret string) string {
	return strings.ToUpper(strings.Join(strings.Fields(secret), ""))
}

func decodeSecret(secret string) ([]byte, error) {
	key := strings.TrimRight(NormalizeKey(secret), "=")
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("admins: invalid totp secret: %w", err)
	}
	return raw, nil
}
