package tokenstore

import (
	"strings"
	"time"
)

// Purpose names what a stored token is for. Each purpose owns a key prefix and
// a lifetime.
type Purpose int

const (
	// PurposeOTP holds six-digit email verification codes.
	PurposeOTP Purpose = iota + 1
	// PurposeDemoToken holds the bearer token that unlocks a product demo link.
	PurposeDemoToken
)

type purposeSpec struct {
	name   string
	prefix string
	ttl    time.Duration
}

var purposes = map[Purpose]purposeSpec{
	PurposeOTP:       {name: "otp", prefix: "OTP:", ttl: 30 * time.Minute},
	PurposeDemoToken: {name: "demo_token", prefix: "DEMO_TOKEN:", ttl: 24 * time.Hour},
}

// Prefix returns the key prefix, or "" for an unknown purpose.
func (p Purpose) Prefix() string {
	return purposes[p].prefix
}

// TTL returns the lifetime applied to tokens of this purpose.
func (p Purpose) TTL() time.Duration {
	return purposes[p].ttl
}

func (p Purpose) String() string {
	if spec, ok := purposes[p]; ok {
		return spec.name
	}
	return "unknown"
}

// Key joins the purpose prefix with the scope and subject parts, for example
// Key(PurposeOTP, productID, email) -> "OTP:<productID><email>".
func Key(p Purpose, parts ...string) string {
	var b strings.Builder
	b.WriteString(p.Prefix())
	for _, part := range parts {
		b.WriteString(part)
	}
	return b.String()
}
