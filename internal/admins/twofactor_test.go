package admins

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoFactorRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.seedAdmin("a@x.com", "Secret#123")

	setup, err := f.svc.SetupTwoFactor(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(setup.URI, "otpauth://totp/"))
	assert.Contains(t, setup.URI, "issuer=GenesisLab")
	assert.Equal(t, strings.ToUpper(setup.Key), setup.Key)
	assert.NotContains(t, setup.Key, " ")

	totp := NewTOTP("GenesisLab")
	code, err := totp.Code(setup.Key, f.now)
	require.NoError(t, err)

	account, err := f.repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	require.False(t, account.TwoFA)
	require.NoError(t, f.svc.ToggleTwoFactor(ctx, account, code))

	account, err = f.repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, account.TwoFA)

	f.now = f.now.Add(90 * time.Second)
	code, err = totp.Code(setup.Key, f.now)
	require.NoError(t, err)
	require.NoError(t, f.svc.ToggleTwoFactor(ctx, account, code))

	account, err = f.repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, account.TwoFA)

	require.Len(t, f.audit.entries, 2)
	assert.Equal(t, "admin.2fa.enable", f.audit.entries[0].Action)
	assert.Equal(t, "admin.2fa.disable", f.audit.entries[1].Action)
}

func TestSetupReusesStoredSecret(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.seedAdmin("a@x.com", "Secret#123")

	first, err := f.svc.SetupTwoFactor(ctx, "a@x.com")
	require.NoError(t, err)
	second, err := f.svc.SetupTwoFactor(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, first.URI, second.URI)
}

func TestToggleRejectsWrongCodeInBothDirections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.seedAdmin("a@x.com", "Secret#123")

	account, err := f.repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.ToggleTwoFactor(ctx, account, "123456"), ErrTwoFactorCodeIncorrect)

	_, err = f.svc.SetupTwoFactor(ctx, "a@x.com")
	require.NoError(t, err)
	account, err = f.repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)

	stale, err := NewTOTP("").Code(account.TwoFactorSecret, f.now.Add(-10*time.Minute))
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.ToggleTwoFactor(ctx, account, stale), ErrTwoFactorCodeIncorrect)

	account.TwoFA = true
	require.NoError(t, f.repo.SetTwoFactorEnabled(ctx, account.ID, true))
	assert.ErrorIs(t, f.svc.ToggleTwoFactor(ctx, account, stale), ErrTwoFactorCodeIncorrect)

	account, err = f.repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, account.TwoFA)
	assert.Empty(t, f.audit.entries)
}

func TestSetupUnknownAccount(t *testing.T) {
	f := newFixture()
	_, err := f.svc.SetupTwoFactor(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "JBSWY3DPEHPK3PXP", NormalizeKey(" jbsw y3dp\tehpk 3pxp "))
}
