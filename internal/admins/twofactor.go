package admins

import "context"

// SetupTwoFactor returns the enrolment URI and key for the account. An
// existing secret is reused; otherwise a new one is generated and stored.
func (s *Service) SetupTwoFactor(ctx context.Context, email string) (TwoFactorSetup, error) {
	a, err := s.AccountByEmail(ctx, email)
	if err != nil {
		return TwoFactorSetup{}, err
	}
	secret := a.TwoFactorSecret
	if secret == "" {
		secret, err = s.totp.GenerateSecret(a.Email)
		if err != nil {
			return TwoFactorSetup{}, err
		}
		if err := s.repo.SetTwoFactorSecret(ctx, a.ID, secret); err != nil {
			return TwoFactorSetup{}, err
		}
	}
	uri, err := s.totp.URI(secret, a.Email)
	if err != nil {
		return TwoFactorSetup{}, err
	}
	return TwoFactorSetup{URI: uri, Key: NormalizeKey(secret)}, nil
}

// ToggleTwoFactor flips the account's two-factor flag when code is valid for
// its stored secret. Enabling and disabling share the same check.
func (s *Service) ToggleTwoFactor(ctx context.Context, account Admin, code string) error {
	if !s.VerifyTwoFactorCode(account, code) {
		return ErrTwoFactorCodeIncorrect
	}
	enabled := !account.TwoFA
	if err := s.repo.SetTwoFactorEnabled(ctx, account.ID, enabled); err != nil {
		return err
	}
	action := "admin.2fa.disable"
	if enabled {
		action = "admin.2fa.enable"
	}
	s.record(ctx, action, account.ID, nil)
	return nil
}

// VerifyTwoFactorCode checks code against the account secret at the current time.
func (s *Service) VerifyTwoFactorCode(account Admin, code string) bool {
	if account.TwoFactorSecret == "" {
		return false
	}
	return s.totp.Validate(account.TwoFactorSecret, code, s.now())
}
