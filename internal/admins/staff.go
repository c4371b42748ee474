package admins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/shared"
)

// NewAccount is the data a staff member supplies when registering.
type NewAccount struct {
	FirstName   string
	LastName    string
	Password    string
	Country     string
	PhoneNumber string
}

// AddStaffMember invites email to join with roleID and returns the invitation
// code. The invitation row is removed again if the mail cannot be sent.
func (s *Service) AddStaffMember(ctx context.Context, email string, roleID int64) (string, error) {
	email = strings.TrimSpace(email)
	role, err := s.roles.GetRole(ctx, roleID)
	if err != nil {
		return "", err
	}
	taken, err := s.repo.EmailTaken(ctx, email)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrStaffAlreadyExists
	}
	code, err := s.newCode()
	if err != nil {
		return "", fmt.Errorf("admins: generate code: %w", err)
	}
	staff, err := s.repo.CreateStaff(ctx, Staff{Email: email, RoleID: role.ID, ProfileCode: code})
	if errors.Is(err, errDuplicateEmail) {
		return "", ErrStaffAlreadyExists
	}
	if err != nil {
		return "", err
	}
	if err := s.mail.SendStaffInvitation(ctx, email, role.Name, code, s.invitationLink(role.ID, code)); err != nil {
		if derr := s.repo.DeleteStaff(ctx, staff.ID); derr != nil {
			s.logger.Error("rollback staff invitation", slog.String("staff_id", staff.ID.String()), slog.Any("error", derr))
		}
		return "", err
	}
	return code, nil
}

func (s *Service) invitationLink(roleID int64, code string) string {
	q := url.Values{}
	q.Set("role", strconv.FormatInt(roleID, 10))
	q.Set("code", code)
	return s.webAppURL + "register?" + q.Encode()
}

// VerifyStaffEmail resolves an invitation code.
func (s *Service) VerifyStaffEmail(ctx context.Context, code string) (Staff, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Staff{}, ErrInvalidStaffCode
	}
	return s.repo.GetStaffByCode(ctx, code)
}

// RedeemInvitation turns the invitation behind code into an admin account
// and consumes the invitation.
func (s *Service) RedeemInvitation(ctx context.Context, code string, acc NewAccount) (Admin, error) {
	hash, err := shared.HashPassword(acc.Password)
	if err != nil {
		return Admin{}, fmt.Errorf("admins: hash password: %w", err)
	}
	var created Admin
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		staff, err := repo.GetStaffByCode(ctx, strings.TrimSpace(code))
		if err != nil {
			return err
		}
		if _, err := s.roles.GetRole(ctx, staff.RoleID); err != nil {
			return err
		}
		created, err = repo.Create(ctx, Admin{
			FirstName:    strings.TrimSpace(acc.FirstName),
			LastName:     strings.TrimSpace(acc.LastName),
			Email:        staff.Email,
			Country:      strings.TrimSpace(acc.Country),
			PhoneNumber:  strings.TrimSpace(acc.PhoneNumber),
			RoleID:       staff.RoleID,
			PasswordHash: hash,
		})
		if errors.Is(err, errDuplicateEmail) {
			return ErrAdminAlreadyExists
		}
		if err != nil {
			return err
		}
		return repo.DeleteStaff(ctx, staff.ID)
	})
	if err != nil {
		return Admin{}, err
	}
	s.record(ctx, "admin.register", created.ID, map[string]any{"role_id": created.RoleID})
	return created, nil
}

// ListStaff pages through admin accounts, newest first.
func (s *Service) ListStaff(ctx context.Context, page shared.PageRequest) (shared.Page[Admin], error) {
	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return shared.Page[Admin]{}, err
	}
	for i := range items {
		items[i] = s.present(items[i])
	}
	if items == nil {
		items = []Admin{}
	}
	return shared.Page[Admin]{Items: items, Pagination: shared.NewPagination(page.Page, page.Limit, total)}, nil
}

// StaffDetail loads an admin account by its raw id.
func (s *Service) StaffDetail(ctx context.Context, rawID string) (Admin, error) {
	id, err := parseStaffID(rawID)
	if err != nil {
		return Admin{}, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrAdminNotFound) {
		return Admin{}, ErrStaffNotFound
	}
	if err != nil {
		return Admin{}, err
	}
	return s.present(a), nil
}

// EditStaffRole moves an admin to roleID.
func (s *Service) EditStaffRole(ctx context.Context, rawID string, roleID int64) error {
	id, err := parseStaffID(rawID)
	if err != nil {
		return err
	}
	if _, err := s.roles.GetRole(ctx, roleID); err != nil {
		return err
	}
	err = s.repo.UpdateRole(ctx, id, roleID)
	if errors.Is(err, ErrAdminNotFound) {
		return ErrStaffNotFound
	}
	if err != nil {
		return err
	}
	s.record(ctx, "admin.role.update", id, map[string]any{"role_id": roleID})
	return nil
}

func parseStaffID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, ErrInvalidStaffID
	}
	return id, nil
}
