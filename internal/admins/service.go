package admins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/rbac"
	"github.com/genesislab/siteadmin/internal/shared"
)

const (
	pictureDir      = "profile"
	maxPictureBytes = 2 << 20
)

var pictureExt = []string{".jpg", ".jpeg", ".png"}

// RoleDirectory is the slice of the permission authority admins relies on.
type RoleDirectory interface {
	GetRole(ctx context.Context, id int64) (rbac.Role, error)
	ListEffectivePermissions(ctx context.Context, roleID int64) (map[string][]rbac.Permission, bool, error)
}

// StaffMailer delivers staff invitations.
type StaffMailer interface {
	SendStaffInvitation(ctx context.Context, to, roleName, code, link string) error
}

// PictureStore keeps uploaded profile pictures.
type PictureStore interface {
	Save(subdir string, header *multipart.FileHeader, allowedExt []string, maxBytes int64) (string, error)
	Remove(name string) error
	URL(name string) string
}

// AuditRecorder receives security relevant account changes.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Deps groups the Service collaborators.
type Deps struct {
	Repo      Repository
	Roles     RoleDirectory
	Mail      StaffMailer
	Pictures  PictureStore
	TOTP      Authenticator
	Audit     AuditRecorder
	Logger    *slog.Logger
	WebAppURL string
	Clock     func() time.Time
}

// Service manages admin profiles, two-factor and staff invitations.
type Service struct {
	repo      Repository
	roles     RoleDirectory
	mail      StaffMailer
	pictures  PictureStore
	totp      Authenticator
	audit     AuditRecorder
	logger    *slog.Logger
	webAppURL string
	now       func() time.Time
	newCode   func() (string, error)
}

// NewService constructs a Service.
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := d.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:      d.Repo,
		roles:     d.Roles,
		mail:      d.Mail,
		pictures:  d.Pictures,
		totp:      d.TOTP,
		audit:     d.Audit,
		logger:    logger,
		webAppURL: d.WebAppURL,
		now:       clock,
		newCode:   shared.SixDigitCode,
	}
}

// AccountByID loads an admin account.
func (s *Service) AccountByID(ctx context.Context, id uuid.UUID) (Admin, error) {
	return s.repo.GetByID(ctx, id)
}

// AccountByEmail loads an admin account by email.
func (s *Service) AccountByEmail(ctx context.Context, email string) (Admin, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(email))
}

// GetProfile returns the admin with the picture resolved to a URL.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (Admin, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Admin{}, err
	}
	return s.present(a), nil
}

// UpdateProfile replaces the editable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, p ProfileUpdate) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Country = strings.TrimSpace(p.Country)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	return s.repo.UpdateProfile(ctx, id, p)
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := shared.CheckPassword(a.PasswordHash, current)
	if err != nil {
		return fmt.Errorf("admins: check password: %w", err)
	}
	if !ok {
		return ErrPasswordMismatch
	}
	return s.SetPassword(ctx, id, next)
}

// SetPassword hashes and stores password without checking the old one.
func (s *Service) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	hash, err := shared.HashPassword(password)
	if err != nil {
		return fmt.Errorf("admins: hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}

// ProfilePicture returns the URL of the admin's picture, or "" when none is set.
func (s *Service) ProfilePicture(ctx context.Context, id uuid.UUID) (string, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if a.ProfileImage == "" {
		return "", nil
	}
	return s.pictures.URL(a.ProfileImage), nil
}

// UpdateProfilePicture stores the upload, points the profile at it and
// removes the previous file.
func (s *Service) UpdateProfilePicture(ctx context.Context, id uuid.UUID, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", ErrProfileImageRequired
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	name, err := s.pictures.Save(pictureDir, header, pictureExt, maxPictureBytes)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateProfileImage(ctx, id, name); err != nil {
		_ = s.pictures.Remove(name)
		return "", err
	}
	if a.ProfileImage != "" {
		if err := s.pictures.Remove(a.ProfileImage); err != nil {
			s.logger.Warn("remove old profile picture", slog.String("file", a.ProfileImage), slog.Any("error", err))
		}
	}
	return s.pictures.URL(name), nil
}

// Me returns the profile of the principal with its effective permissions.
func (s *Service) Me(ctx context.Context, p shared.Principal) (Me, error) {
	a, err := s.GetProfile(ctx, p.AdminID)
	if err != nil {
		return Me{}, err
	}
	grouped, all, err := s.roles.ListEffectivePermissions(ctx, a.RoleID)
	if err != nil && !errors.Is(err, rbac.ErrRoleNotFound) {
		return Me{}, err
	}
	me := Me{Admin: a, AllPermissions: all, Permissions: grouped}
	if grouped == nil {
		me.Permissions = map[string][]rbac.Permission{}
	}
	return me, nil
}

func (s *Service) present(a Admin) Admin {
	if a.ProfileImage != "" && s.pictures != nil {
		a.ProfileImage = s.pictures.URL(a.ProfileImage)
	}
	return a
}

func (s *Service) record(ctx context.Context, action string, id uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	actor := id.String()
	if p, ok := shared.PrincipalFromContext(ctx); ok {
		actor = p.AdminID.String()
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor,
		Action:   action,
		Entity:   "admin",
		EntityID: id.String(),
		Meta:     meta,
		At:       s.now(),
	})
	if err != nil {
		s.logger.Warn("admins audit", slog.String("action", action), slog.Any("error", err))
	}
}
