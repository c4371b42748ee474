package admins

import (
	"context"
	"errors"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/rbac"
	"github.com/genesislab/siteadmin/internal/shared"
)

type memRepo struct {
	mu     sync.Mutex
	admins map[uuid.UUID]Admin
	staff  map[uuid.UUID]Staff
}

func newMemRepo() *memRepo {
	return &memRepo{admins: map[uuid.UUID]Admin{}, staff: map[uuid.UUID]Staff{}}
}

func (m *memRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	m.mu.Lock()
	admins := make(map[uuid.UUID]Admin, len(m.admins))
	for k, v := range m.admins {
		admins[k] = v
	}
	staff := make(map[uuid.UUID]Staff, len(m.staff))
	for k, v := range m.staff {
		staff[k] = v
	}
	m.mu.Unlock()
	if err := fn(ctx, m); err != nil {
		m.mu.Lock()
		m.admins, m.staff = admins, staff
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memRepo) add(a Admin) Admin {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.admins[a.ID] = a
	return a
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return Admin{}, ErrAdminNotFound
	}
	return a, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return Admin{}, ErrAdminNotFound
}

func (m *memRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if strings.EqualFold(a.Email, email) {
			return true, nil
		}
	}
	for _, s := range m.staff {
		if strings.EqualFold(s.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Create(ctx context.Context, a Admin) (Admin, error) {
	if _, err := m.GetByEmail(ctx, a.Email); err == nil {
		return Admin{}, errDuplicateEmail
	}
	a.CreatedAt = time.Now()
	return m.add(a), nil
}

func (m *memRepo) update(id uuid.UUID, fn func(*Admin)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return ErrAdminNotFound
	}
	fn(&a)
	m.admins[id] = a
	return nil
}

func (m *memRepo) UpdateProfile(_ context.Context, id uuid.UUID, p ProfileUpdate) error {
	return m.update(id, func(a *Admin) {
		a.FirstName, a.LastName, a.Country, a.PhoneNumber = p.FirstName, p.LastName, p.Country, p.PhoneNumber
	})
}

func (m *memRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return m.update(id, func(a *Admin) { a.PasswordHash = hash })
}

func (m *memRepo) UpdateProfileImage(_ context.Context, id uuid.UUID, image string) error {
	return m.update(id, func(a *Admin) { a.ProfileImage = image })
}

func (m *memRepo) SetTwoFactorSecret(_ context.Context, id uuid.UUID, secret string) error {
	return m.update(id, func(a *Admin) { a.TwoFactorSecret = secret })
}

func (m *memRepo) SetTwoFactorEnabled(_ context.Context, id uuid.UUID, enabled bool) error {
	return m.update(id, func(a *Admin) { a.TwoFA = enabled })
}

func (m *memRepo) UpdateRole(_ context.Context, id uuid.UUID, roleID int64) error {
	return m.update(id, func(a *Admin) { a.RoleID = roleID })
}

func (m *memRepo) List(_ context.Context, page shared.PageRequest) ([]Admin, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]Admin, 0, len(m.admins))
	for _, a := range m.admins {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (m *memRepo) CreateStaff(ctx context.Context, s Staff) (Staff, error) {
	if taken, _ := m.EmailTaken(ctx, s.Email); taken {
		return Staff{}, errDuplicateEmail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	m.staff[s.ID] = s
	return s, nil
}

func (m *memRepo) DeleteStaff(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.staff, id)
	return nil
}

func (m *memRepo) GetStaffByCode(_ context.Context, code string) (Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.staff {
		if s.ProfileCode == code {
			return s, nil
		}
	}
	return Staff{}, ErrStaffNotFound
}

type roleDirectory map[int64]rbac.Role

func (d roleDirectory) GetRole(_ context.Context, id int64) (rbac.Role, error) {
	r, ok := d[id]
	if !ok {
		return rbac.Role{}, rbac.ErrRoleNotFound
	}
	return r, nil
}

func (d roleDirectory) ListEffectivePermissions(ctx context.Context, roleID int64) (map[string][]rbac.Permission, bool, error) {
	r, err := d.GetRole(ctx, roleID)
	if err != nil {
		return nil, false, err
	}
	if r.IsSuperAdmin() {
		return nil, true, nil
	}
	return map[string][]rbac.Permission{"Job": {{ID: 1, Title: "Job", Path: "job", Method: "get"}}}, false, nil
}

type invitation struct {
	to, role, code, link string
}

type outbox struct {
	sent []invitation
	err  error
}

func (o *outbox) SendStaffInvitation(_ context.Context, to, roleName, code, link string) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, invitation{to: to, role: roleName, code: code, link: link})
	return nil
}

type pictureShelf struct {
	saved   []string
	removed []string
}

func (p *pictureShelf) Save(subdir string, header *multipart.FileHeader, _ []string, _ int64) (string, error) {
	if header == nil {
		return "", errors.New("missing")
	}
	name := subdir + "/" + header.Filename
	p.saved = append(p.saved, name)
	return name, nil
}

func (p *pictureShelf) Remove(name string) error {
	p.removed = append(p.removed, name)
	return nil
}

func (p *pictureShelf) URL(name string) string {
	return "http://cdn.test/uploads/" + name
}

type auditTrail struct {
	entries []shared.AuditLog
}

func (a *auditTrail) Record(_ context.Context, log shared.AuditLog) error {
	a.entries = append(a.entries, log)
	return nil
}

type fixture struct {
	repo     *memRepo
	mail     *outbox
	pictures *pictureShelf
	audit    *auditTrail
	now      time.Time
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newMemRepo(),
		mail:     &outbox{},
		pictures: &pictureShelf{},
		audit:    &auditTrail{},
		now:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(Deps{
		Repo: f.repo,
		Roles: roleDirectory{
			1: {ID: 1, Name: rbac.SuperAdminRoleName},
			2: {ID: 2, Name: "HR"},
		},
		Mail:      f.mail,
		Pictures:  f.pictures,
		TOTP:      NewTOTP("GenesisLab"),
		Audit:     f.audit,
		WebAppURL: "https://admin.test/",
		Clock:     func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) seedAdmin(email, password string) Admin {
	hash, err := shared.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return f.repo.add(Admin{Email: email, FirstName: "Ada", LastName: "Admin", RoleID: 2, PasswordHash: hash})
}
