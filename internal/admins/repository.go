package admins

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genesislab/siteadmin/internal/platform/db"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Repository persists admin accounts and staff invitations.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	GetByID(ctx context.Context, id uuid.UUID) (Admin, error)
	GetByEmail(ctx context.Context, email string) (Admin, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, a Admin) (Admin, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, p ProfileUpdate) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateProfileImage(ctx context.Context, id uuid.UUID, image string) error
	SetTwoFactorSecret(ctx context.Context, id uuid.UUID, secret string) error
	SetTwoFactorEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
	UpdateRole(ctx context.Context, id uuid.UUID, roleID int64) error
	List(ctx context.Context, page shared.PageRequest) ([]Admin, int, error)

	CreateStaff(ctx context.Context, s Staff) (Staff, error)
	DeleteStaff(ctx context.Context, id uuid.UUID) error
	GetStaffByCode(ctx context.Context, code string) (Staff, error)
}

type repository struct {
	db   db.DBTX
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const adminSelect = `SELECT a.id, a.first_name, a.last_name, a.email, a.country, a.phone_number,
	COALESCE(a.profile_image, ''), a.role_id, COALESCE(r.name, ''), a.two_fa, COALESCE(a.two_fa_key, ''),
	a.password, a.created_at
	FROM admins a LEFT JOIN roles r ON r.id = a.role_id`

func scanAdmin(row pgx.Row) (Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Country, &a.PhoneNumber,
		&a.ProfileImage, &a.RoleID, &a.RoleName, &a.TwoFA, &a.TwoFactorSecret,
		&a.PasswordHash, &a.CreatedAt)
	return a, err
}

func (r *repository) getOne(ctx context.Context, where string, arg any) (Admin, error) {
	a, err := scanAdmin(r.db.QueryRow(ctx, adminSelect+" WHERE "+where, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return Admin{}, ErrAdminNotFound
	}
	if err != nil {
		return Admin{}, fmt.Errorf("admins: get: %w", err)
	}
	return a, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (Admin, error) {
	return r.getOne(ctx, "a.id = $1", id)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (Admin, error) {
	return r.getOne(ctx, "lower(a.email) = lower($1)", email)
}

func (r *repository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admins WHERE lower(email) = lower($1))
		OR EXISTS (SELECT 1 FROM staffs WHERE lower(email) = lower($1))`, email).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("admins: email taken: %w", err)
	}
	return taken, nil
}

func (r *repository) Create(ctx context.Context, a Admin) (Admin, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `INSERT INTO admins (first_name, last_name, email, country, phone_number, role_id, password)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		a.FirstName, a.LastName, a.Email, a.Country, a.PhoneNumber, a.RoleID, a.PasswordHash).Scan(&id)
	if db.IsUniqueViolation(err) {
		return Admin{}, errDuplicateEmail
	}
	if err != nil {
		return Admin{}, fmt.Errorf("admins: create: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *repository) exec(ctx context.Context, op, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("admins: %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (r *repository) UpdateProfile(ctx context.Context, id uuid.UUID, p ProfileUpdate) error {
	return r.exec(ctx, "update profile", `UPDATE admins SET first_name = $2, last_name = $3, country = $4, phone_number = $5 WHERE id = $1`,
		id, p.FirstName, p.LastName, p.Country, p.PhoneNumber)
}

func (r *repository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.exec(ctx, "update password", `UPDATE admins SET password = $2 WHERE id = $1`, id, hash)
}

func (r *repository) UpdateProfileImage(ctx context.Context, id uuid.UUID, image string) error {
	return r.exec(ctx, "update image", `UPDATE admins SET profile_image = $2 WHERE id = $1`, id, image)
}

func (r *repository) SetTwoFactorSecret(ctx context.Context, id uuid.UUID, secret string) error {
	return r.exec(ctx, "set 2fa secret", `UPDATE admins SET two_fa_key = $2 WHERE id = $1`, id, secret)
}

func (r *repository) SetTwoFactorEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	return r.exec(ctx, "set 2fa", `UPDATE admins SET two_fa = $2 WHERE id = $1`, id, enabled)
}

func (r *repository) UpdateRole(ctx context.Context, id uuid.UUID, roleID int64) error {
	return r.exec(ctx, "update role", `UPDATE admins SET role_id = $2 WHERE id = $1`, id, roleID)
}

func (r *repository) List(ctx context.Context, page shared.PageRequest) ([]Admin, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("admins: count: %w", err)
	}
	rows, err := r.db.Query(ctx, adminSelect+` ORDER BY a.created_at DESC LIMIT $1 OFFSET $2`, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("admins: list: %w", err)
	}
	defer rows.Close()
	var out []Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *repository) CreateStaff(ctx context.Context, s Staff) (Staff, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO staffs (email, role_id, profile_code) VALUES ($1, $2, $3)
		RETURNING id, created_at`, s.Email, s.RoleID, s.ProfileCode).Scan(&s.ID, &s.CreatedAt)
	if db.IsUniqueViolation(err) {
		return Staff{}, errDuplicateEmail
	}
	if err != nil {
		return Staff{}, fmt.Errorf("admins: create staff: %w", err)
	}
	return s, nil
}

func (r *repository) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM staffs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("admins: delete staff: %w", err)
	}
	return nil
}

func (r *repository) GetStaffByCode(ctx context.Context, code string) (Staff, error) {
	var s Staff
	err := r.db.QueryRow(ctx, `SELECT id, email, role_id, profile_code, created_at FROM staffs WHERE profile_code = $1`, code).
		Scan(&s.ID, &s.Email, &s.RoleID, &s.ProfileCode, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Staff{}, ErrStaffNotFound
	}
	if err != nil {
		return Staff{}, fmt.Errorf("admins: staff by code: %w", err)
	}
	return s, nil
}
