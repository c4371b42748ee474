package demorequests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/genesislab/siteadmin/internal/platform/db"
)

// Repository persists demo requests.
type Repository interface {
	FindByEmailAndProduct(ctx context.Context, email string, productID uuid.UUID) (Request, error)
	Create(ctx context.Context, req Request) (Request, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	PurgeUnverified(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

const requestColumns = `id, name, email, is_email_verified, phone, is_phone_verified, product_id, created_at`

func (r *repository) FindByEmailAndProduct(ctx context.Context, email string, productID uuid.UUID) (Request, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM request_demos WHERE email = $1 AND product_id = $2`, email, productID)
	req, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrRequestNotFound
	}
	if err != nil {
		return Request{}, fmt.Errorf("demorequests: find: %w", err)
	}
	return req, nil
}

func (r *repository) Create(ctx context.Context, req Request) (Request, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO request_demos (name, email, phone, product_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+requestColumns, req.Name, req.Email, req.Phone, req.ProductID)
	created, err := scanRequest(row)
	if db.IsUniqueViolation(err) {
		return Request{}, ErrDuplicateRequest
	}
	if err != nil {
		return Request{}, fmt.Errorf("demorequests: create: %w", err)
	}
	return created, nil
}

func (r *repository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE request_demos SET is_email_verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("demorequests: mark verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *repository) PurgeUnverified(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM request_demos WHERE is_email_verified = FALSE AND created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("demorequests: purge: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	var phone *string
	err := row.Scan(&req.ID, &req.Name, &req.Email, &req.EmailVerified, &phone, &req.PhoneVerified, &req.ProductID, &req.CreatedAt)
	if phone != nil {
		req.Phone = *phone
	}
	return req, err
}
