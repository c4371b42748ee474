package applications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/genesislab/siteadmin/internal/platform/db"
	"github.com/genesislab/siteadmin/internal/shared"
)

// ListFilter narrows the admin listing. Zero values are ignored.
type ListFilter struct {
	JobTitle string
	From     time.Time
	To       time.Time
}

// Repository persists applications.
type Repository interface {
	Create(ctx context.Context, app Application) (Application, error)
	Get(ctx context.Context, id uuid.UUID) (Application, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter, page shared.PageRequest) ([]Application, int, error)
	Statistics(ctx context.Context) (Statistics, error)
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, a Application) (Application, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO applications (name, email, phone, country, cv, position_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, date, is_read`,
		a.Name, a.Email, a.Phone, a.Country, a.CV, a.PositionID).Scan(&a.ID, &a.Date, &a.IsRead)
	if err != nil {
		return Application{}, fmt.Errorf("applications: create: %w", err)
	}
	return a, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Application, error) {
	var a Application
	err := r.db.QueryRow(ctx, `SELECT a.id, a.name, a.email, a.phone, a.country, a.cv, a.date,
		a.position_id, j.job_title, a.is_read
		FROM applications a JOIN jobs j ON j.id = a.position_id
		WHERE a.id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Country, &a.CV, &a.Date, &a.PositionID, &a.JobTitle, &a.IsRead)
	if errors.Is(err, pgx.ErrNoRows) {
		return Application{}, shared.ErrContentNotFound
	}
	if err != nil {
		return Application{}, fmt.Errorf("applications: get: %w", err)
	}
	return a, nil
}

func (r *repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE applications SET is_read = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("applications: mark read: %w", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context, f ListFilter, page shared.PageRequest) ([]Application, int, error) {
	var preds shared.Predicates
	preds.Search(f.JobTitle, "j.job_title")
	if !f.From.IsZero() {
		preds.Add("a.date >= " + preds.Arg(f.From))
	}
	if !f.To.IsZero() {
		preds.Add("a.date < " + preds.Arg(f.To))
	}
	from := ` FROM applications a JOIN jobs j ON j.id = a.position_id` + preds.Where()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+from, preds.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("applications: count: %w", err)
	}
	query := `SELECT a.id, a.name, a.email, a.phone, a.country, a.date, a.position_id, j.job_title, a.is_read` +
		from + ` ORDER BY a.date DESC LIMIT ` + preds.Arg(page.Limit) + ` OFFSET ` + preds.Arg(page.Offset())
	rows, err := r.db.Query(ctx, query, preds.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("applications: list: %w", err)
	}
	defer rows.Close()
	var out []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Country, &a.Date, &a.PositionID, &a.JobTitle, &a.IsRead); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *repository) Statistics(ctx context.Context) (Statistics, error) {
	var s Statistics
	err := r.db.QueryRow(ctx, `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE is_read),
		COUNT(*) FILTER (WHERE NOT is_read)
		FROM applications`).Scan(&s.Total, &s.Read, &s.Unread)
	if err != nil {
		return Statistics{}, fmt.Errorf("applications: statistics: %w", err)
	}
	return s, nil
}
