package jobposts

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

// ListFilter narrows a listing. A non-zero OpenAt keeps postings whose last
// date is after it.
type ListFilter struct {
	OpenAt time.Time
}

// Repository persists job postings.
type Repository interface {
	Create(ctx context.Context, job JobPost) (JobPost, error)
	Get(ctx context.Context, id uuid.UUID) (JobPost, error)
	Update(ctx context.Context, job JobPost) error
	List(ctx context.Context, filter ListFilter, page shared.PageRequest) ([]JobPost, int, error)
	Statistics(ctx context.Context, now time.Time) (Statistics, error)
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

const jobColumns = `id, job_title, job_type, image, location, salary_range, experience_required,
	last_date, description, requirement, admin_id, created_at, updated_at`

func scanJob(row pgx.Row) (JobPost, error) {
	var j JobPost
	err := row.Scan(&j.ID, &j.Title, &j.Type, &j.Image, &j.Location, &j.SalaryRange, &j.ExperienceRequired,
		&j.LastDate, &j.Description, &j.Requirement, &j.AdminID, &j.CreatedAt, &j.UpdatedAt)
	return j, err
}

func (r *repository) Create(ctx context.Context, j JobPost) (JobPost, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO jobs (job_title, job_type, image, location, salary_range,
		experience_required, last_date, description, requirement, admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+jobColumns,
		j.Title, j.Type, j.Image, j.Location, j.SalaryRange, j.ExperienceRequired,
		j.LastDate, j.Description, j.Requirement, j.AdminID)
	created, err := scanJob(row)
	if err != nil {
		return JobPost{}, fmt.Errorf("jobposts: create: %w", err)
	}
	return created, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (JobPost, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return JobPost{}, shared.ErrContentNotFound
	}
	if err != nil {
		return JobPost{}, fmt.Errorf("jobposts: get: %w", err)
	}
	return j, nil
}

func (r *repository) Update(ctx context.Context, j JobPost) error {
	tag, err := r.db.Exec(ctx, `UPDATE jobs SET job_title = $2, job_type = $3, image = $4, location = $5,
		salary_range = $6, experience_required = $7, last_date = $8, description = $9,
		requirement = $10, updated_at = NOW() WHERE id = $1`,
		j.ID, j.Title, j.Type, j.Image, j.Location, j.SalaryRange, j.ExperienceRequired,
		j.LastDate, j.Description, j.Requirement)
	if err != nil {
		return fmt.Errorf("jobposts: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrContentNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter ListFilter, page shared.PageRequest) ([]JobPost, int, error) {
	var preds shared.Predicates
	if !filter.OpenAt.IsZero() {
		preds.Add("last_date > " + preds.Arg(filter.OpenAt))
	}
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`+preds.Where(), preds.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("jobposts: count: %w", err)
	}
	query := `SELECT ` + jobColumns + ` FROM jobs` + preds.Where() +
		` ORDER BY created_at DESC LIMIT ` + preds.Arg(page.Limit) + ` OFFSET ` + preds.Arg(page.Offset())
	rows, err := r.db.Query(ctx, query, preds.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("jobposts: list: %w", err)
	}
	defer rows.Close()
	var out []JobPost
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, j)
	}
	return out, total, rows.Err()
}

func (r *repository) Statistics(ctx context.Context, now time.Time) (Statistics, error) {
	var s Statistics
	err := r.db.QueryRow(ctx, `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE last_date > $1),
		COUNT(*) FILTER (WHERE last_date <= $1)
		FROM jobs`, now).Scan(&s.Total, &s.Active, &s.Inactive)
	if err != nil {
		return Statistics{}, fmt.Errorf("jobposts: statistics: %w", err)
	}
	return s, nil
}
