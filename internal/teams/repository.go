package teams

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/genesislab/siteadmin/internal/platform/db"
	"github.com/genesislab/siteadmin/internal/shared"
)

// ListFilter narrows a member listing.
type ListFilter struct {
	Search     string
	ActiveOnly bool
}

// Repository persists team members.
type Repository interface {
	Create(ctx context.Context, m Member) (Member, error)
	Get(ctx context.Context, id int64) (Member, error)
	Update(ctx context.Context, m Member) error
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	List(ctx context.Context, filter ListFilter, page shared.PageRequest) ([]Member, int, error)
	Statistics(ctx context.Context) (Statistics, error)
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

const memberColumns = `id, name, email, designation, address, country, phone_number, cnic, gender,
	religion, joining_date, exit_date, linkedin, profile_image, admin_id`

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Designation, &m.Address, &m.Country, &m.PhoneNumber,
		&m.CNIC, &m.Gender, &m.Religion, &m.JoiningDate, &m.ExitDate, &m.LinkedIn, &m.ProfileImage, &m.AdminID)
	return m, err
}

func (r *repository) Create(ctx context.Context, m Member) (Member, error) {
	created, err := scanMember(r.db.QueryRow(ctx, `INSERT INTO teams (name, email, designation, address,
		country, phone_number, cnic, gender, religion, joining_date, exit_date, linkedin, profile_image, admin_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+memberColumns,
		m.Name, m.Email, m.Designation, m.Address, m.Country, m.PhoneNumber, m.CNIC, m.Gender,
		m.Religion, m.JoiningDate, m.ExitDate, m.LinkedIn, m.ProfileImage, m.AdminID))
	if db.IsUniqueViolation(err) {
		return Member{}, ErrMemberAlreadyExists
	}
	if err != nil {
		return Member{}, fmt.Errorf("teams: create: %w", err)
	}
	return created, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Member, error) {
	m, err := scanMember(r.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM teams WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrMemberNotFound
	}
	if err != nil {
		return Member{}, fmt.Errorf("teams: get: %w", err)
	}
	return m, nil
}

func (r *repository) Update(ctx context.Context, m Member) error {
	tag, err := r.db.Exec(ctx, `UPDATE teams SET name = $2, email = $3, designation = $4, address = $5,
		country = $6, phone_number = $7, cnic = $8, gender = $9, religion = $10, joining_date = $11,
		exit_date = $12, linkedin = $13, profile_image = $14, admin_id = $15
		WHERE id = $1`,
		m.ID, m.Name, m.Email, m.Designation, m.Address, m.Country, m.PhoneNumber, m.CNIC, m.Gender,
		m.Religion, m.JoiningDate, m.ExitDate, m.LinkedIn, m.ProfileImage, m.AdminID)
	if db.IsUniqueViolation(err) {
		return ErrMemberAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("teams: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *repository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM teams WHERE LOWER(email) = LOWER($1) AND id <> $2)`,
		email, exceptID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("teams: email lookup: %w", err)
	}
	return taken, nil
}

func (r *repository) List(ctx context.Context, f ListFilter, page shared.PageRequest) ([]Member, int, error) {
	var preds shared.Predicates
	preds.Search(f.Search, "name", "email", "phone_number", "designation")
	if f.ActiveOnly {
		preds.Add("exit_date IS NULL")
	}
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM teams`+preds.Where(), preds.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("teams: count: %w", err)
	}
	query := `SELECT ` + memberColumns + ` FROM teams` + preds.Where() +
		` ORDER BY id DESC LIMIT ` + preds.Arg(page.Limit) + ` OFFSET ` + preds.Arg(page.Offset())
	rows, err := r.db.Query(ctx, query, preds.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("teams: list: %w", err)
	}
	defer rows.Close()
	var out []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *repository) Statistics(ctx context.Context) (Statistics, error) {
	var s Statistics
	err := r.db.QueryRow(ctx, `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE exit_date IS NULL),
		COUNT(*) FILTER (WHERE exit_date IS NOT NULL)
		FROM teams`).Scan(&s.Total, &s.Active, &s.Inactive)
	if err != nil {
		return Statistics{}, fmt.Errorf("teams: statistics: %w", err)
	}
	return s, nil
}
