package contacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/genesislab/siteadmin/internal/platform/db"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Repository persists contacts.
type Repository interface {
	Create(ctx context.Context, c Contact) (Contact, error)
	Get(ctx context.Context, id int64) (Contact, error)
	MarkRead(ctx context.Context, id int64) error
	List(ctx context.Context, search string, page shared.PageRequest) ([]Contact, int, error)
	Statistics(ctx context.Context) (Statistics, error)
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

const contactColumns = `id, name, email, country, phone_number, message, date, is_read`

func scanContact(row pgx.Row) (Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Country, &c.PhoneNumber, &c.Message, &c.Date, &c.IsRead)
	return c, err
}

func (r *repository) Create(ctx context.Context, c Contact) (Contact, error) {
	created, err := scanContact(r.db.QueryRow(ctx, `INSERT INTO contacts (name, email, country, phone_number, message)
		VALUES ($1, $2, $3, $4, $5) RETURNING `+contactColumns,
		c.Name, c.Email, c.Country, c.PhoneNumber, c.Message))
	if err != nil {
		return Contact{}, fmt.Errorf("contacts: create: %w", err)
	}
	return created, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Contact, error) {
	c, err := scanContact(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrContactNotFound
	}
	if err != nil {
		return Contact{}, fmt.Errorf("contacts: get: %w", err)
	}
	return c, nil
}

func (r *repository) MarkRead(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `UPDATE contacts SET is_read = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("contacts: mark read: %w", err)
	}
	return nil
}

func (r *repository) List(ctx context.Context, search string, page shared.PageRequest) ([]Contact, int, error) {
	var preds shared.Predicates
	preds.Search(search, "name", "email", "phone_number", "country")
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`+preds.Where(), preds.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("contacts: count: %w", err)
	}
	query := `SELECT ` + contactColumns + ` FROM contacts` + preds.Where() +
		` ORDER BY date DESC LIMIT ` + preds.Arg(page.Limit) + ` OFFSET ` + preds.Arg(page.Offset())
	rows, err := r.db.Query(ctx, query, preds.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("contacts: list: %w", err)
	}
	defer rows.Close()
	var out []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repository) Statistics(ctx context.Context) (Statistics, error) {
	var s Statistics
	err := r.db.QueryRow(ctx, `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE is_read),
		COUNT(*) FILTER (WHERE NOT is_read)
		FROM contacts`).Scan(&s.Total, &s.Read, &s.Unread)
	if err != nil {
		return Statistics{}, fmt.Errorf("contacts: statistics: %w", err)
	}
	return s, nil
}
