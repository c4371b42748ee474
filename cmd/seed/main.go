package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/genesislab/siteadmin/internal/app"
	"github.com/genesislab/siteadmin/internal/platform/db"
	"github.com/genesislab/siteadmin/internal/rbac"
	"github.com/genesislab/siteadmin/internal/shared"
)

var roles = []string{rbac.SuperAdminRoleName, "Admin", "HR", "Editor"}

type permission struct {
	title  string
	access string
	path   string
	method string
}

// Paths are chi route templates relative to the API prefix.
var permissions = []permission{
	{"Add staff member", "add_staff_member", "admin/add_staff_member", "post"},
	{"Staff list", "staff_list", "admin/staff_list", "get"},
	{"Staff detail", "staff_detail", "admin/detail/{id}", "get"},
	{"Edit staff member", "edit_staff_member", "admin/{id}", "patch"},
	{"Permission catalogue", "permissions", "admin/permissions", "get"},
	{"Assign role permissions", "set_role_permissions", "admin/role_permission/{roleId}", "put"},
	{"Create job", "create_job", "job", "post"},
	{"Job list", "job_list", "job", "get"},
	{"Update job", "update_job", "job/{id}", "put"},
	{"Application list", "application_list", "application", "get"},
	{"Open application CV", "application_cv", "application/cv/{id}", "get"},
	{"Contact list", "contact_list", "contacts/contact_list", "get"},
	{"Contact detail", "contact_detail", "contacts/{id}", "get"},
	{"Team list", "team_list", "teams/teams_list", "get"},
	{"Add team member", "add_team_member", "teams/add", "post"},
	{"Edit team member", "edit_team_member", "teams/{id}", "patch"},
	{"Team member detail", "team_member_detail", "teams/{id}", "get"},
}

// Non super admin roles start with a curated subset.
var grants = map[string][]string{
	"Admin": {
		"staff_list", "staff_detail", "permissions",
		"create_job", "job_list", "update_job",
		"application_list", "application_cv",
		"contact_list", "contact_detail",
		"team_list", "add_team_member", "edit_team_member", "team_member_detail",
	},
	"HR": {
		"job_list", "create_job", "update_job",
		"application_list", "application_cv",
		"team_list", "team_member_detail",
	},
	"Editor": {"job_list", "update_job", "contact_list", "contact_detail"},
}

type product struct {
	name    string
	slug    string
	demoURL string
}

var products = []product{
	{"Genesis Commerce", "genesis-commerce", "https://demo.genesislab.local/commerce"},
	{"Genesis Booking", "genesis-booking", "https://demo.genesislab.local/booking"},
}

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	ctx := context.Background()
	pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: 2})
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		if err := seedRoles(ctx, tx); err != nil {
			return err
		}
		if err := seedPermissions(ctx, tx); err != nil {
			return err
		}
		if err := seedGrants(ctx, tx); err != nil {
			return err
		}
		if err := seedProducts(ctx, tx); err != nil {
			return err
		}
		return seedSuperAdmin(ctx, tx, cfg.SuperAdminEmail, cfg.SuperAdminPassword)
	})
	if err != nil {
		logger.Error("seed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("seed complete", slog.Int("roles", len(roles)), slog.Int("permissions", len(permissions)))
}

func seedRoles(ctx context.Context, tx pgx.Tx) error {
	for _, name := range roles {
		if _, err := tx.Exec(ctx, `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return err
		}
	}
	return nil
}

func seedPermissions(ctx context.Context, tx pgx.Tx) error {
	for _, p := range permissions {
		_, err := tx.Exec(ctx, `INSERT INTO permissions (title, access_name, path, method)
			VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`, p.title, p.access, p.path, p.method)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedGrants(ctx context.Context, tx pgx.Tx) error {
	for role, names := range grants {
		_, err := tx.Exec(ctx, `INSERT INTO role_permissions (role_id, permission_id)
			SELECT r.id, p.id FROM roles r JOIN permissions p ON p.access_name = ANY($2)
			WHERE r.name = $1
			ON CONFLICT DO NOTHING`, role, names)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedProducts(ctx context.Context, tx pgx.Tx) error {
	for _, p := range products {
		_, err := tx.Exec(ctx, `INSERT INTO white_label_products (name, slug, demo_url)
			VALUES ($1, $2, $3) ON CONFLICT (slug) DO NOTHING`, p.name, p.slug, p.demoURL)
		if err != nil {
			return err
		}
	}
	return nil
}

func seedSuperAdmin(ctx context.Context, tx pgx.Tx, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return errors.New("SUPER_ADMIN_EMAIL and SUPER_ADMIN_PASSWORD are required")
	}
	hash, err := shared.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `INSERT INTO admins (first_name, last_name, email, role_id, password)
		SELECT 'Super', 'Admin', $1, r.id, $2 FROM roles r WHERE r.name = $3
		ON CONFLICT DO NOTHING`, email, hash, rbac.SuperAdminRoleName)
	return err
}
