package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type SQLiteUserRepository struct {
	DB *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{DB: db}
}

func (r *SQLiteUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT id, nombre, apellido, role, email FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	return u, err
}

func (r *SQLiteUserRepository) ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, nombre, apellido, role, email FROM users WHERE role = ? ORDER BY nombre, apellido`, string(role))
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

// Upsert is used to seed agents in the embedded store.
func (r *SQLiteUserRepository) Upsert(ctx context.Context, u *entity.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, nombre, apellido, role, email) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			nombre = excluded.nombre,
			apellido = excluded.apellido,
			role = excluded.role,
			email = COALESCE(excluded.email, users.email)
	`, u.ID, u.Nombre, u.Apellido, string(u.Role), nullString(u.Email))
	return err
}
