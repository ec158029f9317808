package repository

import (
	"context"

	"github.com/google/uuid"
)

const adminColumns = `id, email, password_hash, name, role, created_at, updated_at`

type CreateAdminParams struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
}

func (q *Queries) CreateAdmin(ctx context.Context, arg CreateAdminParams) (Admin, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO admins (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+adminColumns,
		arg.Email, arg.PasswordHash, arg.Name, arg.Role,
	)
	return scanAdmin(row)
}

func (q *Queries) GetAdminByEmail(ctx context.Context, email string) (Admin, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, email)
	return scanAdmin(row)
}

func (q *Queries) GetAdminByID(ctx context.Context, id uuid.UUID) (Admin, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
	return scanAdmin(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAdmin(row rowScanner) (Admin, error) {
	var a Admin
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Name,
		&a.Role,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
