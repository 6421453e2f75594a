package sqlite

import (
	"context"
	"database/sql"

	"github.com/garnizeh/careers/pkg/models"
)

func (r *SQLiteRepo) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, created, updated FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *SQLiteRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, created, updated FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Created, &a.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &a, nil
}
