package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/careers/pkg/models"
	"github.com/garnizeh/careers/pkg/repository"
)

// SlugAvailable reports whether no company holds the slug. Advisory only; the
// UNIQUE constraint on companies.slug settles concurrent claims at write time.
func (r *SQLiteRepo) SlugAvailable(ctx context.Context, slug string) (bool, error) {
	var count int
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM companies WHERE slug = ?`, slug)
	if err := row.Scan(&count); err != nil {
		return false, err
	}

	return count == 0, nil
}

// RegisterAccount inserts the account and its company in one transaction so a
// lost slug race never leaves an orphaned account behind.
func (r *SQLiteRepo) RegisterAccount(ctx context.Context, a *models.Account, c *models.Company) (int64, int64, error) {
	if a == nil || c == nil {
		return 0, 0, fmt.Errorf("account or company is nil")
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	ts := now()
	res, err := tx.ExecContext(ctx, `INSERT INTO accounts (email, password_hash, created, updated) VALUES (?, ?, ?, ?)`,
		a.Email, a.PasswordHash, ts, ts)
	if err != nil {
		if isUniqueViolation(err, "accounts.email") {
			return 0, 0, repository.ErrDuplicateAccount
		}

		return 0, 0, err
	}
	accountID, err := res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}

	res, err = tx.ExecContext(ctx, `INSERT INTO companies
		(account_id, slug, name, brand_primary_color, brand_secondary_color, brand_logo, brand_banner, brand_culture_video, brand_subtitle, published, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		accountID, c.Slug, c.Name,
		c.Brand.PrimaryColor, c.Brand.SecondaryColor, c.Brand.Logo, c.Brand.Banner, c.Brand.CultureVideo, c.Brand.Subtitle,
		boolToInt(c.Published), ts, ts)
	if err != nil {
		if isUniqueViolation(err, "companies.slug") {
			return 0, 0, repository.ErrSlugTaken
		}

		return 0, 0, err
	}
	companyID, err := res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}

	return accountID, companyID, nil
}

// RenameCompanySlug is a single UPDATE: the company row is the only holder of
// the slug, so the rename is all-or-nothing by construction.
func (r *SQLiteRepo) RenameCompanySlug(ctx context.Context, accountID int64, slug string) error {
	res, err := r.conn.Exec(ctx, `UPDATE companies SET slug = ?, updated = ? WHERE account_id = ?`, slug, now(), accountID)
	if err != nil {
		if isUniqueViolation(err, "companies.slug") {
			return repository.ErrSlugTaken
		}

		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
