package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/careers/pkg/models"
	"github.com/garnizeh/careers/pkg/repository"
)

const companyColumns = `id, account_id, slug, name, brand_primary_color, brand_secondary_color, brand_logo, brand_banner, brand_culture_video, brand_subtitle, published, created, updated`

func (r *SQLiteRepo) GetCompanyBySlug(ctx context.Context, slug string) (*models.Company, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE slug = ?`, slug)
	return scanCompany(row)
}

func (r *SQLiteRepo) GetCompanyByAccountID(ctx context.Context, accountID int64) (*models.Company, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE account_id = ?`, accountID)
	return scanCompany(row)
}

// UpdateCompany persists name, brand and published; the slug is only touched
// via RenameCompanySlug.
func (r *SQLiteRepo) UpdateCompany(ctx context.Context, c *models.Company) error {
	if c == nil {
		return fmt.Errorf("company is nil")
	}

	res, err := r.conn.Exec(ctx, `UPDATE companies SET
		name = ?, brand_primary_color = ?, brand_secondary_color = ?, brand_logo = ?, brand_banner = ?, brand_culture_video = ?, brand_subtitle = ?, published = ?, updated = ?
		WHERE id = ?`,
		c.Name, c.Brand.PrimaryColor, c.Brand.SecondaryColor, c.Brand.Logo, c.Brand.Banner, c.Brand.CultureVideo, c.Brand.Subtitle,
		boolToInt(c.Published), now(), c.ID)
	if err != nil {
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

func scanCompany(row *sql.Row) (*models.Company, error) {
	var c models.Company
	var published int64
	if err := row.Scan(&c.ID, &c.AccountID, &c.Slug, &c.Name,
		&c.Brand.PrimaryColor, &c.Brand.SecondaryColor, &c.Brand.Logo, &c.Brand.Banner, &c.Brand.CultureVideo, &c.Brand.Subtitle,
		&published, &c.Created, &c.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	c.Published = published != 0

	return &c, nil
}
