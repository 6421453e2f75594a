package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/careers/pkg/models"
	"github.com/garnizeh/careers/pkg/repository"
)

// AppendSection assigns the next order key inside the insert statement itself,
// so two concurrent appends to the same profile cannot read the same max.
func (r *SQLiteRepo) AppendSection(ctx context.Context, s *models.ContentSection) error {
	if s == nil {
		return fmt.Errorf("section is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO content_sections (id, company_id, type, title, content, position)
		SELECT ?, ?, ?, ?, ?, COALESCE(MAX(position) + 1, 0) FROM content_sections WHERE company_id = ?`,
		s.ID, s.CompanyID, s.Type, s.Title, s.Content, s.CompanyID)
	return err
}

func (r *SQLiteRepo) GetSection(ctx context.Context, companyID int64, sectionID string) (*models.ContentSection, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, company_id, type, title, content, position FROM content_sections WHERE id = ? AND company_id = ?`, sectionID, companyID)
	var s models.ContentSection
	if err := row.Scan(&s.ID, &s.CompanyID, &s.Type, &s.Title, &s.Content, &s.Position); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &s, nil
}

func (r *SQLiteRepo) ListSections(ctx context.Context, companyID int64) ([]models.ContentSection, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, company_id, type, title, content, position FROM content_sections WHERE company_id = ? ORDER BY position, id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ContentSection
	for rows.Next() {
		var s models.ContentSection
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Type, &s.Title, &s.Content, &s.Position); err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateSection(ctx context.Context, s *models.ContentSection) error {
	if s == nil {
		return fmt.Errorf("section is nil")
	}

	res, err := r.conn.Exec(ctx, `UPDATE content_sections SET type = ?, title = ?, content = ?, position = ? WHERE id = ? AND company_id = ?`,
		s.Type, s.Title, s.Content, s.Position, s.ID, s.CompanyID)
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

// DeleteSection removes the section without compacting the remaining order
// keys; gaps persist until an explicit reorder.
func (r *SQLiteRepo) DeleteSection(ctx context.Context, companyID int64, sectionID string) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM content_sections WHERE id = ? AND company_id = ?`, sectionID, companyID)
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

// ReorderSections rewrites order keys transactionally. Any id that does not
// belong to the company aborts the whole call, so a typoed identifier can
// never silently drop part of the intended ordering.
func (r *SQLiteRepo) ReorderSections(ctx context.Context, companyID int64, sectionIDs []string) error {
	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, id := range sectionIDs {
		res, err := tx.ExecContext(ctx, `UPDATE content_sections SET position = ? WHERE id = ? AND company_id = ?`, i, id, companyID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("section %s: %w", id, repository.ErrNotFound)
		}
	}

	return tx.Commit()
}
