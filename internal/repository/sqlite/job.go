package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/garnizeh/careers/pkg/models"
	"github.com/garnizeh/careers/pkg/repository"
)

const jobColumns = `id, company_id, title, slug, department, location, job_type, description, requirements, salary_min, salary_max, salary_currency, status, created, updated`

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}

	reqs, err := marshalRequirements(j.Requirements)
	if err != nil {
		return 0, err
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO jobs
		(company_id, title, slug, department, location, job_type, description, requirements, salary_min, salary_max, salary_currency, status, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.CompanyID, j.Title, j.Slug, j.Department, j.Location, j.JobType, j.Description, reqs,
		j.Salary.Min, j.Salary.Max, nullString(j.Salary.Currency), j.Status, ts, ts)
	if err != nil {
		if isUniqueViolation(err, "jobs.company_id, jobs.slug") {
			return 0, repository.ErrSlugTaken
		}

		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetJobByID(ctx context.Context, companyID, jobID int64) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ? AND company_id = ?`, jobID, companyID)
	return scanJobRow(row)
}

// GetOpenJobBySlug resolves a posting for the public page; closed postings are
// invisible through this path.
func (r *SQLiteRepo) GetOpenJobBySlug(ctx context.Context, companyID int64, slug string) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE company_id = ? AND slug = ? AND slug <> '' AND status = 'open'`, companyID, slug)
	return scanJobRow(row)
}

func (r *SQLiteRepo) ListOpenJobs(ctx context.Context, companyID int64, f models.JobFilters) ([]models.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = ? AND status = 'open'`
	args := []any{companyID}

	if f.Location != "" {
		q += ` AND instr(lower(location), lower(?)) > 0`
		args = append(args, f.Location)
	}
	if f.JobType != "" {
		q += ` AND instr(lower(job_type), lower(?)) > 0`
		args = append(args, f.JobType)
	}
	if f.Search != "" {
		q += ` AND instr(lower(title), lower(?)) > 0`
		args = append(args, f.Search)
	}
	q += ` ORDER BY created DESC, id DESC`

	return r.queryJobs(ctx, q, args...)
}

func (r *SQLiteRepo) ListJobsByCompany(ctx context.Context, companyID int64) ([]models.Job, error) {
	return r.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs WHERE company_id = ? ORDER BY created DESC, id DESC`, companyID)
}

func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}

	reqs, err := marshalRequirements(j.Requirements)
	if err != nil {
		return err
	}

	res, err := r.conn.Exec(ctx, `UPDATE jobs SET
		title = ?, slug = ?, department = ?, location = ?, job_type = ?, description = ?, requirements = ?, salary_min = ?, salary_max = ?, salary_currency = ?, status = ?, updated = ?
		WHERE id = ? AND company_id = ?`,
		j.Title, j.Slug, j.Department, j.Location, j.JobType, j.Description, reqs,
		j.Salary.Min, j.Salary.Max, nullString(j.Salary.Currency), j.Status, now(), j.ID, j.CompanyID)
	if err != nil {
		if isUniqueViolation(err, "jobs.company_id, jobs.slug") {
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

func (r *SQLiteRepo) DeleteJob(ctx context.Context, companyID, jobID int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM jobs WHERE id = ? AND company_id = ?`, jobID, companyID)
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

func (r *SQLiteRepo) JobSlugExists(ctx context.Context, companyID int64, slug string, excludeJobID int64) (bool, error) {
	var count int
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM jobs WHERE company_id = ? AND slug = ? AND slug <> '' AND id <> ?`, companyID, slug, excludeJobID)
	if err := row.Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *SQLiteRepo) queryJobs(ctx context.Context, query string, args ...any) ([]models.Job, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}

		out = append(out, *j)
	}

	return out, rows.Err()
}

func scanJobRow(row *sql.Row) (*models.Job, error) {
	j, err := scanJob(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return j, err
}

func scanJob(scan func(...any) error) (*models.Job, error) {
	var j models.Job
	var reqs string
	var salaryMin, salaryMax sql.NullInt64
	var currency sql.NullString
	if err := scan(&j.ID, &j.CompanyID, &j.Title, &j.Slug, &j.Department, &j.Location, &j.JobType, &j.Description,
		&reqs, &salaryMin, &salaryMax, &currency, &j.Status, &j.Created, &j.Updated); err != nil {
		return nil, err
	}

	if reqs != "" {
		if err := json.Unmarshal([]byte(reqs), &j.Requirements); err != nil {
			return nil, fmt.Errorf("decode requirements for job %d: %w", j.ID, err)
		}
	}
	if salaryMin.Valid {
		j.Salary.Min = &salaryMin.Int64
	}
	if salaryMax.Valid {
		j.Salary.Max = &salaryMax.Int64
	}
	if currency.Valid {
		j.Salary.Currency = currency.String
	}

	return &j, nil
}

func marshalRequirements(reqs []string) (string, error) {
	if reqs == nil {
		reqs = []string{}
	}
	b, err := json.Marshal(reqs)
	if err != nil {
		return "", fmt.Errorf("encode requirements: %w", err)
	}

	return string(b), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
