package sqlite

import (
	"strings"
	"time"

	"github.com/garnizeh/careers/internal/db"
	"github.com/garnizeh/careers/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn *db.DB
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.AccountRepo = (*SQLiteRepo)(nil)
var _ repository.RegistryRepo = (*SQLiteRepo)(nil)
var _ repository.CompanyRepo = (*SQLiteRepo)(nil)
var _ repository.SectionRepo = (*SQLiteRepo)(nil)
var _ repository.JobRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB) *SQLiteRepo {
	return &SQLiteRepo{conn: conn}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on the
// given column set, e.g. "companies.slug" or "jobs.company_id, jobs.slug".
// The constraint is the final arbiter for slug uniqueness; races that slip
// past advisory checks are caught here and mapped to domain errors.
func isUniqueViolation(err error, columns string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+columns)
}
