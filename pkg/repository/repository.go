package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/careers/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Lookup methods return (nil, nil) when the entity does not exist; the
// sentinel errors below are reserved for mutations, where the storage-level
// uniqueness constraints are the final arbiter of every slug invariant.

var (
	// ErrNotFound signals that the target entity does not exist or is not
	// owned by the caller; the two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
	// ErrSlugTaken signals a uniqueness-constraint violation on a slug, in
	// either the company namespace or a per-company job namespace.
	ErrSlugTaken = errors.New("slug already taken")
	// ErrDuplicateAccount signals that the registration email is already in
	// use.
	ErrDuplicateAccount = errors.New("account already exists")
)

type AccountRepo interface {
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// RegistryRepo guards the account/company slug namespace. The company row is
// the single source of truth for the slug; there is no second copy to keep
// consistent, so both claim and rename are single atomic writes.
type RegistryRepo interface {
	// SlugAvailable reports whether no company currently holds the slug. The
	// result is advisory; a concurrent claim is still rejected at write time.
	SlugAvailable(ctx context.Context, slug string) (bool, error)
	// RegisterAccount creates the account and its company in one transaction,
	// claiming the company slug. Returns ErrDuplicateAccount or ErrSlugTaken.
	RegisterAccount(ctx context.Context, a *models.Account, c *models.Company) (accountID, companyID int64, err error)
	// RenameCompanySlug moves the company owned by accountID to a new slug.
	// Returns ErrNotFound if the account owns no company and ErrSlugTaken if
	// another company holds the slug.
	RenameCompanySlug(ctx context.Context, accountID int64, slug string) error
}

type CompanyRepo interface {
	GetCompanyBySlug(ctx context.Context, slug string) (*models.Company, error)
	GetCompanyByAccountID(ctx context.Context, accountID int64) (*models.Company, error)
	UpdateCompany(ctx context.Context, c *models.Company) error
}

type SectionRepo interface {
	// AppendSection inserts the section with the next order key (max+1, or 0
	// for an empty list); the key is assigned inside the insert statement so
	// concurrent appends cannot collide.
	AppendSection(ctx context.Context, s *models.ContentSection) error
	GetSection(ctx context.Context, companyID int64, sectionID string) (*models.ContentSection, error)
	ListSections(ctx context.Context, companyID int64) ([]models.ContentSection, error)
	UpdateSection(ctx context.Context, s *models.ContentSection) error
	DeleteSection(ctx context.Context, companyID int64, sectionID string) error
	// ReorderSections assigns each listed section the order key equal to its
	// index. The whole call is transactional; an id not belonging to the
	// company fails the call with ErrNotFound and reorders nothing.
	ReorderSections(ctx context.Context, companyID int64, sectionIDs []string) error
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (int64, error)
	GetJobByID(ctx context.Context, companyID, jobID int64) (*models.Job, error)
	GetOpenJobBySlug(ctx context.Context, companyID int64, slug string) (*models.Job, error)
	ListOpenJobs(ctx context.Context, companyID int64, f models.JobFilters) ([]models.Job, error)
	ListJobsByCompany(ctx context.Context, companyID int64) ([]models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	DeleteJob(ctx context.Context, companyID, jobID int64) error
	// JobSlugExists reports whether another posting under the company holds
	// the slug; excludeJobID skips the posting being updated (0 skips none).
	JobSlugExists(ctx context.Context, companyID int64, slug string, excludeJobID int64) (bool, error)
}
