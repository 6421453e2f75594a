package models

// Domain models matching the database schema in db/migrations/0001_init.sql

type Account struct {
	ID           int64  `json:"id" db:"id"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
}

// Content section categories (closed set).
const (
	SectionAbout    = "about"
	SectionLife     = "life"
	SectionBenefits = "benefits"
	SectionValues   = "values"
	SectionCustom   = "custom"
)

// Job types (closed set).
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
	JobTypeRemote     = "remote"
)

// Job lifecycle statuses.
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

type Brand struct {
	PrimaryColor   string `json:"primary_color" db:"brand_primary_color"`
	SecondaryColor string `json:"secondary_color" db:"brand_secondary_color"`
	Logo           string `json:"logo,omitempty" db:"brand_logo"`
	Banner         string `json:"banner,omitempty" db:"brand_banner"`
	CultureVideo   string `json:"culture_video,omitempty" db:"brand_culture_video"`
	Subtitle       string `json:"subtitle" db:"brand_subtitle"`
}

// DefaultBrand returns the brand parameters assigned to a company at
// registration, before the owner customizes anything.
func DefaultBrand() Brand {
	return Brand{
		PrimaryColor:   "#3B82F6",
		SecondaryColor: "#1E40AF",
		Subtitle:       "Join our team and help shape the future",
	}
}

type Company struct {
	ID        int64  `json:"id" db:"id"`
	AccountID int64  `json:"account_id" db:"account_id"`
	Slug      string `json:"slug" db:"slug"`
	Name      string `json:"name" db:"name" validate:"required"`
	Brand     Brand  `json:"brand"`
	Published bool   `json:"published" db:"published"`
	// Sections are loaded separately and attached for responses, ordered by
	// ascending position.
	Sections []ContentSection `json:"content_sections"`
	Created  int64            `json:"created" db:"created"`
	Updated  int64            `json:"updated" db:"updated"`
}

type ContentSection struct {
	ID        string `json:"id" db:"id"`
	CompanyID int64  `json:"-" db:"company_id"`
	Type      string `json:"type" db:"type" validate:"required,oneof=about life benefits values custom"`
	Title     string `json:"title" db:"title"`
	Content   string `json:"content" db:"content"`
	Position  int    `json:"order" db:"position"`
}

type SalaryRange struct {
	Min      *int64 `json:"min,omitempty" db:"salary_min"`
	Max      *int64 `json:"max,omitempty" db:"salary_max"`
	Currency string `json:"currency,omitempty" db:"salary_currency"`
}

type Job struct {
	ID        int64  `json:"id" db:"id"`
	CompanyID int64  `json:"company_id" db:"company_id"`
	Title     string `json:"title" db:"title" validate:"required"`
	// Slug is optional; an empty slug imposes no uniqueness constraint.
	Slug         string      `json:"slug,omitempty" db:"slug"`
	Department   string      `json:"department,omitempty" db:"department"`
	Location     string      `json:"location" db:"location" validate:"required"`
	JobType      string      `json:"job_type" db:"job_type" validate:"required,oneof=full-time part-time contract internship remote"`
	Description  string      `json:"description" db:"description" validate:"required"`
	Requirements []string    `json:"requirements" db:"requirements"`
	Salary       SalaryRange `json:"salary"`
	Status       string      `json:"status" db:"status" validate:"oneof=open closed"`
	Created      int64       `json:"created" db:"created"`
	Updated      int64       `json:"updated" db:"updated"`
}

// JobFilters narrows public job listings; empty fields are omitted from the
// conjunction. Matches are case-insensitive substring comparisons.
type JobFilters struct {
	Location string
	JobType  string
	Search   string
}
