package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/garnizeh/careers/pkg/models"
	"github.com/garnizeh/careers/pkg/repository"
)

// Repo is an in-memory implementation of the repository interfaces for
// handler tests. It mirrors the storage-level uniqueness guarantees of the
// sqlite implementation, including sparse per-company job slug uniqueness.
type Repo struct {
	mu sync.Mutex

	// FailWith, when set, is returned by every method to exercise the
	// internal-failure paths.
	FailWith error

	Accounts  map[int64]*models.Account
	Companies map[int64]*models.Company
	Sections  map[string]*models.ContentSection
	Jobs      map[int64]*models.Job

	nextAccountID int64
	nextCompanyID int64
	nextJobID     int64
	clock         int64
}

var _ repository.AccountRepo = (*Repo)(nil)
var _ repository.RegistryRepo = (*Repo)(nil)
var _ repository.CompanyRepo = (*Repo)(nil)
var _ repository.SectionRepo = (*Repo)(nil)
var _ repository.JobRepo = (*Repo)(nil)

func NewRepo() *Repo {
	return &Repo{
		Accounts:  map[int64]*models.Account{},
		Companies: map[int64]*models.Company{},
		Sections:  map[string]*models.ContentSection{},
		Jobs:      map[int64]*models.Job{},
	}
}

func (m *Repo) tick() int64 {
	m.clock++
	return m.clock
}

// Account methods

func (m *Repo) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	if a, ok := m.Accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *Repo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	for _, a := range m.Accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

// Registry methods

func (m *Repo) SlugAvailable(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return false, m.FailWith
	}

	for _, c := range m.Companies {
		if c.Slug == slug {
			return false, nil
		}
	}
	return true, nil
}

func (m *Repo) RegisterAccount(ctx context.Context, a *models.Account, c *models.Company) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, 0, m.FailWith
	}

	for _, existing := range m.Accounts {
		if existing.Email == a.Email {
			return 0, 0, repository.ErrDuplicateAccount
		}
	}
	for _, existing := range m.Companies {
		if existing.Slug == c.Slug {
			return 0, 0, repository.ErrSlugTaken
		}
	}

	m.nextAccountID++
	m.nextCompanyID++
	ts := m.tick()

	acc := *a
	acc.ID = m.nextAccountID
	acc.Created, acc.Updated = ts, ts
	m.Accounts[acc.ID] = &acc

	comp := *c
	comp.ID = m.nextCompanyID
	comp.AccountID = acc.ID
	comp.Created, comp.Updated = ts, ts
	m.Companies[comp.ID] = &comp

	return acc.ID, comp.ID, nil
}

func (m *Repo) RenameCompanySlug(ctx context.Context, accountID int64, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	var own *models.Company
	for _, c := range m.Companies {
		if c.AccountID == accountID {
			own = c
			break
		}
	}
	if own == nil {
		return repository.ErrNotFound
	}
	for _, c := range m.Companies {
		if c.ID != own.ID && c.Slug == slug {
			return repository.ErrSlugTaken
		}
	}

	own.Slug = slug
	own.Updated = m.tick()
	return nil
}

// Company methods

func (m *Repo) GetCompanyBySlug(ctx context.Context, slug string) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	for _, c := range m.Companies {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Repo) GetCompanyByAccountID(ctx context.Context, accountID int64) (*models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	for _, c := range m.Companies {
		if c.AccountID == accountID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Repo) UpdateCompany(ctx context.Context, c *models.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	stored, ok := m.Companies[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = c.Name
	stored.Brand = c.Brand
	stored.Published = c.Published
	stored.Updated = m.tick()
	return nil
}

// Section methods

func (m *Repo) AppendSection(ctx context.Context, s *models.ContentSection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	next := 0
	for _, existing := range m.Sections {
		if existing.CompanyID == s.CompanyID && existing.Position >= next {
			next = existing.Position + 1
		}
	}
	cp := *s
	cp.Position = next
	m.Sections[cp.ID] = &cp
	s.Position = next
	return nil
}

func (m *Repo) GetSection(ctx context.Context, companyID int64, sectionID string) (*models.ContentSection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	if s, ok := m.Sections[sectionID]; ok && s.CompanyID == companyID {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *Repo) ListSections(ctx context.Context, companyID int64) ([]models.ContentSection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var out []models.ContentSection
	for _, s := range m.Sections {
		if s.CompanyID == companyID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Repo) UpdateSection(ctx context.Context, s *models.ContentSection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	stored, ok := m.Sections[s.ID]
	if !ok || stored.CompanyID != s.CompanyID {
		return repository.ErrNotFound
	}
	*stored = *s
	return nil
}

func (m *Repo) DeleteSection(ctx context.Context, companyID int64, sectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	if s, ok := m.Sections[sectionID]; ok && s.CompanyID == companyID {
		delete(m.Sections, sectionID)
		return nil
	}
	return repository.ErrNotFound
}

func (m *Repo) ReorderSections(ctx context.Context, companyID int64, sectionIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	// validate first so a bad id leaves every position untouched
	for _, id := range sectionIDs {
		s, ok := m.Sections[id]
		if !ok || s.CompanyID != companyID {
			return fmt.Errorf("section %s: %w", id, repository.ErrNotFound)
		}
	}
	for i, id := range sectionIDs {
		m.Sections[id].Position = i
	}
	return nil
}

// Job methods

func (m *Repo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}

	if j.Slug != "" {
		for _, existing := range m.Jobs {
			if existing.CompanyID == j.CompanyID && existing.Slug == j.Slug {
				return 0, repository.ErrSlugTaken
			}
		}
	}

	m.nextJobID++
	cp := *j
	cp.ID = m.nextJobID
	ts := m.tick()
	cp.Created, cp.Updated = ts, ts
	m.Jobs[cp.ID] = &cp
	return cp.ID, nil
}

func (m *Repo) GetJobByID(ctx context.Context, companyID, jobID int64) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	if j, ok := m.Jobs[jobID]; ok && j.CompanyID == companyID {
		cp := *j
		return &cp, nil
	}
	return nil, nil
}

func (m *Repo) GetOpenJobBySlug(ctx context.Context, companyID int64, slug string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	for _, j := range m.Jobs {
		if j.CompanyID == companyID && j.Slug != "" && j.Slug == slug && j.Status == models.JobStatusOpen {
			cp := *j
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Repo) ListOpenJobs(ctx context.Context, companyID int64, f models.JobFilters) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var out []models.Job
	for _, j := range m.Jobs {
		if j.CompanyID != companyID || j.Status != models.JobStatusOpen {
			continue
		}
		if !containsFold(j.Location, f.Location) || !containsFold(j.JobType, f.JobType) || !containsFold(j.Title, f.Search) {
			continue
		}
		out = append(out, *j)
	}
	sortJobsNewestFirst(out)
	return out, nil
}

func (m *Repo) ListJobsByCompany(ctx context.Context, companyID int64) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var out []models.Job
	for _, j := range m.Jobs {
		if j.CompanyID == companyID {
			out = append(out, *j)
		}
	}
	sortJobsNewestFirst(out)
	return out, nil
}

func (m *Repo) UpdateJob(ctx context.Context, j *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	stored, ok := m.Jobs[j.ID]
	if !ok || stored.CompanyID != j.CompanyID {
		return repository.ErrNotFound
	}
	if j.Slug != "" {
		for _, existing := range m.Jobs {
			if existing.ID != j.ID && existing.CompanyID == j.CompanyID && existing.Slug == j.Slug {
				return repository.ErrSlugTaken
			}
		}
	}
	created := stored.Created
	*stored = *j
	stored.Created = created
	stored.Updated = m.tick()
	return nil
}

func (m *Repo) DeleteJob(ctx context.Context, companyID, jobID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	if j, ok := m.Jobs[jobID]; ok && j.CompanyID == companyID {
		delete(m.Jobs, jobID)
		return nil
	}
	return repository.ErrNotFound
}

func (m *Repo) JobSlugExists(ctx context.Context, companyID int64, slug string, excludeJobID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return false, m.FailWith
	}

	if slug == "" {
		return false, nil
	}
	for _, j := range m.Jobs {
		if j.ID != excludeJobID && j.CompanyID == companyID && j.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func sortJobsNewestFirst(jobs []models.Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].Created != jobs[j].Created {
			return jobs[i].Created > jobs[j].Created
		}
		return jobs[i].ID > jobs[j].ID
	})
}
