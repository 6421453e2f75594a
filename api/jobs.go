package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/garnizeh/careers/internal/slug"
	"github.com/garnizeh/careers/pkg/models"
	"github.com/garnizeh/careers/pkg/repository"
	"github.com/gorilla/mux"
)

type JobsHandler struct {
	companyRepo repository.CompanyRepo
	jobRepo     repository.JobRepo
}

func NewJobsHandler(cr repository.CompanyRepo, jr repository.JobRepo) *JobsHandler {
	return &JobsHandler{companyRepo: cr, jobRepo: jr}
}

// ListOpen serves the public job board for a company. Only open postings are
// visible; filters are case-insensitive substring matches.
func (h *JobsHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	companySlug, err := slug.Normalize(mux.Vars(r)["companySlug"])
	if err != nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}

	company, err := h.companyRepo.GetCompanyBySlug(r.Context(), companySlug)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if company == nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	filters := models.JobFilters{
		Location: q.Get("location"),
		JobType:  q.Get("jobType"),
		Search:   q.Get("search"),
	}

	jobs, err := h.jobRepo.ListOpenJobs(r.Context(), company.ID, filters)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	writeJSON(w, jobs, http.StatusOK)
}

// GetBySlug resolves a posting by its public address. A closed posting is
// indistinguishable from an absent one through this path.
func (h *JobsHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companySlug, err := slug.Normalize(vars["companySlug"])
	if err != nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}
	jobSlug, err := slug.Normalize(vars["jobSlug"])
	if err != nil {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	company, err := h.companyRepo.GetCompanyBySlug(r.Context(), companySlug)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if company == nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}

	job, err := h.jobRepo.GetOpenJobBySlug(r.Context(), company.ID, jobSlug)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if job == nil {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	writeJSON(w, job, http.StatusOK)
}

func (h *JobsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	company, ok := h.ownCompany(w, r)
	if !ok {
		return
	}

	jobs, err := h.jobRepo.ListJobsByCompany(r.Context(), company.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	writeJSON(w, jobs, http.StatusOK)
}

type jobRequest struct {
	Title        string             `json:"title" validate:"required"`
	Slug         string             `json:"slug"`
	Department   string             `json:"department"`
	Location     string             `json:"location" validate:"required"`
	JobType      string             `json:"job_type" validate:"required,oneof=full-time part-time contract internship remote"`
	Description  string             `json:"description" validate:"required"`
	Requirements []string           `json:"requirements"`
	Salary       models.SalaryRange `json:"salary"`
	Status       string             `json:"status" validate:"omitempty,oneof=open closed"`
}

// Create validates the posting and claims the optional slug. The pre-insert
// existence check gives a friendly answer in the common case; the partial
// unique index still decides races at write time.
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	company, ok := h.ownCompany(w, r)
	if !ok {
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "missing or invalid fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	if req.Slug != "" {
		normalized, err := slug.Normalize(req.Slug)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		req.Slug = normalized

		taken, err := h.jobRepo.JobSlugExists(ctx, company.ID, req.Slug, 0)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if taken {
			writeDomainError(w, repository.ErrSlugTaken)
			return
		}
	}

	if req.Status == "" {
		req.Status = models.JobStatusOpen
	}

	job := models.Job{
		CompanyID:    company.ID,
		Title:        req.Title,
		Slug:         req.Slug,
		Department:   req.Department,
		Location:     req.Location,
		JobType:      req.JobType,
		Description:  req.Description,
		Requirements: req.Requirements,
		Salary:       req.Salary,
		Status:       req.Status,
	}

	id, err := h.jobRepo.CreateJob(ctx, &job)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	created, err := h.jobRepo.GetJobByID(ctx, company.ID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}

type updateJobRequest struct {
	Title        *string             `json:"title"`
	Slug         *string             `json:"slug"`
	Department   *string             `json:"department"`
	Location     *string             `json:"location"`
	JobType      *string             `json:"job_type"`
	Description  *string             `json:"description"`
	Requirements *[]string           `json:"requirements"`
	Salary       *models.SalaryRange `json:"salary"`
	Status       *string             `json:"status"`
}

// Update merges the provided fields into the posting. Setting slug to the
// empty string releases it; a non-empty slug is re-checked against the
// company's other postings, excluding the posting itself.
func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	company, ok := h.ownCompany(w, r)
	if !ok {
		return
	}

	jobID, err := strconv.ParseInt(mux.Vars(r)["jobID"], 10, 64)
	if err != nil || jobID <= 0 {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	job, err := h.jobRepo.GetJobByID(ctx, company.ID, jobID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if job == nil {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			http.Error(w, "title cannot be empty", http.StatusBadRequest)
			return
		}
		job.Title = *req.Title
	}
	if req.Slug != nil {
		if *req.Slug == "" {
			job.Slug = ""
		} else {
			normalized, err := slug.Normalize(*req.Slug)
			if err != nil {
				writeDomainError(w, err)
				return
			}

			taken, err := h.jobRepo.JobSlugExists(ctx, company.ID, normalized, job.ID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			if taken {
				writeDomainError(w, repository.ErrSlugTaken)
				return
			}
			job.Slug = normalized
		}
	}
	if req.Department != nil {
		job.Department = *req.Department
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.JobType != nil {
		if !validJobType(*req.JobType) {
			http.Error(w, "invalid job type", http.StatusBadRequest)
			return
		}
		job.JobType = *req.JobType
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = *req.Requirements
	}
	if req.Salary != nil {
		job.Salary = *req.Salary
	}
	if req.Status != nil {
		if *req.Status != models.JobStatusOpen && *req.Status != models.JobStatusClosed {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		job.Status = *req.Status
	}

	if err := h.jobRepo.UpdateJob(ctx, job); err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := h.jobRepo.GetJobByID(ctx, company.ID, job.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, updated, http.StatusOK)
}

func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	company, ok := h.ownCompany(w, r)
	if !ok {
		return
	}

	jobID, err := strconv.ParseInt(mux.Vars(r)["jobID"], 10, 64)
	if err != nil || jobID <= 0 {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return
	}

	if err := h.jobRepo.DeleteJob(r.Context(), company.ID, jobID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, map[string]string{"message": "job deleted"}, http.StatusOK)
}

// CheckSlug is the advisory availability probe for job slugs, scoped to the
// caller's company. An `exclude` query parameter skips the posting being
// edited so its current slug reads as available.
func (h *JobsHandler) CheckSlug(w http.ResponseWriter, r *http.Request) {
	company, ok := h.ownCompany(w, r)
	if !ok {
		return
	}

	normalized, err := slug.Normalize(mux.Vars(r)["slug"])
	if err != nil {
		writeJSON(w, checkSlugResponse{Available: false}, http.StatusOK)
		return
	}

	var excludeID int64
	if e := r.URL.Query().Get("exclude"); e != "" {
		if v, err := strconv.ParseInt(e, 10, 64); err == nil && v > 0 {
			excludeID = v
		}
	}

	taken, err := h.jobRepo.JobSlugExists(r.Context(), company.ID, normalized, excludeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, checkSlugResponse{Available: !taken}, http.StatusOK)
}

func (h *JobsHandler) ownCompany(w http.ResponseWriter, r *http.Request) (*models.Company, bool) {
	id, ok := accountID(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return nil, false
	}

	company, err := h.companyRepo.GetCompanyByAccountID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	if company == nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return nil, false
	}

	return company, true
}

func validJobType(t string) bool {
	switch t {
	case models.JobTypeFullTime, models.JobTypePartTime, models.JobTypeContract, models.JobTypeInternship, models.JobTypeRemote:
		return true
	}

	return false
}
