package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/garnizeh/careers/internal/slug"
	"github.com/garnizeh/careers/pkg/models"
	"github.com/garnizeh/careers/pkg/repository"
	"github.com/gorilla/mux"
)

type CompaniesHandler struct {
	companyRepo  repository.CompanyRepo
	sectionRepo  repository.SectionRepo
	registryRepo repository.RegistryRepo
}

func NewCompaniesHandler(cr repository.CompanyRepo, sr repository.SectionRepo, rr repository.RegistryRepo) *CompaniesHandler {
	return &CompaniesHandler{companyRepo: cr, sectionRepo: sr, registryRepo: rr}
}

// GetPublic serves the careers page payload. The published flag travels with
// the response but does not gate access; the frontend decides how to render a
// draft profile.
func (h *CompaniesHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	normalized, err := slug.Normalize(mux.Vars(r)["slug"])
	if err != nil {
		// a malformed address can never name a company
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}

	company, err := h.companyRepo.GetCompanyBySlug(r.Context(), normalized)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if company == nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}

	if err := attachSections(r.Context(), h.sectionRepo, company); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, company, http.StatusOK)
}

type checkSlugResponse struct {
	Available bool `json:"available"`
}

// CheckSlug is advisory; the UNIQUE constraint still decides at write time.
// A malformed candidate is reported as unavailable rather than an error.
func (h *CompaniesHandler) CheckSlug(w http.ResponseWriter, r *http.Request) {
	normalized, err := slug.Normalize(mux.Vars(r)["slug"])
	if err != nil {
		writeJSON(w, checkSlugResponse{Available: false}, http.StatusOK)
		return
	}

	available, err := h.registryRepo.SlugAvailable(r.Context(), normalized)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, checkSlugResponse{Available: available}, http.StatusOK)
}

func (h *CompaniesHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	company, err := loadProfile(r.Context(), h.companyRepo, h.sectionRepo, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if company == nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}

	writeJSON(w, company, http.StatusOK)
}

type brandPatch struct {
	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
	Logo           *string `json:"logo"`
	Banner         *string `json:"banner"`
	CultureVideo   *string `json:"culture_video"`
	Subtitle       *string `json:"subtitle"`
}

type updateCompanyRequest struct {
	Name      *string     `json:"name"`
	Published *bool       `json:"published"`
	Brand     *brandPatch `json:"brand"`
}

// UpdateMine merges the provided fields into the profile; absent fields keep
// their stored values. The slug has its own endpoint and is never touched here.
func (h *CompaniesHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req updateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	company, err := h.companyRepo.GetCompanyByAccountID(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if company == nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			http.Error(w, "name cannot be empty", http.StatusBadRequest)
			return
		}
		company.Name = *req.Name
	}
	if req.Published != nil {
		company.Published = *req.Published
	}
	if req.Brand != nil {
		applyBrandPatch(&company.Brand, req.Brand)
	}

	if err := h.companyRepo.UpdateCompany(ctx, company); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := attachSections(ctx, h.sectionRepo, company); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, company, http.StatusOK)
}

type renameSlugRequest struct {
	Slug string `json:"slug"`
}

// RenameSlug moves the profile to a new address. The claim is a single
// conditional UPDATE: on conflict nothing changes and the current slug keeps
// serving; on success the old slug is released immediately.
func (h *CompaniesHandler) RenameSlug(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req renameSlugRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	normalized, err := slug.Normalize(req.Slug)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ctx := r.Context()

	if err := h.registryRepo.RenameCompanySlug(ctx, id, normalized); err != nil {
		writeDomainError(w, err)
		return
	}

	company, err := loadProfile(ctx, h.companyRepo, h.sectionRepo, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if company == nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}

	writeJSON(w, company, http.StatusOK)
}

func applyBrandPatch(b *models.Brand, p *brandPatch) {
	if p.PrimaryColor != nil {
		b.PrimaryColor = *p.PrimaryColor
	}
	if p.SecondaryColor != nil {
		b.SecondaryColor = *p.SecondaryColor
	}
	if p.Logo != nil {
		b.Logo = *p.Logo
	}
	if p.Banner != nil {
		b.Banner = *p.Banner
	}
	if p.CultureVideo != nil {
		b.CultureVideo = *p.CultureVideo
	}
	if p.Subtitle != nil {
		b.Subtitle = *p.Subtitle
	}
}

// loadProfile fetches the owner's company with its sections attached, ordered
// by ascending position. Returns (nil, nil) when the account owns no company.
func loadProfile(ctx context.Context, cr repository.CompanyRepo, sr repository.SectionRepo, accountID int64) (*models.Company, error) {
	company, err := cr.GetCompanyByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}

	if err := attachSections(ctx, sr, company); err != nil {
		return nil, err
	}

	return company, nil
}

func attachSections(ctx context.Context, sr repository.SectionRepo, company *models.Company) error {
	sections, err := sr.ListSections(ctx, company.ID)
	if err != nil {
		return err
	}
	if sections == nil {
		sections = []models.ContentSection{}
	}
	company.Sections = sections

	return nil
}
