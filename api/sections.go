package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/garnizeh/careers/pkg/models"
	"github.com/garnizeh/careers/pkg/repository"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type SectionsHandler struct {
	companyRepo repository.CompanyRepo
	sectionRepo repository.SectionRepo
}

func NewSectionsHandler(cr repository.CompanyRepo, sr repository.SectionRepo) *SectionsHandler {
	return &SectionsHandler{companyRepo: cr, sectionRepo: sr}
}

type sectionRequest struct {
	Type    string `json:"type" validate:"required,oneof=about life benefits values custom"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Append adds a section at the end of the profile. The order key is assigned
// by storage (max+1, or 0 for an empty profile), so concurrent appends from
// two editor tabs cannot collide.
func (h *SectionsHandler) Append(w http.ResponseWriter, r *http.Request) {
	company, ok := h.ownCompany(w, r)
	if !ok {
		return
	}

	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "missing or invalid fields", http.StatusBadRequest)
		return
	}

	section := models.ContentSection{
		ID:        uuid.NewString(),
		CompanyID: company.ID,
		Type:      req.Type,
		Title:     req.Title,
		Content:   req.Content,
	}
	if err := h.sectionRepo.AppendSection(r.Context(), &section); err != nil {
		writeDomainError(w, err)
		return
	}

	h.respondProfile(w, r, company, http.StatusCreated)
}

type updateSectionRequest struct {
	Type    *string `json:"type"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Order   *int    `json:"order"`
}

func (h *SectionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	company, ok := h.ownCompany(w, r)
	if !ok {
		return
	}

	var req updateSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	section, err := h.sectionRepo.GetSection(ctx, company.ID, mux.Vars(r)["sectionID"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if section == nil {
		http.Error(w, "section not found", http.StatusNotFound)
		return
	}

	if req.Type != nil {
		if !validSectionType(*req.Type) {
			http.Error(w, "invalid section type", http.StatusBadRequest)
			return
		}
		section.Type = *req.Type
	}
	if req.Title != nil {
		section.Title = *req.Title
	}
	if req.Content != nil {
		section.Content = *req.Content
	}
	if req.Order != nil {
		section.Position = *req.Order
	}

	if err := h.sectionRepo.UpdateSection(ctx, section); err != nil {
		writeDomainError(w, err)
		return
	}

	h.respondProfile(w, r, company, http.StatusOK)
}

// Delete removes the section and leaves the remaining order keys untouched;
// relative order is preserved and gaps persist until an explicit reorder.
func (h *SectionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	company, ok := h.ownCompany(w, r)
	if !ok {
		return
	}

	if err := h.sectionRepo.DeleteSection(r.Context(), company.ID, mux.Vars(r)["sectionID"]); err != nil {
		writeDomainError(w, err)
		return
	}

	h.respondProfile(w, r, company, http.StatusOK)
}

type reorderRequest struct {
	SectionIDs []string `json:"section_ids"`
}

// Reorder assigns each listed section the order key equal to its index. An id
// that does not belong to the profile rejects the whole request and reorders
// nothing; sections left out of a partial list keep their current keys.
func (h *SectionsHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	company, ok := h.ownCompany(w, r)
	if !ok {
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if len(req.SectionIDs) == 0 {
		http.Error(w, "section_ids is required", http.StatusBadRequest)
		return
	}
	if hasDuplicates(req.SectionIDs) {
		http.Error(w, "duplicate section id", http.StatusBadRequest)
		return
	}

	if err := h.sectionRepo.ReorderSections(r.Context(), company.ID, req.SectionIDs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "unknown section id", http.StatusBadRequest)
			return
		}

		writeDomainError(w, err)
		return
	}

	h.respondProfile(w, r, company, http.StatusOK)
}

// ownCompany resolves the caller's company or writes the failure response.
func (h *SectionsHandler) ownCompany(w http.ResponseWriter, r *http.Request) (*models.Company, bool) {
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

func (h *SectionsHandler) respondProfile(w http.ResponseWriter, r *http.Request, company *models.Company, status int) {
	if err := attachSections(r.Context(), h.sectionRepo, company); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, company, status)
}

func validSectionType(t string) bool {
	switch t {
	case models.SectionAbout, models.SectionLife, models.SectionBenefits, models.SectionValues, models.SectionCustom:
		return true
	}

	return false
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}

	return false
}
