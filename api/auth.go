package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/garnizeh/careers/internal/slug"
	"github.com/garnizeh/careers/pkg/models"
	"github.com/garnizeh/careers/pkg/repository"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type AuthHandler struct {
	accountRepo   repository.AccountRepo
	registryRepo  repository.RegistryRepo
	companyRepo   repository.CompanyRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ar repository.AccountRepo, rr repository.RegistryRepo, cr repository.CompanyRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{accountRepo: ar, registryRepo: rr, companyRepo: cr, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	CompanyName string `json:"company_name" validate:"required"`
	Slug        string `json:"slug" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type accountPayload struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	CompanySlug string `json:"company_slug"`
}

type authResponse struct {
	Token   string         `json:"token"`
	Account accountPayload `json:"account"`
}

// Register creates the account and its company in a single storage
// transaction, so a lost slug race never leaves an orphaned account behind.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "missing or invalid fields", http.StatusBadRequest)
		return
	}

	normalized, err := slug.Normalize(req.Slug)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ctx := r.Context()

	account := models.Account{
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	company := models.Company{
		Slug:  normalized,
		Name:  req.CompanyName,
		Brand: models.DefaultBrand(),
	}

	accountID, _, err := h.registryRepo.RegisterAccount(ctx, &account, &company)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	tokenStr, err := h.signToken(accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, authResponse{
		Token:   tokenStr,
		Account: accountPayload{ID: accountID, Email: req.Email, CompanySlug: normalized},
	}, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "missing or invalid fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	// Unknown email and wrong password answer identically.
	account, err := h.accountRepo.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if account == nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	company, err := h.companyRepo.GetCompanyByAccountID(ctx, account.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	companySlug := ""
	if company != nil {
		companySlug = company.Slug
	}

	tokenStr, err := h.signToken(account.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, authResponse{
		Token:   tokenStr,
		Account: accountPayload{ID: account.ID, Email: account.Email, CompanySlug: companySlug},
	}, http.StatusOK)
}

func (h *AuthHandler) signToken(accountID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": accountID,
		"exp":        time.Now().Add(h.tokenDuration).Unix(),
	})

	return token.SignedString([]byte(h.jwtSecret))
}
