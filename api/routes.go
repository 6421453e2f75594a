package api

import (
	"github.com/garnizeh/careers/internal/config"
	"github.com/garnizeh/careers/internal/db"
	"github.com/garnizeh/careers/internal/repository/sqlite"
	"github.com/gorilla/mux"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(db)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, repo, repo, cfg.JWTSecret, cfg.TokenDuration)
	companiesHandler := NewCompaniesHandler(repo, repo, repo)
	sectionsHandler := NewSectionsHandler(repo, repo)
	jobsHandler := NewJobsHandler(repo, repo)

	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")

	// Everything under /api is dynamic and must not be cached
	api := r.PathPrefix("/api").Subrouter()
	api.Use(NoStoreMiddleware)

	// Open endpoints
	api.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/companies/public/{slug}", companiesHandler.GetPublic).Methods("GET")
	api.HandleFunc("/companies/check-slug/{slug}", companiesHandler.CheckSlug).Methods("GET")
	api.HandleFunc("/jobs/company/{companySlug}", jobsHandler.ListOpen).Methods("GET")
	api.HandleFunc("/jobs/company/{companySlug}/{jobSlug}", jobsHandler.GetBySlug).Methods("GET")

	// Owner endpoints (JWT protected)
	myCompany := api.PathPrefix("/companies/my-company").Subrouter()
	myCompany.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))
	myCompany.HandleFunc("", companiesHandler.GetMine).Methods("GET")
	myCompany.HandleFunc("", companiesHandler.UpdateMine).Methods("PUT")
	myCompany.HandleFunc("/slug", companiesHandler.RenameSlug).Methods("PUT")
	myCompany.HandleFunc("/sections", sectionsHandler.Append).Methods("POST")
	// reorder must be registered before the {sectionID} routes
	myCompany.HandleFunc("/sections/reorder", sectionsHandler.Reorder).Methods("PUT")
	myCompany.HandleFunc("/sections/{sectionID}", sectionsHandler.Update).Methods("PUT")
	myCompany.HandleFunc("/sections/{sectionID}", sectionsHandler.Delete).Methods("DELETE")

	myJobs := api.PathPrefix("/jobs").Subrouter()
	myJobs.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))
	myJobs.HandleFunc("/my-jobs", jobsHandler.ListMine).Methods("GET")
	myJobs.HandleFunc("/my-jobs", jobsHandler.Create).Methods("POST")
	myJobs.HandleFunc("/my-jobs/{jobID}", jobsHandler.Update).Methods("PUT")
	myJobs.HandleFunc("/my-jobs/{jobID}", jobsHandler.Delete).Methods("DELETE")
	myJobs.HandleFunc("/check-slug/{slug}", jobsHandler.CheckSlug).Methods("GET")

	return r
}
