package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/garnizeh/careers/api"
	"github.com/garnizeh/careers/pkg/models"
	"github.com/garnizeh/careers/pkg/repository/mock"
	"github.com/gorilla/mux"
)

func seedJob(t *testing.T, repo *mock.Repo, companyID int64, j models.Job) int64 {
	t.Helper()

	j.CompanyID = companyID
	if j.Status == "" {
		j.Status = models.JobStatusOpen
	}
	id, err := repo.CreateJob(context.Background(), &j)
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}

	return id
}

func decodeJobs(t *testing.T, b []byte) []models.Job {
	t.Helper()

	var jobs []models.Job
	if err := json.Unmarshal(b, &jobs); err != nil {
		t.Fatalf("unmarshal jobs: %v (body=%s)", err, string(b))
	}

	return jobs
}

func TestListOpenJobs_Public(t *testing.T) {
	repo := mock.NewRepo()
	_, companyID := seedCompany(t, repo, "alice@example.com", "acme")
	seedJob(t, repo, companyID, models.Job{Title: "Backend Engineer", Location: "Berlin", JobType: models.JobTypeFullTime, Description: "Go services"})
	seedJob(t, repo, companyID, models.Job{Title: "Frontend Engineer", Location: "Remote", JobType: models.JobTypeRemote, Description: "UI work"})
	seedJob(t, repo, companyID, models.Job{Title: "Old Role", Location: "Berlin", JobType: models.JobTypeFullTime, Description: "gone", Status: models.JobStatusClosed})
	handler := api.NewJobsHandler(repo, repo)

	list := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req = mux.SetURLVars(req, map[string]string{"companySlug": "acme"})
		w := httptest.NewRecorder()
		handler.ListOpen(w, req)
		return w
	}

	w := list("/jobs/company/acme")
	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	jobs := decodeJobs(t, b)
	if len(jobs) != 2 {
		t.Fatalf("closed posting leaked into the public list: %+v", jobs)
	}
	// newest first
	if jobs[0].Title != "Frontend Engineer" {
		t.Fatalf("expected newest posting first, got %q", jobs[0].Title)
	}

	// filters are case-insensitive substring matches
	b, _ = io.ReadAll(list("/jobs/company/acme?location=berl").Result().Body)
	if jobs := decodeJobs(t, b); len(jobs) != 1 || jobs[0].Title != "Backend Engineer" {
		t.Fatalf("location filter: %+v", jobs)
	}
	b, _ = io.ReadAll(list("/jobs/company/acme?jobType=remote").Result().Body)
	if jobs := decodeJobs(t, b); len(jobs) != 1 || jobs[0].Title != "Frontend Engineer" {
		t.Fatalf("jobType filter: %+v", jobs)
	}
	b, _ = io.ReadAll(list("/jobs/company/acme?search=ENGINEER").Result().Body)
	if jobs := decodeJobs(t, b); len(jobs) != 2 {
		t.Fatalf("search filter: %+v", jobs)
	}
	b, _ = io.ReadAll(list("/jobs/company/acme?search=nothing").Result().Body)
	if jobs := decodeJobs(t, b); len(jobs) != 0 {
		t.Fatalf("expected empty list, got %+v", jobs)
	}

	// unknown company
	req := httptest.NewRequest(http.MethodGet, "/jobs/company/nope", nil)
	req = mux.SetURLVars(req, map[string]string{"companySlug": "nope"})
	w = httptest.NewRecorder()
	handler.ListOpen(w, req)
	if w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("unknown company: expected 404, got %d", w.Result().StatusCode)
	}
}

func TestGetJobBySlug_Public(t *testing.T) {
	repo := mock.NewRepo()
	_, companyID := seedCompany(t, repo, "alice@example.com", "acme")
	seedJob(t, repo, companyID, models.Job{Title: "Backend Engineer", Slug: "backend", Location: "Berlin", JobType: models.JobTypeFullTime, Description: "Go"})
	seedJob(t, repo, companyID, models.Job{Title: "Closed Role", Slug: "closed-role", Location: "Berlin", JobType: models.JobTypeFullTime, Description: "x", Status: models.JobStatusClosed})
	handler := api.NewJobsHandler(repo, repo)

	get := func(companySlug, jobSlug string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/jobs/company/"+companySlug+"/"+jobSlug, nil)
		req = mux.SetURLVars(req, map[string]string{"companySlug": companySlug, "jobSlug": jobSlug})
		w := httptest.NewRecorder()
		handler.GetBySlug(w, req)
		return w
	}

	w := get("acme", "backend")
	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var job models.Job
	b, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(b, &job); err != nil || job.Slug != "backend" {
		t.Fatalf("unexpected job payload: %s err=%v", string(b), err)
	}

	// a closed posting is indistinguishable from an absent one
	if w := get("acme", "closed-role"); w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("closed posting: expected 404, got %d", w.Result().StatusCode)
	}
	if w := get("acme", "missing"); w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("missing posting: expected 404, got %d", w.Result().StatusCode)
	}
	if w := get("nope", "backend"); w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("unknown company: expected 404, got %d", w.Result().StatusCode)
	}
}

func TestCreateJob(t *testing.T) {
	repo := mock.NewRepo()
	accountID, _ := seedCompany(t, repo, "alice@example.com", "acme")
	handler := api.NewJobsHandler(repo, repo)

	create := func(body any) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.Create(w, authedRequest(http.MethodPost, "/jobs/my-jobs", jsonBody(t, body), accountID))
		return w
	}

	valid := map[string]any{
		"title":        "Backend Engineer",
		"slug":         "backend",
		"location":     "Berlin",
		"job_type":     "full-time",
		"description":  "Build Go services",
		"requirements": []string{"Go", "SQL"},
		"salary":       map[string]any{"min": 60000, "max": 90000, "currency": "EUR"},
	}
	w := create(valid)
	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201, got %d body=%s", res.StatusCode, string(b))
	}
	var job models.Job
	b, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(b, &job); err != nil {
		t.Fatalf("unmarshal job: %v", err)
	}
	if job.ID == 0 || job.Status != models.JobStatusOpen {
		t.Fatalf("status should default to open and id be assigned: %+v", job)
	}
	if job.Salary.Min == nil || *job.Salary.Min != 60000 || job.Salary.Currency != "EUR" {
		t.Fatalf("salary lost: %+v", job.Salary)
	}

	// same slug again under the same company
	if w := create(valid); w.Result().StatusCode != http.StatusConflict {
		t.Fatalf("duplicate slug: expected 409, got %d", w.Result().StatusCode)
	}

	// a slugless posting carries no uniqueness constraint; two are fine
	slugless := map[string]any{"title": "Temp", "location": "Remote", "job_type": "contract", "description": "x"}
	if w := create(slugless); w.Result().StatusCode != http.StatusCreated {
		t.Fatalf("slugless: expected 201, got %d", w.Result().StatusCode)
	}
	if w := create(slugless); w.Result().StatusCode != http.StatusCreated {
		t.Fatalf("second slugless: expected 201, got %d", w.Result().StatusCode)
	}

	cases := []struct {
		name string
		body map[string]any
	}{
		{name: "MissingTitle", body: map[string]any{"location": "Berlin", "job_type": "full-time", "description": "x"}},
		{name: "BadJobType", body: map[string]any{"title": "T", "location": "Berlin", "job_type": "gig", "description": "x"}},
		{name: "BadStatus", body: map[string]any{"title": "T", "location": "Berlin", "job_type": "full-time", "description": "x", "status": "draft"}},
		{name: "MalformedSlug", body: map[string]any{"title": "T", "location": "Berlin", "job_type": "full-time", "description": "x", "slug": "bad slug!"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if w := create(c.body); w.Result().StatusCode != http.StatusBadRequest {
				t.Fatalf("%s: expected 400, got %d", c.name, w.Result().StatusCode)
			}
		})
	}
}

func TestUpdateJob(t *testing.T) {
	repo := mock.NewRepo()
	accountID, companyID := seedCompany(t, repo, "alice@example.com", "acme")
	jobID := seedJob(t, repo, companyID, models.Job{Title: "Backend Engineer", Slug: "backend", Location: "Berlin", JobType: models.JobTypeFullTime, Description: "Go"})
	seedJob(t, repo, companyID, models.Job{Title: "Other", Slug: "other", Location: "Berlin", JobType: models.JobTypeFullTime, Description: "x"})
	handler := api.NewJobsHandler(repo, repo)

	update := func(id string, body any) *httptest.ResponseRecorder {
		req := authedRequest(http.MethodPut, "/jobs/my-jobs/"+id, jsonBody(t, body), accountID)
		req = mux.SetURLVars(req, map[string]string{"jobID": id})
		w := httptest.NewRecorder()
		handler.Update(w, req)
		return w
	}

	// close the posting, leave everything else alone
	w := update("1", map[string]any{"status": "closed"})
	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 200, got %d body=%s", res.StatusCode, string(b))
	}
	var job models.Job
	b, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(b, &job); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if job.Status != models.JobStatusClosed || job.Title != "Backend Engineer" || job.Slug != "backend" {
		t.Fatalf("patch touched unrelated fields: %+v", job)
	}

	// keeping its own slug is not a conflict
	if w := update("1", map[string]any{"slug": "backend"}); w.Result().StatusCode != http.StatusOK {
		t.Fatalf("own slug: expected 200, got %d", w.Result().StatusCode)
	}
	// another posting's slug is
	if w := update("1", map[string]any{"slug": "other"}); w.Result().StatusCode != http.StatusConflict {
		t.Fatalf("taken slug: expected 409, got %d", w.Result().StatusCode)
	}
	// clearing the slug releases it
	if w := update("1", map[string]any{"slug": ""}); w.Result().StatusCode != http.StatusOK {
		t.Fatalf("clear slug: expected 200, got %d", w.Result().StatusCode)
	}
	stored, err := repo.GetJobByID(context.Background(), companyID, jobID)
	if err != nil || stored == nil || stored.Slug != "" {
		t.Fatalf("slug not cleared: %+v err=%v", stored, err)
	}

	if w := update("1", map[string]any{"job_type": "gig"}); w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("bad job type: expected 400, got %d", w.Result().StatusCode)
	}
	if w := update("999", map[string]any{"title": "X"}); w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", w.Result().StatusCode)
	}
	if w := update("abc", map[string]any{"title": "X"}); w.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", w.Result().StatusCode)
	}
}

func TestDeleteJob(t *testing.T) {
	repo := mock.NewRepo()
	accountID, companyID := seedCompany(t, repo, "alice@example.com", "acme")
	jobID := seedJob(t, repo, companyID, models.Job{Title: "Backend Engineer", Location: "Berlin", JobType: models.JobTypeFullTime, Description: "Go"})
	handler := api.NewJobsHandler(repo, repo)

	del := func(id string) *httptest.ResponseRecorder {
		req := authedRequest(http.MethodDelete, "/jobs/my-jobs/"+id, nil, accountID)
		req = mux.SetURLVars(req, map[string]string{"jobID": id})
		w := httptest.NewRecorder()
		handler.Delete(w, req)
		return w
	}

	if w := del("1"); w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}
	if stored, _ := repo.GetJobByID(context.Background(), companyID, jobID); stored != nil {
		t.Fatalf("job still present after delete")
	}
	if w := del("1"); w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", w.Result().StatusCode)
	}
}

func TestListMyJobs(t *testing.T) {
	repo := mock.NewRepo()
	accountID, companyID := seedCompany(t, repo, "alice@example.com", "acme")
	seedJob(t, repo, companyID, models.Job{Title: "Open Role", Location: "Berlin", JobType: models.JobTypeFullTime, Description: "x"})
	seedJob(t, repo, companyID, models.Job{Title: "Closed Role", Location: "Berlin", JobType: models.JobTypeFullTime, Description: "x", Status: models.JobStatusClosed})
	handler := api.NewJobsHandler(repo, repo)

	w := httptest.NewRecorder()
	handler.ListMine(w, authedRequest(http.MethodGet, "/jobs/my-jobs", nil, accountID))
	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	jobs := decodeJobs(t, b)
	// the owner sees every status, newest first
	if len(jobs) != 2 || jobs[0].Title != "Closed Role" {
		t.Fatalf("unexpected owner listing: %+v", jobs)
	}
}

func TestCheckJobSlug(t *testing.T) {
	repo := mock.NewRepo()
	accountID, companyID := seedCompany(t, repo, "alice@example.com", "acme")
	seedJob(t, repo, companyID, models.Job{Title: "Backend", Slug: "backend", Location: "Berlin", JobType: models.JobTypeFullTime, Description: "x"})

	// same slug under a different company does not collide
	_, otherCompanyID := seedCompany(t, repo, "bob@example.com", "globex")
	seedJob(t, repo, otherCompanyID, models.Job{Title: "Backend", Slug: "frontend", Location: "NYC", JobType: models.JobTypeFullTime, Description: "x"})

	handler := api.NewJobsHandler(repo, repo)

	check := func(slug, query string) bool {
		req := authedRequest(http.MethodGet, "/jobs/check-slug/"+url.PathEscape(slug)+query, nil, accountID)
		req = mux.SetURLVars(req, map[string]string{"slug": slug})
		w := httptest.NewRecorder()
		handler.CheckSlug(w, req)
		res := w.Result()
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("check-slug %q: expected 200, got %d", slug, res.StatusCode)
		}
		var body struct {
			Available bool `json:"available"`
		}
		b, _ := io.ReadAll(res.Body)
		if err := json.Unmarshal(b, &body); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return body.Available
	}

	if check("backend", "") {
		t.Fatalf("own company's slug should be taken")
	}
	if !check("frontend", "") {
		t.Fatalf("another company's slug should be available here")
	}
	if !check("backend", "?exclude=1") {
		t.Fatalf("excluding the posting itself should free its slug")
	}
	if check("bad slug!", "") {
		t.Fatalf("malformed slug should read unavailable")
	}
}
