package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/garnizeh/careers/api"
	"github.com/garnizeh/careers/pkg/models"
	"github.com/garnizeh/careers/pkg/repository/mock"
)

// seedCompany registers an account with its company in the mock and returns
// both ids.
func seedCompany(t *testing.T, repo *mock.Repo, email, companySlug string) (int64, int64) {
	t.Helper()

	a := &models.Account{Email: email, PasswordHash: "irrelevant"}
	c := &models.Company{Slug: companySlug, Name: "Acme", Brand: models.DefaultBrand()}
	accountID, companyID, err := repo.RegisterAccount(context.Background(), a, c)
	if err != nil {
		t.Fatalf("seed company: %v", err)
	}

	return accountID, companyID
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()

	if v == nil {
		return nil
	}
	// raw strings are sent as-is so tests can exercise malformed payloads
	if s, ok := v.(string); ok {
		return bytes.NewReader([]byte(s))
	}

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	return bytes.NewReader(b)
}

// authedRequest builds a request carrying the account id the JWT middleware
// would have placed into the context.
func authedRequest(method, path string, body io.Reader, accountID int64) *http.Request {
	req := httptest.NewRequest(method, path, body)
	ctx := context.WithValue(req.Context(), api.CtxAccountID, accountID)

	return req.WithContext(ctx)
}

func decodeCompany(t *testing.T, b []byte) models.Company {
	t.Helper()

	var c models.Company
	if err := json.Unmarshal(b, &c); err != nil {
		t.Fatalf("unmarshal company: %v (body=%s)", err, string(b))
	}

	return c
}
