package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func authHandler(t *testing.T, channelID, channelKey string) http.Handler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(channelKey), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash channel key: %v", err)
	}
	return BasicAuth(channelID, hash)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestBasicAuthAcceptsValidCredentials(t *testing.T) {
	handler := authHandler(t, "LedgerApp", "LedgerKey001")

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req.SetBasicAuth("LedgerApp", "LedgerKey001")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestBasicAuthRejectsWrongKey(t *testing.T) {
	handler := authHandler(t, "LedgerApp", "LedgerKey001")

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req.SetBasicAuth("LedgerApp", "wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBasicAuthRejectsMissingHeader(t *testing.T) {
	handler := authHandler(t, "LedgerApp", "LedgerKey001")

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBasicAuthRejectsMissingConfiguration(t *testing.T) {
	handler := BasicAuth("", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req.SetBasicAuth("LedgerApp", "LedgerKey001")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
