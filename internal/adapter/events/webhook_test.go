package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/multicurrency-ledger/internal/domain"
)

func TestWebhookNotifierPublishesEvent(t *testing.T) {
	var got domain.AccountEvent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL)
	event := domain.AccountEvent{
		ID:        "evt-1",
		EventType: domain.EventBalanceChanged,
		AccountID: "acc-1",
		UserID:    "user-1",
		Balance:   decimal.RequireFromString("400.00"),
		Currency:  domain.CurrencyRUB,
		Timestamp: time.Now().UTC(),
		Message:   "withdrew 600.00 RUB",
	}

	if err := notifier.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got.ID != "evt-1" || got.EventType != domain.EventBalanceChanged || got.AccountID != "acc-1" {
		t.Fatalf("unexpected delivered event %+v", got)
	}
}

func TestWebhookNotifierReportsSinkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL)
	if err := notifier.Publish(context.Background(), domain.AccountEvent{ID: "evt-1"}); err == nil {
		t.Fatal("expected error for non-2xx sink response")
	}
}
