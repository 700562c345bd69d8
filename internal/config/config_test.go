package config

import "testing"

func TestNormalizeConnectionStringSemicolonFormat(t *testing.T) {
	got := normalizeConnectionString("Host=db.local;Port=5433;Database=ledger_db;Username=app;Password=secret;Timeout=30;CommandTimeout=30")
	want := "host=db.local port=5433 dbname=ledger_db user=app password=secret connect_timeout=30 statement_timeout=30s sslmode=disable"
	if got != want {
		t.Fatalf("unexpected dsn\n got: %s\nwant: %s", got, want)
	}
}

func TestNormalizeConnectionStringKeepsExplicitSSLMode(t *testing.T) {
	got := normalizeConnectionString("Host=db.local;Database=ledger_db;sslmode=require")
	want := "host=db.local dbname=ledger_db sslmode=require"
	if got != want {
		t.Fatalf("unexpected dsn\n got: %s\nwant: %s", got, want)
	}
}

func TestNormalizeConnectionStringPassThrough(t *testing.T) {
	raw := "totally opaque"
	if got := normalizeConnectionString(raw); got != raw {
		t.Fatalf("expected pass-through for non key-value input, got %s", got)
	}
}
