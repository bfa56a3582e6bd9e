package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Ingest: IngestConfig{ChunkSize: 500, ChunkOverlap: 50},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_OverlapNotSmallerThanSize(t *testing.T) {
	cfg := validConfig()
	cfg.Ingest.ChunkSize = 50
	cfg.Ingest.ChunkOverlap = 50

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for overlap >= size")
	}
}

func TestValidate_PartialBootstrap(t *testing.T) {
	cfg := validConfig()
	cfg.Bootstrap.AdminEmail = "admin@example.com"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for admin email without password")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Ingest.ChunkSize != 500 {
		t.Errorf("expected default chunk size 500, got %d", cfg.Ingest.ChunkSize)
	}
	if cfg.Ingest.ChunkOverlap != 50 {
		t.Errorf("expected default chunk overlap 50, got %d", cfg.Ingest.ChunkOverlap)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("expected default top_k 3, got %d", cfg.Retrieval.TopK)
	}
	if cfg.LogStore.Path != "logs.db" {
		t.Errorf("expected default log store path logs.db, got %q", cfg.LogStore.Path)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected default shutdown timeout 10, got %d", cfg.HTTP.ShutdownSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DOCQA_TEST_KEY", "secret")

	out := string(expandEnvVars([]byte("api_key: ${DOCQA_TEST_KEY}\nmodel: ${DOCQA_TEST_MODEL:-gpt-4o-mini}")))
	want := "api_key: secret\nmodel: gpt-4o-mini"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
