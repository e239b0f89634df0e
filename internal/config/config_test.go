package config

import (
	"os"
	"testing"
)

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 0},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{},
		},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MinScoreAboveOne(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Recommend: RecommendConfig{MinScore: 1.5},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min_score > 1")
	}
}

func TestValidate_BadImageSearchURL(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
		ImageSearch: ImageSearchConfig{
			Enabled: true,
			BaseURL: "ftp://images.example.com",
		},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-http image search URL")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Recommend.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Recommend.TopK)
	}
	if cfg.Recommend.HistoryWindow != 10 {
		t.Errorf("expected HistoryWindow=10, got %d", cfg.Recommend.HistoryWindow)
	}
	if cfg.Recommend.MinTagLen != 2 {
		t.Errorf("expected MinTagLen=2, got %d", cfg.Recommend.MinTagLen)
	}
	if cfg.ImageSearch.RetryAttempts != 2 {
		t.Errorf("expected RetryAttempts=2, got %d", cfg.ImageSearch.RetryAttempts)
	}
	if cfg.ImageSearch.MaxImages != 3 {
		t.Errorf("expected MaxImages=3, got %d", cfg.ImageSearch.MaxImages)
	}
	if cfg.ImageSearch.MaxPreferenceTags != 3 {
		t.Errorf("expected MaxPreferenceTags=3, got %d", cfg.ImageSearch.MaxPreferenceTags)
	}
	if cfg.Embedding.Dimensions != 1024 {
		t.Errorf("expected Dimensions=1024, got %d", cfg.Embedding.Dimensions)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Recommend:   RecommendConfig{TopK: 7, MinTagLen: 4},
		ImageSearch: ImageSearchConfig{MaxImages: 1},
	}
	cfg.ApplyDefaults()

	if cfg.Recommend.TopK != 7 {
		t.Errorf("expected TopK=7, got %d", cfg.Recommend.TopK)
	}
	if cfg.Recommend.MinTagLen != 4 {
		t.Errorf("expected MinTagLen=4, got %d", cfg.Recommend.MinTagLen)
	}
	if cfg.ImageSearch.MaxImages != 1 {
		t.Errorf("expected MaxImages=1, got %d", cfg.ImageSearch.MaxImages)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("FILEREC_TEST_KEY", "secret")
	defer os.Unsetenv("FILEREC_TEST_KEY")

	in := []byte("api_key: ${FILEREC_TEST_KEY}\nbase_url: ${FILEREC_TEST_URL:-https://fallback}")
	out := string(expandEnvVars(in))

	want := "api_key: secret\nbase_url: https://fallback"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}

func TestGetEnv(t *testing.T) {
	os.Unsetenv("ENV")
	if env := GetEnv(); env != "local" {
		t.Errorf("expected default env local, got %q", env)
	}

	os.Setenv("ENV", "prod")
	defer os.Unsetenv("ENV")
	if env := GetEnv(); env != "prod" {
		t.Errorf("expected prod, got %q", env)
	}
}
