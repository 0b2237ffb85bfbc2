package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "UPLOAD_DIR", "RESULTS_DIR", "GOOGLE_API_KEY", "GEMINI_API_KEY",
	"MAX_UPLOAD_BYTES", "MAX_QUESTIONS", "GENERATE_TIMEOUT", "ISOLATE_ARTIFACTS", "LOG_LEVEL",
	"SESSION_SECRET", "CORS_ALLOWED_ORIGINS", "DATABASE_URL", "CLOUDFLARE_ACCOUNT_ID",
	"R2_BUCKET_NAME", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_PUBLIC_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "results", cfg.ResultsDir)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 50, cfg.MaxQuestions)
	assert.Equal(t, 2*time.Minute, cfg.GenerateTimeout)
	assert.False(t, cfg.IsolateArtifacts)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "fallback-key")
	t.Setenv("MAX_QUESTIONS", "10")
	t.Setenv("GENERATE_TIMEOUT", "45s")
	t.Setenv("ISOLATE_ARTIFACTS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "fallback-key", cfg.GoogleAPIKey)
	assert.Equal(t, 10, cfg.MaxQuestions)
	assert.Equal(t, 45*time.Second, cfg.GenerateTimeout)
	assert.True(t, cfg.IsolateArtifacts)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_GoogleKeyWinsOverGeminiKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google")
	t.Setenv("GEMINI_API_KEY", "gemini")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "google", cfg.GoogleAPIKey)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	t.Setenv("GENERATE_TIMEOUT", "soon")
	t.Setenv("ISOLATE_ARTIFACTS", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 2*time.Minute, cfg.GenerateTimeout)
	assert.False(t, cfg.IsolateArtifacts)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "quizgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
results_dir: /srv/results
max_questions: 20
generate_timeout: 30s
r2:
  account_id: acct
  bucket: quizzes
  access_key_id: id
  secret_access_key: secret
  public_url: https://pub.example.r2.dev
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7001", cfg.Port, "env overrides file")
	assert.Equal(t, "/srv/results", cfg.ResultsDir)
	assert.Equal(t, 20, cfg.MaxQuestions)
	assert.Equal(t, 30*time.Second, cfg.GenerateTimeout)
	assert.True(t, cfg.R2.Enabled())
}

func TestLoad_RejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_QUESTIONS", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}
