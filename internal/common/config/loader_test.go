package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: driveup
    user: ${TEST_DB_USER}
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
workers:
  rank-car-recommendations:
    enabled: true
    timeout: 5000
  query-fuel-prices:
    enabled: false
drivebot:
  max_questions: 3
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_DB_USER", "driveup_app")
	t.Setenv("GENAI_API_KEY", "sk-test")

	cfg, err := LoadFromFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "driveup_app", cfg.Database.Postgres.User)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "car_models", cfg.Database.Elasticsearch.ModelsIndex)
	assert.Equal(t, "sk-test", cfg.APIs.GenAI.APIKey)
	assert.Equal(t, 3, cfg.DriveBot.MaxQuestions)
	assert.Equal(t, 50, cfg.DriveBot.MaxRows)
	assert.Equal(t, ":8080", cfg.HTTP.Address)

	w := cfg.Workers["rank-car-recommendations"]
	assert.True(t, w.Enabled)
	assert.Equal(t, 5*time.Second, w.TimeoutDuration())
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 3, w.MaxRetries)
}

func TestWorkerLookup(t *testing.T) {
	t.Setenv("TEST_DB_USER", "driveup_app")
	cfg, err := LoadFromFile(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.False(t, IsWorkerEnabled(cfg, "query-fuel-prices"))
	assert.True(t, IsWorkerEnabled(cfg, "search-car-models"))
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "search-car-models").Timeout)
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing broker", "database: {}", "camunda.broker_address"},
		{
			"events without brokers",
			sampleYAML + "events:\n  enabled: true\n",
			"events.brokers",
		},
	}

	t.Setenv("TEST_DB_USER", "driveup_app")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "cars", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=cars sslmode=disable", p.GetDSN())
}
