package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestLoad_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings.ListenAddr, s.ListenAddr)
	assert.Equal(t, 2, s.DueSoonThresholdDays)
	assert.Equal(t, -1, s.OverdueThresholdDays)
	assert.Equal(t, "UTC", s.QuotaTimezone)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var written Settings
	require.NoError(t, yaml.Unmarshal(data, &written))
	assert.Equal(t, DefaultSettings, written)
}

func TestLoad_FileValuesKeepDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("dueSoonThresholdDays: 4\nquotaTimezone: Europe/Vienna\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, s.DueSoonThresholdDays)
	assert.Equal(t, "Europe/Vienna", s.QuotaTimezone)
	assert.Equal(t, DefaultSettings.DatabasePath, s.DatabasePath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("listenAddr: \":9000\"\n"), 0o644))

	t.Setenv("LISTEN_ADDR", ":7000")
	t.Setenv("CACHE_TTL_SECONDS", "15")
	t.Setenv("FAKE_AI", "true")
	t.Setenv("DUE_SOON_THRESHOLD_DAYS", "not-a-number")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", s.ListenAddr)
	assert.Equal(t, 15, s.CacheTTLSeconds)
	assert.Equal(t, DefaultSettings.DueSoonThresholdDays, s.DueSoonThresholdDays)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"defaults", func(*Settings) {}, ""},
		{"unknown timezone", func(s *Settings) { s.QuotaTimezone = "Mars/Olympus" }, "quotaTimezone"},
		{"overdue above due soon", func(s *Settings) { s.OverdueThresholdDays = 3 }, "overdueThresholdDays"},
		{"unknown log level", func(s *Settings) { s.LogLevel = "chatty" }, "logLevel"},
		{"cache never expiring", func(s *Settings) { s.CacheTTLSeconds = 0 }, "cacheTTLSeconds"},
		{"negative cache ttl", func(s *Settings) { s.CacheTTLSeconds = -5 }, "cacheTTLSeconds"},
		{"bad cron", func(s *Settings) { s.ReminderSchedule = "every now and then" }, "reminderSchedule"},
		{"openai without key", func(s *Settings) { s.FakeAI = false }, "openai.apiKey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
