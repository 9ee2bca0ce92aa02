package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v2"

	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/model"
)

const DefaultFileName = "settings.yml"

type Settings struct {
	ListenAddr   string `yaml:"listenAddr"`
	DatabasePath string `yaml:"databasePath"`
	LogLevel     string `yaml:"logLevel"`
	JWTSecret    string `yaml:"jwtSecret"`

	// RedisURL enables the notification cache when set.
	RedisURL        string `yaml:"redisURL"`
	CacheTTLSeconds int    `yaml:"cacheTTLSeconds"`

	QuotaTimezone        string `yaml:"quotaTimezone"`
	DueSoonThresholdDays int    `yaml:"dueSoonThresholdDays"`
	OverdueThresholdDays int    `yaml:"overdueThresholdDays"`
	ReminderSchedule     string `yaml:"reminderSchedule"`

	FakeAI bool           `yaml:"fakeAI"`
	OpenAI OpenAISettings `yaml:"openai"`
	Wizard WizardSettings `yaml:"wizard"`
}

type OpenAISettings struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

type WizardSettings struct {
	RequestsPerMinute int `yaml:"requestsPerMinute"`
	Burst             int `yaml:"burst"`
}

var (
	DefaultSettings = Settings{
		ListenAddr:           ":8080",
		DatabasePath:         "db.sqlite",
		LogLevel:             "info",
		JWTSecret:            "change-this-in-production",
		CacheTTLSeconds:      60,
		QuotaTimezone:        "UTC",
		DueSoonThresholdDays: model.DefaultPlantsDueSoonThresholdDays,
		OverdueThresholdDays: model.DefaultPlantsOverdueThresholdDays,
		ReminderSchedule:     "@hourly",
		FakeAI:               true,
		OpenAI: OpenAISettings{
			Model: "gpt-4o-mini",
		},
		Wizard: WizardSettings{
			RequestsPerMinute: 6,
			Burst:             2,
		},
	}
)

// Load reads the settings file at path. A missing file is created with the
// defaults. Environment variables override file values.
func Load(path string) (*Settings, error) {
	s := DefaultSettings

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, s); err != nil {
			return nil, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse settings: %w", err)
		}
	}

	s.applyEnv()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func write(path string, s Settings) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func (s *Settings) applyEnv() {
	s.ListenAddr = getEnv("LISTEN_ADDR", s.ListenAddr)
	s.DatabasePath = getEnv("DATABASE_PATH", s.DatabasePath)
	s.LogLevel = getEnv("LOG_LEVEL", s.LogLevel)
	s.JWTSecret = getEnv("JWT_SECRET", s.JWTSecret)
	s.RedisURL = getEnv("REDIS_URL", s.RedisURL)
	s.CacheTTLSeconds = getEnvAsInt("CACHE_TTL_SECONDS", s.CacheTTLSeconds)
	s.QuotaTimezone = getEnv("QUOTA_TIMEZONE", s.QuotaTimezone)
	s.DueSoonThresholdDays = getEnvAsInt("DUE_SOON_THRESHOLD_DAYS", s.DueSoonThresholdDays)
	s.OverdueThresholdDays = getEnvAsInt("OVERDUE_THRESHOLD_DAYS", s.OverdueThresholdDays)
	s.ReminderSchedule = getEnv("REMINDER_SCHEDULE", s.ReminderSchedule)
	s.FakeAI = getEnvAsBool("FAKE_AI", s.FakeAI)
	s.OpenAI.APIKey = getEnv("OPENAI_API_KEY", s.OpenAI.APIKey)
	s.OpenAI.Model = getEnv("OPENAI_MODEL", s.OpenAI.Model)
	s.Wizard.RequestsPerMinute = getEnvAsInt("WIZARD_REQUESTS_PER_MINUTE", s.Wizard.RequestsPerMinute)
	s.Wizard.Burst = getEnvAsInt("WIZARD_BURST", s.Wizard.Burst)
}

// Validate rejects settings the engine cannot run with.
func (s *Settings) Validate() error {
	if _, err := s.Location(); err != nil {
		return fmt.Errorf("quotaTimezone %q: %w", s.QuotaTimezone, err)
	}
	if s.OverdueThresholdDays > s.DueSoonThresholdDays {
		return fmt.Errorf("overdueThresholdDays (%d) must not exceed dueSoonThresholdDays (%d)",
			s.OverdueThresholdDays, s.DueSoonThresholdDays)
	}
	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("logLevel: %w", err)
	}
	if s.CacheTTLSeconds <= 0 {
		return fmt.Errorf("cacheTTLSeconds must be positive, got %d", s.CacheTTLSeconds)
	}
	if _, err := cron.ParseStandard(s.ReminderSchedule); err != nil {
		return fmt.Errorf("reminderSchedule %q: %w", s.ReminderSchedule, err)
	}
	if !s.FakeAI && s.OpenAI.APIKey == "" {
		return errors.New("openai.apiKey is required when fakeAI is disabled")
	}
	return nil
}

// Location is the reference timezone quota months are computed in.
func (s *Settings) Location() (*time.Location, error) {
	return time.LoadLocation(s.QuotaTimezone)
}

func (s *Settings) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
