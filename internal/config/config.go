package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the LMS process.
type Config struct {
	AppName            string
	DatabasePath       string
	DatabaseReset      bool
	SubmissionsDir     string
	ReminderInterval   time.Duration
	ReminderWindowDays int
	LogLevel           string
	LogPretty          bool
}

// Load reads configuration values from an optional config file, environment variables and an optional .env file.
// An empty path searches for lms.yaml in the working directory.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LMS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "School LMS")
	v.SetDefault("database.path", "resources/school_lms.db")
	v.SetDefault("database.reset", false)
	v.SetDefault("storage.submissions_dir", "assignments")
	v.SetDefault("reminders.interval", "60s")
	v.SetDefault("reminders.window_days", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("lms")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	interval, err := time.ParseDuration(v.GetString("reminders.interval"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid reminder interval: %w", err)
	}
	if interval <= 0 {
		interval = time.Minute
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		DatabasePath:       strings.TrimSpace(v.GetString("database.path")),
		DatabaseReset:      v.GetBool("database.reset"),
		SubmissionsDir:     strings.TrimSpace(v.GetString("storage.submissions_dir")),
		ReminderInterval:   interval,
		ReminderWindowDays: v.GetInt("reminders.window_days"),
		LogLevel:           strings.ToLower(v.GetString("log.level")),
		LogPretty:          v.GetBool("log.pretty"),
	}

	if cfg.DatabasePath == "" {
		return Config{}, fmt.Errorf("database path must be provided")
	}
	if cfg.SubmissionsDir == "" {
		return Config{}, fmt.Errorf("submissions directory must be provided")
	}
	if cfg.ReminderWindowDays < 0 {
		cfg.ReminderWindowDays = 3
	}

	return cfg, nil
}
