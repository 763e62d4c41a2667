package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/cleaning-rota/pkg/core/schedule"
)

// EnvPrefix is prepended to every environment variable that overrides the config file
const EnvPrefix = "CLEANING_ROTA_"

const (
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// DatabaseConfig selects and locates the schedule store
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DRIVER" validate:"required,oneof=postgres bolt"`
	URL    string `yaml:"url,omitempty" env:"URL" validate:"required_if=Driver postgres"`
	Path   string `yaml:"path,omitempty" env:"PATH" validate:"required_if=Driver bolt"`
}

// Config represents the application configuration
type Config struct {
	// EligibleWeekdays holds RRULE weekday tokens (MO, TU, ...)
	EligibleWeekdays []string       `yaml:"eligibleWeekdays,omitempty" env:"ELIGIBLE_WEEKDAYS" envSeparator:","`
	Database         DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	RosterSheetID    string         `yaml:"rosterSheetID,omitempty" env:"ROSTER_SHEET_ID"`
	RosterTab        string         `yaml:"rosterTab,omitempty" env:"ROSTER_TAB"`
	ScheduleSheetID  string         `yaml:"scheduleSheetID,omitempty" env:"SCHEDULE_SHEET_ID"`
}

// DefaultEligibleWeekdays is used when the config file leaves eligibleWeekdays empty
var DefaultEligibleWeekdays = []string{"MO", "TU", "WE", "TH"}

const defaultRosterTab = "Members"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from cleaning_rota_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment.
// For example, env="test" will look for "cleaning_rota_config.test.yaml"
func LoadWithEnv(envName string) (*Config, error) {
	configPath, err := findConfigFile(envName)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads the configuration from a specific path, applies environment
// overrides and defaults, then validates it
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.EligibleWeekdays) == 0 {
		cfg.EligibleWeekdays = append([]string{}, DefaultEligibleWeekdays...)
	}
	for i, token := range cfg.EligibleWeekdays {
		cfg.EligibleWeekdays[i] = strings.ToUpper(strings.TrimSpace(token))
	}
	if cfg.RosterTab == "" {
		cfg.RosterTab = defaultRosterTab
	}
}

// Validate validates the configuration struct and checks the weekday list parses as an RRULE BYDAY
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if len(cfg.EligibleWeekdays) > 0 {
		byDay := "FREQ=DAILY;BYDAY=" + strings.Join(cfg.EligibleWeekdays, ",")
		if _, err := rrule.StrToRRule(byDay); err != nil {
			return fmt.Errorf("invalid eligibleWeekdays %v: %w", cfg.EligibleWeekdays, err)
		}
		if _, err := schedule.ParseWeekdays(cfg.EligibleWeekdays); err != nil {
			return fmt.Errorf("invalid eligibleWeekdays: %w", err)
		}
	}

	return nil
}

// Weekdays returns the eligible weekdays for the schedule engine
func (c *Config) Weekdays() ([]time.Weekday, error) {
	if len(c.EligibleWeekdays) == 0 {
		return schedule.DefaultWeekdays, nil
	}
	return schedule.ParseWeekdays(c.EligibleWeekdays)
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(envName string) (string, error) {
	configFileName := "cleaning_rota_config.yaml"
	if envName != "" {
		configFileName = "cleaning_rota_config." + envName + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
