package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds everything the apply loop needs at startup: search terms,
// eligibility thresholds, blacklists, upload paths and the operator identity
// used in answer text and invite notes.
type Config struct {
	Positions []string `mapstructure:"positions" yaml:"positions,omitempty"`
	Locations []string `mapstructure:"locations" yaml:"locations,omitempty"`

	PhoneNumber string `mapstructure:"phone_number" yaml:"phone_number,omitempty"`
	// SalaryText is the free-text answer given to salary-expectation questions.
	SalaryText string `mapstructure:"salary" yaml:"salary,omitempty"`
	Rate       string `mapstructure:"rate" yaml:"rate,omitempty"`

	Uploads UploadsConfig `mapstructure:"uploads" yaml:"uploads,omitempty"`

	Blacklist       []string `mapstructure:"blacklist" yaml:"blacklist,omitempty"`
	BlacklistTitles []string `mapstructure:"blacklist_titles" yaml:"blacklist_titles,omitempty"`

	ExperienceLevels []int `mapstructure:"experience_level" yaml:"experience_level,omitempty"`

	MaxApplications  int           `mapstructure:"max_applications" yaml:"max_applications,omitempty"`
	MaxSearchTime    time.Duration `mapstructure:"max_search_time" yaml:"max_search_time,omitempty"`
	DedupWindow      time.Duration `mapstructure:"dedup_window" yaml:"dedup_window,omitempty"`
	MinSalaryYearly  int           `mapstructure:"min_salary_yearly" yaml:"min_salary_yearly,omitempty"`
	MinSalaryHourly  float64       `mapstructure:"min_salary_hourly" yaml:"min_salary_hourly,omitempty"`
	RecruiterInvites bool          `mapstructure:"send_recruiter_invites" yaml:"send_recruiter_invites"`
	SkipZeroExp      bool          `mapstructure:"skip_zero_experience" yaml:"skip_zero_experience"`
	UseStoredResume  bool          `mapstructure:"use_stored_resume" yaml:"use_stored_resume"`

	DBPath string `mapstructure:"db_path" yaml:"db_path,omitempty"`
	LogDir string `mapstructure:"log_dir" yaml:"log_dir,omitempty"`

	Identity IdentityConfig `mapstructure:"identity" yaml:"identity,omitempty"`
}

// UploadsConfig points at local files to attach when the remote stored
// resume is not used.
type UploadsConfig struct {
	Resume      string `mapstructure:"resume" yaml:"resume,omitempty"`
	CoverLetter string `mapstructure:"cover_letter" yaml:"cover_letter,omitempty"`
}

// IdentityConfig is the operator identity used when templating recruiter
// invite notes.
type IdentityConfig struct {
	Name     string `mapstructure:"name" yaml:"name,omitempty"`
	Headline string `mapstructure:"headline" yaml:"headline,omitempty"`
}

// Credentials are read from the environment only (via .env), never from the
// config file.
type Credentials struct {
	Username string
	Password string
}

var (
	configFile = "config.yaml"
	v          *viper.Viper
)

func init() {
	v = viper.New()
	v.SetConfigFile(configFile)

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("EASYAPPLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to read config file (ignore if not exists)
	_ = v.ReadInConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_applications", 50)
	v.SetDefault("max_search_time", time.Hour)
	v.SetDefault("dedup_window", 48*time.Hour)
	v.SetDefault("min_salary_yearly", 60000)
	v.SetDefault("min_salary_hourly", 32)
	v.SetDefault("send_recruiter_invites", true)
	v.SetDefault("skip_zero_experience", true)
	v.SetDefault("use_stored_resume", true)
	v.SetDefault("db_path", "easyapply.sqlite")
	v.SetDefault("log_dir", "logs")
}

func Path() string {
	return configFile
}

func Load() (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the fields the apply loop cannot run without.
func (c *Config) Validate() error {
	if len(c.Positions) == 0 {
		return errors.New("config: at least one position is required")
	}
	if len(c.Locations) == 0 {
		return errors.New("config: at least one location is required")
	}
	if c.PhoneNumber == "" {
		return errors.New("config: phone_number is required")
	}
	return nil
}

// LoadCredentials reads login credentials from the environment.
func LoadCredentials() (Credentials, error) {
	creds := Credentials{
		Username: os.Getenv("EASYAPPLY_USERNAME"),
		Password: os.Getenv("EASYAPPLY_PASSWORD"),
	}
	if creds.Username == "" || creds.Password == "" {
		return creds, errors.New("EASYAPPLY_USERNAME and EASYAPPLY_PASSWORD must be set (see .env)")
	}
	return creds, nil
}

func Get(key string) (string, error) {
	switch key {
	case "phone_number", "salary", "rate", "db_path", "log_dir":
		return v.GetString(key), nil
	case "max_applications", "min_salary_yearly":
		return fmt.Sprintf("%d", v.GetInt(key)), nil
	case "min_salary_hourly":
		return fmt.Sprintf("%g", v.GetFloat64(key)), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

func Set(key, value string) error {
	cfg, err := Load()
	if err != nil {
		cfg = &Config{}
	}

	switch key {
	case "phone_number":
		cfg.PhoneNumber = value
	case "salary":
		cfg.SalaryText = value
	case "rate":
		cfg.Rate = value
	case "db_path":
		cfg.DBPath = value
	case "log_dir":
		cfg.LogDir = value
	default:
		return fmt.Errorf("unknown config key: %s (valid: phone_number, salary, rate, db_path, log_dir)", key)
	}

	v.Set(key, value) // keep viper in sync
	return writeConfig(cfg)
}

func writeConfig(cfg *Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(configFile, buf.Bytes(), 0o644)
}

// Save saves the full config
func Save(c *Config) error {
	return writeConfig(c)
}

// ResetForTest resets viper for testing (only use in tests)
func ResetForTest(testPath string) {
	configFile = testPath + "/config.yaml"
	v = viper.New()
	v.SetConfigFile(configFile)
	setDefaults(v)
}
