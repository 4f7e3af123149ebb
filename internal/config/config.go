package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Policy    PolicyConfig    `yaml:"policy"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

type JWTConfig struct {
	Secret           string `yaml:"secret"`
	AccessTTLMinutes int    `yaml:"access_ttl_minutes"`
	RefreshTTLDays   int    `yaml:"refresh_ttl_days"`
}

type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type StorageConfig struct {
	BaseURL   string `yaml:"base_url"`
	UploadDir string `yaml:"upload_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PolicyConfig holds the circulation policy knobs. Money is integer cents.
type PolicyConfig struct {
	LoanPeriodDays       map[string]int `yaml:"loan_period_days"`
	RenewalPeriodDays    int            `yaml:"renewal_period_days"`
	MaxRenewals          int32          `yaml:"max_renewals"`
	DailyFineCents       int32          `yaml:"daily_fine_cents"`
	FineThresholdCents   int32          `yaml:"fine_threshold_cents"`
	PickupWindowDays     int            `yaml:"pickup_window_days"`
	MembershipPeriodDays int            `yaml:"membership_period_days"`
}

// SchedulerConfig holds cron expressions for the batch sweeps
type SchedulerConfig struct {
	MarkOverdueLoans     string `yaml:"mark_overdue_loans"`
	SendOverdueReminders string `yaml:"send_overdue_reminders"`
	ExpireReservations   string `yaml:"expire_reservations"`
	ExpireMemberships    string `yaml:"expire_memberships"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.JWT.AccessTTLMinutes == 0 {
		c.JWT.AccessTTLMinutes = 60
	}
	if c.JWT.RefreshTTLDays == 0 {
		c.JWT.RefreshTTLDays = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "./uploads"
	}

	if c.Policy.LoanPeriodDays == nil {
		c.Policy.LoanPeriodDays = map[string]int{}
	}
	defaultPeriods := map[string]int{
		"Standard": 14,
		"Student":  14,
		"Premium":  21,
		"VIP":      28,
		"Child":    7,
	}
	for membership, days := range defaultPeriods {
		if _, ok := c.Policy.LoanPeriodDays[membership]; !ok {
			c.Policy.LoanPeriodDays[membership] = days
		}
	}
	if c.Policy.RenewalPeriodDays == 0 {
		c.Policy.RenewalPeriodDays = 14
	}
	if c.Policy.MaxRenewals == 0 {
		c.Policy.MaxRenewals = 2
	}
	if c.Policy.DailyFineCents == 0 {
		c.Policy.DailyFineCents = 100
	}
	if c.Policy.FineThresholdCents == 0 {
		c.Policy.FineThresholdCents = 1000
	}
	if c.Policy.PickupWindowDays == 0 {
		c.Policy.PickupWindowDays = 3
	}
	if c.Policy.MembershipPeriodDays == 0 {
		c.Policy.MembershipPeriodDays = 365
	}

	if c.Scheduler.MarkOverdueLoans == "" {
		c.Scheduler.MarkOverdueLoans = "0 0 1 * * *"
	}
	if c.Scheduler.SendOverdueReminders == "" {
		c.Scheduler.SendOverdueReminders = "0 0 8 * * *"
	}
	if c.Scheduler.ExpireReservations == "" {
		c.Scheduler.ExpireReservations = "0 30 1 * * *"
	}
	if c.Scheduler.ExpireMemberships == "" {
		c.Scheduler.ExpireMemberships = "0 0 2 * * *"
	}
}

// GetServerAddress returns the host:port the HTTP server listens on
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabaseConnectionString returns the PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
		c.Database.Database, c.Database.SSLMode)
}

// AccessTTL returns the access token lifetime.
func (c *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (c *JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// LoanPeriod returns the loan period for a membership type, falling back
// to the Standard period for unknown types.
func (p *PolicyConfig) LoanPeriod(membershipType string) time.Duration {
	days, ok := p.LoanPeriodDays[membershipType]
	if !ok {
		days = p.LoanPeriodDays["Standard"]
	}
	return time.Duration(days) * 24 * time.Hour
}

// RenewalPeriod returns the extension applied by one renewal.
func (p *PolicyConfig) RenewalPeriod() time.Duration {
	return time.Duration(p.RenewalPeriodDays) * 24 * time.Hour
}

// PickupWindow returns how long a Ready reservation is held for pickup.
func (p *PolicyConfig) PickupWindow() time.Duration {
	return time.Duration(p.PickupWindowDays) * 24 * time.Hour
}

// MembershipPeriod returns the length of one membership term.
func (p *PolicyConfig) MembershipPeriod() time.Duration {
	return time.Duration(p.MembershipPeriodDays) * 24 * time.Hour
}
