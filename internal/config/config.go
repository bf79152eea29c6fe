package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host  string `yaml:"host"`
		Port  int    `yaml:"port"`
		Env   string `yaml:"env"`
		Debug bool   `yaml:"debug"`
	} `yaml:"server"`

	Database struct {
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
		AutoMigrate  bool   `yaml:"auto_migrate"`
	} `yaml:"database"`

	Email struct {
		Driver       string `yaml:"driver"` // smtp | log
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"`
	} `yaml:"jwt"`

	Billing struct {
		SecretKey     string `yaml:"secret_key"`
		WebhookSecret string `yaml:"webhook_secret"`
		SuccessURL    string `yaml:"success_url"`
		CancelURL     string `yaml:"cancel_url"`
		Prices        Prices `yaml:"prices"`
		// MonthlyTalentGrant is credited on every paid enterprise invoice.
		MonthlyTalentGrant int `yaml:"monthly_talent_grant"`
	} `yaml:"billing"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`

	Workers struct {
		// SweepIntervalMinutes is how often lapsed subscriptions are checked. 0 disables the sweep.
		SweepIntervalMinutes int `yaml:"sweep_interval_minutes"`

		// LapseGraceHours is how long past current_period_end a paid plan stays active without a renewal event.
		LapseGraceHours int `yaml:"lapse_grace_hours"`
	} `yaml:"workers"`
}

// Prices maps provider price identifiers to plans and credit packs.
type Prices struct {
	ProMonthly        string `yaml:"pro_monthly"`
	EnterpriseMonthly string `yaml:"enterprise_monthly"`
	JobPostCredit     string `yaml:"job_post_credit"`
	TalentSearchPack  string `yaml:"talent_search_credit"`
}

var AppConfig *Config

// LoadConfig fills AppConfig. With DATABASE_URL set the YAML file is skipped
// and everything comes from the environment (containers, integration tests).
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to read .env: %v", err)
	}

	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		cfg, err := LoadFile(configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		AppConfig = cfg
		return
	}

	log.Println("loading configuration from environment")
	AppConfig = FromEnv()
}

// LoadFile decodes a YAML config and applies defaults.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return &cfg, nil
}

func FromEnv() *Config {
	var cfg Config
	cfg.Database.DSN = os.Getenv("DATABASE_URL")
	cfg.Database.AutoMigrate = true
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.Email.Driver = "log"
	cfg.Email.FromEmail = "noreply@jobboard.test"
	cfg.Metrics.Enabled = true
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return &cfg
}

// Secrets never live in the YAML file in production.
func (c *Config) applyEnvOverrides() {
	setString(&c.JWT.Secret, "JWT_SECRET")
	setString(&c.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.Billing.SecretKey, "STRIPE_SECRET_KEY")
	setString(&c.Billing.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
	setString(&c.Billing.Prices.ProMonthly, "STRIPE_PRICE_PRO_MONTHLY")
	setString(&c.Billing.Prices.EnterpriseMonthly, "STRIPE_PRICE_ENTERPRISE_MONTHLY")
	setString(&c.Billing.Prices.JobPostCredit, "STRIPE_PRICE_JOB_POST_CREDIT")
	setString(&c.Billing.Prices.TalentSearchPack, "STRIPE_PRICE_TALENT_SEARCH_CREDIT")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Email.Driver == "" {
		c.Email.Driver = "smtp"
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Job Board"
	}
	if c.Billing.MonthlyTalentGrant == 0 {
		c.Billing.MonthlyTalentGrant = 5
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Workers.LapseGraceHours == 0 {
		c.Workers.LapseGraceHours = 72
	}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
