package main

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
	"github.com/sushihentaime/caskblog/internal/common"
	"github.com/sushihentaime/caskblog/internal/mailservice"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`
	TLSCertFile    string   `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile     string   `mapstructure:"TLS_KEY_FILE"`

	UploadPassword string        `mapstructure:"UPLOAD_PASSWORD"`
	CacheTTL       time.Duration `mapstructure:"CACHE_TTL"`

	LimiterEnabled bool    `mapstructure:"LIMITER_ENABLED"`
	LimiterRPS     float64 `mapstructure:"LIMITER_RPS"`
	LimiterBurst   int     `mapstructure:"LIMITER_BURST"`

	DBURL          string        `mapstructure:"DATABASE_URL"`
	DBHost         string        `mapstructure:"POSTGRES_HOST"`
	DBPort         string        `mapstructure:"POSTGRES_PORT"`
	DBUser         string        `mapstructure:"POSTGRES_USER"`
	DBPassword     string        `mapstructure:"POSTGRES_PASSWORD"`
	DBName         string        `mapstructure:"POSTGRES_DB"`
	DBSSLMode      string        `mapstructure:"POSTGRES_SSLMODE"`
	DBMaxOpenConns int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxIdleTime  time.Duration `mapstructure:"DB_MAX_IDLE_TIME"`
	MigrateOnStart bool          `mapstructure:"MIGRATE_ON_START"`
	MigrationsPath string        `mapstructure:"MIGRATIONS_PATH"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`
	NotifyEmail  string `mapstructure:"NOTIFY_EMAIL"`
	SiteURL      string `mapstructure:"SITE_URL"`
}

var configDefaults = map[string]any{
	"PORT":              "3000",
	"ENVIRONMENT":       "development",
	"VERSION":           "1.0.0",
	"TRUSTED_ORIGINS":   []string{"http://localhost:5173"},
	"TLS_CERT_FILE":     "",
	"TLS_KEY_FILE":      "",
	"UPLOAD_PASSWORD":   "",
	"CACHE_TTL":         time.Duration(0),
	"LIMITER_ENABLED":   true,
	"LIMITER_RPS":       2.0,
	"LIMITER_BURST":     4,
	"DATABASE_URL":      "",
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     "5432",
	"POSTGRES_USER":     "",
	"POSTGRES_PASSWORD": "",
	"POSTGRES_DB":       "",
	"POSTGRES_SSLMODE":  "disable",
	"DB_MAX_OPEN_CONNS": 10,
	"DB_MAX_IDLE_CONNS": 5,
	"DB_MAX_IDLE_TIME":  15 * time.Minute,
	"MIGRATE_ON_START":  false,
	"MIGRATIONS_PATH":   "file://migrations",
	"RABBITMQ_HOST":     "",
	"RABBITMQ_PORT":     "5672",
	"RABBITMQ_USER":     "guest",
	"RABBITMQ_PASSWORD": "guest",
	"MAIL_HOST":         "",
	"MAIL_PORT":         587,
	"MAIL_USER":         "",
	"MAIL_PASSWORD":     "",
	"MAIL_SENDER":       "",
	"NOTIFY_EMAIL":      "",
	"SITE_URL":          "http://localhost:5173",
}

// loadConfig reads the env file at path. Process environment variables override the
// file, and a missing file leaves only the environment and defaults.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) dbConfig() common.DBConfig {
	return common.DBConfig{
		URL:          c.DBURL,
		Host:         c.DBHost,
		Port:         c.DBPort,
		User:         c.DBUser,
		Password:     c.DBPassword,
		Name:         c.DBName,
		SSLMode:      c.DBSSLMode,
		MaxOpenConns: c.DBMaxOpenConns,
		MaxIdleConns: c.DBMaxIdleConns,
		MaxIdleTime:  c.DBMaxIdleTime,
	}
}

func (c *Config) mailConfig() mailservice.MailConfig {
	return mailservice.MailConfig{
		Host:      c.MailHost,
		Port:      c.MailPort,
		User:      c.MailUser,
		Password:  c.MailPassword,
		Sender:    c.MailSender,
		Recipient: c.NotifyEmail,
		SiteURL:   c.SiteURL,
	}
}

func (c *Config) brokerEnabled() bool {
	return c.MQHost != ""
}

func (c *Config) notifierEnabled() bool {
	return c.brokerEnabled() && c.MailHost != "" && c.NotifyEmail != ""
}
