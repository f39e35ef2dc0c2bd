package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	Report   ReportConfig   `mapstructure:"report"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// SMTPConfig holds notification delivery configuration
type SMTPConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	From       string `mapstructure:"from"`
	SenderName string `mapstructure:"sender_name"`
}

// UploadsConfig holds artifact storage configuration
type UploadsConfig struct {
	Dir          string `mapstructure:"dir"`
	MaxSizeBytes int64  `mapstructure:"max_size_bytes"`
}

// ReportConfig holds final report rendering configuration
type ReportConfig struct {
	InstitutionName string `mapstructure:"institution_name"`
	FooterText      string `mapstructure:"footer_text"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/reimbursements.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.sender_name", "Reimbursement Portal")

	viper.SetDefault("uploads.dir", "uploads")
	viper.SetDefault("uploads.max_size_bytes", int64(10<<20))

	viper.SetDefault("report.institution_name", "Fr. C Rodrigues Institute of Technology, Vashi")
	viper.SetDefault("report.footer_text", "Generated by Reimbursement Portal")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("smtp.username", "MAIL_USERNAME")
	viper.BindEnv("smtp.password", "MAIL_PASSWORD")
	viper.BindEnv("smtp.from", "MAIL_DEFAULT_SENDER")
	viper.BindEnv("database.path", "DATABASE_PATH")
}

// Validate checks required configuration values
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Uploads.Dir == "" {
		return fmt.Errorf("uploads.dir is required")
	}
	if c.SMTP.Host == "" {
		return fmt.Errorf("smtp.host is required")
	}
	return nil
}
