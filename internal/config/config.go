package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"fabric-artifact-manager/internal/core/domain"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Vendor   VendorConfig
	Database DatabaseConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// StorageConfig covers the on-disk layout and the backup policy.
type StorageConfig struct {
	DataFolder           string
	BackupFolder         string
	OutputNamingStrategy string // model_name | model_id
	EnableAutoBackup     bool
	BackupOnDownload     bool
	BackupOnUpdate       bool
	BackupRetentionDays  int
}

// VendorConfig covers the Fabric / Power BI REST surface and its retry and
// rate-limit policy. Every remote call is bounded by HTTPTimeout; every retry
// loop is bounded by its max attempt count.
type VendorConfig struct {
	FabricAPIBase  string
	PowerBIAPIBase string
	APIToken       string

	HTTPTimeoutSeconds           int
	OperationMaxRetries          int
	OperationRetryDelaySeconds   int
	RateLimitMaxRetries          int
	RateLimitInitialDelaySeconds int
	RateLimitMaxDelaySeconds     int

	ParallelDownloadWorkers int
	ParallelBulkWorkers     int
}

func (v VendorConfig) HTTPTimeout() time.Duration {
	return time.Duration(v.HTTPTimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)

	v.SetDefault("DATA_FOLDER", "./data")
	v.SetDefault("BACKUP_FOLDER", "./data-backups")
	v.SetDefault("OUTPUT_NAMING_STRATEGY", "model_id")
	v.SetDefault("ENABLE_AUTO_BACKUP", true)
	v.SetDefault("BACKUP_ON_DOWNLOAD", true)
	v.SetDefault("BACKUP_ON_UPDATE", true)
	v.SetDefault("BACKUP_RETENTION_DAYS", 30)

	v.SetDefault("FABRIC_API_BASE", "https://api.fabric.microsoft.com/v1")
	v.SetDefault("POWERBI_API_BASE", "https://api.powerbi.com/v1.0/myorg")
	v.SetDefault("API_TOKEN", "")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	v.SetDefault("OPERATION_MAX_RETRIES", 30)
	v.SetDefault("OPERATION_RETRY_DELAY_SECONDS", 5)
	v.SetDefault("RATE_LIMIT_MAX_RETRIES", 5)
	v.SetDefault("RATE_LIMIT_INITIAL_DELAY_SECONDS", 2)
	v.SetDefault("RATE_LIMIT_MAX_DELAY_SECONDS", 60)
	v.SetDefault("PARALLEL_DOWNLOAD_WORKERS", 2)
	v.SetDefault("PARALLEL_BULK_WORKERS", 5)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "fabric_artifact_manager")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	connLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		connLifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Storage: StorageConfig{
			DataFolder:           v.GetString("DATA_FOLDER"),
			BackupFolder:         v.GetString("BACKUP_FOLDER"),
			OutputNamingStrategy: v.GetString("OUTPUT_NAMING_STRATEGY"),
			EnableAutoBackup:     v.GetBool("ENABLE_AUTO_BACKUP"),
			BackupOnDownload:     v.GetBool("BACKUP_ON_DOWNLOAD"),
			BackupOnUpdate:       v.GetBool("BACKUP_ON_UPDATE"),
			BackupRetentionDays:  v.GetInt("BACKUP_RETENTION_DAYS"),
		},
		Vendor: VendorConfig{
			FabricAPIBase:                v.GetString("FABRIC_API_BASE"),
			PowerBIAPIBase:               v.GetString("POWERBI_API_BASE"),
			APIToken:                     v.GetString("API_TOKEN"),
			HTTPTimeoutSeconds:           v.GetInt("HTTP_TIMEOUT_SECONDS"),
			OperationMaxRetries:          v.GetInt("OPERATION_MAX_RETRIES"),
			OperationRetryDelaySeconds:   v.GetInt("OPERATION_RETRY_DELAY_SECONDS"),
			RateLimitMaxRetries:          v.GetInt("RATE_LIMIT_MAX_RETRIES"),
			RateLimitInitialDelaySeconds: v.GetInt("RATE_LIMIT_INITIAL_DELAY_SECONDS"),
			RateLimitMaxDelaySeconds:     v.GetInt("RATE_LIMIT_MAX_DELAY_SECONDS"),
			ParallelDownloadWorkers:      v.GetInt("PARALLEL_DOWNLOAD_WORKERS"),
			ParallelBulkWorkers:          v.GetInt("PARALLEL_BULK_WORKERS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connLifetime,
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the ranges the runtime-update endpoint also relies on.
func (c *Config) Validate() error {
	if c.Storage.OutputNamingStrategy != "model_name" && c.Storage.OutputNamingStrategy != "model_id" {
		return domain.ErrInvalidNamingStrategy
	}
	if c.Storage.BackupRetentionDays < 1 || c.Storage.BackupRetentionDays > 365 {
		return domain.ErrInvalidRetention
	}
	for _, workers := range []int{c.Vendor.ParallelDownloadWorkers, c.Vendor.ParallelBulkWorkers} {
		if workers < 1 || workers > 10 {
			return domain.ErrInvalidWorkerCount
		}
	}
	for _, secs := range []int{
		c.Vendor.HTTPTimeoutSeconds,
		c.Vendor.OperationRetryDelaySeconds,
		c.Vendor.RateLimitInitialDelaySeconds,
		c.Vendor.RateLimitMaxDelaySeconds,
	} {
		if secs < 1 {
			return domain.ErrInvalidTimeout
		}
	}
	// A retry count of zero would time out long-running operations before
	// the first poll.
	for _, retries := range []int{c.Vendor.OperationMaxRetries, c.Vendor.RateLimitMaxRetries} {
		if retries < 1 || retries > 100 {
			return domain.ErrInvalidRetryCount
		}
	}
	return nil
}
