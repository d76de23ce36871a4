package config

import (
	"sync"

	"github.com/spf13/viper"

	"fabric-artifact-manager/internal/core/domain"
)

// Update is a partial update to the user-configurable settings. Nil fields
// are left unchanged. Secrets (APIToken) are write-only: they can be set here
// but are never echoed back by Snapshot consumers.
type Update struct {
	DataFolder                   *string
	BackupFolder                 *string
	OutputNamingStrategy         *string
	EnableAutoBackup             *bool
	BackupOnDownload             *bool
	BackupOnUpdate               *bool
	BackupRetentionDays          *int
	ParallelDownloadWorkers      *int
	ParallelBulkWorkers          *int
	HTTPTimeoutSeconds           *int
	OperationMaxRetries          *int
	OperationRetryDelaySeconds   *int
	RateLimitMaxRetries          *int
	RateLimitInitialDelaySeconds *int
	RateLimitMaxDelaySeconds     *int
	APIToken                     *string
	LogLevel                     *string
}

// Store holds the live configuration and serializes runtime updates. The
// user-configurable subset is persisted to a JSON settings file so updates
// survive restarts; env-only fields (server, database) are not written back.
type Store struct {
	mu   sync.RWMutex
	cfg  Config
	file *viper.Viper
	path string
}

func NewStore(cfg *Config, settingsPath string) (*Store, error) {
	s := &Store{cfg: *cfg, path: settingsPath}

	if settingsPath != "" {
		v := viper.New()
		v.SetConfigFile(settingsPath)
		v.SetConfigType("json")
		s.file = v
		// Overrides persisted by a previous run win over env/defaults.
		if err := v.ReadInConfig(); err == nil {
			s.applyFileOverrides(v)
			if err := s.cfg.Validate(); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Apply validates and applies a partial update, persisting the result when a
// settings file is configured.
func (s *Store) Apply(u Update) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg

	if u.DataFolder != nil {
		next.Storage.DataFolder = *u.DataFolder
	}
	if u.BackupFolder != nil {
		next.Storage.BackupFolder = *u.BackupFolder
	}
	if u.OutputNamingStrategy != nil {
		next.Storage.OutputNamingStrategy = *u.OutputNamingStrategy
	}
	if u.EnableAutoBackup != nil {
		next.Storage.EnableAutoBackup = *u.EnableAutoBackup
	}
	if u.BackupOnDownload != nil {
		next.Storage.BackupOnDownload = *u.BackupOnDownload
	}
	if u.BackupOnUpdate != nil {
		next.Storage.BackupOnUpdate = *u.BackupOnUpdate
	}
	if u.BackupRetentionDays != nil {
		next.Storage.BackupRetentionDays = *u.BackupRetentionDays
	}
	if u.ParallelDownloadWorkers != nil {
		next.Vendor.ParallelDownloadWorkers = *u.ParallelDownloadWorkers
	}
	if u.ParallelBulkWorkers != nil {
		next.Vendor.ParallelBulkWorkers = *u.ParallelBulkWorkers
	}
	if u.HTTPTimeoutSeconds != nil {
		next.Vendor.HTTPTimeoutSeconds = *u.HTTPTimeoutSeconds
	}
	if u.OperationMaxRetries != nil {
		next.Vendor.OperationMaxRetries = *u.OperationMaxRetries
	}
	if u.OperationRetryDelaySeconds != nil {
		next.Vendor.OperationRetryDelaySeconds = *u.OperationRetryDelaySeconds
	}
	if u.RateLimitMaxRetries != nil {
		next.Vendor.RateLimitMaxRetries = *u.RateLimitMaxRetries
	}
	if u.RateLimitInitialDelaySeconds != nil {
		next.Vendor.RateLimitInitialDelaySeconds = *u.RateLimitInitialDelaySeconds
	}
	if u.RateLimitMaxDelaySeconds != nil {
		next.Vendor.RateLimitMaxDelaySeconds = *u.RateLimitMaxDelaySeconds
	}
	if u.APIToken != nil && *u.APIToken != "" {
		next.Vendor.APIToken = *u.APIToken
	}
	if u.LogLevel != nil {
		if !validLogLevel(*u.LogLevel) {
			return Config{}, domain.ErrInvalidLogLevel
		}
		next.Logger.Level = *u.LogLevel
	}

	if err := next.Validate(); err != nil {
		return Config{}, err
	}

	s.cfg = next

	if s.file != nil {
		s.writeFile()
		if err := s.file.WriteConfigAs(s.path); err != nil {
			return Config{}, err
		}
	}

	return next, nil
}

func (s *Store) applyFileOverrides(v *viper.Viper) {
	if v.IsSet("data_folder") {
		s.cfg.Storage.DataFolder = v.GetString("data_folder")
	}
	if v.IsSet("backup_folder") {
		s.cfg.Storage.BackupFolder = v.GetString("backup_folder")
	}
	if v.IsSet("output_naming_strategy") {
		s.cfg.Storage.OutputNamingStrategy = v.GetString("output_naming_strategy")
	}
	if v.IsSet("enable_auto_backup") {
		s.cfg.Storage.EnableAutoBackup = v.GetBool("enable_auto_backup")
	}
	if v.IsSet("backup_on_download") {
		s.cfg.Storage.BackupOnDownload = v.GetBool("backup_on_download")
	}
	if v.IsSet("backup_on_update") {
		s.cfg.Storage.BackupOnUpdate = v.GetBool("backup_on_update")
	}
	if v.IsSet("backup_retention_days") {
		s.cfg.Storage.BackupRetentionDays = v.GetInt("backup_retention_days")
	}
	if v.IsSet("parallel_download_workers") {
		s.cfg.Vendor.ParallelDownloadWorkers = v.GetInt("parallel_download_workers")
	}
	if v.IsSet("parallel_bulk_workers") {
		s.cfg.Vendor.ParallelBulkWorkers = v.GetInt("parallel_bulk_workers")
	}
	if v.IsSet("http_timeout_seconds") {
		s.cfg.Vendor.HTTPTimeoutSeconds = v.GetInt("http_timeout_seconds")
	}
	if v.IsSet("operation_max_retries") {
		s.cfg.Vendor.OperationMaxRetries = v.GetInt("operation_max_retries")
	}
	if v.IsSet("operation_retry_delay_seconds") {
		s.cfg.Vendor.OperationRetryDelaySeconds = v.GetInt("operation_retry_delay_seconds")
	}
	if v.IsSet("rate_limit_max_retries") {
		s.cfg.Vendor.RateLimitMaxRetries = v.GetInt("rate_limit_max_retries")
	}
	if v.IsSet("rate_limit_initial_delay_seconds") {
		s.cfg.Vendor.RateLimitInitialDelaySeconds = v.GetInt("rate_limit_initial_delay_seconds")
	}
	if v.IsSet("rate_limit_max_delay_seconds") {
		s.cfg.Vendor.RateLimitMaxDelaySeconds = v.GetInt("rate_limit_max_delay_seconds")
	}
	if v.IsSet("log_level") {
		s.cfg.Logger.Level = v.GetString("log_level")
	}
}

func (s *Store) writeFile() {
	s.file.Set("data_folder", s.cfg.Storage.DataFolder)
	s.file.Set("backup_folder", s.cfg.Storage.BackupFolder)
	s.file.Set("output_naming_strategy", s.cfg.Storage.OutputNamingStrategy)
	s.file.Set("enable_auto_backup", s.cfg.Storage.EnableAutoBackup)
	s.file.Set("backup_on_download", s.cfg.Storage.BackupOnDownload)
	s.file.Set("backup_on_update", s.cfg.Storage.BackupOnUpdate)
	s.file.Set("backup_retention_days", s.cfg.Storage.BackupRetentionDays)
	s.file.Set("parallel_download_workers", s.cfg.Vendor.ParallelDownloadWorkers)
	s.file.Set("parallel_bulk_workers", s.cfg.Vendor.ParallelBulkWorkers)
	s.file.Set("http_timeout_seconds", s.cfg.Vendor.HTTPTimeoutSeconds)
	s.file.Set("operation_max_retries", s.cfg.Vendor.OperationMaxRetries)
	s.file.Set("operation_retry_delay_seconds", s.cfg.Vendor.OperationRetryDelaySeconds)
	s.file.Set("rate_limit_max_retries", s.cfg.Vendor.RateLimitMaxRetries)
	s.file.Set("rate_limit_initial_delay_seconds", s.cfg.Vendor.RateLimitInitialDelaySeconds)
	s.file.Set("rate_limit_max_delay_seconds", s.cfg.Vendor.RateLimitMaxDelaySeconds)
	s.file.Set("log_level", s.cfg.Logger.Level)
}

func validLogLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warning", "warn", "error", "fatal", "panic":
		return true
	}
	return false
}
