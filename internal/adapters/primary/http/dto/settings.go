package dto

import "fabric-artifact-manager/internal/config"

// SettingsResponse is the user-visible configuration. The API token is never
// echoed back; only its presence is reported.
type SettingsResponse struct {
	DataFolder                   string `json:"data_folder"`
	BackupFolder                 string `json:"backup_folder"`
	OutputNamingStrategy         string `json:"output_naming_strategy"`
	EnableAutoBackup             bool   `json:"enable_auto_backup"`
	BackupOnDownload             bool   `json:"backup_on_download"`
	BackupOnUpdate               bool   `json:"backup_on_update"`
	BackupRetentionDays          int    `json:"backup_retention_days"`
	ParallelDownloadWorkers      int    `json:"parallel_download_workers"`
	ParallelBulkWorkers          int    `json:"parallel_bulk_workers"`
	HTTPTimeoutSeconds           int    `json:"http_timeout_seconds"`
	OperationMaxRetries          int    `json:"operation_max_retries"`
	OperationRetryDelaySeconds   int    `json:"operation_retry_delay_seconds"`
	RateLimitMaxRetries          int    `json:"rate_limit_max_retries"`
	RateLimitInitialDelaySeconds int    `json:"rate_limit_initial_delay_seconds"`
	RateLimitMaxDelaySeconds     int    `json:"rate_limit_max_delay_seconds"`
	APITokenSet                  bool   `json:"api_token_set"`
	LogLevel                     string `json:"log_level"`
}

func ToSettingsResponse(cfg config.Config) SettingsResponse {
	return SettingsResponse{
		DataFolder:                   cfg.Storage.DataFolder,
		BackupFolder:                 cfg.Storage.BackupFolder,
		OutputNamingStrategy:         cfg.Storage.OutputNamingStrategy,
		EnableAutoBackup:             cfg.Storage.EnableAutoBackup,
		BackupOnDownload:             cfg.Storage.BackupOnDownload,
		BackupOnUpdate:               cfg.Storage.BackupOnUpdate,
		BackupRetentionDays:          cfg.Storage.BackupRetentionDays,
		ParallelDownloadWorkers:      cfg.Vendor.ParallelDownloadWorkers,
		ParallelBulkWorkers:          cfg.Vendor.ParallelBulkWorkers,
		HTTPTimeoutSeconds:           cfg.Vendor.HTTPTimeoutSeconds,
		OperationMaxRetries:          cfg.Vendor.OperationMaxRetries,
		OperationRetryDelaySeconds:   cfg.Vendor.OperationRetryDelaySeconds,
		RateLimitMaxRetries:          cfg.Vendor.RateLimitMaxRetries,
		RateLimitInitialDelaySeconds: cfg.Vendor.RateLimitInitialDelaySeconds,
		RateLimitMaxDelaySeconds:     cfg.Vendor.RateLimitMaxDelaySeconds,
		APITokenSet:                  cfg.Vendor.APIToken != "",
		LogLevel:                     cfg.Logger.Level,
	}
}

// SettingsUpdateRequest is a partial update; absent fields are unchanged.
type SettingsUpdateRequest struct {
	DataFolder                   *string `json:"data_folder"`
	BackupFolder                 *string `json:"backup_folder"`
	OutputNamingStrategy         *string `json:"output_naming_strategy"`
	EnableAutoBackup             *bool   `json:"enable_auto_backup"`
	BackupOnDownload             *bool   `json:"backup_on_download"`
	BackupOnUpdate               *bool   `json:"backup_on_update"`
	BackupRetentionDays          *int    `json:"backup_retention_days"`
	ParallelDownloadWorkers      *int    `json:"parallel_download_workers"`
	ParallelBulkWorkers          *int    `json:"parallel_bulk_workers"`
	HTTPTimeoutSeconds           *int    `json:"http_timeout_seconds"`
	OperationMaxRetries          *int    `json:"operation_max_retries"`
	OperationRetryDelaySeconds   *int    `json:"operation_retry_delay_seconds"`
	RateLimitMaxRetries          *int    `json:"rate_limit_max_retries"`
	RateLimitInitialDelaySeconds *int    `json:"rate_limit_initial_delay_seconds"`
	RateLimitMaxDelaySeconds     *int    `json:"rate_limit_max_delay_seconds"`
	APIToken                     *string `json:"api_token"`
	LogLevel                     *string `json:"log_level"`
}

func (r SettingsUpdateRequest) ToUpdate() config.Update {
	return config.Update{
		DataFolder:                   r.DataFolder,
		BackupFolder:                 r.BackupFolder,
		OutputNamingStrategy:         r.OutputNamingStrategy,
		EnableAutoBackup:             r.EnableAutoBackup,
		BackupOnDownload:             r.BackupOnDownload,
		BackupOnUpdate:               r.BackupOnUpdate,
		BackupRetentionDays:          r.BackupRetentionDays,
		ParallelDownloadWorkers:      r.ParallelDownloadWorkers,
		ParallelBulkWorkers:          r.ParallelBulkWorkers,
		HTTPTimeoutSeconds:           r.HTTPTimeoutSeconds,
		OperationMaxRetries:          r.OperationMaxRetries,
		OperationRetryDelaySeconds:   r.OperationRetryDelaySeconds,
		RateLimitMaxRetries:          r.RateLimitMaxRetries,
		RateLimitInitialDelaySeconds: r.RateLimitInitialDelaySeconds,
		RateLimitMaxDelaySeconds:     r.RateLimitMaxDelaySeconds,
		APIToken:                     r.APIToken,
		LogLevel:                     r.LogLevel,
	}
}
