package handlers

import (
	"github.com/gin-gonic/gin"

	"fabric-artifact-manager/internal/config"
	"fabric-artifact-manager/internal/core/services"
)

// TokenRotator propagates API token changes to the vendor clients, so a
// settings update takes effect without a restart.
type TokenRotator interface {
	Set(token string)
}

type Handler struct {
	settings     *config.Store
	tokens       TokenRotator
	artifactSvc  *services.ArtifactService
	bulkSvc      *services.BulkService
	workspaceSvc *services.WorkspaceService
	gatewaySvc   *services.GatewayService
	presetSvc    *services.MappingPresetService
	actionLog    *services.ActionLogService
}

func New(
	settings *config.Store,
	tokens TokenRotator,
	artifactSvc *services.ArtifactService,
	bulkSvc *services.BulkService,
	workspaceSvc *services.WorkspaceService,
	gatewaySvc *services.GatewayService,
	presetSvc *services.MappingPresetService,
	actionLog *services.ActionLogService,
) *Handler {
	return &Handler{
		settings:     settings,
		tokens:       tokens,
		artifactSvc:  artifactSvc,
		bulkSvc:      bulkSvc,
		workspaceSvc: workspaceSvc,
		gatewaySvc:   gatewaySvc,
		presetSvc:    presetSvc,
		actionLog:    actionLog,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Settings
	r.GET("/config", h.GetSettings)
	r.PUT("/config", h.UpdateSettings)

	// Vendor inventory
	r.GET("/workspaces", h.ListWorkspaces)
	r.GET("/workspaces/:id/datasets", h.ListDatasets)
	r.GET("/workspaces/:id/reports", h.ListReports)

	// Local inventory
	r.GET("/artifacts/downloaded", h.ListDownloaded)

	// Single-artifact operations
	r.POST("/workspaces/:id/semantic-models/:modelId/download", h.DownloadModel)
	r.POST("/workspaces/:id/semantic-models/:modelId/upload", h.UploadModel)
	r.POST("/workspaces/:id/semantic-models/:modelId/replace-keywords", h.ReplaceModelKeywords)
	r.POST("/workspaces/:id/semantic-models/:modelId/revert", h.RevertModel)
	r.GET("/workspaces/:id/semantic-models/:modelId/backups", h.ListModelBackups)

	// Bulk operations
	r.POST("/semantic-models/download", h.BulkDownload)
	r.POST("/semantic-models/deploy", h.BulkDeploy)
	r.POST("/semantic-models/bulk-replace", h.BulkReplace)
	r.POST("/semantic-models/revert", h.BulkRevert)
	r.POST("/semantic-models/import-csv", h.ImportCSV)
	r.POST("/semantic-models/validate-folder", h.ValidateFolder)

	// Gateways
	r.GET("/gateways", h.ListGateways)
	r.GET("/gateways/:id/datasources", h.ListDatasources)
	r.GET("/gateways/:id/datasources/:dsId/users", h.ListDatasourceUsers)
	r.POST("/gateways/:id/datasources/:dsId/users", h.AddDatasourceUser)
	r.DELETE("/gateways/:id/datasources/:dsId/users/:email", h.RemoveDatasourceUser)
	r.PATCH("/gateways/:id/datasources/:dsId/credentials", h.UpdateDatasourceCredentials)

	// Mapping presets
	r.GET("/presets", h.ListPresets)
	r.POST("/presets", h.CreatePreset)
	r.GET("/presets/:id", h.GetPreset)
	r.PUT("/presets/:id", h.UpdatePreset)
	r.DELETE("/presets/:id", h.DeletePreset)

	// Audit trail
	r.GET("/action-log", h.ListActionLog)
}
