package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fabric-artifact-manager/internal/adapters/primary/http/dto"
	"fabric-artifact-manager/internal/core/domain"
	"fabric-artifact-manager/internal/core/services"
)

func (h *Handler) ListDownloaded(c *gin.Context) {
	workspaces, err := h.artifactSvc.Inventory()
	if err != nil {
		log.WithError(err).Error("inventory scan failed")
		mapDomainError(c, err)
		return
	}
	if workspaces == nil {
		workspaces = []domain.WorkspaceInventory{}
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

func (h *Handler) DownloadModel(c *gin.Context) {
	workspaceID := c.Param("id")
	modelID := c.Param("modelId")

	var req dto.DownloadRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	artifact, err := h.artifactSvc.Download(c.Request.Context(), workspaceID, req.WorkspaceName, modelID, req.DatasetName)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"workspace_id": workspaceID,
			"model_id":     modelID,
		}).Error("download failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, artifact)
}

func (h *Handler) UploadModel(c *gin.Context) {
	workspaceID := c.Param("id")
	modelID := c.Param("modelId")

	if err := h.artifactSvc.Deploy(c.Request.Context(), workspaceID, modelID); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"workspace_id": workspaceID,
			"model_id":     modelID,
		}).Error("deploy failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deployed"})
}

func (h *Handler) ReplaceModelKeywords(c *gin.Context) {
	var req dto.ReplaceKeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mappings, err := services.CleanMappings(dto.ToMappings(req.Mappings))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	stats, err := h.artifactSvc.ReplaceKeywords(c.Request.Context(), c.Param("id"), c.Param("modelId"), mappings)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) RevertModel(c *gin.Context) {
	workspaceID := c.Param("id")
	modelID := c.Param("modelId")

	if err := h.artifactSvc.Revert(c.Request.Context(), workspaceID, modelID); err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reverted"})
}

func (h *Handler) ListModelBackups(c *gin.Context) {
	backups, err := h.artifactSvc.ListBackups(c.Param("id"), c.Param("modelId"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backups": backups})
}

func (h *Handler) ValidateFolder(c *gin.Context) {
	var req dto.ValidateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.artifactSvc.ValidateFolder(req.FolderPath))
}
