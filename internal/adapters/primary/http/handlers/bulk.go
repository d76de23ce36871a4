package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fabric-artifact-manager/internal/adapters/primary/http/dto"
	"fabric-artifact-manager/internal/core/domain"
	"fabric-artifact-manager/internal/core/services"
)

func (h *Handler) BulkDownload(c *gin.Context) {
	h.runBulk(c, domain.BatchOpDownload)
}

func (h *Handler) BulkDeploy(c *gin.Context) {
	h.runBulk(c, domain.BatchOpDeploy)
}

func (h *Handler) BulkRevert(c *gin.Context) {
	h.runBulk(c, domain.BatchOpRevert)
}

func (h *Handler) runBulk(c *gin.Context, op domain.BatchOperation) {
	var req dto.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary := h.bulkSvc.RunBatch(c.Request.Context(), dto.ToBatchEntries(req.Items), op, services.BatchOptions{})
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) BulkReplace(c *gin.Context) {
	var req dto.BulkReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mappings, err := services.CleanMappings(dto.ToMappings(req.Mappings))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	summary := h.bulkSvc.RunBatch(c.Request.Context(), dto.ToBatchEntries(req.Items),
		domain.BatchOpReplace, services.BatchOptions{Mappings: mappings})
	c.JSON(http.StatusOK, summary)
}

// ImportCSV accepts a multipart CSV upload, parses it and reconciles the
// parsed rows against the local inventory. Row-level problems are reported
// alongside the accepted entries; only a missing file or missing required
// columns fail the request.
func (h *Handler) ImportCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	defer file.Close()

	entries, rowErrors, err := services.ParseBulkCSV(file)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	index, err := h.artifactSvc.InventoryIndex()
	if err != nil {
		log.WithError(err).Error("inventory scan failed during CSV import")
		mapDomainError(c, err)
		return
	}
	entries = h.bulkSvc.Reconcile(entries, index)

	if entries == nil {
		entries = []domain.BatchEntry{}
	}
	if rowErrors == nil {
		rowErrors = []services.RowError{}
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":    entries,
		"row_errors": rowErrors,
	})
}
