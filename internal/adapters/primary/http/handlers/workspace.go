package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListWorkspaces(c *gin.Context) {
	workspaces, err := h.workspaceSvc.ListWorkspaces(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list workspaces failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

func (h *Handler) ListDatasets(c *gin.Context) {
	datasets, err := h.workspaceSvc.ListDatasets(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.WithError(err).Error("list datasets failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": datasets})
}

func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.workspaceSvc.ListReports(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.WithError(err).Error("list reports failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
