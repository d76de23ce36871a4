package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fabric-artifact-manager/internal/adapters/primary/http/dto"
)

func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToSettingsResponse(h.settings.Snapshot()))
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req dto.SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.settings.Apply(req.ToUpdate())
	if err != nil {
		log.WithError(err).Warn("settings update rejected")
		mapDomainError(c, err)
		return
	}

	// The vendor clients hold the token source directly; rotate it here so
	// the new token is used without a restart.
	if req.APIToken != nil {
		h.tokens.Set(*req.APIToken)
	}

	c.JSON(http.StatusOK, dto.ToSettingsResponse(cfg))
}
