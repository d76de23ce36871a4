package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fabric-artifact-manager/internal/adapters/primary/http/dto"
	"fabric-artifact-manager/internal/core/domain"
)

func (h *Handler) ListPresets(c *gin.Context) {
	presets, err := h.presetSvc.List(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.PresetResponse, 0, len(presets))
	for _, p := range presets {
		items = append(items, dto.ToPresetResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"presets": items})
}

func (h *Handler) CreatePreset(c *gin.Context) {
	var req dto.PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preset, err := h.presetSvc.Create(c.Request.Context(), req.Name, dto.ToMappings(req.Mappings))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPresetResponse(preset))
}

func (h *Handler) GetPreset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preset id"})
		return
	}

	preset, err := h.presetSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPresetResponse(preset))
}

func (h *Handler) UpdatePreset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preset id"})
		return
	}

	var req dto.PresetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Absent mappings keep the stored list; only an explicit list replaces it.
	var mappings []domain.Mapping
	if req.Mappings != nil {
		mappings = dto.ToMappings(req.Mappings)
	}

	preset, err := h.presetSvc.Update(c.Request.Context(), id, req.Name, mappings)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToPresetResponse(preset))
}

func (h *Handler) DeletePreset(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preset id"})
		return
	}

	if err := h.presetSvc.Delete(c.Request.Context(), id); err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) ListActionLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.actionLog.List(c.Request.Context(), limit)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
