package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"fabric-artifact-manager/internal/adapters/primary/http/dto"
)

func (h *Handler) ListGateways(c *gin.Context) {
	gateways, err := h.gatewaySvc.ListGateways(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list gateways failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gateways": gateways})
}

func (h *Handler) ListDatasources(c *gin.Context) {
	datasources, err := h.gatewaySvc.ListDatasources(c.Request.Context(), c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasources": datasources})
}

func (h *Handler) ListDatasourceUsers(c *gin.Context) {
	users, err := h.gatewaySvc.ListDatasourceUsers(c.Request.Context(), c.Param("id"), c.Param("dsId"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) AddDatasourceUser(c *gin.Context) {
	var req dto.DatasourceUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.gatewaySvc.AddDatasourceUser(c.Request.Context(), c.Param("id"), c.Param("dsId"), req.EmailAddress, req.AccessRight)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "added"})
}

func (h *Handler) RemoveDatasourceUser(c *gin.Context) {
	err := h.gatewaySvc.RemoveDatasourceUser(c.Request.Context(), c.Param("id"), c.Param("dsId"), c.Param("email"))
	if err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *Handler) UpdateDatasourceCredentials(c *gin.Context) {
	var req dto.CredentialUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.gatewaySvc.UpdateDatasourceCredentials(c.Request.Context(), c.Param("id"), c.Param("dsId"), req.ToCredentialDetails())
	if err != nil {
		log.WithError(err).WithField("gateway_id", c.Param("id")).Error("credential update failed")
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
