package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fabric-artifact-manager/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrMetadataNotFound),
		errors.Is(err, domain.ErrSourceNotFound),
		errors.Is(err, domain.ErrNoBackupAvailable),
		errors.Is(err, domain.ErrArtifactNotDownloaded),
		errors.Is(err, domain.ErrPresetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrPresetNameConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidWorkspaceID),
		errors.Is(err, domain.ErrInvalidArtifactID),
		errors.Is(err, domain.ErrEmptyMapping),
		errors.Is(err, domain.ErrNoMappings),
		errors.Is(err, domain.ErrMissingCSVColumn),
		errors.Is(err, domain.ErrInvalidRetention),
		errors.Is(err, domain.ErrInvalidWorkerCount),
		errors.Is(err, domain.ErrInvalidTimeout),
		errors.Is(err, domain.ErrInvalidRetryCount),
		errors.Is(err, domain.ErrInvalidNamingStrategy),
		errors.Is(err, domain.ErrInvalidLogLevel),
		errors.Is(err, domain.ErrInvalidPresetName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Corrupt local state
	case errors.Is(err, domain.ErrCorruptMetadata),
		errors.Is(err, domain.ErrPartialScan):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	// Upstream failures
	case errors.Is(err, domain.ErrRemoteOperationFailed),
		errors.Is(err, domain.ErrDefinitionMissing):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrOperationTimedOut):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
