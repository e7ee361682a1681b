package httpHandler

import (
	"errors"
	"net/http"

	"ieqi-server/repositories"
	"ieqi-server/usecases"

	"github.com/gin-gonic/gin"
)

const (
	msgHealthy       = "IEQI Backend is running. Use /api/ieqi endpoints."
	msgInvalidJSON   = "Invalid JSON body"
	msgInvalidFields = "Missing or invalid fields. Required: temperature, humidity, light, ieqi, device_id"
	msgStored        = "Data stored successfully"
	msgNotStored     = "Failed to store data in database"
	msgNoData        = "No data found"
	msgNotFound      = "Endpoint not found"
)

type ReadingHandler struct {
	useCase *usecases.ReadingUseCase
}

func NewReadingHandler(useCase *usecases.ReadingUseCase) *ReadingHandler {
	return &ReadingHandler{
		useCase: useCase,
	}
}

// Health handles GET /
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": msgHealthy,
		"status":  "healthy",
	})
}

// NotFound answers any method and path without a route.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
}

// Ingest handles POST /api/ieqi
func (h *ReadingHandler) Ingest(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}

	_, err = h.useCase.Ingest(body)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": msgStored,
		})
	case errors.Is(err, usecases.ErrInvalidJSON):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
	case errors.Is(err, usecases.ErrInvalidFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidFields})
	case errors.Is(err, repositories.ErrNotStored):
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgNotStored})
	default:
		_ = c.Error(err)
	}
}

// ListRecent handles GET /api/ieqi
func (h *ReadingHandler) ListRecent(c *gin.Context) {
	readings, err := h.useCase.ListRecent()
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": readings,
	})
}

// Latest handles GET /api/ieqi/latest
func (h *ReadingHandler) Latest(c *gin.Context) {
	reading, err := h.useCase.Latest()
	if errors.Is(err, usecases.ErrNoReadings) {
		c.JSON(http.StatusNotFound, gin.H{"message": msgNoData})
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": reading,
	})
}
