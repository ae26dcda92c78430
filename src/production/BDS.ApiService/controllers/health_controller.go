package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	interfaces "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Repository/Interfaces"
)

// HealthController reports live connectivity of the broker and the store.
type HealthController struct {
	repo interfaces.BeeReadingRepository
	mqtt MessagingClient
}

func NewHealthController(repo interfaces.BeeReadingRepository, mqtt MessagingClient) *HealthController {
	return &HealthController{repo: repo, mqtt: mqtt}
}

// RegisterRoutes registers the health routes with Gin
func (c *HealthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", c.Health)
}

func (c *HealthController) Health(ctx *gin.Context) {
	mongoStatus := "disconnected"
	if c.repo.IsConnected() {
		mongoStatus = "connected"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"mqtt_connected":    c.mqtt.IsConnected(),
		"mongodb_connected": mongoStatus,
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
}
