package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	generator "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Generator"
	logger "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Logger"
	bdsmodels "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Models"
	interfaces "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Repository/Interfaces"
	validation "gitlab.com/biodscan1/bds.mqtt_server/src/production/BDS.Validation"
)

// MessagingClient is the slice of the MQTT ingestor the API layer needs.
type MessagingClient interface {
	Publish(topic string, data interface{})
	IsConnected() bool
}

const syntheticBatchSize = 5

// BeeDataController handles bee reading requests
type BeeDataController struct {
	repo   interfaces.BeeReadingRepository
	mqtt   MessagingClient
	topic  string
	logger *logger.Logger
}

// NewBeeDataController creates a new bee data controller
func NewBeeDataController(repo interfaces.BeeReadingRepository, mqtt MessagingClient, topic string, log *logger.Logger) *BeeDataController {
	return &BeeDataController{
		repo:   repo,
		mqtt:   mqtt,
		topic:  topic,
		logger: log.WithComponent("api"),
	}
}

// RegisterRoutes registers the bee data routes with Gin
func (c *BeeDataController) RegisterRoutes(router *gin.Engine) {
	router.GET("/", c.Root)
	router.GET("/api/bee-data", c.GetBeeData)
	router.GET("/api/external-bee-data", c.GetExternalBeeData)
	router.POST("/bee-data", c.CreateBeeData)
}

func (c *BeeDataController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Bio-D-Scan Backend API",
		"version": "1.0.0",
	})
}

// GetBeeData returns the most recent persisted readings, newest first.
// A degraded store yields an empty list, never an error body.
func (c *BeeDataController) GetBeeData(ctx *gin.Context) {
	limit := parseLimit(ctx.DefaultQuery("limit", "10"))
	hiveID := ctx.Query("hive_id")

	readings := c.repo.Query(ctx, limit, hiveID)
	ctx.JSON(http.StatusOK, readings)
}

// GetExternalBeeData generates a synthetic batch, publishes it to the
// sensor topic and returns the most recent persisted readings after a
// short settle wait for the ingestion round trip.
func (c *BeeDataController) GetExternalBeeData(ctx *gin.Context) {
	limit := parseLimit(ctx.DefaultQuery("limit", "10"))

	records := generator.Generate(syntheticBatchSize)
	for _, record := range records {
		c.mqtt.Publish(c.topic, record)
	}
	c.logger.WithField("count", len(records)).Info("Generated and published synthetic readings")

	// Give the ingestion round trip a moment before reading back.
	time.Sleep(500 * time.Millisecond)

	if !c.repo.IsConnected() {
		ctx.JSON(http.StatusOK, gin.H{
			"success":   true,
			"data":      records,
			"count":     len(records),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	readings := c.repo.Query(ctx, limit, "")
	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      readings,
		"count":     len(readings),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// CreateBeeData accepts a canonical reading, persists it and republishes
// it on the sensor topic.
func (c *BeeDataController) CreateBeeData(ctx *gin.Context) {
	var reading bdsmodels.BeeReading
	if err := ctx.ShouldBindJSON(&reading); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validation.IsValid(reading.Temperature, reading.Humidity) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "reading outside accepted sensor ranges"})
		return
	}

	if reading.Timestamp == "" {
		reading.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	c.repo.Insert(ctx, reading)
	c.mqtt.Publish(c.topic, reading)

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": reading})
}

func parseLimit(raw string) int64 {
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit < 1 {
		return 10
	}
	return limit
}
