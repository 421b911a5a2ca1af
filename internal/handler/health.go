package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"datarw/internal/events"
	"datarw/internal/model"
)

// HealthHandler reports process and database health
type HealthHandler struct {
	mongo *mongo.Client
	hub   *events.Hub
	start time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(client *mongo.Client, hub *events.Hub) *HealthHandler {
	return &HealthHandler{mongo: client, hub: hub, start: time.Now()}
}

// Check pings the database and reports basic liveness
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "up"
	status := http.StatusOK
	if err := h.mongo.Ping(ctx, readpref.Primary()); err != nil {
		dbStatus = "down"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, model.NewSuccessResponse("", gin.H{
		"status":      dbStatus,
		"uptime":      time.Since(h.start).Truncate(time.Second).String(),
		"subscribers": h.hub.SubscriberCount(),
	}))
}
