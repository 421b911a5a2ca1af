// Package handler contains the HTTP layer: request binding, error mapping
// and the JSON envelope. Business rules live in the services.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"datarw/internal/model"
	"datarw/internal/service"
	"datarw/pkg/util"
)

// respondError maps service sentinels onto HTTP status codes
func respondError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrPlanLimitReached):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	c.JSON(status, model.NewErrorResponse(message, err.Error()))
}

// pathID parses the named path parameter as an ObjectID. On failure it has
// already written the 400 response; callers just return.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := util.ParseObjectID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid "+name, err.Error()))
		return primitive.NilObjectID, false
	}
	return id, true
}
