package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ammar1510/chatterbox/internal/logger"
	"github.com/ammar1510/chatterbox/internal/service"
)

var log = logger.New("api")

// statusFor maps a service error kind to its HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindInvalidInput, service.KindConflict, service.KindInvalidCredentials:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"message": ...}. Upstream failures are logged
// with their cause and reported to the client as a generic server error.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	if kind == service.KindUpstream {
		log.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(statusFor(kind), gin.H{"message": service.PublicMessage(err)})
}

// bindJSON decodes the request body into dst. An empty body leaves dst zero
// so field validation reports the missing values.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return false
	}
	return true
}
