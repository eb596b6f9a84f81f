package middleware

import (
	"net/http"

	"github.com/Ryan-Dante/stock-price-checker/internal/domain/dto"
	"github.com/Ryan-Dante/stock-price-checker/internal/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandler is a catch-all for errors attached to the Gin context with
// c.Error that no handler turned into a response. It logs each one and, if
// the response is still open, emits a generic 500 payload.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}

	rid, _ := c.Get(RequestIDKey)
	for _, e := range c.Errors {
		logger.L().Error().
			Str("request_id", toString(rid)).
			Str("path", c.Request.URL.Path).
			Err(e.Err).
			Msg("request error")
	}

	if !c.Writer.Written() {
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", c.Errors.Last().Err))
	}
}
