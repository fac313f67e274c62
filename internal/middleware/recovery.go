package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"surf-forecast/internal/apis/dtos"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CustomRecoveryMiddleware turns a panic into a 500 error body and logs the stack.
func CustomRecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Recovery from panic",
					zap.Any("panic", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(requestIDKey)),
					zap.ByteString("stack", debug.Stack()),
				)

				errorMsg := "Internal Server Error"
				if gin.IsDebugging() {
					errorMsg = fmt.Sprintf("Internal Server Error: %v", err)
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dtos.NewErrorResponse(http.StatusInternalServerError, errorMsg))
			}
		}()
		c.Next()
	}
}
