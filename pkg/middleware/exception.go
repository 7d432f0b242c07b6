package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
	"github.com/davicafu/taskforge/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgInternal = "Internal Server Error"

// Exception captura los pánicos y los errores que los handlers adjuntan con
// c.Error y que no se han respondido. Devuelve 500; en desarrollo incluye el
// detalle y la traza.
func Exception(log *zap.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("%v", r)
				stack := string(debug.Stack())
				log.Error("🔥 Panic recovered",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
					zap.String("stack", stack),
				)
				respond(c, development, err.Error(), stack)
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		log.Error("Unhandled error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		respond(c, development, err.Error(), "")
	}
}

func respond(c *gin.Context, development bool, message, stack string) {
	if !development {
		utils.SendInternalServerError(c, msgInternal)
		return
	}
	details := stack
	if details == "" {
		details = message
	}
	utils.SendErrorWithDetails(c, http.StatusInternalServerError, message, details)
}

// RequestLogger registra cada petición con zap.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("correlation_id", sharedBus.CorrelationID(c.Request.Context())),
		)
	}
}
