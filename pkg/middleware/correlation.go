package middleware

import (
	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxCorrelationIDLength descarta cabeceras desmesuradas; se genera una nueva.
const maxCorrelationIDLength = 128

// CorrelationID toma el correlation id de la cabecera X-Correlation-ID o genera
// uno, lo devuelve en la respuesta y lo deja en el contexto de la petición para
// que los eventos de cambio lo propaguen.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(sharedBus.CorrelationHTTPHeader)
		if id == "" || len(id) > maxCorrelationIDLength {
			id = uuid.NewString()
		}

		c.Header(sharedBus.CorrelationHTTPHeader, id)
		c.Request = c.Request.WithContext(sharedBus.WithCorrelationID(c.Request.Context(), id))
		c.Next()
	}
}
