package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	sharedBus "github.com/davicafu/taskforge/internal/shared/infra/platform/bus"
	"github.com/davicafu/taskforge/pkg/utils"
)

// CORS permite a los orígenes dados llamar a la API desde el navegador y les
// expone la cabecera Pagination. "*" admite cualquier origen. Sin orígenes
// devuelve nil: no hay política CORS.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}

	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", sharedBus.CorrelationHTTPHeader},
		ExposeHeaders: []string{utils.PaginationHeaderName, sharedBus.CorrelationHTTPHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}
