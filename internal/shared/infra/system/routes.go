// Package system expone los endpoints de servicio comunes a todos los procesos.
package system

import (
	"context"
	"net/http"
	"time"

	"github.com/davicafu/taskforge/internal/shared/result"
	"github.com/davicafu/taskforge/pkg/utils"
	"github.com/gin-gonic/gin"
)

// readinessTimeout acota el conjunto de comprobaciones de /health/ready.
const readinessTimeout = 2 * time.Second

// VersionInfo es la respuesta de GET /version.
type VersionInfo struct {
	Environment string `json:"environment"`
	Version     string `json:"version"`
}

// ReadinessCheck comprueba una dependencia (base de datos, caché...).
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// RegisterHealth registra GET /health, GET /health/live y GET /health/ready.
// live sólo indica que el proceso responde; ready ejecuta las comprobaciones y
// devuelve 503 si alguna falla.
func RegisterHealth(r gin.IRouter, service string, checks ...ReadinessCheck) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": service})
	})

	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive", "service": service})
	})

	r.GET("/health/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		status, code := "ready", http.StatusOK
		results := make(map[string]string, len(checks))
		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				results[check.Name] = err.Error()
				status, code = "unavailable", http.StatusServiceUnavailable
				continue
			}
			results[check.Name] = "ok"
		}

		c.JSON(code, gin.H{"status": status, "service": service, "checks": results})
	})
}

// RegisterVersion registra GET /version. La respuesta pasa por el mismo mapeo
// de resultados que el resto de la API.
func RegisterVersion(r gin.IRouter, info VersionInfo) {
	r.GET("/version", func(c *gin.Context) {
		utils.HandleResult(c, result.Success(info))
	})
}
