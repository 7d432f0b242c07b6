// en pkg/utils/response.go
package utils

import (
	"encoding/json"
	"net/http"

	"github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	"github.com/davicafu/taskforge/internal/shared/result"
	"github.com/gin-gonic/gin"
)

// PaginationHeaderName es la cabecera con los metadatos de página de los listados.
const PaginationHeaderName = "Pagination"

const (
	msgNotFound = "Resource not found"
	msgNoResult = "No result was produced"
)

// ErrorResponse define la estructura estándar para las respuestas de error.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SendSuccess envía una respuesta exitosa con el payload tal cual.
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendError envía una respuesta de error con un formato estandarizado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": ErrorResponse{
			Message: message,
		},
	})
}

// SendErrorWithDetails añade detalle al error (sólo en desarrollo).
func SendErrorWithDetails(c *gin.Context, statusCode int, message, details string) {
	c.JSON(statusCode, gin.H{
		"error": ErrorResponse{
			Message: message,
			Details: details,
		},
	})
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

// HandleResult traduce un Outcome en la respuesta HTTP según su clase.
func HandleResult[T any](c *gin.Context, o *result.Outcome[T]) {
	switch class := result.Classify(o); class {
	case result.ClassOK:
		SendSuccess(c, class.StatusCode(), o.Value())
	case result.ClassNotFound:
		SendNotFound(c, msgNotFound)
	case result.ClassBadRequest:
		SendBadRequest(c, o.Message())
	default:
		SendInternalServerError(c, msgNoResult)
	}
}

// HandlePagedResult es HandleResult para listados: en éxito escribe la cabecera
// Pagination y devuelve sólo los elementos. La exposición de la cabecera a los
// navegadores la hace el middleware CORS.
func HandlePagedResult[T any](c *gin.Context, o *result.Outcome[*query.PagedList[T]]) {
	if result.Classify(o) == result.ClassOK {
		header, err := json.Marshal(o.Value().Header())
		if err == nil {
			c.Header(PaginationHeaderName, string(header))
		}
	}
	HandleResult(c, result.Map(o, func(page *query.PagedList[T]) []T {
		return page.Items
	}))
}
