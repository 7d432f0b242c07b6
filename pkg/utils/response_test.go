package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davicafu/taskforge/internal/shared/infra/platform/query"
	"github.com/davicafu/taskforge/internal/shared/result"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestHandleResult(t *testing.T) {
	tests := []struct {
		name     string
		run      func(c *gin.Context)
		wantCode int
		wantBody string
	}{
		{
			name:     "outcome nil",
			run:      func(c *gin.Context) { HandleResult[*item](c, nil) },
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":{"message":"No result was produced"}}`,
		},
		{
			name:     "fallo con mensaje literal",
			run:      func(c *gin.Context) { HandleResult(c, result.Failure[*item]("Task item not found")) },
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":{"message":"Task item not found"}}`,
		},
		{
			name:     "éxito con puntero nil",
			run:      func(c *gin.Context) { HandleResult(c, result.Success[*item](nil)) },
			wantCode: http.StatusNotFound,
			wantBody: `{"error":{"message":"Resource not found"}}`,
		},
		{
			name:     "éxito con cero numérico",
			run:      func(c *gin.Context) { HandleResult(c, result.Success(0)) },
			wantCode: http.StatusNotFound,
			wantBody: `{"error":{"message":"Resource not found"}}`,
		},
		{
			name:     "éxito con número",
			run:      func(c *gin.Context) { HandleResult(c, result.Success(42)) },
			wantCode: http.StatusOK,
			wantBody: `42`,
		},
		{
			name:     "éxito con valor",
			run:      func(c *gin.Context) { HandleResult(c, result.Success(&item{Name: "x"})) },
			wantCode: http.StatusOK,
			wantBody: `{"name":"x"}`,
		},
		{
			name:     "Unit",
			run:      func(c *gin.Context) { HandleResult(c, result.Success(result.Unit{})) },
			wantCode: http.StatusOK,
			wantBody: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext()

			tt.run(c)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestHandlePagedResult_SetsHeader(t *testing.T) {
	// Arrange
	c, w := newContext()
	page := query.NewPagedList([]*item{{Name: "a"}}, 3, query.PagingParams{PageNumber: 1, PageSize: 1})

	// Act
	HandlePagedResult(c, result.Success(page))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"name":"a"}]`, w.Body.String())

	var header query.PaginationHeader
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get(PaginationHeaderName)), &header))
	assert.Equal(t, query.PaginationHeader{CurrentPage: 1, TotalPages: 3, PageSize: 1, TotalCount: 3}, header)
}

func TestHandlePagedResult_FailureHasNoHeader(t *testing.T) {
	c, w := newContext()

	HandlePagedResult(c, result.Failure[*query.PagedList[*item]]("boom"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get(PaginationHeaderName))
}
