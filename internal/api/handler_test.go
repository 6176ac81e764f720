package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func failWith(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fail(c, err)
	return w
}

func TestFailStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &service.ValidationError{Message: "Shop name is required"}, http.StatusBadRequest},
		{"unavailable", &service.UnavailableError{Message: "Selected item is not available"}, http.StatusBadRequest},
		{"insufficient stock", &service.InsufficientStockError{Available: 2}, http.StatusBadRequest},
		{"not found", &service.NotFoundError{Message: "Item not found"}, http.StatusNotFound},
		{"conflict", &service.ConflictError{Message: "Item already exists"}, http.StatusConflict},
		{"storage", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := failWith(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestFailHidesInternalErrors(t *testing.T) {
	w := failWith(t, errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestOkRendersEmptyListAsArray(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	ok(c, http.StatusOK, "items", []struct{}{}, "Items fetched successfully")
	assert.Contains(t, w.Body.String(), `"items":[]`)
	assert.NotContains(t, w.Body.String(), `"items":null`)
}

func TestFailReportsAvailableQuantity(t *testing.T) {
	w := failWith(t, &service.InsufficientStockError{Available: 4})
	assert.Contains(t, w.Body.String(), "Only 4 available")
}
