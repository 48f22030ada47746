package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workshophub/backend/internal/domain/catalog"
	"github.com/workshophub/backend/internal/domain/shared"
	"github.com/workshophub/backend/internal/interfaces/http/dto"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleDomainError_NotFound(t *testing.T) {
	c, w := newTestContext(t)
	h := &BaseHandler{}

	h.HandleDomainError(c, shared.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestHandleDomainError_ConcurrencyConflict(t *testing.T) {
	c, w := newTestContext(t)
	h := &BaseHandler{}

	h.HandleDomainError(c, shared.ErrConcurrencyConflict)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeConcurrencyConflict, resp.Error.Code)
}

func TestHandleDomainError_InsufficientStock(t *testing.T) {
	c, w := newTestContext(t)
	h := &BaseHandler{}

	productID := uuid.New()
	h.HandleDomainError(c, catalog.NewInsufficientStockError(productID, 3, 5))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInsufficientStock, resp.Error.Code)
	require.NotNil(t, resp.Error.Details)
	assert.Equal(t, productID.String(), resp.Error.Details["product_id"])
	assert.Equal(t, float64(3), resp.Error.Details["available"])
	assert.Equal(t, float64(5), resp.Error.Details["requested"])
}

func TestHandleDomainError_UnknownError(t *testing.T) {
	c, w := newTestContext(t)
	h := &BaseHandler{}

	h.HandleDomainError(c, errors.New("driver: bad connection"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	// Internal details must not leak to the client
	assert.NotContains(t, resp.Error.Message, "driver")
}

func TestHandleDomainError_Nil(t *testing.T) {
	c, w := newTestContext(t)
	h := &BaseHandler{}

	h.HandleDomainError(c, nil)

	assert.Empty(t, w.Body.String())
}
