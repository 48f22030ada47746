package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appledger "github.com/workshophub/backend/internal/application/stockledger"
	"github.com/workshophub/backend/internal/domain/shared"
	"github.com/workshophub/backend/internal/interfaces/http/dto"
	"github.com/workshophub/backend/internal/interfaces/http/middleware"
)

// StockLedgerHandler exposes stock adjustment, reconciliation and stock
// query endpoints
type StockLedgerHandler struct {
	BaseHandler
	service *appledger.Service
}

// NewStockLedgerHandler creates a stock ledger handler
func NewStockLedgerHandler(service *appledger.Service) *StockLedgerHandler {
	return &StockLedgerHandler{service: service}
}

// RegisterRoutes registers stock ledger routes
func (h *StockLedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("/low-stock", h.ListLowStock)
		products.GET("/:id/stock", h.GetStockStatus)
		products.GET("/:id/stock/availability", h.CheckAvailability)
		products.GET("/:id/stock/movements", h.ListMovements)
		products.POST("/:id/stock/adjustments", h.AdjustStock)
		products.POST("/:id/stock/reconcile", h.Reconcile)
	}
}

// AdjustStockRequest is the request body for a stock adjustment
type AdjustStockRequest struct {
	MovementType string `json:"movement_type" binding:"required,oneof=in out"`
	Reason       string `json:"reason" binding:"required,oneof=purchase sale adjustment loss return transfer initial other"`
	Quantity     int64  `json:"quantity" binding:"required,gt=0"`
	Notes        string `json:"notes" binding:"omitempty,max=1000"`
}

// AdjustStock records a stock movement for a product
// POST /products/:id/stock/adjustments
func (h *StockLedgerHandler) AdjustStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	productID := uuid.MustParse(uri.ID)

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := appledger.AdjustStockInput{
		TenantID:     tenantID,
		ProductID:    productID,
		MovementType: req.MovementType,
		Reason:       req.Reason,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
	}
	if actorID, err := getUserID(c); err == nil {
		input.ActorID = &actorID
	}

	result, err := h.service.AdjustStock(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Reconcile recomputes a product's cached quantity from its movement
// history
// POST /products/:id/stock/reconcile
func (h *StockLedgerHandler) Reconcile(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.service.Reconcile(c.Request.Context(), tenantID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// GetStockStatus returns the current stock state of a product
// GET /products/:id/stock
func (h *StockLedgerHandler) GetStockStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.service.GetStockStatus(c.Request.Context(), tenantID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// CheckAvailability reports whether a product holds at least the
// requested quantity
// GET /products/:id/stock/availability?quantity=5
func (h *StockLedgerHandler) CheckAvailability(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	quantity, err := strconv.ParseInt(c.Query("quantity"), 10, 64)
	if err != nil {
		h.BadRequest(c, "Invalid quantity parameter")
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), tenantID, uuid.MustParse(uri.ID), quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"available": available})
}

// ListMovements returns the movement history of a product, newest first
// GET /products/:id/stock/movements
func (h *StockLedgerHandler) ListMovements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListMovements(c.Request.Context(), tenantID, uuid.MustParse(uri.ID), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListLowStock returns products at or below their minimum stock level
// GET /products/low-stock
func (h *StockLedgerHandler) ListLowStock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant context required")
		return
	}

	filter, ok := h.bindListFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListLowStock(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// bindListFilter binds common pagination query parameters. Responds
// with 400 and returns false on binding failure.
func (h *StockLedgerHandler) bindListFilter(c *gin.Context) (shared.Filter, bool) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters: "+err.Error())
		return shared.Filter{}, false
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	return filter, true
}
