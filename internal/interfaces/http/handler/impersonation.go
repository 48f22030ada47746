package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appaudit "github.com/workshophub/backend/internal/application/audit"
	"github.com/workshophub/backend/internal/domain/shared"
	"github.com/workshophub/backend/internal/interfaces/http/dto"
	"github.com/workshophub/backend/internal/interfaces/http/middleware"
)

// ImpersonationHandler exposes platform impersonation session and audit
// trail endpoints. Platform admin authentication happens upstream of
// these routes.
type ImpersonationHandler struct {
	BaseHandler
	service *appaudit.ImpersonationService
}

// NewImpersonationHandler creates an impersonation handler
func NewImpersonationHandler(service *appaudit.ImpersonationService) *ImpersonationHandler {
	return &ImpersonationHandler{service: service}
}

// RegisterRoutes registers impersonation routes
func (h *ImpersonationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	platform := rg.Group("/platform/impersonation")
	{
		platform.POST("", h.Start)
		platform.DELETE("", h.Stop)
		platform.GET("/status", h.Status)
		platform.GET("/logs", h.ListLogs)
	}
}

// StartImpersonationRequest is the request body to begin a session
type StartImpersonationRequest struct {
	AdminID  string `json:"admin_id" binding:"required,uuid"`
	TenantID string `json:"tenant_id" binding:"required,uuid"`
	UserID   string `json:"user_id" binding:"required,uuid"`
	Reason   string `json:"reason" binding:"omitempty,max=500"`
}

// StopImpersonationRequest is the request body to end a session
type StopImpersonationRequest struct {
	AdminID string `json:"admin_id" binding:"required,uuid"`
}

// Start begins an impersonation session and returns the tenant-scoped
// token
// POST /platform/impersonation
func (h *ImpersonationHandler) Start(c *gin.Context) {
	var req StartImpersonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.StartImpersonation(c.Request.Context(), appaudit.StartImpersonationInput{
		AdminID:   uuid.MustParse(req.AdminID),
		TenantID:  uuid.MustParse(req.TenantID),
		UserID:    uuid.MustParse(req.UserID),
		Reason:    req.Reason,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Stop ends the admin's active session. Stopping without an active
// session succeeds without effect.
// DELETE /platform/impersonation
func (h *ImpersonationHandler) Stop(c *gin.Context) {
	var req StopImpersonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.service.StopImpersonation(c.Request.Context(), uuid.MustParse(req.AdminID)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Status reports whether the admin currently has an active session
// GET /platform/impersonation/status?admin_id=...
func (h *ImpersonationHandler) Status(c *gin.Context) {
	adminID, err := uuid.Parse(c.Query("admin_id"))
	if err != nil {
		h.BadRequest(c, "Invalid admin_id parameter")
		return
	}

	active, err := h.service.IsImpersonating(c.Request.Context(), adminID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"active": active})
}

// ListLogs returns the impersonation audit trail, newest first
// GET /platform/impersonation/logs
func (h *ImpersonationHandler) ListLogs(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}

	if adminID := c.Query("admin_id"); adminID != "" {
		if id, err := uuid.Parse(adminID); err == nil {
			filter.Filters["admin_id"] = id
		} else {
			h.BadRequest(c, "Invalid admin_id parameter")
			return
		}
	}
	if tenantID := c.Query("tenant_id"); tenantID != "" {
		if id, err := uuid.Parse(tenantID); err == nil {
			filter.Filters["tenant_id"] = id
		} else {
			h.BadRequest(c, "Invalid tenant_id parameter")
			return
		}
	}
	if active := c.Query("active"); active != "" {
		filter.Filters["active"] = active == "true"
	}

	page, err := h.service.GetPaginatedLogs(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
