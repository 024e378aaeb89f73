package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mesaposte/mesa-api/internal/application/service"
	"github.com/mesaposte/mesa-api/internal/presentation/http/dto/request"
	"github.com/mesaposte/mesa-api/internal/presentation/http/dto/response"
)

// TenantHandler handles tenant HTTP requests
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// GetCurrent handles retrieving the caller's tenant
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenant, err := h.tenantService.GetCurrentTenant(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tenant retrieved successfully", tenant)
}

// UpdateSettings handles updating tenant name and receipt branding
func (h *TenantHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateTenantSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tenant, err := h.tenantService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		Name:          req.Name,
		Currency:      req.Currency,
		ReceiptFooter: req.ReceiptFooter,
		StoreName:     req.StoreName,
		Address:       req.Address,
		Phone:         req.Phone,
		TaxID:         req.TaxID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", tenant)
}
