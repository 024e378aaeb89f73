package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/application/service"
	"github.com/mesaposte/mesa-api/internal/domain/repository"
	"github.com/mesaposte/mesa-api/internal/presentation/http/dto/request"
	"github.com/mesaposte/mesa-api/internal/presentation/http/dto/response"
	"github.com/mesaposte/mesa-api/pkg/pagination"
)

// AccountHandler handles open-tab HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create handles opening a new tab
func (h *AccountHandler) Create(c *gin.Context) {
	var req request.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), &service.CreateAccountInput{
		BranchID: req.BranchID,
		Name:     req.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Account created successfully", account)
}

// Get handles retrieving a tab with its lines
func (h *AccountHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account retrieved successfully", account)
}

// List handles listing tabs
func (h *AccountHandler) List(c *gin.Context) {
	var filter request.AccountFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.AccountFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Closed: filter.Closed,
		Search: filter.Search,
	}
	if filter.BranchID != "" {
		branchID, err := uuid.Parse(filter.BranchID)
		if err == nil {
			params.BranchID = &branchID
		}
	}

	result, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Accounts retrieved successfully", result)
}

// Delete handles removing an open tab
func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddItem handles adding product units to a tab
func (h *AccountHandler) AddItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	account, err := h.accountService.AddItem(c.Request.Context(), id, &service.AddItemInput{
		ProductID:      req.ProductID,
		Quantity:       quantity,
		Customizations: req.Customizations,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added successfully", account)
}

// RemoveItem handles deleting a line from a tab
func (h *AccountHandler) RemoveItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid account ID")
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	account, err := h.accountService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed successfully", account)
}

// UpdateQuantity handles changing a line's quantity
func (h *AccountHandler) UpdateQuantity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid account ID")
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.UpdateQuantity(c.Request.Context(), id, itemID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quantity updated successfully", account)
}

// Split handles dividing the tab balance into shares
func (h *AccountHandler) Split(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	var req request.SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.accountService.InitOrUpdateSplit(c.Request.Context(), id, req.Shares)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Split updated successfully", account)
}

// SplitStatus handles the split projection query
func (h *AccountHandler) SplitStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	status, err := h.accountService.GetSplitStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Split status retrieved successfully", status)
}

// Close handles settling a tab into a finalized sale
func (h *AccountHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	result, err := h.accountService.CloseAccount(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account closed successfully", result)
}
