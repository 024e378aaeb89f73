package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/application/service"
	"github.com/mesaposte/mesa-api/internal/presentation/http/dto/request"
	"github.com/mesaposte/mesa-api/internal/presentation/http/dto/response"
	"github.com/mesaposte/mesa-api/pkg/pagination"
)

// BranchHandler handles branch HTTP requests
type BranchHandler struct {
	branchService *service.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService *service.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// Create handles branch creation
func (h *BranchHandler) Create(c *gin.Context) {
	var req request.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	branch, err := h.branchService.CreateBranch(c.Request.Context(), &service.CreateBranchInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Branch created successfully", branch)
}

// Get handles retrieving a single branch
func (h *BranchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid branch ID")
		return
	}

	branch, err := h.branchService.GetBranch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branch retrieved successfully", branch)
}

// List handles listing branches
func (h *BranchHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.branchService.ListBranches(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Branches retrieved successfully", result)
}

// Update handles branch updates
func (h *BranchHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid branch ID")
		return
	}

	var req request.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	branch, err := h.branchService.UpdateBranch(c.Request.Context(), id, &service.UpdateBranchInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branch updated successfully", branch)
}

// Delete handles branch deletion
func (h *BranchHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid branch ID")
		return
	}

	if err := h.branchService.DeleteBranch(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branch deleted successfully", nil)
}
