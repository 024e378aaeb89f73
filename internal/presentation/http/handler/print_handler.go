package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/application/service"
	"github.com/mesaposte/mesa-api/internal/presentation/http/dto/request"
	"github.com/mesaposte/mesa-api/internal/presentation/http/dto/response"
)

// PrintHandler handles receipt printing HTTP requests
type PrintHandler struct {
	printService *service.PrintService
}

// NewPrintHandler creates a new print handler
func NewPrintHandler(printService *service.PrintService) *PrintHandler {
	return &PrintHandler{printService: printService}
}

// Status handles retrieving printer status
func (h *PrintHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printService.GetStatus())
}

// PrintAccount queues a pre-payment receipt for an open tab
func (h *PrintHandler) PrintAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid account ID")
		return
	}

	job, err := h.printService.EnqueueAccountReceipt(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt queued for printing", job)
}

// PrintSale queues a final receipt for a completed sale
func (h *PrintHandler) PrintSale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	job, err := h.printService.EnqueueSaleReceipt(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt queued for printing", job)
}

// Test queues a printer test page
func (h *PrintHandler) Test(c *gin.Context) {
	var req request.PrintTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	job, err := h.printService.EnqueueTestPage(c.Request.Context(), req.BranchID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Test page queued for printing", job)
}

// GetJob handles retrieving a single print job
func (h *PrintHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	job, err := h.printService.GetJob(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Print job retrieved successfully", job)
}

// ListJobs handles listing recent print jobs
func (h *PrintHandler) ListJobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	jobs, err := h.printService.ListJobs(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Print jobs retrieved successfully", jobs)
}
