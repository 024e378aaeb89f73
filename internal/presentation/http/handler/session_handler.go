package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/application/service"
	"github.com/mesaposte/mesa-api/internal/presentation/http/dto/request"
	"github.com/mesaposte/mesa-api/internal/presentation/http/dto/response"
	"github.com/mesaposte/mesa-api/pkg/pagination"
)

// SessionHandler handles cash session HTTP requests
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Open handles opening a cash session
func (h *SessionHandler) Open(c *gin.Context) {
	var req request.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	session, err := h.sessionService.OpenSession(c.Request.Context(), req.BranchID, *userID, req.OpeningAmount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash session opened", session)
}

// Close handles closing a cash session
func (h *SessionHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req request.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.sessionService.CloseSession(c.Request.Context(), id, req.ClosingAmount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash session closed", gin.H{
		"session":     result.Session,
		"sales_total": result.SalesTotal,
	})
}

// Get handles retrieving a single cash session
func (h *SessionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session retrieved successfully", session)
}

// GetOpen handles retrieving the open session for a branch
func (h *SessionHandler) GetOpen(c *gin.Context) {
	branchID, err := uuid.Parse(c.Query("branch_id"))
	if err != nil {
		response.BadRequest(c, "Invalid branch ID")
		return
	}

	session, err := h.sessionService.GetOpenSession(c.Request.Context(), branchID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if session == nil {
		response.NotFound(c, "No open session for this branch")
		return
	}

	response.OK(c, "Session retrieved successfully", session)
}

// List handles listing cash sessions
func (h *SessionHandler) List(c *gin.Context) {
	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	var branchID *uuid.UUID
	if raw := c.Query("branch_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "Invalid branch ID")
			return
		}
		branchID = &id
	}

	result, err := h.sessionService.ListSessions(c.Request.Context(), branchID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Sessions retrieved successfully", result)
}
