package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/model"
	"github.com/markkent-max/schedease/internal/service"
	"github.com/markkent-max/schedease/pkg/response"
)

// ScheduleRequestHandler change requests filed by instructors and reviewed by admins.
type ScheduleRequestHandler struct {
	requestSvc service.ScheduleRequestService
}

// NewScheduleRequestHandler creates a ScheduleRequestHandler
func NewScheduleRequestHandler(requestSvc service.ScheduleRequestService) *ScheduleRequestHandler {
	return &ScheduleRequestHandler{requestSvc: requestSvc}
}

// Submit files a request. Instructors may only file for themselves.
// POST /api/v1/requests
func (h *ScheduleRequestHandler) Submit(c *gin.Context) {
	var req dto.SubmitScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	if role == string(model.RoleInstructor) && GetInstructorID(c) != req.InstructorID {
		response.Forbidden(c, 10003, "instructors may only submit their own requests")
		return
	}

	res, err := h.requestSvc.Submit(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}
	response.Created(c, res)
}

// ListRequests GET /api/v1/requests
func (h *ScheduleRequestHandler) ListRequests(c *gin.Context) {
	var req dto.RequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.requestSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetRequest GET /api/v1/requests/:id
func (h *ScheduleRequestHandler) GetRequest(c *gin.Context) {
	r, err := h.requestSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleRequestError(c, err)
		return
	}
	response.OK(c, r)
}

// Evaluate re-runs the conflict check and stores the result on the request.
// POST /api/v1/requests/:id/evaluate
func (h *ScheduleRequestHandler) Evaluate(c *gin.Context) {
	res, err := h.requestSvc.Evaluate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleRequestError(c, err)
		return
	}
	response.OK(c, res)
}

// Transition POST /api/v1/requests/:id/transition
func (h *ScheduleRequestHandler) Transition(c *gin.Context) {
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	r, err := h.requestSvc.Transition(c.Request.Context(), c.Param("id"), &req, reviewerID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}
	response.OK(c, r)
}

func (h *ScheduleRequestHandler) handleRequestError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	var ce *service.ConflictError
	if errors.As(err, &ce) {
		response.ErrorWithData(c, http.StatusConflict, 14103, "request has unresolved conflicts", gin.H{
			"request_id": ce.RequestID,
			"conflicts":  ce.Conflicts,
		})
		return
	}
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 14101, "schedule request not found")
	case errors.Is(err, service.ErrInvalidTransition):
		response.BadRequest(c, 14102, "invalid request status transition")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 13101, "schedule not found")
	case errors.Is(err, service.ErrScheduleCanceled):
		response.BadRequest(c, 13102, "schedule is canceled")
	case errors.Is(err, service.ErrInstructorNotFound):
		response.NotFound(c, 20005, "instructor not found")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 21001, "course not found")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 21101, "room not found")
	default:
		response.InternalError(c)
	}
}
