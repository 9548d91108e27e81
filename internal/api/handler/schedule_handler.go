package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/service"
	"github.com/markkent-max/schedease/pkg/response"
)

// ScheduleHandler schedule lifecycle: draft, publish, cancel.
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler creates a ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// CreateSchedule creates a draft
// POST /api/v1/schedules
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.scheduleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.Created(c, res)
}

// ListSchedules GET /api/v1/schedules
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.scheduleSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetSchedule GET /api/v1/schedules/:id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	sched, err := h.scheduleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, sched)
}

// UpdateSchedule PUT /api/v1/schedules/:id
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.scheduleSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, res)
}

// Publish runs the conflict check and moves the schedule to published or conflict.
// A conflict is a normal outcome and answers 200 with the findings.
// POST /api/v1/schedules/:id/publish
func (h *ScheduleHandler) Publish(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.scheduleSvc.Publish(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, res)
}

// Cancel POST /api/v1/schedules/:id/cancel
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.scheduleSvc.Cancel(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, res)
}

// handleScheduleError maps schedule errors to business codes.
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 13101, "schedule not found")
	case errors.Is(err, service.ErrScheduleCanceled):
		response.BadRequest(c, 13102, "schedule is canceled")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 21001, "course not found")
	case errors.Is(err, service.ErrInstructorNotFound):
		response.NotFound(c, 20005, "instructor not found")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 21101, "room not found")
	default:
		response.InternalError(c)
	}
}
