package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/service"
	"github.com/markkent-max/schedease/pkg/response"
)

// EnrollmentHandler students enrolled in a schedule.
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler creates an EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// ListEnrollments GET /api/v1/schedules/:id/enrollments
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	list, err := h.enrollmentSvc.ListBySchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, list)
}

// Enroll POST /api/v1/schedules/:id/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	e, err := h.enrollmentSvc.Enroll(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.Created(c, e)
}

// BulkEnroll reports created and skipped students. Skips are not errors.
// POST /api/v1/schedules/:id/enrollments/bulk
func (h *EnrollmentHandler) BulkEnroll(c *gin.Context) {
	var req dto.BulkEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.enrollmentSvc.BulkEnroll(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, res)
}

// Unenroll DELETE /api/v1/schedules/:id/enrollments/:student_id
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	if err := h.enrollmentSvc.Unenroll(c.Request.Context(), c.Param("id"), c.Param("student_id")); err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, nil)
}

// Reconcile POST /api/v1/schedules/:id/reconcile
func (h *EnrollmentHandler) Reconcile(c *gin.Context) {
	res, err := h.enrollmentSvc.Reconcile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}
	response.OK(c, res)
}

func (h *EnrollmentHandler) handleEnrollmentError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrEnrollmentNotFound):
		response.NotFound(c, 15101, "enrollment not found")
	case errors.Is(err, service.ErrDuplicateEnrollment):
		response.Conflict(c, 15102, "student is already enrolled in this schedule")
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 13101, "schedule not found")
	case errors.Is(err, service.ErrScheduleCanceled):
		response.BadRequest(c, 13102, "schedule is canceled")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 20006, "student not found")
	default:
		response.InternalError(c)
	}
}
