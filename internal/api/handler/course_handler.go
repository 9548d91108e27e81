package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/service"
	"github.com/markkent-max/schedease/pkg/response"
)

// CourseHandler course catalogue
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler creates a CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// CreateCourse POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.courseSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.Created(c, res)
}

// ListCourses GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.courseSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetCourse GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, course)
}

// UpdateCourse PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.courseSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}
	response.OK(c, res)
}

func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 21001, "course not found")
	case errors.Is(err, service.ErrDuplicateCourseCode):
		response.Conflict(c, 21002, "course code already exists")
	default:
		response.InternalError(c)
	}
}
