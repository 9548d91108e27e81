package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/service"
	"github.com/markkent-max/schedease/pkg/response"
)

// UserHandler users, instructor profiles and student profiles.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ── users ──

// CreateUser POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.Created(c, user)
}

// GetUser GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// UpdateUser PUT /api/v1/users/:id
// A name or department change is pushed into schedules, requests and enrollments.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.UpdateUser(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// ── instructors ──

// CreateInstructor POST /api/v1/instructors
func (h *UserHandler) CreateInstructor(c *gin.Context) {
	var req dto.CreateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	inst, err := h.userSvc.CreateInstructor(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.Created(c, inst)
}

// GetInstructor GET /api/v1/instructors/:id
func (h *UserHandler) GetInstructor(c *gin.Context) {
	inst, err := h.userSvc.GetInstructor(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, inst)
}

// UpdateInstructor PUT /api/v1/instructors/:id
func (h *UserHandler) UpdateInstructor(c *gin.Context) {
	var req dto.UpdateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	inst, err := h.userSvc.UpdateInstructor(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, inst)
}

// ── students ──

// CreateStudent POST /api/v1/students
func (h *UserHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	st, err := h.userSvc.CreateStudent(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.Created(c, st)
}

// GetStudent GET /api/v1/students/:id
func (h *UserHandler) GetStudent(c *gin.Context) {
	st, err := h.userSvc.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, st)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 20001, "user not found")
	case errors.Is(err, service.ErrDuplicateEmail):
		response.Conflict(c, 20002, "email already in use")
	case errors.Is(err, service.ErrRoleMismatch):
		response.BadRequest(c, 20003, "user role does not match the profile")
	case errors.Is(err, service.ErrDuplicateProfile):
		response.Conflict(c, 20004, "user already has this profile")
	case errors.Is(err, service.ErrInstructorNotFound):
		response.NotFound(c, 20005, "instructor not found")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 20006, "student not found")
	case errors.Is(err, service.ErrDuplicateStudentNumber):
		response.Conflict(c, 20007, "student number already exists")
	default:
		response.InternalError(c)
	}
}
