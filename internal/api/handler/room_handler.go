package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/service"
	"github.com/markkent-max/schedease/pkg/response"
)

// RoomHandler rooms
type RoomHandler struct {
	roomSvc service.RoomService
}

// NewRoomHandler creates a RoomHandler
func NewRoomHandler(roomSvc service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// CreateRoom POST /api/v1/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.roomSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}
	response.Created(c, room)
}

// ListRooms GET /api/v1/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	var req dto.RoomListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.roomSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetRoom GET /api/v1/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.roomSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleRoomError(c, err)
		return
	}
	response.OK(c, room)
}

// UpdateRoom PUT /api/v1/rooms/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.roomSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleRoomError(c, err)
		return
	}
	response.OK(c, room)
}

func (h *RoomHandler) handleRoomError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	if errors.Is(err, service.ErrRoomNotFound) {
		response.NotFound(c, 21101, "room not found")
		return
	}
	response.InternalError(c)
}
