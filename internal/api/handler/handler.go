package handler

import "github.com/markkent-max/schedease/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Course     *CourseHandler
	Room       *RoomHandler
	Schedule   *ScheduleHandler
	Request    *ScheduleRequestHandler
	Enrollment *EnrollmentHandler
	Export     *ExportHandler
}

// NewHandler builds the handlers. revoker may be nil when redis is not configured;
// logout then answers 503.
func NewHandler(svc *service.Service, revoker TokenRevoker) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.User, revoker),
		User:       NewUserHandler(svc.User),
		Course:     NewCourseHandler(svc.Course),
		Room:       NewRoomHandler(svc.Room),
		Schedule:   NewScheduleHandler(svc.Schedule),
		Request:    NewScheduleRequestHandler(svc.Request),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		Export:     NewExportHandler(svc.Export),
	}
}
