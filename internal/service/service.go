package service

import (
	"go.uber.org/zap"

	"github.com/markkent-max/schedease/config"
	"github.com/markkent-max/schedease/internal/repository"
	"github.com/markkent-max/schedease/pkg/lock"
)

// Service aggregates every service used by the handlers.
type Service struct {
	User       UserService
	Course     CourseService
	Room       RoomService
	Schedule   ScheduleService
	Request    ScheduleRequestService
	Enrollment EnrollmentService
	Export     ExportService
}

// NewService wires the services. locker serializes conflict passes on shared
// rooms and instructors; pass lock.NewLocal for a single instance.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	locker lock.Locker,
	logger *zap.Logger,
) *Service {
	return &Service{
		User:       NewUserService(repo, logger),
		Course:     NewCourseService(repo, logger),
		Room:       NewRoomService(repo, logger),
		Schedule:   NewScheduleService(repo, locker, logger),
		Request:    NewScheduleRequestService(repo, locker, logger),
		Enrollment: NewEnrollmentService(repo, cfg.Scheduling.BulkEnrollWorkers, logger),
		Export:     NewExportService(repo, logger),
	}
}
