package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/markkent-max/schedease/config"
	"github.com/markkent-max/schedease/internal/api/handler"
	"github.com/markkent-max/schedease/internal/api/middleware"
	"github.com/markkent-max/schedease/pkg/jwt"
	"github.com/markkent-max/schedease/pkg/redis"
)

// Setup builds the Gin engine. rdb may be nil; revocation checks and rate
// limiting are then skipped.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := handler.RegisterBinding(); err != nil {
		return nil, err
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := middleware.RoleAuth("admin")
	limit := middleware.RateLimit(rdb, cfg.Server.RateLimit.Limit, cfg.Server.RateLimit.Window)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		auth := v1.Group("/auth")
		{
			auth.GET("/me", h.Auth.Me)
			auth.POST("/logout", h.Auth.Logout)
		}

		users := v1.Group("/users")
		{
			users.POST("", admin, limit, h.User.CreateUser)
			users.GET("/:id", h.User.GetUser)
			users.PUT("/:id", admin, limit, h.User.UpdateUser)
		}

		instructors := v1.Group("/instructors")
		{
			instructors.POST("", admin, limit, h.User.CreateInstructor)
			instructors.GET("/:id", h.User.GetInstructor)
			instructors.PUT("/:id", admin, limit, h.User.UpdateInstructor)
		}

		students := v1.Group("/students")
		{
			students.POST("", admin, limit, h.User.CreateStudent)
			students.GET("/:id", h.User.GetStudent)
		}

		courses := v1.Group("/courses")
		{
			courses.POST("", admin, limit, h.Course.CreateCourse)
			courses.GET("", h.Course.ListCourses)
			courses.GET("/:id", h.Course.GetCourse)
			courses.PUT("/:id", admin, limit, h.Course.UpdateCourse)
		}

		rooms := v1.Group("/rooms")
		{
			rooms.POST("", admin, limit, h.Room.CreateRoom)
			rooms.GET("", h.Room.ListRooms)
			rooms.GET("/:id", h.Room.GetRoom)
			rooms.PUT("/:id", admin, limit, h.Room.UpdateRoom)
		}

		schedules := v1.Group("/schedules")
		{
			schedules.POST("", admin, limit, h.Schedule.CreateSchedule)
			schedules.GET("", h.Schedule.ListSchedules)
			schedules.GET("/:id", h.Schedule.GetSchedule)
			schedules.PUT("/:id", admin, limit, h.Schedule.UpdateSchedule)
			schedules.POST("/:id/publish", admin, limit, h.Schedule.Publish)
			schedules.POST("/:id/cancel", admin, limit, h.Schedule.Cancel)

			schedules.GET("/:id/enrollments", h.Enrollment.ListEnrollments)
			schedules.POST("/:id/enrollments", admin, limit, h.Enrollment.Enroll)
			schedules.POST("/:id/enrollments/bulk", admin, limit, h.Enrollment.BulkEnroll)
			schedules.DELETE("/:id/enrollments/:student_id", admin, limit, h.Enrollment.Unenroll)
			schedules.POST("/:id/reconcile", admin, limit, h.Enrollment.Reconcile)
		}

		requests := v1.Group("/requests")
		{
			requests.POST("", middleware.RoleAuth("admin", "instructor"), limit, h.Request.Submit)
			requests.GET("", h.Request.ListRequests)
			requests.GET("/:id", h.Request.GetRequest)
			requests.POST("/:id/evaluate", admin, limit, h.Request.Evaluate)
			requests.POST("/:id/transition", admin, limit, h.Request.Transition)
		}

		v1.GET("/export/timetable", admin, h.Export.ExportTimetable)
	}

	return r, nil
}
