package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/markkent-max/schedease/internal/dto"
	"github.com/markkent-max/schedease/internal/model"
	"github.com/markkent-max/schedease/internal/repository"
	"github.com/markkent-max/schedease/internal/snapshot"
)

// UserService accounts plus instructor and student profiles.
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	// UpdateUser renames propagate into every record holding a copy of the name.
	UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*model.User, error)

	CreateInstructor(ctx context.Context, req *dto.CreateInstructorRequest, callerID string) (*model.Instructor, error)
	GetInstructor(ctx context.Context, id string) (*model.Instructor, error)
	UpdateInstructor(ctx context.Context, id string, req *dto.UpdateInstructorRequest, callerID string) (*model.Instructor, error)

	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*model.Student, error)
	GetStudent(ctx context.Context, id string) (*model.Student, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ── users ──

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest, callerID string) (*model.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	u := &model.User{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Role:       model.UserRole(req.Role),
		Department: strings.TrimSpace(req.Department),
	}
	u.CreatedBy = &callerID
	u.UpdatedBy = &callerID
	if err := s.repo.User.Create(ctx, u); err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateEmail
		}
		s.logger.Error("create user", zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*model.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var u *model.User
	err := s.repo.Tx.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		if u, err = tx.User.GetByID(ctx, id); err != nil {
			return notFound(err, ErrUserNotFound)
		}
		renamed := false
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			renamed = renamed || name != u.Name
			u.Name = name
		}
		if req.Department != nil {
			dept := strings.TrimSpace(*req.Department)
			renamed = renamed || dept != u.Department
			u.Department = dept
		}
		if req.Email != nil {
			u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		u.UpdatedBy = &callerID
		if err := tx.User.Update(ctx, u); err != nil {
			if isDuplicate(err) {
				return ErrDuplicateEmail
			}
			return err
		}
		if !renamed {
			return nil
		}
		return snapshot.New(tx, s.logger).PropagateUser(ctx, u)
	})
	if err != nil {
		err = storeWriteError(err)
		if !isKnown(err) {
			s.logger.Error("update user", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return u, nil
}

// ── instructors ──

func (s *userService) CreateInstructor(ctx context.Context, req *dto.CreateInstructorRequest, callerID string) (*model.Instructor, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	u, err := s.repo.User.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if u.Role != model.RoleInstructor {
		return nil, ErrRoleMismatch
	}
	avail, err := availabilityFrom(req.Availability)
	if err != nil {
		return nil, err
	}

	inst := &model.Instructor{
		UserID:          u.UserID,
		MaxHoursPerWeek: req.MaxHoursPerWeek,
		Specializations: model.NormalizeTags(req.Specializations),
		Availability:    avail,
	}
	inst.CreatedBy = &callerID
	inst.UpdatedBy = &callerID
	if err := s.repo.Instructor.Create(ctx, inst); err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateProfile
		}
		s.logger.Error("create instructor", zap.Error(err))
		return nil, err
	}
	inst.User = u
	return inst, nil
}

func (s *userService) GetInstructor(ctx context.Context, id string) (*model.Instructor, error) {
	inst, err := s.repo.Instructor.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrInstructorNotFound)
	}
	return inst, nil
}

func (s *userService) UpdateInstructor(ctx context.Context, id string, req *dto.UpdateInstructorRequest, callerID string) (*model.Instructor, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	inst, err := s.repo.Instructor.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrInstructorNotFound)
	}
	if req.MaxHoursPerWeek != nil {
		inst.MaxHoursPerWeek = *req.MaxHoursPerWeek
	}
	if req.Specializations != nil {
		inst.Specializations = model.NormalizeTags(req.Specializations)
	}
	if req.Availability != nil {
		if inst.Availability, err = availabilityFrom(req.Availability); err != nil {
			return nil, err
		}
	}
	inst.UpdatedBy = &callerID
	if err := s.repo.Instructor.Update(ctx, inst); err != nil {
		err = storeWriteError(err)
		if !isKnown(err) {
			s.logger.Error("update instructor", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}
	return inst, nil
}

// availabilityFrom checks each window and encodes the week for storage.
func availabilityFrom(in map[string][]dto.AvailabilityWindow) ([]byte, error) {
	week := make(model.WeeklyAvailability, len(in))
	for key, windows := range in {
		day, err := model.ParseDayOfWeek(key)
		if err != nil {
			return nil, invalid("availability: %v", err)
		}
		for _, w := range windows {
			start, end, err := normalizeWindow(w.StartTime, w.EndTime)
			if err != nil {
				return nil, invalid("availability %s: %v", day, err)
			}
			week[day] = append(week[day], model.TimeWindow{StartTime: start, EndTime: end})
		}
	}
	raw, err := model.EncodeAvailability(week)
	if err != nil {
		return nil, invalid("availability: %v", err)
	}
	return raw, nil
}

// ── students ──

func (s *userService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest, callerID string) (*model.Student, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	u, err := s.repo.User.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if u.Role != model.RoleStudent {
		return nil, ErrRoleMismatch
	}

	st := &model.Student{
		UserID:          u.UserID,
		StudentNumber:   strings.TrimSpace(req.StudentNumber),
		Year:            req.Year,
		Section:         strings.TrimSpace(req.Section),
		EnrolledCourses: model.StringArray{},
	}
	st.CreatedBy = &callerID
	st.UpdatedBy = &callerID
	if err := s.repo.Student.Create(ctx, st); err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateStudentNumber
		}
		s.logger.Error("create student", zap.Error(err))
		return nil, err
	}
	st.User = u
	return st, nil
}

func (s *userService) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	st, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrStudentNotFound)
	}
	return st, nil
}
