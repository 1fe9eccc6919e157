package service

import (
	"context"
	"errors"
	"time"

	"github.com/contoso/university/internal/database"
	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/repository"
	"github.com/contoso/university/internal/validator"
	"github.com/rs/zerolog"
)

// UnitOfWork commits everything fn writes through the context atomically.
// *database.Store is the production implementation.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// CourseService implements the course pages.
type CourseService interface {
	List(ctx context.Context, selectedDepartment *int) (*model.CourseListing, error)
	Details(ctx context.Context, id int) (*model.Course, error)
	NewForm(ctx context.Context) (*model.CourseForm, error)
	Create(ctx context.Context, in model.CourseInput) (*model.CourseForm, error)
	EditForm(ctx context.Context, id int) (*model.CourseForm, error)
	Apply(ctx context.Context, id int, upd model.CourseUpdate) (*model.CourseForm, error)
	Delete(ctx context.Context, id int) error
	UpdateCredits(ctx context.Context, multiplier *int) (*int64, error)
}

type courseService struct {
	uow         UnitOfWork
	courseRepo  repository.CourseRepository
	departments DepartmentService
	events      EventPublisher
	log         zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	uow UnitOfWork,
	courseRepo repository.CourseRepository,
	departments DepartmentService,
	events EventPublisher,
	log zerolog.Logger,
) CourseService {
	return &courseService{
		uow:         uow,
		courseRepo:  courseRepo,
		departments: departments,
		events:      events,
		log:         log.With().Str("component", "course_service").Logger(),
	}
}

// List returns every course (or only those of selectedDepartment) ordered by
// number, plus the department filter with the current selection.
func (s *courseService) List(ctx context.Context, selectedDepartment *int) (*model.CourseListing, error) {
	courses, err := s.courseRepo.List(ctx, selectedDepartment)
	if err != nil {
		return nil, err
	}
	departments, err := s.departments.Dropdown(ctx, selectedDepartment)
	if err != nil {
		return nil, err
	}
	return &model.CourseListing{Courses: courses, Departments: departments}, nil
}

func (s *courseService) Details(ctx context.Context, id int) (*model.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

func (s *courseService) NewForm(ctx context.Context) (*model.CourseForm, error) {
	return s.form(ctx, &model.Course{}, nil, nil)
}

// Create validates and inserts the course. An invalid or uncommittable course
// comes back as an unsaved form; duplicate numbers and unknown departments
// are returned as repository errors.
func (s *courseService) Create(ctx context.Context, in model.CourseInput) (*model.CourseForm, error) {
	course := in.Course()
	if fields := validator.Struct(course); fields != nil {
		return s.form(ctx, course, departmentOf(course), fields)
	}

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		return s.courseRepo.Create(ctx, course)
	})
	if errors.Is(err, database.ErrRetryLimitExceeded) {
		s.log.Error().Err(err).Int("course_id", course.ID).Msg("Failed to save new course")
		return s.form(ctx, course, departmentOf(course), map[string]string{"": SaveFailedMessage})
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.CourseEvent{Action: model.CourseCreated, CourseID: course.ID, Title: course.Title})
	return &model.CourseForm{Course: course, Saved: true}, nil
}

// EditForm loads the course and the department list selected on its department.
func (s *courseService) EditForm(ctx context.Context, id int) (*model.CourseForm, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.form(ctx, course, departmentOf(course), nil)
}

// Apply merges the submitted fields onto the persisted course, validates the
// result and saves it. Failure forms carry the merged, unsaved course.
func (s *courseService) Apply(ctx context.Context, id int, upd model.CourseUpdate) (*model.CourseForm, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	upd.Merge(course)
	if fields := validator.Struct(course); fields != nil {
		return s.form(ctx, course, departmentOf(course), fields)
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		return s.courseRepo.Update(ctx, course)
	})
	if errors.Is(err, database.ErrRetryLimitExceeded) {
		s.log.Error().Err(err).Int("course_id", course.ID).Msg("Failed to save course changes")
		return s.form(ctx, course, departmentOf(course), map[string]string{"": SaveFailedMessage})
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.CourseEvent{Action: model.CourseUpdated, CourseID: course.ID, Title: course.Title})
	return &model.CourseForm{Course: course, Saved: true}, nil
}

// Delete re-reads the course and removes it in one unit of work.
func (s *courseService) Delete(ctx context.Context, id int) error {
	var title string
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		course, err := s.courseRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		title = course.Title
		return s.courseRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, model.CourseEvent{Action: model.CourseDeleted, CourseID: id, Title: title})
	return nil
}

// UpdateCredits multiplies every course's credits by multiplier and returns
// the number of rows changed. A nil multiplier does nothing and returns nil.
func (s *courseService) UpdateCredits(ctx context.Context, multiplier *int) (*int64, error) {
	if multiplier == nil {
		return nil, nil
	}

	var rows int64
	err := s.uow.Do(ctx, func(ctx context.Context) error {
		n, err := s.courseRepo.ScaleCredits(ctx, *multiplier)
		rows = n
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("multiplier", *multiplier).Int64("rows_affected", rows).Msg("Course credits updated")
	s.publish(ctx, model.CourseEvent{Action: model.CourseCreditsChanged, RowsAffected: rows})
	return &rows, nil
}

func (s *courseService) form(ctx context.Context, course *model.Course, selected *int, fields map[string]string) (*model.CourseForm, error) {
	departments, err := s.departments.Dropdown(ctx, selected)
	if err != nil {
		return nil, err
	}
	return &model.CourseForm{Course: course, Departments: departments, Errors: fields}, nil
}

func (s *courseService) publish(ctx context.Context, ev model.CourseEvent) {
	ev.At = time.Now().UTC()
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("action", string(ev.Action)).Msg("Failed to publish course event")
	}
}

func departmentOf(c *model.Course) *int {
	if c.DepartmentID == 0 {
		return nil
	}
	id := c.DepartmentID
	return &id
}
