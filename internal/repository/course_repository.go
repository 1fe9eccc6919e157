package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/contoso/university/internal/database"
	"github.com/contoso/university/internal/model"
	"github.com/jackc/pgx/v5"
)

// CourseRepository handles course data access.
type CourseRepository interface {
	List(ctx context.Context, departmentID *int) ([]*model.Course, error)
	GetByID(ctx context.Context, id int) (*model.Course, error)
	Create(ctx context.Context, c *model.Course) error
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id int) error
	ScaleCredits(ctx context.Context, multiplier int) (int64, error)
}

type courseRepository struct {
	store *database.Store
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(store *database.Store) CourseRepository {
	return &courseRepository{store: store}
}

const courseSelect = `
	SELECT c.id, c.title, c.credits, c.department_id,
	       d.id, d.name, d.budget, d.start_date
	FROM courses c
	JOIN departments d ON d.id = c.department_id`

func scanCourse(row pgx.Row) (*model.Course, error) {
	c := &model.Course{Department: &model.Department{}}
	err := row.Scan(
		&c.ID, &c.Title, &c.Credits, &c.DepartmentID,
		&c.Department.ID, &c.Department.Name, &c.Department.Budget, &c.Department.StartDate,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns courses ordered by number, each with its department.
// A nil departmentID lists every course.
func (r *courseRepository) List(ctx context.Context, departmentID *int) ([]*model.Course, error) {
	query := courseSelect
	var args []interface{}
	if departmentID != nil {
		query += ` WHERE c.department_id = $1`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY c.id ASC`

	rows, err := r.store.DB(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]*model.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// GetByID returns the course with its department, or ErrCourseNotFound.
func (r *courseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	c, err := scanCourse(r.store.DB(ctx).QueryRow(ctx, courseSelect+` WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	return c, err
}

// Create inserts a course under its caller-assigned number.
func (r *courseRepository) Create(ctx context.Context, c *model.Course) error {
	_, err := r.store.DB(ctx).Exec(ctx,
		`INSERT INTO courses (id, title, credits, department_id) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Title, c.Credits, c.DepartmentID,
	)
	return translateWriteError(err)
}

// Update writes every mutable column. Zero affected rows means the course
// disappeared after it was read and is reported as database.ErrStaleEntity.
func (r *courseRepository) Update(ctx context.Context, c *model.Course) error {
	tag, err := r.store.DB(ctx).Exec(ctx,
		`UPDATE courses SET title = $1, credits = $2, department_id = $3 WHERE id = $4`,
		c.Title, c.Credits, c.DepartmentID, c.ID,
	)
	if err != nil {
		return translateWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update course %d: %w", c.ID, database.ErrStaleEntity)
	}
	return nil
}

// Delete removes a course. Enrollments still pointing at it yield ErrCourseInUse.
func (r *courseRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.store.DB(ctx).Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return ErrCourseInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// ScaleCredits multiplies every course's credits in one statement.
func (r *courseRepository) ScaleCredits(ctx context.Context, multiplier int) (int64, error) {
	tag, err := r.store.DB(ctx).Exec(ctx, `UPDATE courses SET credits = credits * $1`, multiplier)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func translateWriteError(err error) error {
	switch pgCode(err) {
	case "":
		return err
	case pgUniqueViolation:
		return ErrDuplicateCourse
	case pgForeignKeyViolation:
		return ErrUnknownDepartment
	default:
		return err
	}
}
