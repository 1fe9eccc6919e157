package repository

import (
	"context"

	"github.com/contoso/university/internal/database"
	"github.com/contoso/university/internal/model"
)

// PersonRepository handles students, instructors and their enrollments.
// Only the seeder writes through it.
type PersonRepository struct {
	store *database.Store
}

// NewPersonRepository creates a new PersonRepository.
func NewPersonRepository(store *database.Store) *PersonRepository {
	return &PersonRepository{store: store}
}

// Create inserts a person and fills in the generated id.
func (r *PersonRepository) Create(ctx context.Context, p *model.Person) error {
	return r.store.DB(ctx).QueryRow(ctx,
		`INSERT INTO people (last_name, first_name, enrollment_date, hire_date, discriminator)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.LastName, p.FirstName, p.EnrollmentDate, p.HireDate, p.Discriminator,
	).Scan(&p.ID)
}

// Enroll inserts an enrollment and fills in the generated id.
func (r *PersonRepository) Enroll(ctx context.Context, e *model.Enrollment) error {
	return r.store.DB(ctx).QueryRow(ctx,
		`INSERT INTO enrollments (course_id, student_id, grade)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		e.CourseID, e.StudentID, e.Grade,
	).Scan(&e.ID)
}

// CountStudents returns how many students exist.
func (r *PersonRepository) CountStudents(ctx context.Context) (int, error) {
	var n int
	err := r.store.DB(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM people WHERE discriminator = $1`, model.DiscriminatorStudent,
	).Scan(&n)
	return n, err
}
