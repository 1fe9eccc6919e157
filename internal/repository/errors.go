package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes translated into repository errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrDuplicateCourse   = errors.New("a course with this number already exists")
	ErrUnknownDepartment = errors.New("department does not exist")
	ErrCourseInUse       = errors.New("course is still referenced by enrollments")
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
