package model

import "time"

// Grade is a letter grade. A nil *Grade means not yet graded.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// Enrollment links a student to a course.
type Enrollment struct {
	ID        int    `json:"id"`
	CourseID  int    `json:"course_id"`
	StudentID int    `json:"student_id"`
	Grade     *Grade `json:"grade,omitempty"`
}

// EnrollmentDateGroup is one row of the enrollment-by-date report.
type EnrollmentDateGroup struct {
	EnrollmentDate *time.Time `json:"enrollment_date"`
	StudentCount   int        `json:"student_count"`
}
