package model

import "time"

// Discriminator values stored in people.discriminator.
const (
	DiscriminatorStudent    = "Student"
	DiscriminatorInstructor = "Instructor"
)

// Person is a row of the people table. Students carry an enrollment date,
// instructors a hire date.
type Person struct {
	ID             int        `json:"id"`
	LastName       string     `json:"last_name"`
	FirstName      string     `json:"first_name"`
	EnrollmentDate *time.Time `json:"enrollment_date,omitempty"`
	HireDate       *time.Time `json:"hire_date,omitempty"`
	Discriminator  string     `json:"discriminator"`
}

// FullName returns "Last, First".
func (p Person) FullName() string {
	return p.LastName + ", " + p.FirstName
}
