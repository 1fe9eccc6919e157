package model

// Course is a catalogue entry. ID is the course number and is chosen by the
// caller, never generated.
type Course struct {
	ID           int         `json:"id" validate:"gt=0"`
	Title        string      `json:"title" validate:"required,min=3,max=50"`
	Credits      int         `json:"credits" validate:"min=0,max=5"`
	DepartmentID int         `json:"department_id" validate:"required,gt=0"`
	Department   *Department `json:"department,omitempty" validate:"-"`
}

// CourseInput is the set of fields accepted when creating a course.
// Anything else in the request body is ignored.
type CourseInput struct {
	ID           int    `form:"id" json:"id"`
	Title        string `form:"title" json:"title"`
	Credits      int    `form:"credits" json:"credits"`
	DepartmentID int    `form:"department_id" json:"department_id"`
}

// Course builds the entity to insert.
func (in CourseInput) Course() *Course {
	return &Course{
		ID:           in.ID,
		Title:        in.Title,
		Credits:      in.Credits,
		DepartmentID: in.DepartmentID,
	}
}

// CourseUpdate is the set of fields an edit may change. Nil fields were not
// submitted and keep their persisted value.
type CourseUpdate struct {
	Title        *string `form:"title" json:"title"`
	Credits      *int    `form:"credits" json:"credits"`
	DepartmentID *int    `form:"department_id" json:"department_id"`
}

// Merge copies the submitted fields onto c.
func (u CourseUpdate) Merge(c *Course) {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Credits != nil {
		c.Credits = *u.Credits
	}
	if u.DepartmentID != nil && *u.DepartmentID != c.DepartmentID {
		c.DepartmentID = *u.DepartmentID
		c.Department = nil
	}
}

// CreditsUpdate carries the optional multiplier for the bulk credit update.
type CreditsUpdate struct {
	Multiplier *int `form:"multiplier" json:"multiplier"`
}

// CourseListing is the payload of the course index page.
type CourseListing struct {
	Courses     []*Course  `json:"courses"`
	Departments SelectList `json:"departments"`
}

// CourseForm is the payload of the create and edit pages. When Saved is
// false the caller re-renders it with Errors; the "" key holds form-level
// messages.
type CourseForm struct {
	Course      *Course           `json:"course"`
	Departments SelectList        `json:"departments"`
	Errors      map[string]string `json:"errors,omitempty"`
	Saved       bool              `json:"-"`
}
