package model

import "time"

// CourseAction names a committed course mutation.
type CourseAction string

const (
	CourseCreated        CourseAction = "created"
	CourseUpdated        CourseAction = "updated"
	CourseDeleted        CourseAction = "deleted"
	CourseCreditsChanged CourseAction = "credits_updated"
)

// CourseEvent is published on the course activity channel after a unit of
// work commits.
type CourseEvent struct {
	Action       CourseAction `json:"action"`
	CourseID     int          `json:"course_id,omitempty"`
	Title        string       `json:"title,omitempty"`
	RowsAffected int64        `json:"rows_affected,omitempty"`
	At           time.Time    `json:"at"`
}
