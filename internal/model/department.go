package model

import "time"

// Department is an academic department. Courses belong to exactly one.
type Department struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Budget    float64   `json:"budget"`
	StartDate time.Time `json:"start_date"`
}
