package repository

import (
	"context"

	"github.com/contoso/university/internal/database"
	"github.com/contoso/university/internal/model"
)

// ReportRepository handles read-only aggregate queries for the home pages.
type ReportRepository interface {
	EnrollmentDateGroups(ctx context.Context) ([]model.EnrollmentDateGroup, error)
}

type reportRepository struct {
	store *database.Store
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(store *database.Store) ReportRepository {
	return &reportRepository{store: store}
}

// EnrollmentDateGroups counts students per enrollment date.
func (r *reportRepository) EnrollmentDateGroups(ctx context.Context) ([]model.EnrollmentDateGroup, error) {
	rows, err := r.store.DB(ctx).Query(ctx,
		`SELECT enrollment_date, COUNT(*)
		 FROM people
		 WHERE discriminator = $1
		 GROUP BY enrollment_date
		 ORDER BY enrollment_date`,
		model.DiscriminatorStudent,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]model.EnrollmentDateGroup, 0)
	for rows.Next() {
		var g model.EnrollmentDateGroup
		if err := rows.Scan(&g.EnrollmentDate, &g.StudentCount); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
