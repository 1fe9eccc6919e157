package repository

import (
	"context"

	"github.com/contoso/university/internal/database"
	"github.com/contoso/university/internal/model"
)

type DepartmentRepository interface {
	ListOrderedByName(ctx context.Context) ([]*model.Department, error)
	Create(ctx context.Context, dept *model.Department) error
}

type departmentRepository struct {
	store *database.Store
}

func NewDepartmentRepository(store *database.Store) DepartmentRepository {
	return &departmentRepository{store: store}
}

func (r *departmentRepository) ListOrderedByName(ctx context.Context) ([]*model.Department, error) {
	query := `SELECT id, name, budget, start_date FROM departments ORDER BY name ASC`
	rows, err := r.store.DB(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]*model.Department, 0)
	for rows.Next() {
		d := &model.Department{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Budget, &d.StartDate); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *departmentRepository) Create(ctx context.Context, dept *model.Department) error {
	query := `
		INSERT INTO departments (name, budget, start_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.store.DB(ctx).QueryRow(ctx, query, dept.Name, dept.Budget, dept.StartDate).Scan(&dept.ID)
}
