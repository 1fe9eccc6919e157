package service

import (
	"context"

	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/repository"
)

type DepartmentService interface {
	Dropdown(ctx context.Context, selected *int) (model.SelectList, error)
}

type departmentService struct {
	departmentRepo repository.DepartmentRepository
}

func NewDepartmentService(departmentRepo repository.DepartmentRepository) DepartmentService {
	return &departmentService{departmentRepo: departmentRepo}
}

// Dropdown returns departments sorted by name as selection options.
// The option whose id equals selected is marked.
func (s *departmentService) Dropdown(ctx context.Context, selected *int) (model.SelectList, error) {
	departments, err := s.departmentRepo.ListOrderedByName(ctx)
	if err != nil {
		return model.SelectList{}, err
	}

	list := model.SelectList{
		Items:    make([]model.SelectOption, 0, len(departments)),
		Selected: selected,
	}
	for _, d := range departments {
		list.Items = append(list.Items, model.SelectOption{
			Value:    d.ID,
			Text:     d.Name,
			Selected: selected != nil && *selected == d.ID,
		})
	}
	return list, nil
}
