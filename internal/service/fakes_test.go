package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/contoso/university/internal/database"
	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/repository"
)

// fakeUnitOfWork runs fn directly, or fails with err without running it.
type fakeUnitOfWork struct {
	err   error
	calls int
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	u.calls++
	if u.err != nil {
		return u.err
	}
	return fn(ctx)
}

type fakeDepartmentRepo struct {
	departments []*model.Department
	err         error
}

func (r *fakeDepartmentRepo) ListOrderedByName(context.Context) ([]*model.Department, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := append([]*model.Department(nil), r.departments...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeDepartmentRepo) Create(_ context.Context, d *model.Department) error {
	d.ID = len(r.departments) + 1
	r.departments = append(r.departments, d)
	return nil
}

func (r *fakeDepartmentRepo) byID(id int) *model.Department {
	for _, d := range r.departments {
		if d.ID == id {
			return d
		}
	}
	return nil
}

type fakeCourseRepo struct {
	depts   *fakeDepartmentRepo
	courses map[int]*model.Course
	inUse   map[int]bool
	creates int
	updates int
}

func newFakeCourseRepo(depts *fakeDepartmentRepo, courses ...model.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{depts: depts, courses: map[int]*model.Course{}, inUse: map[int]bool{}}
	for i := range courses {
		c := courses[i]
		r.courses[c.ID] = &c
	}
	return r
}

func (r *fakeCourseRepo) withDepartment(c *model.Course) *model.Course {
	cp := *c
	cp.Department = r.depts.byID(c.DepartmentID)
	return &cp
}

func (r *fakeCourseRepo) List(_ context.Context, departmentID *int) ([]*model.Course, error) {
	out := make([]*model.Course, 0)
	for _, c := range r.courses {
		if departmentID == nil || c.DepartmentID == *departmentID {
			out = append(out, r.withDepartment(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int) (*model.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, repository.ErrCourseNotFound
	}
	return r.withDepartment(c), nil
}

func (r *fakeCourseRepo) Create(_ context.Context, c *model.Course) error {
	if _, ok := r.courses[c.ID]; ok {
		return repository.ErrDuplicateCourse
	}
	if r.depts.byID(c.DepartmentID) == nil {
		return repository.ErrUnknownDepartment
	}
	r.creates++
	cp := *c
	cp.Department = nil
	r.courses[c.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) Update(_ context.Context, c *model.Course) error {
	if _, ok := r.courses[c.ID]; !ok {
		return fmt.Errorf("update course %d: %w", c.ID, database.ErrStaleEntity)
	}
	if r.depts.byID(c.DepartmentID) == nil {
		return repository.ErrUnknownDepartment
	}
	r.updates++
	cp := *c
	cp.Department = nil
	r.courses[c.ID] = &cp
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id int) error {
	if r.inUse[id] {
		return repository.ErrCourseInUse
	}
	if _, ok := r.courses[id]; !ok {
		return repository.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) ScaleCredits(_ context.Context, multiplier int) (int64, error) {
	for _, c := range r.courses {
		c.Credits *= multiplier
	}
	return int64(len(r.courses)), nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []model.CourseEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev model.CourseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fakeTokenStore struct {
	ids map[string]time.Duration
	err error
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{ids: map[string]time.Duration{}}
}

func (s *fakeTokenStore) Remember(_ context.Context, id string, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.ids[id] = ttl
	return nil
}

func (s *fakeTokenStore) Consume(_ context.Context, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.ids[id]
	delete(s.ids, id)
	return ok, nil
}

type fakeReportRepo struct {
	groups []model.EnrollmentDateGroup
	err    error
}

func (r *fakeReportRepo) EnrollmentDateGroups(context.Context) ([]model.EnrollmentDateGroup, error) {
	return r.groups, r.err
}

func contosoDepartments() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: []*model.Department{
		{ID: 1, Name: "English"},
		{ID: 2, Name: "Mathematics"},
		{ID: 3, Name: "Engineering"},
		{ID: 4, Name: "Economics"},
	}}
}

func contosoCourses() []model.Course {
	return []model.Course{
		{ID: 1050, Title: "Chemistry", Credits: 3, DepartmentID: 3},
		{ID: 4022, Title: "Microeconomics", Credits: 3, DepartmentID: 4},
		{ID: 4041, Title: "Macroeconomics", Credits: 3, DepartmentID: 4},
		{ID: 1045, Title: "Calculus", Credits: 4, DepartmentID: 2},
		{ID: 3141, Title: "Trigonometry", Credits: 4, DepartmentID: 2},
		{ID: 2021, Title: "Composition", Credits: 3, DepartmentID: 1},
		{ID: 2042, Title: "Literature", Credits: 4, DepartmentID: 1},
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
