package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/contoso/university/internal/database"
	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type courseFixture struct {
	svc     CourseService
	uow     *fakeUnitOfWork
	courses *fakeCourseRepo
	depts   *fakeDepartmentRepo
	events  *fakePublisher
}

func newCourseFixture(courses ...model.Course) *courseFixture {
	depts := contosoDepartments()
	repo := newFakeCourseRepo(depts, courses...)
	uow := &fakeUnitOfWork{}
	events := &fakePublisher{}
	svc := NewCourseService(uow, repo, NewDepartmentService(depts), events, zerolog.Nop())
	return &courseFixture{svc: svc, uow: uow, courses: repo, depts: depts, events: events}
}

func courseIDs(courses []*model.Course) []int {
	ids := make([]int, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	return ids
}

func TestList_UnfilteredOrderedByNumber(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)

	listing, err := f.svc.List(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []int{1045, 1050, 2021, 2042, 3141, 4022, 4041}, courseIDs(listing.Courses))
	for _, c := range listing.Courses {
		require.NotNil(t, c.Department)
		assert.Equal(t, c.DepartmentID, c.Department.ID)
	}
	assert.Nil(t, listing.Departments.Selected)
	for _, item := range listing.Departments.Items {
		assert.False(t, item.Selected)
	}
}

func TestList_FilterByDepartment(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)

	listing, err := f.svc.List(context.Background(), intPtr(4))
	require.NoError(t, err)

	assert.Equal(t, []int{4022, 4041}, courseIDs(listing.Courses))
	for _, c := range listing.Courses {
		assert.Equal(t, 4, c.DepartmentID)
	}
	require.NotNil(t, listing.Departments.Selected)
	assert.Equal(t, 4, *listing.Departments.Selected)
}

func TestList_FilterWithNoMatches(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)

	listing, err := f.svc.List(context.Background(), intPtr(99))
	require.NoError(t, err)
	assert.Empty(t, listing.Courses)
	assert.NotNil(t, listing.Courses)
}

func TestDetails_NotFound(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)

	_, err := f.svc.Details(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCreate_RoundTripThroughDetails(t *testing.T) {
	f := newCourseFixture()
	ctx := context.Background()

	form, err := f.svc.Create(ctx, model.CourseInput{ID: 5000, Title: "Organic Chemistry", Credits: 4, DepartmentID: 3})
	require.NoError(t, err)
	assert.True(t, form.Saved)
	assert.Empty(t, form.Errors)

	got, err := f.svc.Details(ctx, 5000)
	require.NoError(t, err)
	assert.Equal(t, "Organic Chemistry", got.Title)
	assert.Equal(t, 4, got.Credits)
	assert.Equal(t, 3, got.DepartmentID)
	assert.Equal(t, "Engineering", got.Department.Name)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, model.CourseCreated, f.events.events[0].Action)
	assert.Equal(t, 5000, f.events.events[0].CourseID)
}

func TestCreate_InvalidCreditsInsertsNothing(t *testing.T) {
	f := newCourseFixture()

	form, err := f.svc.Create(context.Background(), model.CourseInput{ID: 10, Title: "Bio", Credits: -1, DepartmentID: 1})
	require.NoError(t, err)

	assert.False(t, form.Saved)
	assert.Contains(t, form.Errors, "credits")
	assert.Equal(t, 0, f.courses.creates)
	assert.Equal(t, 0, f.uow.calls)
	assert.Empty(t, f.events.events)

	require.NotNil(t, form.Departments.Selected)
	assert.Equal(t, 1, *form.Departments.Selected)
	var selected []int
	for _, item := range form.Departments.Items {
		if item.Selected {
			selected = append(selected, item.Value)
		}
	}
	assert.Equal(t, []int{1}, selected)
	assert.Equal(t, "Bio", form.Course.Title)
}

func TestCreate_RetryLimitReturnsFormWithMessage(t *testing.T) {
	f := newCourseFixture()
	f.uow.err = fmt.Errorf("%w: serialization failure", database.ErrRetryLimitExceeded)

	form, err := f.svc.Create(context.Background(), model.CourseInput{ID: 10, Title: "Biology", Credits: 4, DepartmentID: 1})
	require.NoError(t, err)

	assert.False(t, form.Saved)
	assert.Equal(t, SaveFailedMessage, form.Errors[""])
	assert.Equal(t, "Biology", form.Course.Title)
	assert.Len(t, form.Departments.Items, 4)
	assert.Empty(t, f.events.events)
}

func TestCreate_DuplicateNumberIsConflict(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)

	_, err := f.svc.Create(context.Background(), model.CourseInput{ID: 1050, Title: "Chemistry II", Credits: 3, DepartmentID: 3})
	assert.ErrorIs(t, err, repository.ErrDuplicateCourse)
}

func TestCreate_UnknownDepartmentIsConflict(t *testing.T) {
	f := newCourseFixture()

	_, err := f.svc.Create(context.Background(), model.CourseInput{ID: 77, Title: "Astronomy", Credits: 3, DepartmentID: 42})
	assert.ErrorIs(t, err, repository.ErrUnknownDepartment)
}

func TestCreate_PublishFailureDoesNotFailSave(t *testing.T) {
	f := newCourseFixture()
	f.events.err = errors.New("redis down")

	form, err := f.svc.Create(context.Background(), model.CourseInput{ID: 77, Title: "Astronomy", Credits: 3, DepartmentID: 3})
	require.NoError(t, err)
	assert.True(t, form.Saved)
}

func TestNewForm_EmptyWithDepartments(t *testing.T) {
	f := newCourseFixture()

	form, err := f.svc.NewForm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &model.Course{}, form.Course)
	assert.Len(t, form.Departments.Items, 4)
	assert.Nil(t, form.Departments.Selected)
}

func TestEditForm_SelectsCourseDepartment(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)

	form, err := f.svc.EditForm(context.Background(), 1045)
	require.NoError(t, err)
	require.NotNil(t, form.Departments.Selected)
	assert.Equal(t, 2, *form.Departments.Selected)
	assert.Equal(t, "Calculus", form.Course.Title)
}

func TestEditForm_NotFound(t *testing.T) {
	f := newCourseFixture()

	_, err := f.svc.EditForm(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestApply_MergeLeavesUnspecifiedFields(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)
	ctx := context.Background()

	form, err := f.svc.Apply(ctx, 1045, model.CourseUpdate{Title: strPtr("Calculus I")})
	require.NoError(t, err)
	assert.True(t, form.Saved)

	got, err := f.svc.Details(ctx, 1045)
	require.NoError(t, err)
	assert.Equal(t, "Calculus I", got.Title)
	assert.Equal(t, 4, got.Credits)
	assert.Equal(t, 2, got.DepartmentID)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, model.CourseUpdated, f.events.events[0].Action)
}

func TestApply_NotFound(t *testing.T) {
	f := newCourseFixture()

	_, err := f.svc.Apply(context.Background(), 1045, model.CourseUpdate{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestApply_InvalidMergedEntityIsNotSaved(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)

	form, err := f.svc.Apply(context.Background(), 1045, model.CourseUpdate{Credits: intPtr(9)})
	require.NoError(t, err)

	assert.False(t, form.Saved)
	assert.Contains(t, form.Errors, "credits")
	assert.Equal(t, 9, form.Course.Credits)
	assert.Equal(t, 0, f.courses.updates)
	assert.Equal(t, 4, f.courses.courses[1045].Credits)
}

func TestApply_ConcurrentDeleteReturnsSaveFailedForm(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)
	// Simulate the store: a stale entity surfaces as the retry-limit failure.
	f.uow.err = fmt.Errorf("%w: %w", database.ErrRetryLimitExceeded, database.ErrStaleEntity)

	form, err := f.svc.Apply(context.Background(), 1045, model.CourseUpdate{Title: strPtr("Calculus II")})
	require.NoError(t, err)

	assert.False(t, form.Saved)
	assert.Equal(t, SaveFailedMessage, form.Errors[""])
	assert.Equal(t, "Calculus II", form.Course.Title, "form keeps the merged values")
	assert.Equal(t, 2, *form.Departments.Selected)
}

func TestDelete_ThenDetailsNotFound(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)
	ctx := context.Background()

	require.NoError(t, f.svc.Delete(ctx, 2042))

	_, err := f.svc.Details(ctx, 2042)
	assert.ErrorIs(t, err, ErrCourseNotFound)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, model.CourseDeleted, f.events.events[0].Action)
	assert.Equal(t, "Literature", f.events.events[0].Title)
}

func TestDelete_MissingCourse(t *testing.T) {
	f := newCourseFixture()

	err := f.svc.Delete(context.Background(), 2042)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestDelete_CourseInUse(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)
	f.courses.inUse[1050] = true

	err := f.svc.Delete(context.Background(), 1050)
	assert.ErrorIs(t, err, repository.ErrCourseInUse)
	_, stillThere := f.courses.courses[1050]
	assert.True(t, stillThere)
	assert.Empty(t, f.events.events)
}

func TestUpdateCredits_SingleCourseScenario(t *testing.T) {
	depts := &fakeDepartmentRepo{departments: []*model.Department{{ID: 1, Name: "Math"}}}
	repo := newFakeCourseRepo(depts, model.Course{ID: 10, Title: "Calc", Credits: 3, DepartmentID: 1})
	events := &fakePublisher{}
	svc := NewCourseService(&fakeUnitOfWork{}, repo, NewDepartmentService(depts), events, zerolog.Nop())

	rows, err := svc.UpdateCredits(context.Background(), intPtr(2))
	require.NoError(t, err)
	require.NotNil(t, rows)
	assert.Equal(t, int64(1), *rows)
	assert.Equal(t, 6, repo.courses[10].Credits)

	require.Len(t, events.events, 1)
	assert.Equal(t, model.CourseCreditsChanged, events.events[0].Action)
	assert.Equal(t, int64(1), events.events[0].RowsAffected)
}

func TestUpdateCredits_ScalesEveryCourse(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)
	before := map[int]int{}
	for id, c := range f.courses.courses {
		before[id] = c.Credits
	}

	rows, err := f.svc.UpdateCredits(context.Background(), intPtr(3))
	require.NoError(t, err)
	assert.Equal(t, int64(len(before)), *rows)
	for id, c := range f.courses.courses {
		assert.Equal(t, before[id]*3, c.Credits)
	}
}

func TestUpdateCredits_AbsentMultiplierChangesNothing(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)

	rows, err := f.svc.UpdateCredits(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, rows)
	assert.Equal(t, 0, f.uow.calls)
	assert.Equal(t, 4, f.courses.courses[1045].Credits)
	assert.Empty(t, f.events.events)
}

func TestUpdateCredits_PropagatesRetryLimit(t *testing.T) {
	f := newCourseFixture(contosoCourses()...)
	f.uow.err = database.ErrRetryLimitExceeded

	rows, err := f.svc.UpdateCredits(context.Background(), intPtr(2))
	assert.ErrorIs(t, err, database.ErrRetryLimitExceeded)
	assert.Nil(t, rows)
}
