package main

import (
	"context"
	"time"

	"github.com/contoso/university/internal/config"
	"github.com/contoso/university/internal/database"
	"github.com/contoso/university/internal/logger"
	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/repository"
)

type seedCourse struct {
	id         int
	title      string
	credits    int
	department string
}

type seedEnrollment struct {
	student  string
	courseID int
	grade    model.Grade
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.Setup("info", "auto")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	store := database.NewStore(pool, cfg.DBMaxRetries, log)
	departmentRepo := repository.NewDepartmentRepository(store)
	courseRepo := repository.NewCourseRepository(store)
	personRepo := repository.NewPersonRepository(store)

	existing, err := personRepo.CountStudents(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count students")
	}
	if existing > 0 {
		log.Info().Int("students", existing).Msg("Database already seeded, nothing to do")
		return
	}

	departments := []*model.Department{
		{Name: "English", Budget: 350000, StartDate: *date("2007-09-01")},
		{Name: "Mathematics", Budget: 100000, StartDate: *date("2007-09-01")},
		{Name: "Engineering", Budget: 350000, StartDate: *date("2007-09-01")},
		{Name: "Economics", Budget: 100000, StartDate: *date("2007-09-01")},
	}

	courses := []seedCourse{
		{1050, "Chemistry", 3, "Engineering"},
		{4022, "Microeconomics", 3, "Economics"},
		{4041, "Macroeconomics", 3, "Economics"},
		{1045, "Calculus", 4, "Mathematics"},
		{3141, "Trigonometry", 4, "Mathematics"},
		{2021, "Composition", 3, "English"},
		{2042, "Literature", 4, "English"},
	}

	students := []*model.Person{
		{FirstName: "Carson", LastName: "Alexander", EnrollmentDate: date("2005-09-01")},
		{FirstName: "Meredith", LastName: "Alonso", EnrollmentDate: date("2002-09-01")},
		{FirstName: "Arturo", LastName: "Anand", EnrollmentDate: date("2003-09-01")},
		{FirstName: "Gytis", LastName: "Barzdukas", EnrollmentDate: date("2002-09-01")},
		{FirstName: "Yan", LastName: "Li", EnrollmentDate: date("2002-09-01")},
		{FirstName: "Peggy", LastName: "Justice", EnrollmentDate: date("2001-09-01")},
		{FirstName: "Laura", LastName: "Norman", EnrollmentDate: date("2003-09-01")},
		{FirstName: "Nino", LastName: "Olivetto", EnrollmentDate: date("2005-09-01")},
	}

	instructors := []*model.Person{
		{FirstName: "Kim", LastName: "Abercrombie", HireDate: date("1995-03-11")},
		{FirstName: "Fadi", LastName: "Fakhouri", HireDate: date("2002-07-06")},
		{FirstName: "Roger", LastName: "Harui", HireDate: date("1998-07-01")},
		{FirstName: "Candace", LastName: "Kapoor", HireDate: date("2001-01-15")},
		{FirstName: "Roger", LastName: "Zheng", HireDate: date("2004-02-12")},
	}

	enrollments := []seedEnrollment{
		{"Alexander", 1050, model.GradeA},
		{"Alexander", 4022, model.GradeC},
		{"Alexander", 4041, model.GradeB},
		{"Alonso", 1045, model.GradeB},
		{"Alonso", 3141, model.GradeF},
		{"Alonso", 2021, model.GradeF},
		{"Anand", 1050, ""},
		{"Anand", 4022, model.GradeB},
		{"Barzdukas", 1050, model.GradeB},
		{"Li", 2021, model.GradeB},
		{"Justice", 2042, model.GradeB},
	}

	err = store.Do(ctx, func(ctx context.Context) error {
		deptIDs := make(map[string]int, len(departments))
		for _, d := range departments {
			if err := departmentRepo.Create(ctx, d); err != nil {
				return err
			}
			deptIDs[d.Name] = d.ID
		}

		for _, c := range courses {
			course := &model.Course{ID: c.id, Title: c.title, Credits: c.credits, DepartmentID: deptIDs[c.department]}
			if err := courseRepo.Create(ctx, course); err != nil {
				return err
			}
		}

		studentIDs := make(map[string]int, len(students))
		for _, s := range students {
			s.Discriminator = model.DiscriminatorStudent
			if err := personRepo.Create(ctx, s); err != nil {
				return err
			}
			studentIDs[s.LastName] = s.ID
		}

		for _, i := range instructors {
			i.Discriminator = model.DiscriminatorInstructor
			if err := personRepo.Create(ctx, i); err != nil {
				return err
			}
		}

		for _, e := range enrollments {
			enrollment := &model.Enrollment{CourseID: e.courseID, StudentID: studentIDs[e.student]}
			if e.grade != "" {
				g := e.grade
				enrollment.Grade = &g
			}
			if err := personRepo.Enroll(ctx, enrollment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Seed failed")
	}

	log.Info().
		Int("departments", len(departments)).
		Int("courses", len(courses)).
		Int("students", len(students)).
		Int("instructors", len(instructors)).
		Int("enrollments", len(enrollments)).
		Msg("Seed completed")
}
