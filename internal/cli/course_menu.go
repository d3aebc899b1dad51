package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/ccrm/internal/models"
	"github.com/noah-isme/ccrm/internal/service"
	"github.com/noah-isme/ccrm/pkg/response"
)

func (m *Menu) courseMenu(ctx context.Context) {
	switch m.submenu("Course Management",
		"Add Course",
		"List All Courses",
		"Search Courses",
		"Assign Instructor",
		"Add Instructor",
		"List Instructors",
		"Course Report",
		"Back to Main Menu",
	) {
	case 1:
		m.addCourse(ctx)
	case 2:
		m.listCourses(ctx)
	case 3:
		m.searchCourses(ctx)
	case 4:
		m.assignInstructor(ctx)
	case 5:
		m.addInstructor(ctx)
	case 6:
		m.listInstructors(ctx)
	case 7:
		m.courseReport(ctx)
	}
}

func (m *Menu) addCourse(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Add New Course ===")
	req := service.CreateCourseRequest{
		Code:  m.prompt("Course Code (e.g. CS101): "),
		Title: m.prompt("Course Title: "),
	}
	credits, err := strconv.Atoi(m.prompt("Credits (1-6): "))
	if m.eof {
		return
	}
	if err != nil {
		response.Info(m.out, "Credits must be a number.")
		return
	}
	req.Credits = credits
	req.Department = m.prompt("Department: ")
	semester, ok := m.promptSemester()
	if !ok {
		return
	}
	req.Semester = string(semester)
	if prereqs := m.prompt("Prerequisites (comma separated, optional): "); prereqs != "" {
		for _, code := range strings.Split(prereqs, ",") {
			if code = strings.TrimSpace(code); code != "" {
				req.Prerequisites = append(req.Prerequisites, code)
			}
		}
	}
	if m.eof {
		return
	}
	course, err := m.deps.Courses.Create(ctx, req)
	if err != nil {
		m.fail("add_course", err)
		return
	}
	response.Success(m.out, "Course added successfully: %s", course)
}

func (m *Menu) listCourses(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== All Courses ===")
	courses := m.deps.Courses.ListActive(ctx)
	m.printCourses(courses)
	if len(courses) > 0 {
		fmt.Fprintf(m.out, "\nTotal active courses: %d\n", len(courses))
	}
}

func (m *Menu) searchCourses(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Search Courses ===")
	m.printOptions("By Department", "By Semester", "By Course Code", "By Instructor", "By Code or Title")
	choice, _ := m.promptChoice("Enter your choice: ")
	if m.eof {
		return
	}
	var results []*models.Course
	switch choice {
	case 1:
		results = m.deps.Courses.ByDepartment(ctx, m.prompt("Enter department: "))
	case 2:
		semester, ok := m.promptSemester()
		if !ok {
			return
		}
		results = m.deps.Courses.BySemester(ctx, semester)
	case 3:
		course, err := m.deps.Courses.Get(ctx, m.prompt("Enter course code: "))
		if err != nil {
			response.Info(m.out, "Course not found.")
			return
		}
		fmt.Fprintf(m.out, "Course found: %s\n", course)
		return
	case 4:
		results = m.deps.Courses.ByInstructor(ctx, m.prompt("Enter instructor ID: "))
	case 5:
		results = m.deps.Courses.Search(ctx, m.prompt("Enter search term: "))
	default:
		response.Info(m.out, "Invalid choice.")
		return
	}
	m.printCourses(results)
}

func (m *Menu) printCourses(courses []*models.Course) {
	if len(courses) == 0 {
		response.Info(m.out, "No courses found.")
		return
	}
	for _, c := range courses {
		fmt.Fprintln(m.out, c.String())
	}
}

func (m *Menu) assignInstructor(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Assign Instructor ===")
	code := m.prompt("Enter course code: ")
	instructorID := m.prompt("Enter instructor ID: ")
	if m.eof {
		return
	}
	course, err := m.deps.Courses.AssignInstructor(ctx, code, instructorID)
	if err != nil {
		m.fail("assign_instructor", err)
		return
	}
	response.Success(m.out, "Instructor %s assigned to %s", instructorID, course.Code())
}

func (m *Menu) addInstructor(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Add New Instructor ===")
	req := service.CreateInstructorRequest{
		ID:          m.prompt("Instructor ID (e.g. I001): "),
		FirstName:   m.prompt("First Name: "),
		MiddleName:  m.prompt("Middle Name (optional): "),
		LastName:    m.prompt("Last Name: "),
		Email:       m.prompt("Email: "),
		Department:  m.prompt("Department: "),
		Designation: m.prompt("Designation: "),
	}
	if m.eof {
		return
	}
	instructor, err := m.deps.Instructors.Create(ctx, req)
	if err != nil {
		m.fail("add_instructor", err)
		return
	}
	response.Success(m.out, "Instructor added successfully: %s", instructor)
}

func (m *Menu) listInstructors(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== All Instructors ===")
	instructors := m.deps.Instructors.List(ctx, models.InstructorFilter{})
	if len(instructors) == 0 {
		response.Info(m.out, "No instructors found.")
		return
	}
	for _, i := range instructors {
		detail, err := m.deps.Instructors.Detail(ctx, i.ID)
		if err != nil {
			m.fail("list_instructors", err)
			return
		}
		fmt.Fprintf(m.out, "%s - %s, %d course(s)\n", i.String(), i.DisplayTitle(), detail.CourseCount)
	}
}

func (m *Menu) courseReport(ctx context.Context) {
	code := m.prompt("Enter course code: ")
	if m.eof {
		return
	}
	report, err := m.deps.Reports.CourseReport(ctx, code)
	if err != nil {
		m.fail("course_report", err)
		return
	}
	fmt.Fprint(m.out, report)
}
