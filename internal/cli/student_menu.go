package cli

import (
	"context"
	"fmt"

	"github.com/noah-isme/ccrm/internal/models"
	"github.com/noah-isme/ccrm/internal/service"
	"github.com/noah-isme/ccrm/pkg/response"
)

func (m *Menu) studentMenu(ctx context.Context) {
	switch m.submenu("Student Management",
		"Add Student",
		"List All Students",
		"Search Student",
		"Update Student",
		"Deactivate Student",
		"Student Profile & Transcript",
		"Back to Main Menu",
	) {
	case 1:
		m.addStudent(ctx)
	case 2:
		m.listStudents(ctx)
	case 3:
		m.searchStudent(ctx)
	case 4:
		m.updateStudent(ctx)
	case 5:
		m.deactivateStudent(ctx)
	case 6:
		m.studentProfile(ctx)
	}
}

func (m *Menu) addStudent(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Add New Student ===")
	req := service.CreateStudentRequest{
		ID:         m.prompt("Student ID (e.g. S004): "),
		RegNo:      m.prompt("Registration Number: "),
		FirstName:  m.prompt("First Name: "),
		MiddleName: m.prompt("Middle Name (optional): "),
		LastName:   m.prompt("Last Name: "),
		Email:      m.prompt("Email: "),
	}
	if m.eof {
		return
	}
	student, err := m.deps.Students.Create(ctx, req)
	if err != nil {
		m.fail("add_student", err)
		return
	}
	response.Success(m.out, "Student added successfully: %s", student)
}

func (m *Menu) listStudents(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== All Students ===")
	students := m.deps.Students.ListActive(ctx)
	if len(students) == 0 {
		response.Info(m.out, "No students found.")
		return
	}
	for _, s := range students {
		fmt.Fprintln(m.out, s.String())
	}
	fmt.Fprintf(m.out, "\nTotal active students: %d\n", len(students))
}

func (m *Menu) searchStudent(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Search Student ===")
	term := m.prompt("Enter student ID, registration number or name: ")
	if m.eof || term == "" {
		return
	}
	if student, err := m.deps.Students.Get(ctx, term); err == nil {
		fmt.Fprintln(m.out, "Student found:")
		fmt.Fprint(m.out, student.DetailedInfo())
		return
	}
	m.printStudents(m.deps.Students.Search(ctx, term))
}

func (m *Menu) updateStudent(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Update Student ===")
	id := m.prompt("Enter student ID: ")
	if m.eof {
		return
	}
	student, err := m.deps.Students.Get(ctx, id)
	if err != nil {
		m.fail("update_student", err)
		return
	}
	fmt.Fprintf(m.out, "Current details: %s\n", student)
	req := service.UpdateStudentRequest{
		Email:  m.prompt("New email (blank to keep): "),
		Status: m.prompt("New status [ACTIVE/INACTIVE/GRADUATED/SUSPENDED] (blank to keep): "),
	}
	if m.eof {
		return
	}
	updated, err := m.deps.Students.Update(ctx, id, req)
	if err != nil {
		m.fail("update_student", err)
		return
	}
	response.Success(m.out, "Student updated successfully: %s", updated)
}

func (m *Menu) deactivateStudent(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Deactivate Student ===")
	id := m.prompt("Enter student ID: ")
	if m.eof {
		return
	}
	if err := m.deps.Students.Deactivate(ctx, id); err != nil {
		m.fail("deactivate_student", err)
		return
	}
	response.Success(m.out, "Student deactivated: %s", id)
}

func (m *Menu) studentProfile(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== Student Profile & Transcript ===")
	id := m.prompt("Enter student ID: ")
	if m.eof {
		return
	}
	report, err := m.deps.Reports.StudentReport(ctx, id)
	if err != nil {
		m.fail("student_profile", err)
		return
	}
	fmt.Fprint(m.out, report)
}

func (m *Menu) printStudents(students []models.Student) {
	if len(students) == 0 {
		response.Info(m.out, "No students found.")
		return
	}
	for _, s := range students {
		fmt.Fprintln(m.out, s.String())
	}
}
