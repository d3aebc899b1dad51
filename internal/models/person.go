package models

import (
	"fmt"
	"strings"
	"time"
)

// PersonRole tags the role a person plays on campus.
type PersonRole string

const (
	PersonRoleStudent    PersonRole = "STUDENT"
	PersonRoleInstructor PersonRole = "INSTRUCTOR"
)

// Profile is implemented by every role that can be rendered in listings and reports.
type Profile interface {
	DisplayTitle() string
	DetailedInfo() string
}

// Name is a person's name split into its parts.
type Name struct {
	First  string `db:"first_name" json:"first_name"`
	Middle string `db:"middle_name" json:"middle_name,omitempty"`
	Last   string `db:"last_name" json:"last_name"`
}

// NewName builds a Name with every part trimmed.
func NewName(first, middle, last string) Name {
	return Name{First: strings.TrimSpace(first), Middle: strings.TrimSpace(middle), Last: strings.TrimSpace(last)}
}

// ParseName splits "First Rest Of Name" on the first run of whitespace.
func ParseName(full string) Name {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return Name{}
	case 1:
		return NewName(parts[0], "", "")
	default:
		return NewName(parts[0], "", strings.Join(parts[1:], " "))
	}
}

// FullName joins the non-empty parts with single spaces.
func (n Name) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.First, n.Middle, n.Last} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (n Name) String() string {
	return n.FullName()
}

// Person holds the fields shared by students and instructors.
type Person struct {
	ID        string     `db:"id" json:"id"`
	Role      PersonRole `db:"role" json:"role"`
	Name      Name       `db:"-" json:"name"`
	Email     string     `db:"email" json:"email"`
	Active    bool       `db:"active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

func (p Person) String() string {
	state := "Active"
	if !p.Active {
		state = "Inactive"
	}
	return fmt.Sprintf("%s [%s] - %s", p.Name.FullName(), p.ID, state)
}

// Instructor teaches courses within a department.
type Instructor struct {
	Person
	Department  string `db:"department" json:"department"`
	Designation string `db:"designation" json:"designation"`
}

// NewInstructor returns an active instructor created now.
func NewInstructor(id string, name Name, email, department, designation string) *Instructor {
	return &Instructor{
		Person: Person{
			ID:        id,
			Role:      PersonRoleInstructor,
			Name:      name,
			Email:     email,
			Active:    true,
			CreatedAt: time.Now().UTC(),
		},
		Department:  department,
		Designation: designation,
	}
}

// DisplayTitle implements Profile.
func (i *Instructor) DisplayTitle() string {
	return fmt.Sprintf("%s (%s)", i.Designation, i.Department)
}

// DetailedInfo implements Profile.
func (i *Instructor) DetailedInfo() string {
	var b strings.Builder
	b.WriteString("Instructor Details:\n")
	fmt.Fprintf(&b, "ID: %s\n", i.ID)
	fmt.Fprintf(&b, "Name: %s\n", i.Name.FullName())
	fmt.Fprintf(&b, "Email: %s\n", i.Email)
	fmt.Fprintf(&b, "Department: %s\n", i.Department)
	fmt.Fprintf(&b, "Designation: %s\n", i.Designation)
	fmt.Fprintf(&b, "Date Created: %s\n", i.CreatedAt.Format("2006-01-02"))
	return b.String()
}

// InstructorFilter narrows instructor listings.
type InstructorFilter struct {
	Department string
	Active     *bool
}
