package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

const (
	MinCourseCredits = 1
	MaxCourseCredits = 6
	// DefaultMaxEnrollment is the seat capacity used when the builder is not told otherwise.
	DefaultMaxEnrollment = 50
)

// NormalizeCourseCode trims and upper-cases a course code.
func NormalizeCourseCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", appErrors.Clone(appErrors.ErrInvalidConstruction, "course code cannot be empty")
	}
	return code, nil
}

// Course is an offering in the catalog. Code and creation date are fixed at
// build time; the remaining fields change only through setters.
type Course struct {
	code          string
	title         string
	credits       int
	department    string
	semester      Semester
	instructorID  string
	prerequisites map[string]struct{}
	maxEnrollment int
	active        bool
	createdAt     time.Time
}

// CourseBuilder stages a Course and validates it in Build.
type CourseBuilder struct {
	code          string
	title         string
	credits       int
	department    string
	semester      Semester
	instructorID  string
	prerequisites []string
	maxEnrollment int
	active        bool
	createdAt     time.Time
}

// NewCourseBuilder starts a course with its required fields.
func NewCourseBuilder(code, title string, credits int) *CourseBuilder {
	return &CourseBuilder{code: code, title: title, credits: credits, maxEnrollment: DefaultMaxEnrollment, active: true}
}

func (b *CourseBuilder) Department(department string) *CourseBuilder {
	b.department = department
	return b
}

func (b *CourseBuilder) Semester(semester Semester) *CourseBuilder {
	b.semester = semester
	return b
}

func (b *CourseBuilder) Instructor(instructorID string) *CourseBuilder {
	b.instructorID = instructorID
	return b
}

func (b *CourseBuilder) Prerequisite(code string) *CourseBuilder {
	b.prerequisites = append(b.prerequisites, code)
	return b
}

func (b *CourseBuilder) Prerequisites(codes ...string) *CourseBuilder {
	b.prerequisites = append(b.prerequisites, codes...)
	return b
}

func (b *CourseBuilder) MaxEnrollment(max int) *CourseBuilder {
	b.maxEnrollment = max
	return b
}

// Active overrides the default active flag; used when restoring stored courses.
func (b *CourseBuilder) Active(active bool) *CourseBuilder {
	b.active = active
	return b
}

// CreatedAt overrides the creation timestamp; used when restoring stored courses.
func (b *CourseBuilder) CreatedAt(at time.Time) *CourseBuilder {
	b.createdAt = at
	return b
}

// Build validates the staged values and returns the course.
func (b *CourseBuilder) Build() (*Course, error) {
	code, err := NormalizeCourseCode(b.code)
	if err != nil {
		return nil, err
	}
	if err := validateCredits(b.credits); err != nil {
		return nil, err
	}
	createdAt := b.createdAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	prereqs := make(map[string]struct{}, len(b.prerequisites))
	for _, p := range b.prerequisites {
		if normalized, err := NormalizeCourseCode(p); err == nil {
			prereqs[normalized] = struct{}{}
		}
	}
	return &Course{
		code:          code,
		title:         b.title,
		credits:       b.credits,
		department:    b.department,
		semester:      b.semester,
		instructorID:  b.instructorID,
		prerequisites: prereqs,
		maxEnrollment: b.maxEnrollment,
		active:        b.active,
		createdAt:     createdAt,
	}, nil
}

func validateCredits(credits int) error {
	if credits < MinCourseCredits || credits > MaxCourseCredits {
		return appErrors.Clone(appErrors.ErrInvalidConstruction, fmt.Sprintf("credits must be between %d and %d, got %d", MinCourseCredits, MaxCourseCredits, credits))
	}
	return nil
}

func (c *Course) Code() string         { return c.code }
func (c *Course) Title() string        { return c.title }
func (c *Course) Credits() int         { return c.credits }
func (c *Course) Department() string   { return c.department }
func (c *Course) Semester() Semester   { return c.semester }
func (c *Course) InstructorID() string { return c.instructorID }
func (c *Course) MaxEnrollment() int   { return c.maxEnrollment }
func (c *Course) Active() bool         { return c.active }
func (c *Course) CreatedAt() time.Time { return c.createdAt }

// Prerequisites returns the prerequisite codes sorted.
func (c *Course) Prerequisites() []string {
	out := make([]string, 0, len(c.prerequisites))
	for code := range c.prerequisites {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func (c *Course) SetTitle(title string) { c.title = title }

// SetCredits re-applies the construction range check.
func (c *Course) SetCredits(credits int) error {
	if err := validateCredits(credits); err != nil {
		return err
	}
	c.credits = credits
	return nil
}

func (c *Course) SetDepartment(department string) { c.department = department }
func (c *Course) SetSemester(semester Semester)   { c.semester = semester }
func (c *Course) SetInstructor(instructorID string) {
	c.instructorID = instructorID
}
func (c *Course) SetMaxEnrollment(max int) { c.maxEnrollment = max }
func (c *Course) SetActive(active bool)    { c.active = active }

// Clone returns an independent copy.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := *c
	out.prerequisites = make(map[string]struct{}, len(c.prerequisites))
	for code := range c.prerequisites {
		out.prerequisites[code] = struct{}{}
	}
	return &out
}

func (c *Course) String() string {
	instructor := c.instructorID
	if instructor == "" {
		instructor = "TBA"
	}
	return fmt.Sprintf("%s: %s (%d credits) - %s [%s]", c.code, c.title, c.credits, instructor, c.semester)
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Department   string
	Semester     Semester
	InstructorID string
	Search       string
	Active       *bool
}
