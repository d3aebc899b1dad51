package models

// Snapshot is a point-in-time copy of the whole catalog and ledger.
type Snapshot struct {
	Students    []Student    `json:"students"`
	Instructors []Instructor `json:"instructors"`
	Courses     []*Course    `json:"-"`
	Enrollments []Enrollment `json:"enrollments"`
}
