package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrNotFound, "student not found")
	assert.True(t, stdErrors.Is(err, ErrNotFound))
	assert.False(t, stdErrors.Is(err, ErrDuplicateKey))
	assert.Equal(t, "student not found", err.Error())
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	var err error = &CreditLimitError{StudentID: "S001", Current: 10, Attempted: 11, Limit: 20}
	wrapped := fmt.Errorf("enroll: %w", err)

	assert.True(t, stdErrors.Is(wrapped, ErrCreditLimitExceeded))
	var limit *CreditLimitError
	assert.True(t, stdErrors.As(wrapped, &limit))
	assert.Equal(t, 10, limit.Current)
	assert.Equal(t, "credit limit exceeded for student S001. Current: 10, Attempted: 11, Max: 20", err.Error())

	dup := &DuplicateEnrollmentError{StudentID: "S001", CourseCode: "CS101", Semester: "Fall"}
	assert.True(t, stdErrors.Is(dup, ErrDuplicateEnrollment))
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	appErr := FromError(&DuplicateEnrollmentError{StudentID: "S001", CourseCode: "CS101", Semester: "Fall"})
	assert.Equal(t, ErrDuplicateEnrollment.Code, appErr.Code)

	appErr = FromError(stdErrors.New("disk full"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, "internal error: disk full", appErr.Error())

	same := Clone(ErrValidation, "bad marks")
	assert.Same(t, same, FromError(same))
}
