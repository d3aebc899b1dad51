package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/ccrm/internal/models"
	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

var (
	studentIDPattern  = regexp.MustCompile(`^S\d{3,}$`)
	courseCodePattern = regexp.MustCompile(`^[A-Z]{2,4}\d{3}$`)
)

// registerCatalogValidations installs the tags shared by the catalog and ledger requests.
func registerCatalogValidations(v *validator.Validate) {
	v.RegisterValidation("student_id", func(fl validator.FieldLevel) bool {
		return studentIDPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	v.RegisterValidation("course_code", func(fl validator.FieldLevel) bool {
		return courseCodePattern.MatchString(strings.ToUpper(strings.TrimSpace(fl.Field().String())))
	})
	v.RegisterValidation("semester", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseSemester(fl.Field().String())
		return ok
	})
	v.RegisterValidation("student_status", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseStudentStatus(fl.Field().String())
		return ok
	})
}

// NewValidator returns a validator with every catalog tag registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	registerCatalogValidations(v)
	return v
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, message)
}
