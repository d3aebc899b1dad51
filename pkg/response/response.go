package response

import (
	"fmt"
	"io"

	appErrors "github.com/noah-isme/ccrm/pkg/errors"
)

// Success prints a confirmation line.
func Success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "✓ "+format+"\n", args...)
}

// Info prints a plain informational line.
func Info(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

// Error prints an error converting it to the common structure first.
func Error(w io.Writer, err error) {
	if err == nil {
		return
	}
	appErr := appErrors.FromError(err)
	fmt.Fprintf(w, "✗ Error [%s]: %s\n", appErr.Code, appErr.Error())
}
