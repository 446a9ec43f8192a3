package dispatch

import (
	"errors"
	"fmt"
)

// DeniedError is raised by the tool-call wrapper when a pre-operation
// verdict denies the operation. It carries the first denying handler's
// reason; the protected operation is never invoked.
type DeniedError struct {
	Tool    string
	Handler string
	Reason  string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("dispatch: tool %q denied by hook %q: %s", e.Tool, e.Handler, e.Reason)
}

// IsDenied reports whether err is a hook denial.
func IsDenied(err error) bool {
	var de *DeniedError
	return errors.As(err, &de)
}
