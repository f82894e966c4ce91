package usecase

import "errors"

var ErrInvalidInput = errors.New("invalid input")

// CollapseError flattens any fetch failure into the single user-facing form.
// Transport, decode, and schema failures all read the same to the viewer;
// the distinction only matters in logs.
func CollapseError(err error) string {
	if err == nil {
		return ""
	}
	return "fetch failed, reason: " + err.Error()
}
