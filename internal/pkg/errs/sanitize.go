package errs

import (
	"fmt"
	"strings"
)

// sanitize renders a value on a single line so that user supplied input
// cannot break log lines or error envelopes.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.Join(strings.Fields(s), " ")
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}
