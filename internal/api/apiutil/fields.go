package apiutil

import (
	"net/http"
	"strings"
)

// PathID returns the trimmed path value name, or a FieldError when it is empty.
func PathID(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(r.PathValue(name))
	if id == "" {
		return "", FieldError{Field: name, Reason: "is required"}
	}
	return id, nil
}

func FirstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
