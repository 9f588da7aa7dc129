package validation

import (
	"strings"
	"unicode/utf8"
)

// AddPlayerRequest mirrors the fields needed for add player validation.
type AddPlayerRequest struct {
	FirstName string
	LastName  string
}

// ValidateAddPlayerRequest validates the fields of an add player request.
func ValidateAddPlayerRequest(req AddPlayerRequest) []FieldError {
	var errs []FieldError

	for _, f := range []struct {
		field string
		value string
	}{
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
	} {
		v := strings.TrimSpace(f.value)
		if v == "" {
			errs = append(errs, FieldError{Field: f.field, Message: f.field + " is required"})
		} else if utf8.RuneCountInString(v) > maxNameLength {
			errs = append(errs, FieldError{Field: f.field, Message: f.field + " must be at most 255 characters"})
		}
	}

	return errs
}
