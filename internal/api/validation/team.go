package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var foundedRegex = regexp.MustCompile(`^[0-9]{4}$`)

// CreateTeamRequest mirrors the fields needed for create team validation.
type CreateTeamRequest struct {
	Name      string
	ShortName string
	Founded   string
	Stadium   string
}

// ValidateCreateTeamRequest validates the fields of a create team request.
// Returns a slice of field errors; empty slice means valid.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if utf8.RuneCountInString(name) > maxNameLength {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.ShortName)) > maxNameLength {
		errs = append(errs, FieldError{Field: "shortName", Message: "shortName must be at most 255 characters"})
	}

	if req.Founded != "" && !foundedRegex.MatchString(req.Founded) {
		errs = append(errs, FieldError{Field: "founded", Message: "founded must be a four digit year"})
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.Stadium)) > maxNameLength {
		errs = append(errs, FieldError{Field: "stadium", Message: "stadium must be at most 255 characters"})
	}

	return errs
}
