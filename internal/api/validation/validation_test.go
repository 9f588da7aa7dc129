package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/squad/internal/api/validation"
)

func TestValidateCreateTeamRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        validation.CreateTeamRequest
		wantFields []string
	}{
		{
			name: "valid full request",
			req: validation.CreateTeamRequest{
				Name: "AFC Ajax", ShortName: "The Lancers", Founded: "1900", Stadium: "Amsterdam Arena",
			},
		},
		{
			name: "only name",
			req:  validation.CreateTeamRequest{Name: "AFC Ajax"},
		},
		{
			name:       "missing name",
			req:        validation.CreateTeamRequest{Name: "   "},
			wantFields: []string{"name"},
		},
		{
			name:       "name too long",
			req:        validation.CreateTeamRequest{Name: strings.Repeat("a", 256)},
			wantFields: []string{"name"},
		},
		{
			name: "accented name at the limit",
			req:  validation.CreateTeamRequest{Name: strings.Repeat("é", 255)},
		},
		{
			name:       "accented name over the limit",
			req:        validation.CreateTeamRequest{Name: strings.Repeat("é", 256)},
			wantFields: []string{"name"},
		},
		{
			name:       "founded not a year",
			req:        validation.CreateTeamRequest{Name: "AFC Ajax", Founded: "nineteen hundred"},
			wantFields: []string{"founded"},
		},
		{
			name: "several errors",
			req: validation.CreateTeamRequest{
				ShortName: strings.Repeat("s", 300), Founded: "19", Stadium: strings.Repeat("x", 300),
			},
			wantFields: []string{"name", "shortName", "founded", "stadium"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validation.ValidateCreateTeamRequest(tt.req)

			require.Len(t, errs, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, errs[i].Field)
				assert.NotEmpty(t, errs[i].Message)
			}
		})
	}
}

func TestValidateAddPlayerRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        validation.AddPlayerRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  validation.AddPlayerRequest{FirstName: "Matthijs", LastName: "de Ligt"},
		},
		{
			name:       "missing first name",
			req:        validation.AddPlayerRequest{LastName: "de Ligt"},
			wantFields: []string{"firstName"},
		},
		{
			name:       "both missing",
			req:        validation.AddPlayerRequest{FirstName: " ", LastName: ""},
			wantFields: []string{"firstName", "lastName"},
		},
		{
			name: "accented last name at the limit",
			req:  validation.AddPlayerRequest{FirstName: "André", LastName: strings.Repeat("é", 255)},
		},
		{
			name:       "last name too long",
			req:        validation.AddPlayerRequest{FirstName: "Matthijs", LastName: strings.Repeat("l", 256)},
			wantFields: []string{"lastName"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validation.ValidateAddPlayerRequest(tt.req)

			require.Len(t, errs, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, errs[i].Field)
			}
		})
	}
}
