package transport

import (
	"testing"

	"crm_backend/internal/leads/domain"
	"crm_backend/platform/validator"
)

func strPtr(s string) *string { return &s }

func TestUpdateLeadRequestRejectsEmptyRequiredFields(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		req     UpdateLeadRequest
		wantErr bool
	}{
		{"empty email", UpdateLeadRequest{Email: strPtr("")}, true},
		{"empty firstName", UpdateLeadRequest{FirstName: strPtr("")}, true},
		{"empty lastName", UpdateLeadRequest{LastName: strPtr("")}, true},
		{"malformed email", UpdateLeadRequest{Email: strPtr("not-an-email")}, true},
		{"valid email", UpdateLeadRequest{Email: strPtr("a@b.test")}, false},
		{"absent fields", UpdateLeadRequest{}, false},
		{"clearing phone", UpdateLeadRequest{Phone: strPtr("")}, false},
		{"clearing notes", UpdateLeadRequest{Notes: strPtr("")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateLeadRequestRejectsEmptyEnums(t *testing.T) {
	v := validator.New()

	src := domain.Source("")
	if err := v.Struct(UpdateLeadRequest{Source: &src}); err == nil {
		t.Error("empty source passed validation")
	}

	st := domain.Status("")
	if err := v.Struct(UpdateLeadRequest{Status: &st}); err == nil {
		t.Error("empty status passed validation")
	}
}
