package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"condo/shared/failure"
	"condo/shared/validator"
)

type reservationPayload struct {
	AreaID    string `json:"area_id"    validate:"required"`
	Date      string `json:"date"       validate:"required,bookdate"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time"   validate:"required,clock"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name:    "valid payload",
			body:    `{"area_id":"area-1","date":"2025-06-01","start_time":"09:00","end_time":"10:00"}`,
			wantErr: false,
		},
		{
			name:    "missing area",
			body:    `{"date":"2025-06-01","start_time":"09:00","end_time":"10:00"}`,
			wantErr: true,
		},
		{
			name:    "malformed date",
			body:    `{"area_id":"area-1","date":"01/06/2025","start_time":"09:00","end_time":"10:00"}`,
			wantErr: true,
		},
		{
			name:    "malformed clock value",
			body:    `{"area_id":"area-1","date":"2025-06-01","start_time":"9am","end_time":"10:00"}`,
			wantErr: true,
		},
		{
			name:    "clock value out of range",
			body:    `{"area_id":"area-1","date":"2025-06-01","start_time":"25:00","end_time":"10:00"}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			body:    `{"area_id":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := reservationPayload{}
			err := validator.Validate(strings.NewReader(tt.body), &payload)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}

				if failure.GetCode(err) != http.StatusBadRequest {
					t.Errorf("expected bad request code, got %d", failure.GetCode(err))
				}

				return
			}

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	if err := validator.ValidateVar("22:30", "clock"); err != nil {
		t.Errorf("expected 22:30 to be a valid clock value: %v", err)
	}

	if err := validator.ValidateVar("midnight", "clock"); err == nil {
		t.Error("expected non-clock string to fail validation")
	}
}
