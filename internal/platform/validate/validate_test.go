package validate

import (
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type bookingBody struct {
	Email           string `json:"email" validate:"required,email"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
	Internal        string `json:"-"`
}

func TestValidate_OK(t *testing.T) {
	err := New().Validate(&bookingBody{Email: "jane@example.com", AppointmentDate: "May 5, 2024"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ReportsJSONNames(t *testing.T) {
	err := New().Validate(&bookingBody{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", httpErr.Code)
	}
	msg, _ := httpErr.Message.(string)
	if !strings.Contains(msg, "email must be a valid email") {
		t.Errorf("expected email message, got %q", msg)
	}
	if !strings.Contains(msg, "appointmentDate is required") {
		t.Errorf("expected appointmentDate message, got %q", msg)
	}
}

func TestValidate_NonStruct(t *testing.T) {
	err := New().Validate("just a string")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-struct input, got %v", err)
	}
}
