package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "no stock lengths: %s", "framing")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}
	expected := "INVALID_CONFIG: no stock lengths: framing"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidFormat, cause, "reading catalog")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIsThroughFmtWrap(t *testing.T) {
	inner := New(ErrCodeIncompletePackage, "missing roof pitch")
	outer := fmt.Errorf("generating takeoff: %w", inner)

	if !Is(outer, ErrCodeIncompletePackage) {
		t.Error("Is should unwrap fmt-wrapped errors")
	}
	if Is(outer, ErrCodeInvalidInput) {
		t.Error("Is matched the wrong code")
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("plain errors have no code")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "template %q", "Crew B")); got != `template "Crew B"` {
		t.Errorf("UserMessage() = %v", got)
	}
	if got := UserMessage(errors.New("boom")); got != "boom" {
		t.Errorf("UserMessage() = %v", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{New(ErrCodeIncompletePackage, "x"), http.StatusBadRequest},
		{New(ErrCodeNotFound, "x"), http.StatusNotFound},
		{New(ErrCodeInternal, "x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestUserMessageWithCause(t *testing.T) {
	err := Wrap(ErrCodeInvalidConfig, errors.New("no such file"), "load catalog %s", "c.json")
	if got := UserMessage(err); got != "load catalog c.json: no such file" {
		t.Errorf("UserMessage() = %v", got)
	}
}
