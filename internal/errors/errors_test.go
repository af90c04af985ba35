package errors

import (
	"fmt"
	"testing"
)

func TestJournalError_Error(t *testing.T) {
	err := &JournalError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "journal entry not found",
	}

	expected := "NOT_FOUND: journal entry not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewMissingDependency(t *testing.T) {
	err := NewMissingDependency("sox", "install it (macOS: brew install sox)")

	if err.Code != ErrMissingDependency {
		t.Errorf("Code = %q, want %q", err.Code, ErrMissingDependency)
	}
	if err.Status != 503 {
		t.Errorf("Status = %d, want 503", err.Status)
	}
	if err.Remedy == "" {
		t.Error("Remedy should not be empty")
	}
	if err.Details["tool"] != "sox" {
		t.Errorf("Details[tool] = %v, want %q", err.Details["tool"], "sox")
	}
}

func TestNewMissingInput(t *testing.T) {
	err := NewMissingInput("/tmp/nope.m4a")

	if err.Code != ErrMissingInput {
		t.Errorf("Code = %q, want %q", err.Code, ErrMissingInput)
	}
	if err.Details["path"] != "/tmp/nope.m4a" {
		t.Errorf("Details[path] = %v, want %q", err.Details["path"], "/tmp/nope.m4a")
	}
}

func TestNewAlreadyProcessed(t *testing.T) {
	err := NewAlreadyProcessed("/journal/transcripts/2026/AUG_25_14.30.md")

	if err.Code != ErrAlreadyProcessed {
		t.Errorf("Code = %q, want %q", err.Code, ErrAlreadyProcessed)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	// The remedy must mention --force so the user knows the escape hatch.
	if err.Remedy == "" {
		t.Error("Remedy should not be empty")
	}
}

func TestNewMalformedTranscription(t *testing.T) {
	err := NewMalformedTranscription("no segments in engine output")

	if err.Code != ErrMalformedTranscription {
		t.Errorf("Code = %q, want %q", err.Code, ErrMalformedTranscription)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
}

func TestNewIOFailure(t *testing.T) {
	err := NewIOFailure("write transcript", fmt.Errorf("disk full"))

	if err.Code != ErrIOFailure {
		t.Errorf("Code = %q, want %q", err.Code, ErrIOFailure)
	}
	if err.Message != "write transcript: disk full" {
		t.Errorf("Message = %q, want %q", err.Message, "write transcript: disk full")
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		err := NewInternal(fmt.Errorf("unexpected state"))

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		// Message should be generic (not leak internal details)
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "unexpected state" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "unexpected state")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("2026/AUG_25_14.30")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("2026/AUG_25_14.30")
		if Is(err, ErrAlreadyProcessed) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-JournalError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-JournalError")
		}
	})

	t.Run("wrapped JournalError", func(t *testing.T) {
		inner := NewMissingInput("a.m4a")
		wrapped := fmt.Errorf("batch item 3: %w", inner)
		if !Is(wrapped, ErrMissingInput) {
			t.Error("Is() = false, want true for wrapped JournalError")
		}
		if Is(wrapped, ErrNotFound) {
			t.Error("Is() = true, want false for wrong code on wrapped JournalError")
		}
	})
}
