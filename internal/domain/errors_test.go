package domain

import (
	"testing"
	"time"
)

func TestAdvisorError(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		message   string
		details   string
		requestID string
	}{
		{
			name:      "Invalid input",
			code:      ErrInvalidInput,
			message:   "Malformed request body",
			details:   "unexpected end of JSON input",
			requestID: "req-123",
		},
		{
			name:      "Storage error",
			code:      ErrStorage,
			message:   "Failed to save feedback",
			details:   "database is locked",
			requestID: "req-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAdvisorError(tt.code, tt.message, tt.details, tt.requestID)

			if err.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, err.Code)
			}

			if err.Details != tt.details {
				t.Errorf("Expected details %s, got %s", tt.details, err.Details)
			}

			if err.RequestID != tt.requestID {
				t.Errorf("Expected requestID %s, got %s", tt.requestID, err.RequestID)
			}

			if time.Since(err.Timestamp) > time.Minute {
				t.Errorf("Timestamp should be recent, got %v", err.Timestamp)
			}

			expectedError := tt.code + ": " + tt.message
			if err.Error() != expectedError {
				t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("rule_id", "unknown rule", "PGx-999")

	if err.Field != "rule_id" {
		t.Errorf("Expected field rule_id, got %s", err.Field)
	}
	if err.Value != "PGx-999" {
		t.Errorf("Expected value PGx-999, got %v", err.Value)
	}

	expectedError := "validation error for field 'rule_id': unknown rule"
	if err.Error() != expectedError {
		t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
	}
}
