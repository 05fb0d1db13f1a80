package backup

import (
	"testing"

	apperrors "waterx/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    apperrors.ErrorCode
	}{
		{"all keys", `{"customers":[],"products":[],"orders":[]}`, ""},
		{"null and empty values count as present", `{"customers":null,"products":0,"orders":""}`, ""},
		{"extra keys allowed", `{"customers":[],"products":[],"orders":[],"employees":[]}`, ""},
		{"missing key", `{"customers":[],"products":[]}`, apperrors.ErrCodeInvalidBackup},
		{"nested keys do not count", `{"data":{"customers":[],"products":[],"orders":[]}}`, apperrors.ErrCodeInvalidBackup},
		{"array", `[]`, apperrors.ErrCodeInvalidBackup},
		{"string", `"customers"`, apperrors.ErrCodeInvalidBackup},
		{"null", `null`, apperrors.ErrCodeInvalidBackup},
		{"truncated", `{"customers":[`, apperrors.ErrCodeInvalidJSON},
		{"blank", "  \n", apperrors.ErrCodeInvalidJSON},
		{"trailing garbage", `{"customers":[],"products":[],"orders":[]} x`, apperrors.ErrCodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.content))
			if tt.code == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestValidateMessages(t *testing.T) {
	if got := apperrors.Message(Validate([]byte("nope")), ""); got != "Failed to parse backup file." {
		t.Errorf("parse message = %q", got)
	}
	if got := apperrors.Message(Validate([]byte(`{}`)), ""); got != "Invalid backup file format." {
		t.Errorf("format message = %q", got)
	}
}

func TestIndentMatchesTwoSpaceLayout(t *testing.T) {
	out, err := indent([]byte(`{"a":[1,2],"b":{}}`))
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {}\n}"
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
