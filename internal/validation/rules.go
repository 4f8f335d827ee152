// Package validation provides custom validation rules for key configuration input.
package validation

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// UUID validates that a string is a UUID in any of the forms accepted by uuid.Parse.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// RFC3339 validates that a string is an RFC 3339 timestamp (the ISO-8601 profile used by
// key configuration entries).
var RFC3339 = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := time.Parse(time.RFC3339Nano, s)
		return err == nil
	},
	validation.NewError("validation_rfc3339", "must be an RFC 3339 timestamp"),
)

// Base64 validates standard padded base64, as used for KMS-wrapped key secrets.
var Base64 = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := base64.StdEncoding.DecodeString(s)
		return err == nil
	},
	validation.NewError("validation_base64", "must be valid base64-encoded data"),
)

// HexBytes validates that a string is hex-encoded data of at least MinBytes bytes.
type HexBytes struct {
	MinBytes int
}

// Validate checks the value is a string holding valid hex of the required length.
func (h HexBytes) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_hex_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return validation.NewError("validation_hex", "must be valid hex-encoded data")
	}
	if len(b) < h.MinBytes {
		return validation.NewError(
			"validation_hex_min_length",
			fmt.Sprintf("must decode to at least %d bytes", h.MinBytes),
		)
	}
	return nil
}
