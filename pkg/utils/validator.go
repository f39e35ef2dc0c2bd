package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// allowedUploadExtensions is the whitelist for supporting documents.
var allowedUploadExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".pdf":  true,
}

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateAmount validates a claim amount: strictly positive, at most two
// decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive: %s", amount)
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("amount has more than two decimal places: %s", amount)
	}
	return nil
}

// ValidateUploadFilename checks an uploaded file against the extension
// whitelist.
func ValidateUploadFilename(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedUploadExtensions[ext] {
		return fmt.Errorf("file type not allowed: %s", filename)
	}
	return nil
}

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// SanitizeString removes control characters from user-supplied text.
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
