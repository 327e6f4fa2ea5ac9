package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/goliatone/go-formengine/pkg/model"
)

// Names of the predicates registered by Default.
const (
	PredicateURL            = "url"
	PredicatePhone          = "phone"
	PredicateCreditCard     = "creditCard"
	PredicateStrongPassword = "strongPassword"
	PredicateMinAge         = "minAge"
	PredicateFileSize       = "fileSize"
	PredicateFileType       = "fileType"
)

var phonePattern = regexp.MustCompile(`^\(?([0-9]{3})\)?[-. ]?([0-9]{3})[-. ]?([0-9]{4})$`)

// IsURL accepts absolute URLs with a scheme and host.
func IsURL(value any, _ model.ValidationRule) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

// IsPhone accepts ten digit North American numbers with optional separators.
func IsPhone(value any, _ model.ValidationRule) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	return phonePattern.MatchString(s)
}

// IsCreditCard validates a card number with the Luhn checksum. Spaces are
// ignored.
func IsCreditCard(value any, _ model.ValidationRule) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	digits := strings.ReplaceAll(s, " ", "")
	if digits == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		ch := digits[i]
		if ch < '0' || ch > '9' {
			return false
		}
		digit := int(ch - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

// IsStrongPassword requires at least one lower-case letter, one upper-case
// letter and one digit.
func IsStrongPassword(value any, _ model.ValidationRule) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
