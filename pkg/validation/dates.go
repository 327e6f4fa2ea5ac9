package validation

import (
	"time"

	"github.com/goliatone/go-formengine/internal/coerce"
	"github.com/goliatone/go-formengine/pkg/model"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate reads a time.Time or a date string in RFC 3339, datetime-local
// or plain date form.
func ParseDate(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed, !typed.IsZero()
	case *time.Time:
		if typed == nil {
			return time.Time{}, false
		}
		return ParseDate(*typed)
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, typed); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// MinAge returns the minAge predicate, measuring ages on the day now
// reports. The rule Param holds the minimum age in years; unparseable dates
// fail.
func MinAge(now func() time.Time) Predicate {
	if now == nil {
		now = time.Now
	}
	return func(value any, rule model.ValidationRule) bool {
		years, ok := coerce.Int(rule.Param)
		if !ok {
			return true
		}
		born, ok := ParseDate(value)
		if !ok {
			return false
		}
		return ageOn(born, now()) >= years
	}
}

func ageOn(born, day time.Time) int {
	years := day.Year() - born.Year()
	if day.Month() < born.Month() || (day.Month() == born.Month() && day.Day() < born.Day()) {
		years--
	}
	return years
}
