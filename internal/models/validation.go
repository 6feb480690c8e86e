package models

import (
	"errors"
	"regexp"

	"github.com/gookit/validate"

	"milktracker/internal/timeutil"
)

var dateRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

func init() {
	validate.AddValidator("calendarDate", func(val any) bool {
		s, ok := val.(string)
		return ok && IsDateFormat(s)
	})
	validate.AddValidator("timeOfDay", func(val any) bool {
		s, ok := val.(string)
		return ok && timeutil.IsTimeFormat(s, timeutil.TimeFormatAny)
	})
	validate.AddGlobalMessages(map[string]string{
		"calendarDate": "{field} must be in format YYYY-MM-DD",
		"timeOfDay":    "{field} must be in HH:MM[:SS]",
	})
}

func IsDateFormat(s string) bool {
	return dateRe.MatchString(s)
}

// validateStruct runs the gookit rules declared on v and reports the first failure.
func validateStruct(entity string, v any) error {
	vd := validate.Struct(v)
	if vd.Validate() {
		return nil
	}
	for field, messages := range vd.Errors.All() {
		for _, msg := range messages {
			return &ValidationError{Entity: entity, Field: field, Err: errors.New(msg)}
		}
	}
	return &ValidationError{Entity: entity, Err: vd.Errors}
}
