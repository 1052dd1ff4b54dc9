package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returning the default on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// CourseDateLayout is the calendar date layout used on course records.
const CourseDateLayout = "2006-01-02"

// IsValidCourseDate reports whether the value is a well-formed YYYY-MM-DD
// calendar date.
func IsValidCourseDate(value string) bool {
	_, err := time.Parse(CourseDateLayout, value)
	return err == nil
}
