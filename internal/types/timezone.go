package types

import (
	"strings"
	"time"
)

// timezoneAbbreviationMap maps common abbreviations to IANA identifiers so
// operator-supplied config like "IST" resolves to a loadable location.
var timezoneAbbreviationMap = map[string]string{
	"IST": "Asia/Kolkata",
	"EST": "America/New_York",
	"CST": "America/Chicago",
	"PST": "America/Los_Angeles",
	"GMT": "Europe/London",
	"CET": "Europe/Berlin",
	"JST": "Asia/Tokyo",
}

// ResolveTimezone converts a timezone abbreviation to an IANA identifier, or
// returns the input unchanged when it is already one.
func ResolveTimezone(timezone string) string {
	if ianaName, exists := timezoneAbbreviationMap[strings.ToUpper(timezone)]; exists {
		return ianaName
	}
	return timezone
}

// ValidateTimezone checks that a timezone resolves to a loadable location.
func ValidateTimezone(timezone string) error {
	_, err := time.LoadLocation(ResolveTimezone(timezone))
	return err
}
