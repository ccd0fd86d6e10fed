package common

import (
	"fmt"
	"strings"
	"time"
)

// NameFormat identifies the delimiter convention of a product name
type NameFormat int

const (
	FormatUnknown    NameFormat = iota
	FormatUnderscore            // MMM_BB_TTTR_LFPP_YYYYMMDDTHHMMSS_YYYYMMDDTHHMMSS_OOOOOO_DDDDDD_CCCC
	FormatHyphen                // MMM-YYYYMMDDTHHMMSS-...
)

// DetectNameFormat returns the naming convention used by a product name.
// Underscore-delimited names take precedence, matching the upstream services
// which only fall back to hyphens when no underscore is present.
func DetectNameFormat(name string) NameFormat {
	if strings.Contains(name, "_") {
		return FormatUnderscore
	}
	if strings.Contains(name, "-") {
		return FormatHyphen
	}
	return FormatUnknown
}

// AcquisitionDate parses the acquisition date encoded in a product name.
// Underscore-delimited names carry it in the fifth token, hyphen-delimited
// names in the second; in both the date is the leading 8 digits (YYYYMMDD).
func AcquisitionDate(name string) (time.Time, error) {
	var token string
	switch DetectNameFormat(name) {
	case FormatUnderscore:
		tokens := strings.Split(name, "_")
		if len(tokens) < 5 {
			return time.Time{}, fmt.Errorf("AcquisitionDate: invalid product name: %s", name)
		}
		token = tokens[4]
	case FormatHyphen:
		tokens := strings.Split(name, "-")
		if len(tokens) < 2 {
			return time.Time{}, fmt.Errorf("AcquisitionDate: invalid product name: %s", name)
		}
		token = tokens[1]
	default:
		return time.Time{}, fmt.Errorf("AcquisitionDate: unknown naming convention: %s", name)
	}

	if len(token) < 8 {
		return time.Time{}, fmt.Errorf("AcquisitionDate: no date in product name: %s", name)
	}
	date, err := time.Parse("20060102", token[:8])
	if err != nil {
		return time.Time{}, fmt.Errorf("AcquisitionDate[%s]: %w", name, err)
	}
	return date, nil
}

// GranulePrefix returns the granule name encoded in a product name, the part
// before the first hyphen. Used to resolve a product back to its granule on
// the search API.
func GranulePrefix(name string) string {
	return strings.Split(name, "-")[0]
}

// FlightDirection is a satellite orbital pass direction as accepted by the
// search API.
type FlightDirection string

// Accepted flight direction spellings. Matching is exact: the API rejects
// lowercase variants.
var validFlightDirections = []FlightDirection{"A", "ASC", "ASCENDING", "D", "DESC", "DESCENDING"}

// Valid returns whether d is one of the accepted spellings.
func (d FlightDirection) Valid() bool {
	for _, v := range validFlightDirections {
		if d == v {
			return true
		}
	}
	return false
}

// ValidFlightDirections lists the accepted spellings, for error messages.
func ValidFlightDirections() []FlightDirection {
	return validFlightDirections
}

func (d FlightDirection) String() string {
	return string(d)
}
