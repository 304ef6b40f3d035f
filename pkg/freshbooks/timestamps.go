package freshbooks

import (
	"strings"
	"sync"
	"time"
)

// accountingUTCDateFields lists the accounting entity/field pairs whose
// timestamps are reported in UTC. All other naive accounting timestamps are
// in the legacy US/Eastern convention; project-like endpoints use proper
// ISO 8601 UTC. New endpoints keep appearing, so this table grows over time.
var accountingUTCDateFields = map[string][]string{
	"bill":         {"created_at", "updated_at"},
	"bill_vendor":  {"created_at", "updated_at"},
	"client":       {"signup_date"},
	"tax_defaults": {"created_at", "updated_at"},
}

func isAccountingUTCDateField(entity, field string) bool {
	for _, name := range accountingUTCDateFields[entity] {
		if name == field {
			return true
		}
	}

	return false
}

var (
	easternOnce sync.Once
	easternLoc  *time.Location
	easternErr  error
)

// easternLocation loads the US/Eastern IANA zone once. DST rules matter
// here, so a fixed offset is not acceptable.
func easternLocation() (*time.Location, error) {
	easternOnce.Do(func() {
		easternLoc, easternErr = time.LoadLocation("US/Eastern")
	})

	return easternLoc, easternErr
}

const (
	isoDateLayout = "2006-01-02"
	// time.Parse accepts fractional seconds after the seconds field even
	// when the layout omits them.
	isoDateTimeLayout      = "2006-01-02T15:04:05"
	isoZonedDateTimeLayout = "2006-01-02T15:04:05Z07:00"
	legacyDateTimeLayout   = "2006-01-02 15:04:05"
)

// parseDate parses a bare ISO calendar date.
func parseDate(raw string) (time.Time, bool) {
	parsed, err := time.Parse(isoDateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}

	return parsed, true
}

// parseTimestamp parses an ISO timestamp and normalizes it to UTC.
//
// An explicit zone offset is authoritative. A literal "T" separator, or an
// entity/field pair in the known-UTC accounting table, means the timestamp
// is already UTC. Otherwise the naive timestamp is interpreted as US/Eastern
// civil time and converted.
func parseTimestamp(raw, entity, field string) (time.Time, bool) {
	if zoned, err := time.Parse(isoZonedDateTimeLayout, raw); err == nil {
		return zoned.UTC(), true
	}

	trimmed := strings.TrimSuffix(raw, "Z")

	var (
		parsed time.Time
		err    error
	)

	parsed, err = time.Parse(isoDateTimeLayout, trimmed)
	if err != nil {
		parsed, err = time.Parse(legacyDateTimeLayout, trimmed)
	}

	if err != nil {
		return time.Time{}, false
	}

	if strings.Contains(raw, "T") || isAccountingUTCDateField(entity, field) {
		return parsed, true
	}

	eastern, err := easternLocation()
	if err != nil {
		return time.Time{}, false
	}

	local := time.Date(
		parsed.Year(), parsed.Month(), parsed.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(),
		eastern,
	)

	return local.UTC(), true
}
