package nifiapi

import (
	"strings"
	"time"
)

// eventTimeLayout is the format of event times in provenance results without
// the trailing zone, which the server renders in its own time zone.
const eventTimeLayout = "01/02/2006 15:04:05.000"

// zoneOffsets maps the zone abbreviations a server commonly reports to their
// offset from UTC. Abbreviations that name several zones map to the one most
// NiFi installations use.
var zoneOffsets = map[string]time.Duration{
	"UTC":  0,
	"GMT":  0,
	"Z":    0,
	"WET":  0,
	"WEST": time.Hour,
	"BST":  time.Hour,
	"IST":  5*time.Hour + 30*time.Minute,
	"CET":  time.Hour,
	"CEST": 2 * time.Hour,
	"EET":  2 * time.Hour,
	"EEST": 3 * time.Hour,
	"MSK":  3 * time.Hour,
	"SGT":  8 * time.Hour,
	"HKT":  8 * time.Hour,
	"JST":  9 * time.Hour,
	"KST":  9 * time.Hour,
	"AEST": 10 * time.Hour,
	"AEDT": 11 * time.Hour,
	"NZST": 12 * time.Hour,
	"NZDT": 13 * time.Hour,
	"AST":  -4 * time.Hour,
	"ADT":  -3 * time.Hour,
	"EST":  -5 * time.Hour,
	"EDT":  -4 * time.Hour,
	"CST":  -6 * time.Hour,
	"CDT":  -5 * time.Hour,
	"MST":  -7 * time.Hour,
	"MDT":  -6 * time.Hour,
	"PST":  -8 * time.Hour,
	"PDT":  -7 * time.Hour,
	"AKST": -9 * time.Hour,
	"AKDT": -8 * time.Hour,
	"HST":  -10 * time.Hour,
}

// parseEventTime parses an event time followed by the zone it was rendered in.
// The zone is an abbreviation, a numeric offset with an optional GMT or UTC
// prefix, or a location name. Unknown zones are read as UTC.
func parseEventTime(value string) (time.Time, error) {
	local, zone := value, ""
	if fields := strings.Fields(value); len(fields) == 3 {
		local, zone = fields[0]+" "+fields[1], fields[2]
	}

	return time.ParseInLocation(eventTimeLayout, local, eventZone(zone))
}

func eventZone(name string) *time.Location {
	if offset, ok := zoneOffsets[name]; ok {
		return fixedZone(name, int(offset/time.Second))
	}

	numeric := strings.TrimPrefix(strings.TrimPrefix(name, "GMT"), "UTC")
	for _, layout := range []string{"-07:00", "-0700", "-07"} {
		if t, err := time.Parse(layout, numeric); err == nil {
			_, offset := t.Zone()
			return fixedZone(name, offset)
		}
	}

	if name != "" && name != "Local" {
		if location, err := time.LoadLocation(name); err == nil {
			return location
		}
	}

	return time.UTC
}

func fixedZone(name string, offset int) *time.Location {
	if offset == 0 {
		return time.UTC
	}

	return time.FixedZone(name, offset)
}
