// Package matcher decides whether an agency satisfies a location filter.
//
// Matching never fails: agencies with missing coordinates or unparseable
// addresses are simply non-matches.
package matcher

import (
	"math"
	"regexp"
	"strings"

	"pha-locator/internal/models"

	"golang.org/x/text/cases"
)

const (
	// EarthRadiusMiles is the mean radius of the spherical Earth approximation.
	EarthRadiusMiles = 3958.8

	// DefaultCityRadiusMiles applies to city locations submitted without a radius.
	DefaultCityRadiusMiles = 25.0
)

var (
	zipPattern    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	countyPattern = regexp.MustCompile(`(?i)^(.+?)\s+(county|parish|borough)$`)
)

// Matches reports whether agency satisfies location. A nil location matches everything.
func Matches(agency models.Agency, location *models.Location) bool {
	if location == nil {
		return true
	}

	switch location.Type {
	case models.LocationState:
		state, ok := ParseState(agency.Address)
		return ok && fold(state) == fold(location.StateCode)

	case models.LocationCounty:
		state, ok := ParseState(agency.Address)
		if !ok || fold(state) != fold(location.StateCode) {
			return false
		}
		county, ok := ParseCounty(agency.Address)
		return ok && fold(county) == fold(countyName(location.Name))

	case models.LocationCity:
		if location.Center == nil {
			return false
		}
		coords, ok := agency.Coordinates()
		if !ok {
			return false
		}
		radius := location.RadiusMiles
		if radius <= 0 {
			radius = DefaultCityRadiusMiles
		}
		return HaversineMiles(coords, *location.Center) <= radius
	}

	return false
}

// Filter returns the agencies matching location, preserving input order.
func Filter(agencies []models.Agency, location *models.Location) []models.Agency {
	out := make([]models.Agency, 0, len(agencies))
	for _, a := range agencies {
		if Matches(a, location) {
			out = append(out, a)
		}
	}
	return out
}

// ParseState extracts the state code from the trailing part of a free-form address
// such as "100 Main St, Austin, TX 78701" or "100 Main St, Austin, Texas".
// Segments are scanned from the end, so trailing unit lines ("Suite 200") are
// passed over. The leading street segment is only read when it is the only one.
func ParseState(address string) (string, bool) {
	segments := splitAddress(address)
	last := 0
	if len(segments) > 1 {
		last = 1
	}
	for i := len(segments) - 1; i >= last; i-- {
		seg := segments[i]
		if isCountry(seg) || zipPattern.MatchString(seg) {
			continue
		}
		if code, ok := models.StateCode(seg); ok {
			return code, true
		}
		fields := strings.Fields(seg)
		if len(fields) > 1 && zipPattern.MatchString(fields[len(fields)-1]) {
			fields = fields[:len(fields)-1]
		}
		// Try the longest trailing run of words first so "New York" beats "York".
		for start := 0; start < len(fields); start++ {
			if code, ok := models.StateCode(strings.Join(fields[start:], " ")); ok {
				return code, true
			}
		}
	}
	return "", false
}

// ParseCounty returns the county name (without the County/Parish/Borough suffix)
// from the first address segment that names one.
func ParseCounty(address string) (string, bool) {
	for _, seg := range splitAddress(address) {
		if m := countyPattern.FindStringSubmatch(seg); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// HaversineMiles is the great-circle distance between a and b.
func HaversineMiles(a, b models.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

func splitAddress(address string) []string {
	var out []string
	for _, part := range strings.Split(address, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isCountry(seg string) bool {
	switch fold(seg) {
	case "usa", "us", "u.s.a.", "united states", "united states of america":
		return true
	}
	return false
}

func countyName(name string) string {
	name = strings.TrimSpace(name)
	if m := countyPattern.FindStringSubmatch(name); m != nil {
		return strings.TrimSpace(m[1])
	}
	return name
}

func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
