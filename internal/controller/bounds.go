package controller

import (
	"math"

	"pha-locator/internal/matcher"
	"pha-locator/internal/models"
)

const milesPerDegreeLat = matcher.EarthRadiusMiles * math.Pi / 180

// homeView is where the map returns when the selection is cleared: the search circle
// of a city filter, the extent of the matched agencies otherwise, or the whole country.
func homeView(location *models.Location, agencies []models.Agency) models.Bounds {
	if location == nil {
		return models.Nationwide
	}
	if location.Type == models.LocationCity && location.Center != nil {
		radius := location.RadiusMiles
		if radius <= 0 {
			radius = matcher.DefaultCityRadiusMiles
		}
		dLat := radius / milesPerDegreeLat
		dLon := radius / (milesPerDegreeLat * math.Max(math.Cos(location.Center.Lat*math.Pi/180), 0.01))
		return models.Bounds{
			South: location.Center.Lat - dLat,
			West:  location.Center.Lon - dLon,
			North: location.Center.Lat + dLat,
			East:  location.Center.Lon + dLon,
		}
	}
	return extent(agencies)
}

func extent(agencies []models.Agency) models.Bounds {
	found := false
	b := models.Bounds{South: 90, West: 180, North: -90, East: -180}
	for _, a := range agencies {
		coords, ok := a.Coordinates()
		if !ok {
			continue
		}
		found = true
		b.South = math.Min(b.South, coords.Lat)
		b.North = math.Max(b.North, coords.Lat)
		b.West = math.Min(b.West, coords.Lon)
		b.East = math.Max(b.East, coords.Lon)
	}
	if !found {
		return models.Nationwide
	}
	return b
}
