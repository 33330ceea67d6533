// Package resolver turns free-text location queries into structured Location candidates.
package resolver

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"pha-locator/internal/matcher"
	"pha-locator/internal/models"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
)

const defaultSearchLimit = 20

var zipPattern = regexp.MustCompile(`^(\d{5})(-\d{4})?$`)

// Gazetteer looks up named places.
type Gazetteer interface {
	SearchPlaces(ctx context.Context, query, stateCode string, limit int) ([]models.Place, error)
	NearestCity(ctx context.Context, lat, lon float64) (*models.Place, error)
}

// ZipLookup maps a five digit ZIP code to its centroid. Unknown codes return nil, nil.
type ZipLookup interface {
	LookupZip(ctx context.Context, zip string) (*models.Coordinates, error)
}

// Resolver is the search location resolver.
type Resolver struct {
	places      Gazetteer
	zips        ZipLookup
	radiusMiles float64
	limit       int
}

// NewResolver creates a resolver. City candidates are given radiusMiles as their search radius.
func NewResolver(places Gazetteer, zips ZipLookup, radiusMiles float64) *Resolver {
	if radiusMiles <= 0 {
		radiusMiles = matcher.DefaultCityRadiusMiles
	}
	return &Resolver{places: places, zips: zips, radiusMiles: radiusMiles, limit: defaultSearchLimit}
}

// Resolve returns candidates for query, best match first. Empty and unresolvable
// queries yield an empty slice; ambiguous names yield one candidate per match.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]models.Location, error) {
	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return []models.Location{}, nil
	}

	if m := zipPattern.FindStringSubmatch(query); m != nil {
		return r.resolveZip(ctx, m[1])
	}

	name, stateCode := splitQuery(query)

	var candidates []models.Location
	candidates = append(candidates, matchStates(name, stateCode)...)

	// A bare state code never names a city or county.
	if _, isCode := models.StateCode(query); !(isCode && len(query) == 2) && name != "" {
		places, err := r.places.SearchPlaces(ctx, name, stateCode, r.limit)
		if err != nil {
			return nil, fmt.Errorf("resolver: failed to search places: %w", err)
		}
		for _, p := range places {
			candidates = append(candidates, r.fromPlace(p))
		}
	}

	return rank(name, dedupe(candidates)), nil
}

// ResolveBest returns the single best candidate, or nil when nothing matches.
func (r *Resolver) ResolveBest(ctx context.Context, query string) (*models.Location, error) {
	candidates, err := r.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	return &candidates[0], nil
}

func (r *Resolver) resolveZip(ctx context.Context, zip string) ([]models.Location, error) {
	center, err := r.zips.LookupZip(ctx, zip)
	if err != nil {
		return nil, fmt.Errorf("resolver: failed to look up zip %s: %w", zip, err)
	}
	if center == nil {
		return []models.Location{}, nil
	}

	city, err := r.places.NearestCity(ctx, center.Lat, center.Lon)
	if err != nil {
		return nil, fmt.Errorf("resolver: failed to find city near zip %s: %w", zip, err)
	}
	if city == nil {
		return []models.Location{}, nil
	}
	return []models.Location{r.fromPlace(*city)}, nil
}

func (r *Resolver) fromPlace(p models.Place) models.Location {
	loc := models.Location{Name: p.Name, Type: p.Type, StateCode: strings.ToUpper(p.StateCode)}
	if p.Type == models.LocationCity || p.Type == "" {
		center := p.Center()
		loc.Type = models.LocationCity
		loc.Center = &center
		loc.RadiusMiles = r.radiusMiles
	}
	return loc
}

// splitQuery separates "Austin, TX" into its name and a recognised state code.
func splitQuery(query string) (string, string) {
	i := strings.LastIndex(query, ",")
	if i < 0 {
		return query, ""
	}
	name := strings.TrimSpace(query[:i])
	if code, ok := models.StateCode(query[i+1:]); ok {
		return name, code
	}
	return query, ""
}

func matchStates(name, stateCode string) []models.Location {
	if stateCode != "" {
		if name == "" {
			return []models.Location{stateLocation(stateCode)}
		}
		return nil
	}
	if code, ok := models.StateCode(name); ok {
		return []models.Location{stateLocation(code)}
	}

	folded := fold(name)
	if len(folded) < 2 {
		return nil
	}
	var out []models.Location
	for _, code := range models.StateCodes() {
		if strings.HasPrefix(fold(models.StateName(code)), folded) {
			out = append(out, stateLocation(code))
		}
	}
	return out
}

func stateLocation(code string) models.Location {
	return models.Location{Name: models.StateName(code), Type: models.LocationState, StateCode: code}
}

func dedupe(in []models.Location) []models.Location {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, loc := range in {
		key := string(loc.Type) + "|" + fold(loc.Name) + "|" + loc.StateCode
		// Same-named places in one state are distinct candidates.
		if loc.Center != nil {
			key += fmt.Sprintf("|%.4f,%.4f", loc.Center.Lat, loc.Center.Lon)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, loc)
	}
	return out
}

type names []models.Location

func (n names) String(i int) string { return n[i].Name }
func (n names) Len() int            { return len(n) }

// rank orders candidates: exact name, then prefix, then fuzzy score, with
// cities ahead of counties ahead of states on ties.
func rank(query string, candidates []models.Location) []models.Location {
	scores := make([]int, len(candidates))
	for _, m := range fuzzy.FindFrom(query, names(candidates)) {
		scores[m.Index] = m.Score
	}

	folded := fold(query)
	textRank := func(loc models.Location) int {
		n := fold(loc.Name)
		switch {
		case n == folded:
			return 0
		case strings.HasPrefix(n, folded):
			return 1
		}
		return 2
	}

	idx := make([]int, len(candidates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ca, cb := candidates[idx[a]], candidates[idx[b]]
		if ra, rb := textRank(ca), textRank(cb); ra != rb {
			return ra < rb
		}
		if scores[idx[a]] != scores[idx[b]] {
			return scores[idx[a]] > scores[idx[b]]
		}
		if sa, sb := specificity(ca.Type), specificity(cb.Type); sa != sb {
			return sa < sb
		}
		if ca.Name != cb.Name {
			return ca.Name < cb.Name
		}
		return ca.StateCode < cb.StateCode
	})

	out := make([]models.Location, len(candidates))
	for i, j := range idx {
		out[i] = candidates[j]
	}
	return out
}

func specificity(t models.LocationType) int {
	switch t {
	case models.LocationCity:
		return 0
	case models.LocationCounty:
		return 1
	}
	return 2
}

func fold(s string) string {
	return cases.Fold().String(s)
}
