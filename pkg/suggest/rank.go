/*
Package suggest turns gazetteer matches into scored, ordered suggestions.

Two rankings exist. ByPopulation weighs each place's population against the
whole result set, so bigger cities surface first when the caller gives no
position. ByDistance decays exponentially with distance from a query
position, and decays slower for larger places, so a metropolis stays relevant
further out than a village. Both drop scores below 0.1, order the rest
descending, and truncate the reported score to one decimal.
*/
package suggest

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bastiangx/placeserve/pkg/gazetteer"
	"github.com/bastiangx/placeserve/pkg/geo"
)

// minScore is the relevance floor; weaker matches are dropped entirely.
const minScore = 0.1

// ErrInvalidPopulation reports a record whose population is zero or
// negative. That is bad input data, not a rankable condition.
var ErrInvalidPopulation = errors.New("suggest: population must be positive")

// Suggestion is one scored result, shaped for the JSON boundary: the full
// place name, coordinates as decimal strings with at most five decimals, and
// the truncated score.
type Suggestion struct {
	Name      string  `json:"name"`
	Latitude  string  `json:"latitude"`
	Longitude string  `json:"longitude"`
	Score     float64 `json:"score"`
}

// ByPopulation scores places by population weight within the result set.
// The input order only breaks score ties, so passing matches in directory
// order keeps ties alphabetical.
func ByPopulation(places []*gazetteer.Place) ([]Suggestion, error) {
	var total int64
	for _, p := range places {
		if p.Population <= 0 {
			return nil, fmt.Errorf("%w: %s has %d", ErrInvalidPopulation, p.FullName(), p.Population)
		}
		total += p.Population
	}
	out := make([]Suggestion, 0, len(places))
	for _, p := range places {
		out = appendScored(out, p, populationScore(p.Population, total))
	}
	return finish(out), nil
}

// ByDistance scores places by exponential decay with distance from the given
// position. Coordinate validation is the caller's business; the boundary
// rejects off-globe positions before ranking.
func ByDistance(places []*gazetteer.Place, lat, lon float64) ([]Suggestion, error) {
	out := make([]Suggestion, 0, len(places))
	for _, p := range places {
		if p.Population <= 0 {
			return nil, fmt.Errorf("%w: %s has %d", ErrInvalidPopulation, p.FullName(), p.Population)
		}
		out = appendScored(out, p, relevanceScore(p.DistanceFrom(lat, lon), p.Population))
	}
	return finish(out), nil
}

// populationScore weighs one population against the set total on a log
// scale. Totals of a thousand or less would push the denominator to zero or
// below, so those degrade to the plain population share, which stays in
// (0, 1] and keeps the same order.
func populationScore(population, total int64) float64 {
	den := math.Log10(float64(total)) - 3
	if den <= 0 {
		return float64(population) / float64(total)
	}
	return (math.Log10(float64(population)) - 3) / den
}

// relevanceScore halves every 100*log10(population) km of distance. A
// population of exactly one has no half-life to work with and scores zero,
// which the floor then drops.
func relevanceScore(distanceKm float64, population int64) float64 {
	logPop := math.Log10(float64(population))
	if logPop == 0 {
		return 0
	}
	scale := math.Log(0.5) / (100 * logPop)
	return math.Exp(scale * distanceKm)
}

func appendScored(out []Suggestion, p *gazetteer.Place, score float64) []Suggestion {
	if score < minScore {
		return out
	}
	return append(out, Suggestion{
		Name:      p.FullName(),
		Latitude:  geo.FormatCoord(p.Lat),
		Longitude: geo.FormatCoord(p.Lon),
		Score:     score,
	})
}

// finish orders by the untruncated score, descending and stable, then
// truncates scores toward zero to one decimal. Truncation runs last so two
// scores that only differ past the first decimal still order correctly.
func finish(out []Suggestion) []Suggestion {
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		out[i].Score = math.Floor(out[i].Score*10) / 10
	}
	return out
}
