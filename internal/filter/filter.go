package filter

import (
	"slices"
	"sort"
	"strings"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/ranking"
)

type SortPreset string

const (
	SortBest     SortPreset = "best"
	SortCheapest SortPreset = "cheapest"
	SortFastest  SortPreset = "fastest"
)

func ParseSortPreset(s string) (SortPreset, bool) {
	switch p := SortPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case SortBest, SortCheapest, SortFastest:
		return p, true
	case "":
		return SortBest, true
	default:
		return SortBest, false
	}
}

// Options is a snapshot of the user's filter and sort choices. Empty Stops
// or Airlines accept every flight on that axis.
type Options struct {
	PriceRange [2]float64
	Stops      []int
	Airlines   []string
	Sort       SortPreset
}

func Matches(f models.Flight, opts Options) bool {
	if f.Price.Amount < opts.PriceRange[0] || f.Price.Amount > opts.PriceRange[1] {
		return false
	}
	if len(opts.Stops) > 0 && !slices.Contains(opts.Stops, f.Stops) {
		return false
	}
	if len(opts.Airlines) > 0 && !slices.Contains(opts.Airlines, f.Airline.Code) {
		return false
	}
	return true
}

// Apply filters flights and sorts the survivors by opts.Sort. Scores for
// the best preset are normalized over the filtered set. flights is not
// modified.
func Apply(flights []models.Flight, opts Options) []models.Flight {
	filtered := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		if Matches(f, opts) {
			filtered = append(filtered, f)
		}
	}
	return Sort(filtered, opts.Sort)
}

// Sort returns a sorted copy. Ties keep their input order.
func Sort(flights []models.Flight, preset SortPreset) []models.Flight {
	sorted := make([]models.Flight, len(flights))
	copy(sorted, flights)
	if len(sorted) < 2 {
		return sorted
	}

	switch preset {
	case SortCheapest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price.Amount < sorted[j].Price.Amount
		})

	case SortFastest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].DurationMinutes < sorted[j].DurationMinutes
		})

	default:
		scores := ranking.Scores(sorted, ranking.ComputeBounds(sorted))
		order := make([]int, len(sorted))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return scores[order[i]] > scores[order[j]]
		})

		byScore := make([]models.Flight, len(sorted))
		for i, idx := range order {
			byScore[i] = sorted[idx]
		}
		sorted = byScore
	}

	return sorted
}
