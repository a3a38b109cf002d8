package ranking

import (
	"math"
	"sort"
	"strconv"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

// Weights of the "best" sort. Fixed business rule.
const (
	PriceWeight    = 0.6
	DurationWeight = 0.4
)

// Bounds are the observed price and duration extremes of a result set.
// Zero prices and durations are treated as missing and ignored.
type Bounds struct {
	MinPrice    float64
	MaxPrice    float64
	MinDuration int
	MaxDuration int
}

func ComputeBounds(flights []models.Flight) Bounds {
	var b Bounds
	havePrice, haveDuration := false, false

	for _, f := range flights {
		if p := f.Price.Amount; p != 0 && !math.IsNaN(p) {
			if !havePrice || p < b.MinPrice {
				b.MinPrice = p
			}
			if !havePrice || p > b.MaxPrice {
				b.MaxPrice = p
			}
			havePrice = true
		}
		if d := f.DurationMinutes; d != 0 {
			if !haveDuration || d < b.MinDuration {
				b.MinDuration = d
			}
			if !haveDuration || d > b.MaxDuration {
				b.MaxDuration = d
			}
			haveDuration = true
		}
	}
	return b
}

// BestScore is 1 for the cheapest-and-fastest flight of the set and falls
// linearly with price and duration. A flat range counts as width 1, so a
// set of identical flights scores 1 everywhere.
func BestScore(f models.Flight, b Bounds) float64 {
	price := f.Price.Amount
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}

	priceRange := b.MaxPrice - b.MinPrice
	if priceRange == 0 {
		priceRange = 1
	}
	durationRange := float64(b.MaxDuration - b.MinDuration)
	if durationRange == 0 {
		durationRange = 1
	}

	priceScore := 1 - (price-b.MinPrice)/priceRange
	durationScore := 1 - float64(f.DurationMinutes-b.MinDuration)/durationRange

	return PriceWeight*priceScore + DurationWeight*durationScore
}

// Scores returns BestScore for every flight, index-aligned with flights.
func Scores(flights []models.Flight, b Bounds) []float64 {
	scores := make([]float64, len(flights))
	for i, f := range flights {
		scores[i] = BestScore(f, b)
	}
	return scores
}

type Confidence string

const (
	ConfidenceLow     Confidence = "low"
	ConfidenceAverage Confidence = "average"
	ConfidenceHigh    Confidence = "high"
)

// PriceConfidence places f among all by price rank. The bottom quarter is
// low, the top quarter (rank/count >= 0.75) is high. Flights missing from
// all are average.
func PriceConfidence(f models.Flight, all []models.Flight) Confidence {
	if len(all) == 0 {
		return ConfidenceAverage
	}

	sorted := make([]models.Flight, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price.Amount < sorted[j].Price.Amount
	})

	index := -1
	for i, candidate := range sorted {
		if candidate.ID == f.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return ConfidenceAverage
	}

	pct := float64(index+1) / float64(len(sorted))
	if pct <= 0.25 {
		return ConfidenceLow
	}
	if pct >= 0.75 {
		return ConfidenceHigh
	}
	return ConfidenceAverage
}

// FormatDuration renders minutes as "3h 30m", "45m" or "2h".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return strconv.Itoa(m) + "m"
	case m == 0:
		return strconv.Itoa(h) + "h"
	default:
		return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
	}
}
