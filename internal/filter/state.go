package filter

import (
	"slices"
	"sync"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

// DefaultPriceRange is the untouched slider position before any results
// have been seen.
var DefaultPriceRange = [2]float64{0, 10000}

// State holds the filter choices of one results view. Updates are
// last-write-wins.
type State struct {
	mu   sync.Mutex
	opts Options
}

func NewState() *State {
	return &State{opts: Options{PriceRange: DefaultPriceRange, Sort: SortBest}}
}

// Options returns a copy safe to hand to Apply.
func (s *State) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Options{
		PriceRange: s.opts.PriceRange,
		Stops:      slices.Clone(s.opts.Stops),
		Airlines:   slices.Clone(s.opts.Airlines),
		Sort:       s.opts.Sort,
	}
}

func (s *State) SetPriceRange(low, high float64) {
	s.mu.Lock()
	s.opts.PriceRange = [2]float64{low, high}
	s.mu.Unlock()
}

func (s *State) ToggleStop(stops int) {
	s.mu.Lock()
	s.opts.Stops = toggle(s.opts.Stops, stops)
	s.mu.Unlock()
}

func (s *State) ToggleAirline(code string) {
	s.mu.Lock()
	s.opts.Airlines = toggle(s.opts.Airlines, code)
	s.mu.Unlock()
}

func (s *State) SetSort(preset SortPreset) {
	s.mu.Lock()
	s.opts.Sort = preset
	s.mu.Unlock()
}

// Reset clears stop and airline selections, restores the best sort and puts
// the price range at priceRange.
func (s *State) Reset(priceRange [2]float64) {
	s.mu.Lock()
	s.opts = Options{PriceRange: priceRange, Sort: SortBest}
	s.mu.Unlock()
}

// SyncPriceRange moves the price range to the observed [min, max] of
// flights, but only while it is still at DefaultPriceRange and at least one
// flight has a non-zero price. It reports whether the range changed.
func (s *State) SyncPriceRange(flights []models.Flight) bool {
	d := BuildDomain(flights)
	if !d.HasPrices {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.PriceRange != DefaultPriceRange {
		return false
	}
	s.opts.PriceRange = [2]float64{d.MinPrice, d.MaxPrice}
	return true
}

func toggle[T comparable](values []T, v T) []T {
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(slices.Clone(values), i, i+1)
	}
	return append(slices.Clone(values), v)
}
