package filter

import (
	"sync"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

const maxCompared = 2

// Selection holds the flights picked for side-by-side comparison. Picking
// a third flight drops the oldest pick.
type Selection struct {
	mu      sync.Mutex
	flights []models.Flight
}

func NewSelection() *Selection {
	return &Selection{}
}

func (s *Selection) Toggle(f models.Flight) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, selected := range s.flights {
		if selected.ID == f.ID {
			s.flights = append(s.flights[:i:i], s.flights[i+1:]...)
			return
		}
	}

	if len(s.flights) < maxCompared {
		s.flights = append(s.flights, f)
		return
	}
	s.flights = []models.Flight{s.flights[len(s.flights)-1], f}
}

func (s *Selection) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.flights {
		if f.ID == id {
			return true
		}
	}
	return false
}

func (s *Selection) Flights() []models.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Flight, len(s.flights))
	copy(out, s.flights)
	return out
}

func (s *Selection) Clear() {
	s.mu.Lock()
	s.flights = nil
	s.mu.Unlock()
}
