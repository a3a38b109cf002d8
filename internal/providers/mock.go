package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/providers/data"
)

// MockProvider serves the embedded static result set regardless of the
// criteria.
type MockProvider struct {
	flights []models.Flight
}

func NewMockProvider() (*MockProvider, error) {
	return NewMockProviderFromJSON(data.MockFlights)
}

func NewMockProviderFromJSON(raw []byte) (*MockProvider, error) {
	var flights []models.Flight
	if err := json.Unmarshal(raw, &flights); err != nil {
		return nil, fmt.Errorf("failed to decode mock flights: %w", err)
	}
	if flights == nil {
		flights = []models.Flight{}
	}
	return &MockProvider{flights: flights}, nil
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.Flight, error) {
	return p.Flights(), nil
}

// Flights returns a copy so callers may sort or filter freely.
func (p *MockProvider) Flights() []models.Flight {
	out := make([]models.Flight, len(p.flights))
	copy(out, p.flights)
	return out
}
