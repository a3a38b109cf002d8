package providers

import (
	"context"
	"encoding/json"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

type Provider interface {
	Name() string
	Search(ctx context.Context, criteria models.SearchCriteria) ([]models.Flight, error)
}

// LocationSearcher proxies airport/city autocomplete lookups.
type LocationSearcher interface {
	SearchLocations(ctx context.Context, keyword string) (json.RawMessage, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}
