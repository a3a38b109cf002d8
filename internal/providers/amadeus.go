package providers

import (
	"context"

	"github.com/dharmasatrya/flightfinder/internal/amadeus"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/pkg/currency"
)

type offerSearcher interface {
	SearchFlightOffers(ctx context.Context, criteria models.SearchCriteria) (*amadeus.OfferSearchResponse, error)
}

// AmadeusProvider runs a live offer search and adapts the result.
type AmadeusProvider struct {
	client    offerSearcher
	converter currency.Converter
}

func NewAmadeusProvider(client offerSearcher, converter currency.Converter) *AmadeusProvider {
	return &AmadeusProvider{client: client, converter: converter}
}

func (p *AmadeusProvider) Name() string {
	return "amadeus"
}

func (p *AmadeusProvider) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.Flight, error) {
	resp, err := p.client.SearchFlightOffers(ctx, criteria)
	if err != nil {
		return nil, NewProviderError(p.Name(), err)
	}
	return amadeus.Adapt(resp, p.converter), nil
}
