package filter

import (
	"sort"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

type AirlineOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Domain describes the values a result set offers to filter on.
type Domain struct {
	MinPrice  float64         `json:"minPrice"`
	MaxPrice  float64         `json:"maxPrice"`
	HasPrices bool            `json:"-"`
	Stops     []int           `json:"stops"`
	Airlines  []AirlineOption `json:"airlines"`
}

// BuildDomain derives filter options from flights. Zero prices are ignored
// for the bounds; an empty set yields the placeholder domain shown before
// any results arrive.
func BuildDomain(flights []models.Flight) Domain {
	if len(flights) == 0 {
		return Domain{MinPrice: 0, MaxPrice: 1000, Stops: []int{0, 1, 2}, Airlines: []AirlineOption{}}
	}

	d := Domain{MaxPrice: 1000}
	seenStops := make(map[int]bool)
	names := make(map[string]string)
	var codes []string

	for _, f := range flights {
		if p := f.Price.Amount; p != 0 {
			if !d.HasPrices || p < d.MinPrice {
				d.MinPrice = p
			}
			if !d.HasPrices || p > d.MaxPrice {
				d.MaxPrice = p
			}
			d.HasPrices = true
		}

		if !seenStops[f.Stops] {
			seenStops[f.Stops] = true
			d.Stops = append(d.Stops, f.Stops)
		}

		code := f.Airline.Code
		if code == "" {
			continue
		}
		if _, ok := names[code]; !ok {
			codes = append(codes, code)
		}
		name := f.Airline.Name
		if name == "" {
			name = code
		}
		names[code] = name
	}

	sort.Ints(d.Stops)

	d.Airlines = make([]AirlineOption, 0, len(codes))
	for _, code := range codes {
		d.Airlines = append(d.Airlines, AirlineOption{Code: code, Name: names[code]})
	}
	return d
}
