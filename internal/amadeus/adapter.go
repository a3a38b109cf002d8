package amadeus

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/timezone"
	"github.com/dharmasatrya/flightfinder/pkg/currency"
)

// Adapt maps a flight-offers document into flights, keeping the input
// order. Offers without a usable first itinerary are dropped.
func Adapt(resp *OfferSearchResponse, conv currency.Converter) []models.Flight {
	if resp == nil {
		return []models.Flight{}
	}

	var offers []json.RawMessage
	if err := json.Unmarshal(resp.Data, &offers); err != nil {
		return []models.Flight{}
	}

	carriers := decodeCarriers(resp.Dictionaries)

	flights := make([]models.Flight, 0, len(offers))
	for i, raw := range offers {
		var offer rawOffer
		if err := json.Unmarshal(raw, &offer); err != nil {
			continue
		}
		flight, ok := normalize(offer, i, carriers, conv)
		if !ok {
			continue
		}
		flights = append(flights, flight)
	}
	return flights
}

// AdaptBytes decodes body and adapts it. Bodies that are not a JSON object
// produce no flights.
func AdaptBytes(body []byte, conv currency.Converter) []models.Flight {
	var resp OfferSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return []models.Flight{}
	}
	return Adapt(&resp, conv)
}

func decodeCarriers(raw json.RawMessage) map[string]looseString {
	if len(raw) == 0 {
		return nil
	}
	var dict rawDictionaries
	if err := json.Unmarshal(raw, &dict); err != nil {
		return nil
	}
	return dict.Carriers
}

func normalize(offer rawOffer, index int, carriers map[string]looseString, conv currency.Converter) (models.Flight, bool) {
	if len(offer.Itineraries) == 0 {
		return models.Flight{}, false
	}
	itinerary := offer.Itineraries[0]
	if len(itinerary.Segments) == 0 {
		return models.Flight{}, false
	}

	first := itinerary.Segments[0]
	last := itinerary.Segments[len(itinerary.Segments)-1]

	departure := endpoint(first.Departure)
	arrival := endpoint(last.Arrival)

	carrierCode := first.CarrierCode.String()
	if carrierCode == "" {
		carrierCode = models.UnknownCode
	}

	amount, code := conv.Convert(parsePrice(offer.Price))

	id := offer.ID.String()
	if id == "" {
		id = "flight-" + strconv.Itoa(index)
	}

	return models.Flight{
		ID: id,
		Airline: models.Airline{
			Code: carrierCode,
			Name: airlineName(carrierCode, carriers),
		},
		Price: models.Price{
			Amount:   amount,
			Currency: code,
		},
		Stops:           max(0, len(itinerary.Segments)-1),
		DurationMinutes: itineraryDuration(itinerary.Duration.String(), departure.Timestamp, arrival.Timestamp),
		Departure:       departure,
		Arrival:         arrival,
	}, true
}

func endpoint(p *rawPoint) models.Endpoint {
	if p == nil {
		return models.Endpoint{Airport: models.UnknownCode}
	}
	airport := p.IATACode.String()
	if airport == "" {
		airport = models.UnknownCode
	}
	return models.Endpoint{
		Airport:   airport,
		Timestamp: timezone.UnixMilli(p.At.String()),
	}
}

func airlineName(code string, carriers map[string]looseString) string {
	if name := carriers[code].String(); name != "" {
		return name
	}
	if code != "" {
		return code
	}
	return models.UnknownCode
}

func parsePrice(p *rawPrice) (float64, string) {
	if p == nil {
		return 0, currency.USD
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(p.Total.String()), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		amount = 0
	}
	return amount, p.Currency.String()
}

// itineraryDuration prefers the declared duration and falls back to the
// elapsed time between first departure and last arrival.
func itineraryDuration(declared string, departure, arrival int64) int {
	if minutes := ParseDuration(declared); minutes > 0 {
		return minutes
	}
	elapsed := math.Round(float64(arrival-departure) / 60000)
	return max(0, int(elapsed))
}
