package amadeus

import (
	"bytes"
	"encoding/json"
)

// OfferSearchResponse is an untrusted flight-offers document. Only the
// top-level shape is checked when it is decoded; everything below is
// inspected field by field by the adapter.
type OfferSearchResponse struct {
	Data         json.RawMessage `json:"data"`
	Dictionaries json.RawMessage `json:"dictionaries"`
}

type rawDictionaries struct {
	Carriers map[string]looseString `json:"carriers"`
}

type rawOffer struct {
	ID          looseString    `json:"id"`
	Itineraries []rawItinerary `json:"itineraries"`
	Price       *rawPrice      `json:"price"`
}

type rawItinerary struct {
	Duration looseString  `json:"duration"`
	Segments []rawSegment `json:"segments"`
}

type rawSegment struct {
	Departure   *rawPoint   `json:"departure"`
	Arrival     *rawPoint   `json:"arrival"`
	CarrierCode looseString `json:"carrierCode"`
}

type rawPoint struct {
	IATACode looseString `json:"iataCode"`
	At       looseString `json:"at"`
}

type rawPrice struct {
	Total    looseString `json:"total"`
	Currency looseString `json:"currency"`
}

// looseString accepts a JSON string or number and silently ignores any
// other value, so one odd field cannot sink a whole offer.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil
		}
		*s = looseString(v)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*s = looseString(data)
	}
	return nil
}

func (s looseString) String() string {
	return string(s)
}
