package models

type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Endpoint is one end of an itinerary. Timestamp is Unix milliseconds.
type Endpoint struct {
	Airport   string `json:"airport"`
	Timestamp int64  `json:"timestamp"`
}

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type Flight struct {
	ID              string   `json:"id"`
	Airline         Airline  `json:"airline"`
	Price           Price    `json:"price"`
	Stops           int      `json:"stops"`
	DurationMinutes int      `json:"durationMinutes"`
	Departure       Endpoint `json:"departure"`
	Arrival         Endpoint `json:"arrival"`
}

const UnknownCode = "UNKNOWN"
