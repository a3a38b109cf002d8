package data

import _ "embed"

// MockFlights is the static result set served when live search is
// unavailable.
//
//go:embed flights.json
var MockFlights []byte
