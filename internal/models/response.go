package models

type SearchResponse struct {
	Flights []Flight `json:"flights"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// LocationErrorResponse keeps the data key present so autocomplete
// consumers can treat failures as an empty list.
type LocationErrorResponse struct {
	Error string `json:"error"`
	Data  []any  `json:"data"`
}
