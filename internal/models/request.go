package models

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dharmasatrya/flightfinder/internal/timezone"
)

// SearchParams is the raw, unvalidated query of a flight search.
type SearchParams struct {
	From          string
	To            string
	Date          string
	ReturnDate    string
	Adults        string
	Children      string
	InfantsInSeat string
	InfantsOnLap  string
	CabinClass    string
}

// SearchParamsFromQuery reads both the short names (from, to, date,
// cabinClass) and the provider-style aliases.
func SearchParamsFromQuery(q url.Values) SearchParams {
	return SearchParams{
		From:          firstOf(q, "from", "originLocationCode"),
		To:            firstOf(q, "to", "destinationLocationCode"),
		Date:          firstOf(q, "date", "departureDate"),
		ReturnDate:    q.Get("returnDate"),
		Adults:        q.Get("adults"),
		Children:      q.Get("children"),
		InfantsInSeat: q.Get("infantsInSeat"),
		InfantsOnLap:  q.Get("infantsOnLap"),
		CabinClass:    firstOf(q, "cabinClass", "travelClass"),
	}
}

func firstOf(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			return v
		}
	}
	return ""
}

type SearchCriteria struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	Children      int
	InfantsInSeat int
	InfantsOnLap  int
	CabinClass    string
}

// Criteria validates the params against the calendar date of now and
// returns normalized criteria.
func (p SearchParams) Criteria(now time.Time) (SearchCriteria, error) {
	var missing []string
	if strings.TrimSpace(p.From) == "" {
		missing = append(missing, "from")
	}
	if strings.TrimSpace(p.To) == "" {
		missing = append(missing, "to")
	}
	if strings.TrimSpace(p.Date) == "" {
		missing = append(missing, "date")
	}
	if len(missing) > 0 {
		return SearchCriteria{}, ValidationError("Missing required params: " + strings.Join(missing, ", "))
	}

	depDate, err := timezone.ParseDate(p.Date, now.Location())
	if err != nil {
		return SearchCriteria{}, ErrInvalidDepartureDate
	}
	returnDate := strings.TrimSpace(p.ReturnDate)
	if returnDate != "" {
		if _, err := timezone.ParseDate(returnDate, now.Location()); err != nil {
			return SearchCriteria{}, ErrInvalidReturnDate
		}
	}
	if timezone.IsBeforeToday(depDate, now) {
		return SearchCriteria{}, ErrDepartureInPast
	}

	c := SearchCriteria{
		Origin:        p.From,
		Destination:   p.To,
		DepartureDate: p.Date,
		ReturnDate:    returnDate,
		Adults:        parseCount(p.Adults, 1),
		Children:      parseCount(p.Children, 0),
		InfantsInSeat: parseCount(p.InfantsInSeat, 0),
		InfantsOnLap:  parseCount(p.InfantsOnLap, 0),
		CabinClass:    p.CabinClass,
	}
	return c.Normalize(), nil
}

// Normalize uppercases and trims location codes and clamps passenger counts.
func (c SearchCriteria) Normalize() SearchCriteria {
	c.Origin = strings.ToUpper(strings.TrimSpace(c.Origin))
	c.Destination = strings.ToUpper(strings.TrimSpace(c.Destination))
	c.DepartureDate = strings.TrimSpace(c.DepartureDate)
	c.ReturnDate = strings.TrimSpace(c.ReturnDate)
	c.CabinClass = strings.TrimSpace(c.CabinClass)
	c.Adults = max(1, c.Adults)
	c.Children = max(0, c.Children)
	c.InfantsInSeat = max(0, c.InfantsInSeat)
	c.InfantsOnLap = max(0, c.InfantsOnLap)
	return c
}

// Complete reports whether the fields a search cannot run without are set.
func (c SearchCriteria) Complete() bool {
	return strings.TrimSpace(c.Origin) != "" &&
		strings.TrimSpace(c.Destination) != "" &&
		strings.TrimSpace(c.DepartureDate) != ""
}

func (c SearchCriteria) Infants() int {
	return c.InfantsInSeat + c.InfantsOnLap
}

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// parseCount reads the leading integer of s, so "2.5" is 2. Anything without
// one yields def.
func parseCount(s string, def int) int {
	digits := leadingInt.FindString(strings.TrimSpace(s))
	if digits == "" {
		return def
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return def
	}
	return n
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrInvalidDepartureDate ValidationError = "Invalid date: use YYYY-MM-DD for departure date"
	ErrInvalidReturnDate    ValidationError = "Invalid returnDate: use YYYY-MM-DD"
	ErrDepartureInPast      ValidationError = "Departure date cannot be in the past"
	ErrKeywordTooShort      ValidationError = "keyword must be at least 2 characters"
)
