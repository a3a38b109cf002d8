package models

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 10, 18, 15, 4, 0, 0, time.UTC)

func TestSearchParamsFromQueryAliases(t *testing.T) {
	q := url.Values{}
	q.Set("originLocationCode", "jfk")
	q.Set("destinationLocationCode", "lax")
	q.Set("departureDate", "2026-11-01")
	q.Set("travelClass", "BUSINESS")

	p := SearchParamsFromQuery(q)
	if p.From != "jfk" || p.To != "lax" || p.Date != "2026-11-01" || p.CabinClass != "BUSINESS" {
		t.Errorf("aliases not read: %+v", p)
	}

	q.Set("from", "BOS")
	if got := SearchParamsFromQuery(q).From; got != "BOS" {
		t.Errorf("short name should win, got %q", got)
	}
}

func TestCriteriaMissingParams(t *testing.T) {
	_, err := SearchParams{From: "JFK", Date: "2026-11-01"}.Criteria(testNow)

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "to") {
		t.Errorf("error %q does not name the missing param", err)
	}
	if strings.Contains(err.Error(), "from") {
		t.Errorf("error %q names a param that is present", err)
	}
}

func TestCriteriaDates(t *testing.T) {
	tests := []struct {
		name   string
		params SearchParams
		want   error
	}{
		{"malformed", SearchParams{From: "JFK", To: "LAX", Date: "11/01/2026"}, ErrInvalidDepartureDate},
		{"not a calendar date", SearchParams{From: "JFK", To: "LAX", Date: "2026-02-30"}, ErrInvalidDepartureDate},
		{"bad return", SearchParams{From: "JFK", To: "LAX", Date: "2026-11-01", ReturnDate: "soon"}, ErrInvalidReturnDate},
		{"yesterday", SearchParams{From: "JFK", To: "LAX", Date: "2026-10-17"}, ErrDepartureInPast},
		{"today", SearchParams{From: "JFK", To: "LAX", Date: "2026-10-18"}, nil},
		{"future", SearchParams{From: "JFK", To: "LAX", Date: "2026-11-01", ReturnDate: "2026-11-08"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.params.Criteria(testNow)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCriteriaNormalizes(t *testing.T) {
	c, err := SearchParams{
		From:          " jfk ",
		To:            "lax",
		Date:          "2026-11-01",
		Adults:        "0",
		Children:      "-3",
		InfantsInSeat: "1",
		InfantsOnLap:  "abc",
		CabinClass:    "  ",
	}.Criteria(testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Origin != "JFK" || c.Destination != "LAX" {
		t.Errorf("codes not normalized: %q %q", c.Origin, c.Destination)
	}
	if c.Adults != 1 || c.Children != 0 || c.InfantsInSeat != 1 || c.InfantsOnLap != 0 {
		t.Errorf("counts not clamped: %+v", c)
	}
	if c.Infants() != 1 {
		t.Errorf("Infants() = %d, want 1", c.Infants())
	}
	if c.CabinClass != "" {
		t.Errorf("blank cabin class kept: %q", c.CabinClass)
	}
}

func TestCriteriaDefaultAdults(t *testing.T) {
	c, err := SearchParams{From: "JFK", To: "LAX", Date: "2026-11-01"}.Criteria(testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Adults != 1 {
		t.Errorf("Adults = %d, want 1", c.Adults)
	}
}

func TestParseCountReadsLeadingInteger(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2", 2},
		{" 3 ", 3},
		{"2.5", 2},
		{"4 adults", 4},
		{"+2", 2},
		{"-1", -1},
		{"", 7},
		{"abc", 7},
		{".5", 7},
	}
	for _, tt := range tests {
		if got := parseCount(tt.in, 7); got != tt.want {
			t.Errorf("parseCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	c, err := SearchParams{From: "JFK", To: "LAX", Date: "2026-11-01", Adults: "2.5", Children: "-3"}.Criteria(testNow)
	if err != nil {
		t.Fatal(err)
	}
	if c.Adults != 2 || c.Children != 0 {
		t.Errorf("adults = %d, children = %d; want 2, 0", c.Adults, c.Children)
	}
}
