package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dharmasatrya/flightfinder/internal/models"
)

func TestSearchQuery(t *testing.T) {
	q := SearchQuery(models.SearchCriteria{
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: "2026-11-01",
		Adults:        2,
		InfantsOnLap:  1,
	})

	if q.Get("from") != "JFK" || q.Get("to") != "LAX" || q.Get("date") != "2026-11-01" || q.Get("adults") != "2" {
		t.Errorf("query = %v", q)
	}
	if q.Get("infantsOnLap") != "1" {
		t.Errorf("infantsOnLap = %q", q.Get("infantsOnLap"))
	}
	for _, key := range []string{"returnDate", "children", "infantsInSeat", "cabinClass"} {
		if q.Has(key) {
			t.Errorf("unexpected %s in %v", key, q)
		}
	}
}

func TestClientSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.Path != searchPath {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("X-Flights-Source", "mock")
		w.Header().Set("X-Fallback-Reason", "credentials_missing")
		_ = json.NewEncoder(w).Encode(models.SearchResponse{Flights: []models.Flight{{ID: "mock-1"}}})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.Client())
	res, err := c.Search(context.Background(), models.SearchCriteria{Origin: " jfk", Destination: "lax", DepartureDate: "2026-11-01"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Flights) != 1 || res.Flights[0].ID != "mock-1" {
		t.Errorf("flights = %+v", res.Flights)
	}
	if res.Source != "mock" || res.FallbackReason != "credentials_missing" {
		t.Errorf("result = %+v", res)
	}
	if gotQuery != "adults=1&date=2026-11-01&from=JFK&to=LAX" {
		t.Errorf("query = %s", gotQuery)
	}
}

func TestClientSearchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Missing required params: to"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).Search(context.Background(), models.SearchCriteria{Origin: "JFK"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Missing required params: to" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestClientSearchBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	if _, err := New(srv.URL, srv.Client()).Search(context.Background(), models.SearchCriteria{}); err == nil {
		t.Error("expected decode error")
	}
}

func TestClientLocations(t *testing.T) {
	payload := `{"data":[{"iataCode":"PAR"}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("keyword") != "par" {
			t.Errorf("keyword = %q", r.URL.Query().Get("keyword"))
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	body, err := New(srv.URL, srv.Client()).Locations(context.Background(), "par")
	if err != nil {
		t.Fatalf("Locations: %v", err)
	}
	if string(body) != payload {
		t.Errorf("body = %s", body)
	}
}
