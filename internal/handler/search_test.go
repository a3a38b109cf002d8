package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightfinder/internal/aggregator"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/providers"
)

var testNow = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

type stubLive struct {
	flights []models.Flight
	err     error
}

func (s *stubLive) Name() string { return "amadeus" }

func (s *stubLive) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.Flight, error) {
	return s.flights, s.err
}

type stubLocations struct {
	body    json.RawMessage
	err     error
	keyword string
}

func (s *stubLocations) SearchLocations(ctx context.Context, keyword string) (json.RawMessage, error) {
	s.keyword = keyword
	return s.body, s.err
}

func newHandler(t *testing.T, live providers.Provider, locations providers.LocationSearcher) (*SearchHandler, *providers.MockProvider) {
	t.Helper()

	mock, err := providers.NewMockProvider()
	if err != nil {
		t.Fatalf("mock provider: %v", err)
	}
	agg := aggregator.NewAggregator(live, mock, aggregator.Config{
		Timeout: time.Second,
		Now:     func() time.Time { return testNow },
	}, nil)
	return NewSearchHandler(agg, locations, nil), mock
}

func serve(t *testing.T, h echo.HandlerFunc, path string, query url.Values) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path+"?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func validQuery() url.Values {
	return url.Values{"from": {"JFK"}, "to": {"LAX"}, "date": {"2026-11-01"}}
}

func TestSearchServesMockWithoutCredentials(t *testing.T) {
	h, mock := newHandler(t, nil, nil)

	rec := serve(t, h.Search, "/api/flights", validQuery())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get(HeaderFlightsSource); got != "mock" {
		t.Errorf("source header = %q", got)
	}
	if got := rec.Header().Get(HeaderFallbackReason); got != string(aggregator.ReasonNoCredentials) {
		t.Errorf("reason header = %q", got)
	}

	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(resp.Flights, mock.Flights()) {
		t.Errorf("flights differ from the mock dataset:\n got %+v\nwant %+v", resp.Flights, mock.Flights())
	}
}

func TestSearchLiveResults(t *testing.T) {
	live := &stubLive{flights: []models.Flight{{ID: "offer-1", Price: models.Price{Amount: 99, Currency: "USD"}}}}
	h, _ := newHandler(t, live, nil)

	q := url.Values{"originLocationCode": {"jfk"}, "destinationLocationCode": {"lax"}, "departureDate": {"2026-11-01"}}
	rec := serve(t, h.Search, "/api/v1/flights/search", q)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(HeaderFlightsSource) != "live" || rec.Header().Get(HeaderFallbackReason) != "" {
		t.Errorf("headers = %v", rec.Header())
	}
	if !strings.Contains(rec.Body.String(), `"id":"offer-1"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestSearchProviderFailureFallsBack(t *testing.T) {
	h, mock := newHandler(t, &stubLive{err: errors.New("boom")}, nil)

	rec := serve(t, h.Search, "/api/flights", validQuery())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(HeaderFallbackReason) != string(aggregator.ReasonProviderError) {
		t.Errorf("reason = %q", rec.Header().Get(HeaderFallbackReason))
	}

	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Flights) != len(mock.Flights()) {
		t.Errorf("got %d flights", len(resp.Flights))
	}
}

func TestSearchValidationErrors(t *testing.T) {
	h, _ := newHandler(t, nil, nil)

	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{"missing to", url.Values{"from": {"JFK"}, "date": {"2026-11-01"}}, "to"},
		{"past date", url.Values{"from": {"JFK"}, "to": {"LAX"}, "date": {"2026-10-17"}}, "past"},
		{"bad date", url.Values{"from": {"JFK"}, "to": {"LAX"}, "date": {"11/01/2026"}}, "YYYY-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h.Search, "/api/flights", tt.query)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(resp.Error, tt.want) {
				t.Errorf("error = %q, want mention of %q", resp.Error, tt.want)
			}
		})
	}
}

func TestLocations(t *testing.T) {
	payload := json.RawMessage(`{"data":[{"iataCode":"LON","subType":"CITY"}],"meta":{"count":1}}`)

	t.Run("short keyword", func(t *testing.T) {
		h, _ := newHandler(t, nil, &stubLocations{body: payload})
		rec := serve(t, h.Locations, "/api/locations", url.Values{"keyword": {" l "}})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("no credentials", func(t *testing.T) {
		h, _ := newHandler(t, nil, nil)
		rec := serve(t, h.Locations, "/api/locations", url.Values{"keyword": {"lon"}})
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"data":[]`) {
			t.Errorf("body = %s", rec.Body)
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		h, _ := newHandler(t, nil, &stubLocations{err: errors.New("amadeus locations failed")})
		rec := serve(t, h.Locations, "/api/locations", url.Values{"keyword": {"lon"}})
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp models.LocationErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Error != "amadeus locations failed" || resp.Data == nil || len(resp.Data) != 0 {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("proxied verbatim", func(t *testing.T) {
		loc := &stubLocations{body: payload}
		h, _ := newHandler(t, nil, loc)
		rec := serve(t, h.Locations, "/api/v1/locations", url.Values{"keyword": {"  lon "}})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if rec.Body.String() != string(payload) {
			t.Errorf("body = %s", rec.Body)
		}
		if loc.keyword != "lon" {
			t.Errorf("keyword = %q, want trimmed", loc.keyword)
		}
	})
}

func TestHealth(t *testing.T) {
	h, _ := newHandler(t, nil, nil)
	rec := serve(t, h.Health, "/health", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"source":"mock"`) {
		t.Errorf("health = %d %s", rec.Code, rec.Body)
	}
}
