package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightfinder/internal/aggregator"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/pkg/logger"
)

const (
	HeaderFlightsSource  = "X-Flights-Source"
	HeaderFallbackReason = "X-Fallback-Reason"

	minKeywordLength = 2
)

type SearchHandler struct {
	aggregator *aggregator.Aggregator
	locations  providers.LocationSearcher
	logger     *logger.Logger
}

// NewSearchHandler wires the flight and location endpoints. locations is nil
// when provider credentials are not configured.
func NewSearchHandler(agg *aggregator.Aggregator, locations providers.LocationSearcher, log *logger.Logger) *SearchHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SearchHandler{
		aggregator: agg,
		locations:  locations,
		logger:     log.Named("search-handler"),
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	params := models.SearchParamsFromQuery(c.QueryParams())

	result := h.aggregator.Search(c.Request().Context(), params)
	if result.Kind == aggregator.KindInvalid {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: result.Err.Error(),
		})
	}

	header := c.Response().Header()
	header.Set(HeaderFlightsSource, result.Kind.String())
	if result.Kind == aggregator.KindFallback {
		header.Set(HeaderFallbackReason, string(result.Reason))
	}

	h.logger.Info("Flight search served",
		logger.String("request_id", header.Get(echo.HeaderXRequestID)),
		logger.String("source", result.Kind.String()),
		logger.String("reason", string(result.Reason)),
		logger.Int("results", len(result.Flights)),
		logger.Duration("elapsed", time.Since(startTime)),
	)

	return c.JSON(http.StatusOK, models.SearchResponse{Flights: result.Flights})
}

// Locations proxies the provider's airport and city lookup. The provider
// payload is passed through untouched.
func (h *SearchHandler) Locations(c echo.Context) error {
	keyword := strings.TrimSpace(c.QueryParam("keyword"))
	if len([]rune(keyword)) < minKeywordLength {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrKeywordTooShort.Error(),
		})
	}

	if h.locations == nil {
		return c.JSON(http.StatusServiceUnavailable, models.LocationErrorResponse{
			Error: "Amadeus credentials not configured",
			Data:  []any{},
		})
	}

	body, err := h.locations.SearchLocations(c.Request().Context(), keyword)
	if err != nil {
		h.logger.Error("Location search failed",
			logger.String("keyword", keyword),
			logger.Error(err),
		)
		return c.JSON(http.StatusInternalServerError, models.LocationErrorResponse{
			Error: err.Error(),
			Data:  []any{},
		})
	}

	return c.JSONBlob(http.StatusOK, body)
}

type HealthResponse struct {
	Status string `json:"status"`
	Source string `json:"source"`
}

// Health reports liveness and whether searches will hit the live provider.
func (h *SearchHandler) Health(c echo.Context) error {
	source := aggregator.KindFallback.String()
	if h.aggregator.LiveEnabled() {
		source = aggregator.KindLive.String()
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Source: source})
}
