package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/flightfinder/internal/client"
	"github.com/dharmasatrya/flightfinder/internal/filter"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/ranking"
	"github.com/dharmasatrya/flightfinder/pkg/currency"
	"github.com/dharmasatrya/flightfinder/pkg/logger"
)

type searchOptions struct {
	criteria models.SearchCriteria
	sort     string
	minPrice float64
	maxPrice float64
	stops    []int
	airlines []string
	compare  []string
	output   string
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search flights and rank the results",
		Example: "  flightctl search --from JFK --to LAX --date 2026-11-01\n" +
			"  flightctl search --from JFK --to LAX --date 2026-11-01 --sort cheapest --stops 0 -o json",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(opts.output)
			if err != nil {
				return err
			}
			preset, ok := filter.ParseSortPreset(opts.sort)
			if !ok {
				return fmt.Errorf("unknown sort %q (use best, cheapest or fastest)", opts.sort)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			root.logger.Debug("Searching flights",
				logger.String("server", root.server),
				logger.String("origin", opts.criteria.Origin),
				logger.String("destination", opts.criteria.Destination),
			)

			session := client.NewSession(root.client)
			st, _ := session.Update(ctx, opts.criteria)
			switch st.Status {
			case client.StatusError:
				return fmt.Errorf("search flights: %w", st.Err)
			case client.StatusIdle:
				return fmt.Errorf("search needs --from, --to and --date")
			}
			res := st.Result
			if res.Source == "mock" {
				root.logger.Warn("Server returned sample flights", logger.String("reason", res.FallbackReason))
			}

			state := filter.NewState()
			state.SyncPriceRange(res.Flights)
			if cmd.Flags().Changed("min-price") || cmd.Flags().Changed("max-price") {
				low, high := state.Options().PriceRange[0], state.Options().PriceRange[1]
				if cmd.Flags().Changed("min-price") {
					low = opts.minPrice
				}
				if cmd.Flags().Changed("max-price") {
					high = opts.maxPrice
				}
				state.SetPriceRange(low, high)
			}
			for _, s := range opts.stops {
				state.ToggleStop(s)
			}
			for _, a := range opts.airlines {
				state.ToggleAirline(a)
			}
			state.SetSort(preset)

			flights := filter.Apply(res.Flights, state.Options())
			out := searchOutput{
				Source:         res.Source,
				FallbackReason: res.FallbackReason,
				Total:          len(res.Flights),
				Flights:        make([]flightRow, 0, len(flights)),
			}
			for _, f := range flights {
				out.Flights = append(out.Flights, newFlightRow(f, res.Flights))
			}

			selection := filter.NewSelection()
			for _, id := range opts.compare {
				for _, f := range res.Flights {
					if f.ID == id {
						selection.Toggle(f)
						break
					}
				}
			}
			for _, f := range selection.Flights() {
				out.Compare = append(out.Compare, newFlightRow(f, res.Flights))
			}

			return render(cmd.OutOrStdout(), format, out, func() error {
				return writeFlightTable(cmd.OutOrStdout(), out)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.criteria.Origin, "from", "", "Origin IATA code")
	f.StringVar(&opts.criteria.Destination, "to", "", "Destination IATA code")
	f.StringVar(&opts.criteria.DepartureDate, "date", "", "Departure date (YYYY-MM-DD)")
	f.StringVar(&opts.criteria.ReturnDate, "return-date", "", "Return date (YYYY-MM-DD)")
	f.IntVar(&opts.criteria.Adults, "adults", 1, "Number of adults")
	f.IntVar(&opts.criteria.Children, "children", 0, "Number of children")
	f.IntVar(&opts.criteria.InfantsInSeat, "infants-in-seat", 0, "Number of infants with their own seat")
	f.IntVar(&opts.criteria.InfantsOnLap, "infants-on-lap", 0, "Number of lap infants")
	f.StringVar(&opts.criteria.CabinClass, "cabin-class", "", "Cabin class (ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST)")
	f.StringVar(&opts.sort, "sort", string(filter.SortBest), "Sort order (best, cheapest, fastest)")
	f.Float64Var(&opts.minPrice, "min-price", 0, "Minimum price in USD")
	f.Float64Var(&opts.maxPrice, "max-price", 0, "Maximum price in USD")
	f.IntSliceVar(&opts.stops, "stops", nil, "Only show these stop counts, e.g. 0,1")
	f.StringSliceVar(&opts.airlines, "airlines", nil, "Only show these airline codes, e.g. AA,DL")
	f.StringSliceVar(&opts.compare, "compare", nil, "Flight IDs to compare side by side (the last two are kept)")
	f.StringVarP(&opts.output, "output", "o", string(formatTable), "Output format (table, json, yaml)")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

type searchOutput struct {
	Source         string      `json:"source" yaml:"source"`
	FallbackReason string      `json:"fallbackReason,omitempty" yaml:"fallbackReason,omitempty"`
	Total          int         `json:"total" yaml:"total"`
	Flights        []flightRow `json:"flights" yaml:"flights"`
	Compare        []flightRow `json:"compare,omitempty" yaml:"compare,omitempty"`
}

type flightRow struct {
	ID              string  `json:"id" yaml:"id"`
	AirlineCode     string  `json:"airlineCode" yaml:"airlineCode"`
	Airline         string  `json:"airline" yaml:"airline"`
	From            string  `json:"from" yaml:"from"`
	To              string  `json:"to" yaml:"to"`
	Departure       string  `json:"departure" yaml:"departure"`
	Arrival         string  `json:"arrival" yaml:"arrival"`
	Stops           int     `json:"stops" yaml:"stops"`
	DurationMinutes int     `json:"durationMinutes" yaml:"durationMinutes"`
	Duration        string  `json:"duration" yaml:"duration"`
	Price           float64 `json:"price" yaml:"price"`
	PriceLabel      string  `json:"priceLabel" yaml:"priceLabel"`
	Confidence      string  `json:"confidence" yaml:"confidence"`
}

// newFlightRow rates the price of f against every flight the server
// returned, not only those left after filtering.
func newFlightRow(f models.Flight, all []models.Flight) flightRow {
	return flightRow{
		ID:              f.ID,
		AirlineCode:     f.Airline.Code,
		Airline:         f.Airline.Name,
		From:            f.Departure.Airport,
		To:              f.Arrival.Airport,
		Departure:       formatTimestamp(f.Departure.Timestamp),
		Arrival:         formatTimestamp(f.Arrival.Timestamp),
		Stops:           f.Stops,
		DurationMinutes: f.DurationMinutes,
		Duration:        ranking.FormatDuration(f.DurationMinutes),
		Price:           f.Price.Amount,
		PriceLabel:      priceLabel(f.Price),
		Confidence:      string(ranking.PriceConfidence(f, all)),
	}
}

func priceLabel(p models.Price) string {
	if p.Currency == "" || p.Currency == currency.USD {
		return currency.FormatUSD(p.Amount)
	}
	return currency.Format(p.Amount, p.Currency)
}

func formatTimestamp(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04")
}

func stopsLabel(stops int) string {
	switch stops {
	case 0:
		return "nonstop"
	case 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}
