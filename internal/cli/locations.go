package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/flightfinder/pkg/logger"
)

type locationRow struct {
	IATACode string `json:"iataCode" yaml:"iataCode"`
	SubType  string `json:"subType" yaml:"subType"`
	Name     string `json:"name" yaml:"name"`
	City     string `json:"city,omitempty" yaml:"city,omitempty"`
	Country  string `json:"country,omitempty" yaml:"country,omitempty"`
}

type locationsPayload struct {
	Data []struct {
		IATACode string `json:"iataCode"`
		SubType  string `json:"subType"`
		Name     string `json:"name"`
		Address  struct {
			CityName    string `json:"cityName"`
			CountryCode string `json:"countryCode"`
		} `json:"address"`
	} `json:"data"`
}

func newLocationsCmd(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "locations <keyword>",
		Short:   "Look up airports and cities",
		Example: "  flightctl locations lon",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}
			keyword := strings.TrimSpace(args[0])

			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			root.logger.Debug("Looking up locations", logger.String("keyword", keyword))
			body, err := root.client.Locations(ctx, keyword)
			if err != nil {
				return fmt.Errorf("search locations: %w", err)
			}

			var payload locationsPayload
			if err := json.Unmarshal(body, &payload); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			rows := make([]locationRow, 0, len(payload.Data))
			for _, d := range payload.Data {
				rows = append(rows, locationRow{
					IATACode: d.IATACode,
					SubType:  d.SubType,
					Name:     d.Name,
					City:     d.Address.CityName,
					Country:  d.Address.CountryCode,
				})
			}

			return render(cmd.OutOrStdout(), format, rows, func() error {
				return writeLocationTable(cmd.OutOrStdout(), rows)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", string(formatTable), "Output format (table, json, yaml)")
	return cmd
}
