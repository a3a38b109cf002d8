package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	case "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use table, json or yaml)", s)
	}
}

func render(w io.Writer, format outputFormat, v any, table func() error) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return table()
	}
}

func writeFlightTable(w io.Writer, out searchOutput) error {
	if len(out.Flights) == 0 {
		_, err := fmt.Fprintln(w, "No flights match your filters.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRICE\tDEAL\tAIRLINE\tROUTE\tDEPART\tDURATION\tSTOPS\tID")
	for _, f := range out.Flights {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s-%s\t%s\t%s\t%s\t%s\n",
			f.PriceLabel, f.Confidence, f.Airline, f.From, f.To, f.Departure, f.Duration, stopsLabel(f.Stops), f.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(out.Compare) > 0 {
		fmt.Fprintln(w, "\nCOMPARE")
		ctw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(ctw, "ID\tAIRLINE\tPRICE\tDEAL\tDURATION\tSTOPS\tDEPART\tARRIVE")
		for _, f := range out.Compare {
			fmt.Fprintf(ctw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				f.ID, f.Airline, f.PriceLabel, f.Confidence, f.Duration, stopsLabel(f.Stops), f.Departure, f.Arrival)
		}
		if err := ctw.Flush(); err != nil {
			return err
		}
	}

	if out.Source == "mock" {
		fmt.Fprintf(w, "\nShowing sample flights (%s).\n", out.FallbackReason)
	}
	_, err := fmt.Fprintf(w, "%d of %d flights shown\n", len(out.Flights), out.Total)
	return err
}

func writeLocationTable(w io.Writer, rows []locationRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No locations found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tTYPE\tNAME\tCITY\tCOUNTRY")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.IATACode, r.SubType, r.Name, r.City, r.Country)
	}
	return tw.Flush()
}
