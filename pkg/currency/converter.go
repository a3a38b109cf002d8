package currency

import (
	"math"
	"strconv"
	"strings"
)

const (
	USD = "USD"
	EUR = "EUR"

	DefaultEURToUSD = 1.08
)

// Converter normalizes prices into a single display currency. Only one
// foreign code is converted; everything else passes through untouched.
type Converter struct {
	From string
	To   string
	Rate float64
}

func NewEURToUSD(rate float64) Converter {
	if !ValidRate(rate) {
		rate = DefaultEURToUSD
	}
	return Converter{From: EUR, To: USD, Rate: rate}
}

// Convert returns the display amount and currency for a declared price.
// An empty code is treated as USD.
func (c Converter) Convert(amount float64, code string) (float64, string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = USD
	}
	if c.From != "" && code == c.From {
		return amount * c.Rate, c.To
	}
	return amount, code
}

func ValidRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// ParseRate parses an override such as "1.1". It reports false for anything
// that is not a finite positive number.
func ParseRate(s string) (float64, bool) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !ValidRate(rate) {
		return 0, false
	}
	return rate, true
}
